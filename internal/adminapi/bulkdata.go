package adminapi

import (
	"net/http"

	"github.com/gocarina/gocsv"
	"github.com/labstack/echo/v4"

	"github.com/ecomcore/storefront/internal/bulk"
	"github.com/ecomcore/storefront/internal/webserver"
)

func registerBulkRoutes() {
	webserver.AdminPOST("/bulk/products/import", importProducts)
	webserver.AdminGET("/bulk/products/export", exportProducts)
}

// importProducts accepts a CSV upload under the "file" form field.
func importProducts(c echo.Context) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Missing csv file upload", nil)
	}
	src, err := fh.Open()
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to open upload", nil)
	}
	defer src.Close()

	var rows []bulk.ProductRow
	if err := gocsv.Unmarshal(src, &rows); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_CSV", "Unable to parse csv", err.Error())
	}

	result, err := svc.Bulk.Import(c.Request().Context(), rows)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, result)
}

func exportProducts(c echo.Context) error {
	switch c.QueryParam("format") {
	case "xlsx":
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.xlsx"`)
		c.Response().Header().Set(echo.HeaderContentType,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Response().WriteHeader(http.StatusOK)
		return svc.Bulk.ExportXLSX(c.Request().Context(), c.Response())
	default:
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="products.csv"`)
		c.Response().Header().Set(echo.HeaderContentType, "text/csv")
		c.Response().WriteHeader(http.StatusOK)
		return svc.Bulk.ExportCSV(c.Request().Context(), c.Response())
	}
}

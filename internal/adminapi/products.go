package adminapi

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ecomcore/storefront/internal/catalog"
	"github.com/ecomcore/storefront/internal/webserver"
)

func registerProductRoutes() {
	webserver.PubGET("/products", listProducts)
	webserver.PubGET("/products/:id", getProduct)
	webserver.PubGET("/products/slug/:slug", getProductBySlug)
	webserver.PubGET("/products/:id/variants", listVariants)
	webserver.AdminPOST("/products", createProduct)
	webserver.AdminPUT("/products/:id", updateProduct)
	webserver.AdminDELETE("/products/:id", deleteProduct)
	webserver.AdminPOST("/variants", createVariant)
	webserver.AdminPUT("/variants/:id", updateVariant)
	webserver.AdminDELETE("/variants/:id", deleteVariant)
}

func listProducts(c echo.Context) error {
	page, pageSize := parsePagination(c)
	categoryID, _ := strconv.ParseInt(c.QueryParam("category_id"), 10, 64)
	subcategoryID, _ := strconv.ParseInt(c.QueryParam("subcategory_id"), 10, 64)

	products, total, err := svc.Catalog.ListProducts(c.Request().Context(), catalog.ListProductsQuery{
		CategoryID:    categoryID,
		SubcategoryID: subcategoryID,
		Keyword:       strings.TrimSpace(c.QueryParam("q")),
		Page:          page - 1,
		PerPage:       pageSize,
	})
	if err != nil {
		return handleError(c, err)
	}
	return paged(c, products, total, page, pageSize)
}

func getProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	product, err := svc.Catalog.GetProduct(c.Request().Context(), id)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, product)
}

func getProductBySlug(c echo.Context) error {
	product, err := svc.Catalog.GetProductBySlug(c.Request().Context(), c.Param("slug"))
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, product)
}

func createProduct(c echo.Context) error {
	var in catalog.CreateProductInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product parameters", nil)
	}
	product, err := svc.Catalog.CreateProduct(c.Request().Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, product)
}

func updateProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	var in catalog.UpdateProductInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse product parameters", nil)
	}
	product, err := svc.Catalog.UpdateProduct(c.Request().Context(), id, in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, product)
}

func deleteProduct(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	if err := svc.Catalog.DeleteProduct(c.Request().Context(), id); err != nil {
		return handleError(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}

func listVariants(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid product ID", nil)
	}
	variants, err := svc.Catalog.ListVariants(c.Request().Context(), id)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, variants)
}

func createVariant(c echo.Context) error {
	var in catalog.CreateVariantInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse variant parameters", nil)
	}
	variant, err := svc.Catalog.CreateVariant(c.Request().Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, variant)
}

func updateVariant(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid variant ID", nil)
	}
	var in catalog.UpdateVariantInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse variant parameters", nil)
	}
	variant, err := svc.Catalog.UpdateVariant(c.Request().Context(), id, in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, variant)
}

func deleteVariant(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid variant ID", nil)
	}
	if err := svc.Catalog.DeleteVariant(c.Request().Context(), id); err != nil {
		return handleError(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}

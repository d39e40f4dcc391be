package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecomcore/storefront/internal/catalog"
	"github.com/ecomcore/storefront/internal/webserver"
)

type galleryPayload struct {
	ProductID int64             `json:"product"`
	VariantID int64             `json:"variant"`
	Images    []string          `json:"images"`
	Metadata  map[string]string `json:"metadata"`
}

func registerGalleryRoutes() {
	webserver.PubGET("/galleries/:id", getGallery)
	webserver.AdminPOST("/galleries", createGallery)
	webserver.AdminDELETE("/galleries/:id", deleteGallery)
}

func getGallery(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid gallery ID", nil)
	}
	gallery, err := svc.Catalog.GetGallery(c.Request().Context(), id)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, gallery)
}

func createGallery(c echo.Context) error {
	var payload galleryPayload
	if err := c.Bind(&payload); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse gallery parameters", nil)
	}
	in := catalog.CreateGalleryInput{Images: payload.Images, Metadata: payload.Metadata}
	switch {
	case payload.ProductID != 0 && payload.VariantID != 0:
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR",
			"product and variant cannot be set together", nil)
	case payload.ProductID != 0:
		in.Owner = catalog.OwnedByProduct(payload.ProductID)
	case payload.VariantID != 0:
		in.Owner = catalog.OwnedByVariant(payload.VariantID)
	}
	gallery, err := svc.Catalog.CreateGallery(c.Request().Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, gallery)
}

func deleteGallery(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid gallery ID", nil)
	}
	if err := svc.Catalog.DeleteGallery(c.Request().Context(), id); err != nil {
		return handleError(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}

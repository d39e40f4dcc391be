package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecomcore/storefront/internal/catalog"
	"github.com/ecomcore/storefront/internal/webserver"
)

func registerAttributeRoutes() {
	webserver.PubGET("/attributes", listAttributes)
	webserver.PubGET("/attributes/:id", getAttribute)
	webserver.AdminPOST("/attributes", createAttribute)
	webserver.AdminPUT("/attributes/:id", updateAttribute)
	webserver.AdminDELETE("/attributes/:id", deleteAttribute)
}

func listAttributes(c echo.Context) error {
	attributes, err := svc.Catalog.ListAttributes(c.Request().Context())
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, attributes)
}

func getAttribute(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid attribute ID", nil)
	}
	attribute, err := svc.Catalog.GetAttribute(c.Request().Context(), id)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, attribute)
}

func createAttribute(c echo.Context) error {
	var in catalog.CreateAttributeInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse attribute parameters", nil)
	}
	attribute, err := svc.Catalog.CreateAttribute(c.Request().Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, attribute)
}

func updateAttribute(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid attribute ID", nil)
	}
	var in catalog.UpdateAttributeInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse attribute parameters", nil)
	}
	attribute, err := svc.Catalog.UpdateAttribute(c.Request().Context(), id, in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, attribute)
}

func deleteAttribute(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid attribute ID", nil)
	}
	if err := svc.Catalog.DeleteAttribute(c.Request().Context(), id); err != nil {
		return handleError(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}

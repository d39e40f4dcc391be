package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecomcore/storefront/internal/faq"
	"github.com/ecomcore/storefront/internal/webserver"
)

func registerFaqRoutes() {
	webserver.PubGET("/faqs", listFaqs)
	webserver.AdminPOST("/faqs", createFaqs)
	webserver.AdminDELETE("/faqs/:id", deleteFaq)
}

func listFaqs(c echo.Context) error {
	faqs, err := svc.Faq.List(c.Request().Context())
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, faqs)
}

func createFaqs(c echo.Context) error {
	var in []faq.CreateFaqInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse faq parameters", nil)
	}
	faqs, err := svc.Faq.Create(c.Request().Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, faqs)
}

func deleteFaq(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid faq ID", nil)
	}
	if err := svc.Faq.Delete(c.Request().Context(), id); err != nil {
		return handleError(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}

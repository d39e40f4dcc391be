package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecomcore/storefront/internal/catalog"
	"github.com/ecomcore/storefront/internal/webserver"
)

func registerCategoryRoutes() {
	webserver.PubGET("/categories", listCategories)
	webserver.PubGET("/categories/:id", getCategory)
	webserver.PubGET("/subcategories", listSubcategories)
	webserver.AdminPOST("/categories", createCategory)
	webserver.AdminPUT("/categories/:id", updateCategory)
	webserver.AdminDELETE("/categories/:id", deleteCategory)
	webserver.AdminPOST("/subcategories", createSubcategory)
	webserver.AdminPUT("/subcategories/:id", updateSubcategory)
	webserver.AdminDELETE("/subcategories/:id", deleteSubcategory)
}

func listCategories(c echo.Context) error {
	categories, err := svc.Catalog.ListCategories(c.Request().Context())
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, categories)
}

func getCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	category, err := svc.Catalog.GetCategory(c.Request().Context(), id)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, category)
}

func createCategory(c echo.Context) error {
	var in catalog.CreateCategoryInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category parameters", nil)
	}
	category, err := svc.Catalog.CreateCategory(c.Request().Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, category)
}

func updateCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	var in catalog.UpdateCategoryInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category parameters", nil)
	}
	category, err := svc.Catalog.UpdateCategory(c.Request().Context(), id, in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, category)
}

func deleteCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	if err := svc.Catalog.DeleteCategory(c.Request().Context(), id); err != nil {
		return handleError(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}

func listSubcategories(c echo.Context) error {
	subcategories, err := svc.Catalog.ListSubcategories(c.Request().Context())
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, subcategories)
}

func createSubcategory(c echo.Context) error {
	var in catalog.CreateSubcategoryInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse subcategory parameters", nil)
	}
	subcategory, err := svc.Catalog.CreateSubcategory(c.Request().Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, subcategory)
}

func updateSubcategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid subcategory ID", nil)
	}
	var in catalog.UpdateSubcategoryInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse subcategory parameters", nil)
	}
	subcategory, err := svc.Catalog.UpdateSubcategory(c.Request().Context(), id, in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, subcategory)
}

func deleteSubcategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid subcategory ID", nil)
	}
	if err := svc.Catalog.DeleteSubcategory(c.Request().Context(), id); err != nil {
		return handleError(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}

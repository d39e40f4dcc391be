package adminapi

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ecomcore/storefront/internal/blog"
	"github.com/ecomcore/storefront/internal/webserver"
)

func registerBlogRoutes() {
	webserver.PubGET("/blogs", listBlogs)
	webserver.PubGET("/blogs/:id", getBlog)
	webserver.PubGET("/blog-categories", listBlogCategories)
	webserver.PubGET("/blog-tags", listBlogTags)
	webserver.AdminPOST("/blogs", createBlog)
	webserver.AdminPUT("/blogs/:id", updateBlog)
	webserver.AdminDELETE("/blogs/:id", deleteBlog)
	webserver.AdminPOST("/blog-categories", createBlogCategory)
	webserver.AdminPUT("/blog-categories/:id", updateBlogCategory)
	webserver.AdminDELETE("/blog-categories/:id", deleteBlogCategory)
}

func listBlogs(c echo.Context) error {
	page, pageSize := parsePagination(c)
	posts, total, err := svc.Blog.ListBlogs(c.Request().Context(), page-1, pageSize)
	if err != nil {
		return handleError(c, err)
	}
	return paged(c, posts, total, page, pageSize)
}

func getBlog(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid blog ID", nil)
	}
	post, err := svc.Blog.GetBlog(c.Request().Context(), id)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, post)
}

func createBlog(c echo.Context) error {
	var in blog.CreateBlogInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse blog parameters", nil)
	}
	post, err := svc.Blog.CreateBlog(c.Request().Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, post)
}

func updateBlog(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid blog ID", nil)
	}
	var in blog.UpdateBlogInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse blog parameters", nil)
	}
	post, err := svc.Blog.UpdateBlog(c.Request().Context(), id, in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, post)
}

func deleteBlog(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid blog ID", nil)
	}
	if err := svc.Blog.DeleteBlog(c.Request().Context(), id); err != nil {
		return handleError(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}

func listBlogCategories(c echo.Context) error {
	categories, err := svc.Blog.ListCategories(c.Request().Context())
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, categories)
}

func createBlogCategory(c echo.Context) error {
	var in blog.CreateBlogCategoryInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category parameters", nil)
	}
	category, err := svc.Blog.CreateCategory(c.Request().Context(), in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, category)
}

func updateBlogCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	var in blog.CreateBlogCategoryInput
	if err := c.Bind(&in); err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Unable to parse category parameters", nil)
	}
	category, err := svc.Blog.UpdateCategory(c.Request().Context(), id, in)
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, category)
}

func deleteBlogCategory(c echo.Context) error {
	id, err := parseIDParam(c, "id")
	if err != nil {
		return fail(c, http.StatusBadRequest, "INVALID_ID", "Invalid category ID", nil)
	}
	if err := svc.Blog.DeleteCategory(c.Request().Context(), id); err != nil {
		return handleError(c, err)
	}
	return ok(c, map[string]interface{}{"id": id})
}

func listBlogTags(c echo.Context) error {
	tags, err := svc.Blog.ListTags(c.Request().Context())
	if err != nil {
		return handleError(c, err)
	}
	return ok(c, tags)
}

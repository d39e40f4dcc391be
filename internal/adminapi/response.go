package adminapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/ecomcore/storefront/internal/domain"
	"github.com/ecomcore/storefront/internal/sequence"
	"github.com/ecomcore/storefront/internal/webserver"
)

type apiError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

type apiResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *apiError   `json:"error,omitempty"`
}

type pagedResponse struct {
	Success  bool        `json:"success"`
	Data     interface{} `json:"data"`
	Total    int64       `json:"total"`
	Page     int         `json:"page"`
	PageSize int         `json:"page_size"`
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, apiResponse{Success: true, Data: data})
}

func fail(c echo.Context, status int, code, message string, details interface{}) error {
	return c.JSON(status, apiResponse{
		Success: false,
		Error:   &apiError{Code: code, Message: message, Details: details},
	})
}

func paged(c echo.Context, data interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, pagedResponse{
		Success:  true,
		Data:     data,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	})
}

func parsePagination(c echo.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.QueryParam("page_size"))
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// GetDB returns the request-scoped gorm handle.
func GetDB(c echo.Context) *gorm.DB {
	return webserver.GetDB(c)
}

// handleError maps service errors onto HTTP statuses: validation failures are
// 400, missing entities 404, everything else including allocation and cascade
// failures is a 500.
func handleError(c echo.Context, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", verr.Message,
			map[string]interface{}{"field": verr.Field})
	}
	var nf *domain.NotFoundError
	if errors.As(err, &nf) {
		return fail(c, http.StatusNotFound, "NOT_FOUND", nf.Error(), nil)
	}
	var dep *domain.DependencyError
	if errors.As(err, &dep) {
		return fail(c, http.StatusInternalServerError, "DEPENDENCY_ERROR", dep.Error(), nil)
	}
	if errors.Is(err, sequence.ErrAllocationFailed) {
		return fail(c, http.StatusInternalServerError, "SEQUENCE_ERROR", "id allocation failed", nil)
	}
	return fail(c, http.StatusInternalServerError, "INTERNAL_ERROR", err.Error(), nil)
}

package webserver

import (
	"net/http"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/spf13/cast"
	"gorm.io/gorm"
)

const (
	ContextKeyDB = "db"

	RoleSuperAdmin = "_super_admin"
)

// GetDB returns the request-scoped gorm handle.
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(ContextKeyDB).(*gorm.DB)
}

func tokenClaims(c echo.Context) jwt.MapClaims {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return nil
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil
	}
	return claims
}

// CurrentUserID extracts the authenticated user's id from the JWT, or 0 when
// the request carries no valid token.
func CurrentUserID(c echo.Context) int64 {
	claims := tokenClaims(c)
	if claims == nil {
		return 0
	}
	return cast.ToInt64(claims["uid"])
}

func CurrentRole(c echo.Context) string {
	claims := tokenClaims(c)
	if claims == nil {
		return ""
	}
	return cast.ToString(claims["rol"])
}

// RequireRole gates a group on the role slug carried in the token.
func RequireRole(slug string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if CurrentRole(c) != slug {
				return echo.NewHTTPError(http.StatusForbidden, "insufficient privileges")
			}
			return next(c)
		}
	}
}

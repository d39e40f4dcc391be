package webserver

import (
	"fmt"
	"net/http"

	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ecomcore/storefront/config"
)

var server *WebServer

// WebServer wraps echo with three route groups: pub for unauthenticated
// endpoints, api for logged-in users and admin for the super admin role.
type WebServer struct {
	cfg   *config.AppConfig
	db    *gorm.DB
	root  *echo.Echo
	pub   *echo.Group
	api   *echo.Group
	admin *echo.Group
}

func Init(cfg *config.AppConfig, db *gorm.DB) *WebServer {
	e := echo.New()
	e.HideBanner = true
	e.Debug = cfg.System.Debug
	e.JSONSerializer = &JsoniterSerializer{}
	e.Use(middleware.Recover())
	e.Use(injectDB(db))

	jwtMiddleware := echojwt.WithConfig(echojwt.Config{
		SigningKey: []byte(cfg.Web.Secret),
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid or missing token")
		},
	})

	pub := e.Group("/api/v1")
	api := e.Group("/api/v1", jwtMiddleware)
	admin := e.Group("/api/v1/admin", jwtMiddleware, RequireRole(RoleSuperAdmin))

	server = &WebServer{cfg: cfg, db: db, root: e, pub: pub, api: api, admin: admin}
	return server
}

func Instance() *WebServer {
	return server
}

func (s *WebServer) Echo() *echo.Echo {
	return s.root
}

func (s *WebServer) Listen() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Web.Host, s.cfg.Web.Port)
	zap.L().Info("starting web server", zap.String("listen", addr))
	return s.root.Start(addr)
}

// injectDB makes the gorm handle reachable from any handler via GetDB.
func injectDB(db *gorm.DB) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(ContextKeyDB, db)
			return next(c)
		}
	}
}

func PubGET(path string, h echo.HandlerFunc)  { server.pub.GET(path, h) }
func PubPOST(path string, h echo.HandlerFunc) { server.pub.POST(path, h) }

func ApiGET(path string, h echo.HandlerFunc)    { server.api.GET(path, h) }
func ApiPOST(path string, h echo.HandlerFunc)   { server.api.POST(path, h) }
func ApiPUT(path string, h echo.HandlerFunc)    { server.api.PUT(path, h) }
func ApiDELETE(path string, h echo.HandlerFunc) { server.api.DELETE(path, h) }

func AdminGET(path string, h echo.HandlerFunc)    { server.admin.GET(path, h) }
func AdminPOST(path string, h echo.HandlerFunc)   { server.admin.POST(path, h) }
func AdminPUT(path string, h echo.HandlerFunc)    { server.admin.PUT(path, h) }
func AdminDELETE(path string, h echo.HandlerFunc) { server.admin.DELETE(path, h) }

// Package adminapi wires the HTTP routes onto the storefront services. Route
// registration follows one file per area, each with its own registerXxxRoutes
// function called from Init.
package adminapi

import (
	"github.com/ecomcore/storefront/internal/auth"
	"github.com/ecomcore/storefront/internal/blog"
	"github.com/ecomcore/storefront/internal/bulk"
	"github.com/ecomcore/storefront/internal/catalog"
	"github.com/ecomcore/storefront/internal/faq"
	"github.com/ecomcore/storefront/internal/shop"
)

type Services struct {
	Catalog *catalog.Service
	Shop    *shop.Service
	Auth    *auth.Service
	Blog    *blog.Service
	Bulk    *bulk.Service
	Faq     *faq.Service
}

var svc *Services

func Init(s *Services) {
	svc = s
	registerCategoryRoutes()
	registerProductRoutes()
	registerAttributeRoutes()
	registerGalleryRoutes()
	registerShopRoutes()
	registerUserRoutes()
	registerBlogRoutes()
	registerFaqRoutes()
	registerBulkRoutes()
}

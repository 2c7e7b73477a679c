// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and defines the API route groups,
// mapping specific paths to their corresponding handlers
package router

import (
	"github.com/deppfellow/brand-api/internal/handler"
	"github.com/deppfellow/brand-api/internal/middleware"
	"github.com/deppfellow/brand-api/internal/server"
	"github.com/labstack/echo/v4"
)

// NewRouter builds the Echo instance with the global middleware chain,
// the system routes and the brand API.
//
// The request id must run before anything that logs, and Recover must sit
// inside RequestLogger so panics are logged with their 500.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	mw := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = mw.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		mw.Tracing.NewRelicMiddleware(),
		mw.Tracing.EnhanceTracing(),
		mw.ContextEnhancer.EnhanceContext(),
		mw.Global.RequestLogger(),
		mw.Global.Recover(),
		mw.Global.Secure(),
		mw.Global.CORS(),
	)

	registerSystemRoutes(router, h)

	api := router.Group("/api", mw.RateLimit.Limit())
	registerBrandRoutes(api, h.Brand)

	return router
}

// registerBrandRoutes mounts /brands on the api group. Routes with an :id
// segment reject malformed ObjectIDs before binding.
func registerBrandRoutes(api *echo.Group, h *handler.BrandHandler) {
	routes := h.Routes()
	validID := middleware.ValidateObjectID("id")

	brands := api.Group("/brands")
	brands.POST("", routes.Create)
	brands.GET("", routes.List)
	brands.GET("/:id", routes.Get, validID)
	brands.PUT("/:id", routes.Update, validID)
	brands.DELETE("/:id", routes.Delete, validID)
}

// Package handler is the first layer after the router.
//
// It binds and validates requests using the validation package, calls
// the service layer and writes the JSON responses.
package handler

import (
	"github.com/deppfellow/brand-api/internal/server"
	"github.com/deppfellow/brand-api/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Brand   *BrandHandler
	Health  *HealthHandler
	OpenAPI *OpenAPIHandler
}

// NewHandlers constructs the handler container.
func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Brand:   NewBrandHandler(s, services.Brand),
		Health:  NewHealthHandler(s),
		OpenAPI: NewOpenAPIHandler(s),
	}
}

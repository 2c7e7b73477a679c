// Package repository handles all interactions with the document stores.
//
// It translates the backend-neutral brand.ListQuery into MongoDB filters or
// parameterised SQL over JSONB, and persists brands, abstracting store
// details away from the service layer.
package repository

import (
	"context"

	"github.com/deppfellow/brand-api/internal/config"
	"github.com/deppfellow/brand-api/internal/model/brand"
	"github.com/deppfellow/brand-api/internal/server"
)

// brandsTable names the collection / table in not-found and duplicate errors.
const brandsTable = "brands"

// BrandRepository persists brands.
//
// Missing documents are reported as errors wrapped with dberr.WithTable so
// the global error handler renders "Brand not found.".
type BrandRepository interface {
	Create(ctx context.Context, b *brand.Brand) error
	FindByID(ctx context.Context, id string) (*brand.Brand, error)
	FindAll(ctx context.Context, q brand.ListQuery) ([]*brand.Brand, int64, error)
	Update(ctx context.Context, id string, f brand.Fields) (*brand.Brand, error)
	Delete(ctx context.Context, id string) error

	// ExistsByName reports whether another brand already uses name.
	// excludeID may be empty.
	ExistsByName(ctx context.Context, name, excludeID string) (bool, error)
}

// Repositories is a container for all repository instances.
type Repositories struct {
	Brand BrandRepository
}

// NewRepositories wires the repository of the configured store backend.
func NewRepositories(s *server.Server) *Repositories {
	var brands BrandRepository
	switch s.Config.Store.Backend {
	case config.BackendPostgres:
		brands = NewPostgresBrandRepository(s.DB.Pool)
	default:
		brands = NewMongoBrandRepository(s.Mongo.Brands())
	}

	return &Repositories{
		Brand: brands,
	}
}

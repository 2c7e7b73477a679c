package service

import (
	"context"

	"github.com/deppfellow/brand-api/internal/dberr"
	"github.com/deppfellow/brand-api/internal/lib/cache"
	"github.com/deppfellow/brand-api/internal/model/brand"
	"github.com/deppfellow/brand-api/internal/repository"
	"github.com/rs/zerolog"
)

// BrandNotifier is told about every brand that was created.
type BrandNotifier interface {
	EnqueueBrandRegistered(ctx context.Context, b *brand.Brand) error
}

// BrandService implements the brand use cases on top of a repository.
type BrandService struct {
	repo     repository.BrandRepository
	cache    cache.BrandCache
	notifier BrandNotifier
	logger   *zerolog.Logger
}

// NewBrandService wires a BrandService. notifier may be nil.
func NewBrandService(repo repository.BrandRepository, c cache.BrandCache, notifier BrandNotifier, logger *zerolog.Logger) *BrandService {
	if c == nil {
		c = cache.Noop{}
	}
	return &BrandService{
		repo:     repo,
		cache:    c,
		notifier: notifier,
		logger:   logger,
	}
}

// ensureUniqueName fails with a unique violation when another brand
// (other than excludeID) already uses name.
func (s *BrandService) ensureUniqueName(ctx context.Context, name, excludeID string) error {
	exists, err := s.repo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return dberr.NewUniqueViolation("brands", brand.FieldName)
	}
	return nil
}

// Create stores a new brand and schedules its registration email.
// A failed enqueue is logged; the brand is still created.
func (s *BrandService) Create(ctx context.Context, f brand.Fields) (*brand.Brand, error) {
	if err := s.ensureUniqueName(ctx, f.Name, ""); err != nil {
		return nil, err
	}

	b := &brand.Brand{}
	f.Apply(b)
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info().
		Str("brand_id", b.ID.Hex()).
		Str("name", b.Name).
		Msg("brand created")

	if s.notifier != nil {
		if err := s.notifier.EnqueueBrandRegistered(ctx, b); err != nil {
			s.logger.Error().Err(err).Str("brand_id", b.ID.Hex()).Msg("failed to enqueue brand registered task")
		}
	}

	return b, nil
}

// List returns one page of brands and the number of brands matching the filter.
func (s *BrandService) List(ctx context.Context, q brand.ListQuery) ([]*brand.Brand, int64, error) {
	return s.repo.FindAll(ctx, q.Normalized())
}

// Get returns one brand, served from the cache when possible.
func (s *BrandService) Get(ctx context.Context, id string) (*brand.Brand, error) {
	if b, ok := s.cache.Get(ctx, id); ok {
		return b, nil
	}

	b, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.cache.Set(ctx, b)
	return b, nil
}

// Update replaces every writable field of brand id.
func (s *BrandService) Update(ctx context.Context, id string, f brand.Fields) (*brand.Brand, error) {
	if err := s.ensureUniqueName(ctx, f.Name, id); err != nil {
		return nil, err
	}

	b, err := s.repo.Update(ctx, id, f)
	if err != nil {
		return nil, err
	}

	s.cache.Delete(ctx, id)

	s.logger.Info().Str("brand_id", id).Msg("brand updated")
	return b, nil
}

// Delete removes brand id.
func (s *BrandService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.cache.Delete(ctx, id)

	s.logger.Info().Str("brand_id", id).Msg("brand deleted")
	return nil
}

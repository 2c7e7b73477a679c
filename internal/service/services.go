// Package service contains the business logic.
//
// It sits between the handler and repository layers.
// It receives validated data from the handler, performs
// business operations, and calls repository methods to interact
// with the data
package service

import (
	"github.com/deppfellow/brand-api/internal/lib/cache"
	"github.com/deppfellow/brand-api/internal/lib/job"
	"github.com/deppfellow/brand-api/internal/repository"
	"github.com/deppfellow/brand-api/internal/server"
)

type Services struct {
	Brand *BrandService
	Job   *job.JobService
}

func NewService(s *server.Server, repos *repository.Repositories) (*Services, error) {
	var brandCache cache.BrandCache = cache.Noop{}
	if s.Config.Cache.Enabled && s.Redis != nil {
		brandCache = cache.NewRedisBrandCache(s.Redis, s.Config.Cache.TTL, s.Logger)
	}

	var notifier BrandNotifier
	if s.Job != nil {
		notifier = s.Job
	}

	return &Services{
		Brand: NewBrandService(repos.Brand, brandCache, notifier, s.Logger),
		Job:   s.Job,
	}, nil
}

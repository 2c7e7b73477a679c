// Package server defines the core Server struct that composes the app's main dependencies.
//
// It contains the initialization logic to spin up the HTTP server
// and handles graceful shutdowns.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the document store (MongoDB or Postgres)
//   - redis client
//   - background job worker server (asynq)
//   - http.Server
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/brand-api/internal/config"
	"github.com/deppfellow/brand-api/internal/database"
	"github.com/deppfellow/brand-api/internal/lib/email"
	"github.com/deppfellow/brand-api/internal/lib/job"
	"github.com/newrelic/go-agent/v3/integrations/nrredis-v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	loggerPkg "github.com/deppfellow/brand-api/internal/logger"
)

// Server is the application container that holds shared resources.
//
// Exactly one of DB and Mongo is set, depending on Config.Store.Backend.
type Server struct {
	Config        *config.Config
	Logger        *zerolog.Logger
	LoggerService *loggerPkg.LoggerService

	// DB holds the PostgreSQL pool wrapper.
	DB *database.Database

	// Mongo holds the MongoDB client.
	Mongo *database.Mongo

	Redis *redis.Client

	httpServer *http.Server

	// Job runs background workers (Asynq server) and provides a client for enqueueing.
	Job *job.JobService
}

// New constructs a Server and initializes core dependencies.
//
// The store must be reachable; Redis is optional at startup and only
// logged when it cannot be pinged.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
	}

	switch cfg.Store.Backend {
	case config.BackendPostgres:
		db, err := database.New(cfg, logger, loggerService)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		server.DB = db
	default:
		m, err := database.NewMongo(cfg, logger, loggerService)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize mongo: %w", err)
		}
		server.Mongo = m
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.Redis.Address,
	})

	if loggerService.GetApplication() != nil {
		redisClient.AddHook(nrredis.NewHook(redisClient.Options()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		logger.Error().Err(err).Msg("Failed to connect to Redis, continuing without Redis")
	}
	server.Redis = redisClient

	jobService := job.NewJobService(logger, cfg, email.NewClient(cfg, logger))
	if err := jobService.Start(); err != nil {
		_ = server.closeStore(context.Background())
		return nil, fmt.Errorf("failed to start job server: %w", err)
	}
	server.Job = jobService

	return server, nil
}

// PrepareStore applies Postgres migrations or ensures the Mongo indexes.
func (s *Server) PrepareStore(ctx context.Context) error {
	if s.DB != nil {
		return database.Migrate(ctx, s.Logger, s.Config)
	}
	if s.Mongo != nil {
		return s.Mongo.EnsureIndexes(ctx)
	}
	return errors.New("no store initialized")
}

// PingStore checks that the configured store answers.
func (s *Server) PingStore(ctx context.Context) error {
	if s.DB != nil {
		return s.DB.Ping(ctx)
	}
	if s.Mongo != nil {
		return s.Mongo.Ping(ctx)
	}
	return errors.New("no store initialized")
}

func (s *Server) closeStore(ctx context.Context) error {
	if s.DB != nil {
		return s.DB.Close(ctx)
	}
	if s.Mongo != nil {
		return s.Mongo.Close(ctx)
	}
	return nil
}

// SetupHTTPServer configures the internal net/http server around handler.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:         ":" + s.Config.Server.Port,
		Handler:      handler,
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server until it is shut down.
// It requires SetupHTTPServer to be called first.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Str("store", s.Config.Store.Backend).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown stops accepting requests, waits for in-flight ones until ctx
// expires, then stops the workers and closes the store and Redis.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	if s.Job != nil {
		s.Job.Stop()
	}

	if err := s.closeStore(ctx); err != nil {
		return fmt.Errorf("failed to close store connection: %w", err)
	}

	if s.Redis != nil {
		if err := s.Redis.Close(); err != nil {
			return fmt.Errorf("failed to close redis client: %w", err)
		}
	}

	return nil
}

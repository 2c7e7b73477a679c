package database

import (
	"context"
	"fmt"
	"time"

	"github.com/deppfellow/brand-api/internal/config"
	loggerConfig "github.com/deppfellow/brand-api/internal/logger"
	"github.com/newrelic/go-agent/v3/integrations/nrmongo"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Mongo wraps a connected client and the database holding the brands collection.
type Mongo struct {
	Client     *mongo.Client
	DB         *mongo.Database
	collection string
	log        *zerolog.Logger
}

// NewMongo connects to MongoDB, pings the primary and returns the handle.
//
// Commands slower than the configured slow query threshold are logged at
// warn level. When New Relic is enabled every command is also reported as a
// datastore segment.
func NewMongo(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerConfig.LoggerService) (*Mongo, error) {
	if cfg.Mongo == nil {
		return nil, fmt.Errorf("mongo config is missing")
	}

	timeout := time.Duration(cfg.Mongo.ConnectTimeout) * time.Second

	monitor := slowCommandMonitor(logger, cfg.Observability.Logging.SlowQueryThreshold)
	if loggerService.GetApplication() != nil {
		monitor = nrmongo.NewCommandMonitor(monitor)
	}

	opts := options.Client().
		ApplyURI(cfg.Mongo.URI).
		SetConnectTimeout(timeout).
		SetServerSelectionTimeout(timeout).
		SetAppName(config.ServiceName).
		SetMonitor(monitor)
	if cfg.Mongo.MaxPoolSize > 0 {
		opts.SetMaxPoolSize(cfg.Mongo.MaxPoolSize)
	}

	ctx, cancel := context.WithTimeout(context.Background(), DatabasePingTimeout*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}

	m := &Mongo{
		Client:     client,
		DB:         client.Database(cfg.Mongo.Database),
		collection: cfg.Mongo.Collection,
		log:        logger,
	}

	if err := m.Ping(ctx); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info().
		Str("database", cfg.Mongo.Database).
		Str("collection", cfg.Mongo.Collection).
		Msg("connected to mongo")

	return m, nil
}

// Brands returns the collection holding brand documents.
func (m *Mongo) Brands() *mongo.Collection {
	return m.DB.Collection(m.collection)
}

// EnsureIndexes creates the indexes the brand repository relies on.
// Creating an index that already exists is a no-op.
func (m *Mongo) EnsureIndexes(ctx context.Context) error {
	models := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{Keys: bson.D{{Key: "rating", Value: 1}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "updatedAt", Value: -1}}},
	}

	names, err := m.Brands().Indexes().CreateMany(ctx, models)
	if err != nil {
		return fmt.Errorf("creating brand indexes: %w", err)
	}

	m.log.Info().Strs("indexes", names).Msg("brand indexes ensured")
	return nil
}

// Ping checks that the primary is reachable.
func (m *Mongo) Ping(ctx context.Context) error {
	return m.Client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (m *Mongo) Close(ctx context.Context) error {
	m.log.Info().Msg("closing mongo connection")
	return m.Client.Disconnect(ctx)
}

func slowCommandMonitor(logger *zerolog.Logger, threshold time.Duration) *event.CommandMonitor {
	return &event.CommandMonitor{
		Succeeded: func(_ context.Context, evt *event.CommandSucceededEvent) {
			if threshold <= 0 || evt.Duration < threshold {
				return
			}
			logger.Warn().
				Str("command", evt.CommandName).
				Dur("duration", evt.Duration).
				Msg("slow mongo command")
		},
		Failed: func(_ context.Context, evt *event.CommandFailedEvent) {
			logger.Debug().
				Str("command", evt.CommandName).
				Dur("duration", evt.Duration).
				Str("failure", evt.Failure).
				Msg("mongo command failed")
		},
	}
}

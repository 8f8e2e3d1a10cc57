package repository

import (
	"context"
	"fmt"

	"github.com/UnknownOlympus/hestia/internal/config"
	"github.com/UnknownOlympus/hestia/internal/metrics"
)

// Open connects the record store selected by cfg. The returned close function releases
// the underlying connections and is safe to call once the API server has stopped.
func Open(ctx context.Context, cfg *config.Config, metrics *metrics.Metrics) (Store, func(context.Context) error, error) {
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		client, err := NewMongoDatabase(ctx, cfg.Mongo.URI, cfg.Mongo.MaxPoolSize, cfg.Mongo.Timeout)
		if err != nil {
			return nil, nil, err
		}

		coll := client.Database(cfg.Mongo.Database).Collection(cfg.Mongo.Collection)
		return NewMongoRepository(coll, metrics), client.Disconnect, nil

	case config.DriverPostgres:
		pool, err := NewDatabase(
			ctx,
			cfg.Postgres.Host,
			cfg.Postgres.Port,
			cfg.Postgres.User,
			cfg.Postgres.Password,
			cfg.Postgres.Dbname,
			cfg.Postgres.MaxConns,
			cfg.Postgres.Timeout,
		)
		if err != nil {
			return nil, nil, err
		}

		if err = EnsureSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, nil, err
		}

		closeFn := func(context.Context) error {
			pool.Close()
			return nil
		}
		return NewEmployeeRepository(pool, metrics), closeFn, nil

	case config.DriverMemory:
		return NewMemoryRepository(), func(context.Context) error { return nil }, nil

	default:
		return nil, nil, fmt.Errorf("%w: unknown storage driver %q", config.ErrConfiguration, cfg.Storage.Driver)
	}
}

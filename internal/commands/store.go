package commands

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric"

	"github.com/SigNoz/ecommerce-rest-api/internal/db"
	"github.com/SigNoz/ecommerce-rest-api/internal/metrics"
	"github.com/SigNoz/ecommerce-rest-api/internal/repository"
	"github.com/SigNoz/ecommerce-rest-api/internal/repository/memory"
	"github.com/SigNoz/ecommerce-rest-api/internal/repository/mysql"
	"github.com/SigNoz/ecommerce-rest-api/pkg/config"
)

// openStore returns the repositories for cfg.DBDriver and a func releasing
// them. MySQL stores get the schema applied when DBAutoMigrate is set.
func openStore(ctx context.Context, cfg *config.Config, m *metrics.AppMetrics, mp metric.MeterProvider) (repository.Store, func() error, error) {
	if cfg.DBDriver == config.DriverMemory {
		slog.Info("using in-memory store")
		return memory.New().Store(), func() error { return nil }, nil
	}

	database, err := db.NewDB(cfg.GetDSN(), mp, cfg.OTELServiceName)
	if err != nil {
		return repository.Store{}, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	slog.Info("connected to database", "host", cfg.DBHost, "port", cfg.DBPort, "name", cfg.DBName)

	if cfg.DBAutoMigrate {
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return repository.Store{}, nil, fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return mysql.New(database, m), database.Close, nil
}

package commands

import (
	"log/slog"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/SigNoz/ecommerce-rest-api/internal/metrics"
	"github.com/SigNoz/ecommerce-rest-api/internal/seed"
	"github.com/SigNoz/ecommerce-rest-api/pkg/config"
)

func newSeedCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the sample catalogue",
		Long: `Insert the sample users, orders, categories, products, order items and
payment into an empty store.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if cfg.DBDriver == config.DriverMemory {
				slog.Warn("seeding an in-memory store; the data is dropped when the command exits")
			}

			m := metrics.Discard()
			store, closeStore, err := openStore(cmd.Context(), cfg, m, noop.NewMeterProvider())
			if err != nil {
				return err
			}
			defer closeStore()

			return seed.Load(cmd.Context(), store, m)
		},
	}
}

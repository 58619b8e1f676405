package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric/noop"

	"github.com/SigNoz/ecommerce-rest-api/internal/db"
	"github.com/SigNoz/ecommerce-rest-api/pkg/config"
)

func newMigrateCommand(opts *options) *cobra.Command {
	var printOnly bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		Long: `Create the tb_* tables if they do not exist.

Examples:
  ecommerce migrate            # apply to the DB_* database
  ecommerce migrate --print    # write the schema to stdout`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if printOnly {
				fmt.Fprint(cmd.OutOrStdout(), db.Schema())
				return nil
			}

			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if cfg.DBDriver == config.DriverMemory {
				slog.Info("in-memory store has no schema to migrate")
				return nil
			}

			database, err := db.NewDB(cfg.GetDSN(), noop.NewMeterProvider(), cfg.OTELServiceName)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer database.Close()

			return database.Migrate(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&printOnly, "print", false, "Print the schema instead of applying it")
	return cmd
}

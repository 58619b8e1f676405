// Package commands holds the ecommerce command line: serve, migrate and
// seed.
package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/SigNoz/ecommerce-rest-api/pkg/config"
	"github.com/SigNoz/ecommerce-rest-api/pkg/logger"
)

// options are the persistent flags; set flags override the environment
type options struct {
	profile  string
	dbDriver string
	port     string
}

// NewRootCommand builds the command tree. Without a subcommand the root
// runs serve.
func NewRootCommand() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "ecommerce",
		Short: "E-commerce REST API",
		Long: `E-commerce REST API over users, orders, products and categories.

Profiles:
  default  - serve the configured store as is
  test     - load the sample catalogue on startup`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.profile, "profile", "", "Application profile: default or test (env APP_PROFILE)")
	rootCmd.PersistentFlags().StringVar(&opts.dbDriver, "db-driver", "", "Store driver: mysql or memory (env DB_DRIVER)")
	rootCmd.PersistentFlags().StringVar(&opts.port, "port", "", "HTTP port (env APP_PORT)")

	rootCmd.AddCommand(
		newServeCommand(opts),
		newMigrateCommand(opts),
		newSeedCommand(opts),
	)
	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig reads the environment, applies the flags and installs the
// default logger
func loadConfig(opts *options) (*config.Config, error) {
	cfg := config.LoadConfig()
	if opts.profile != "" {
		cfg.AppProfile = opts.profile
	}
	if opts.dbDriver != "" {
		cfg.DBDriver = opts.dbDriver
	}
	if opts.port != "" {
		cfg.AppPort = opts.port
	}

	switch cfg.AppProfile {
	case config.ProfileDefault, config.ProfileTest:
	default:
		return nil, fmt.Errorf("unknown profile %q", cfg.AppProfile)
	}
	switch cfg.DBDriver {
	case config.DriverMySQL, config.DriverMemory:
	default:
		return nil, fmt.Errorf("unknown db driver %q", cfg.DBDriver)
	}

	logger.Init(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: cfg.OTELServiceName,
		Environment: cfg.OTELDeploymentEnvironment,
	})
	return cfg, nil
}

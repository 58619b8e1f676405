package commands

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/spf13/cobra"

	"github.com/SigNoz/ecommerce-rest-api/internal/api"
	"github.com/SigNoz/ecommerce-rest-api/internal/metrics"
	"github.com/SigNoz/ecommerce-rest-api/internal/seed"
	"github.com/SigNoz/ecommerce-rest-api/internal/services"
)

func newServeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Long: `Run the HTTP server until SIGINT or SIGTERM.

Examples:
  ecommerce serve                                  # MySQL from DB_* settings
  ecommerce serve --profile test --db-driver memory # sample data, no database`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}
}

func runServe(cmd *cobra.Command, opts *options) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Initialize OpenTelemetry metrics
	appMetrics, meterProvider, err := metrics.InitMetrics(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := meterProvider.Shutdown(shutdownCtx); err != nil {
			slog.Error("error shutting down meter provider", "error", err)
		}
	}()

	store, closeStore, err := openStore(ctx, cfg, appMetrics, meterProvider)
	if err != nil {
		return err
	}
	defer closeStore()

	if cfg.IsTestProfile() {
		if _, err := seed.LoadIfEmpty(ctx, store, appMetrics); err != nil {
			return fmt.Errorf("failed to load seed data: %w", err)
		}
	}

	// Initialize services
	userService := services.NewUserService(store.Users, appMetrics)
	orderService := services.NewOrderService(store.Orders, appMetrics)
	productService := services.NewProductService(store.Products, appMetrics)
	categoryService := services.NewCategoryService(store.Categories, appMetrics)

	app := api.NewApp(appMetrics, userService, orderService, productService, categoryService)

	router := mux.NewRouter()
	app.SetupRoutes(router)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.AppPort),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server starting",
			"port", cfg.AppPort,
			"profile", cfg.AppProfile,
			"db_driver", cfg.DBDriver,
			"otlp_endpoint", cfg.OTELExporterOTLPEndpoint)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server failed to start: %w", err)
	case <-quit:
	}

	slog.Info("shutting down server")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	slog.Info("server exited")
	return nil
}

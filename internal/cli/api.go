package cli

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/AI2HU/trader-ai/internal/api"
	"github.com/AI2HU/trader-ai/internal/logger"
	"github.com/AI2HU/trader-ai/internal/scheduler"
	"github.com/AI2HU/trader-ai/internal/services"
)

var (
	apiPort       int
	apiHost       string
	corsOrigins   []string
	probeInterval time.Duration
)

var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the REST API server",
	Long: `Resolve and open the database, apply pending migrations, and serve:

  GET /api/v1/health    - Service and database health
  GET /api/v1/database  - Resolved connection options (password redacted)`,
	RunE: runAPI,
}

func init() {
	apiCmd.Flags().IntVarP(&apiPort, "port", "p", 0, "Port to run the API server on (default from config)")
	apiCmd.Flags().StringVarP(&apiHost, "host", "H", "0.0.0.0", "Host to bind the API server to")
	apiCmd.Flags().StringSliceVarP(&corsOrigins, "cors-origin", "c", nil, "CORS origins to allow (overrides config, use '*' for all origins)")
	apiCmd.Flags().DurationVar(&probeInterval, "probe-interval", scheduler.DefaultProbeInterval, "How often to probe the database in the background")
}

func runAPI(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	port := apiPort
	if port == 0 {
		port = cfg.App.Port
	}
	origins := corsOrigins
	if len(origins) == 0 {
		origins = cfg.CORS.Origins
	}

	conn, err := openDatabase(ctx, true)
	if err != nil {
		return err
	}
	defer conn.Disconnect(context.Background())

	healthService := services.NewHealthService(conn, cfg.App.Version)

	probe := scheduler.New(healthService, probeInterval)
	if err := probe.Start(ctx); err != nil {
		return err
	}
	defer probe.Stop()

	server := api.NewServer(conn, healthService, origins)
	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", apiHost, port),
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("%s %s listening on http://%s/api/v1 (%s database)",
			cfg.App.Name, cfg.App.Version, httpServer.Addr, conn.Kind())
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("api server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down API server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return httpServer.Shutdown(shutdownCtx)
}

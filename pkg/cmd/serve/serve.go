package serve

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	otlpruntime "go.opentelemetry.io/contrib/instrumentation/runtime"

	"github.com/mpapenbr/garage61-mcp-go/log"
	"github.com/mpapenbr/garage61-mcp-go/pkg/cmd/util"
	"github.com/mpapenbr/garage61-mcp-go/pkg/config"
	"github.com/mpapenbr/garage61-mcp-go/pkg/mcpserver"
	"github.com/mpapenbr/garage61-mcp-go/pkg/observability"
	"github.com/mpapenbr/garage61-mcp-go/pkg/service"
)

func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "starts the MCP server on stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			return startServer(cmd.Context())
		},
	}
	cmd.Flags().StringVar(&config.CatalogRefresh,
		"catalog-refresh",
		"0",
		"interval for reloading cars and tracks (0 = load once)")
	cmd.Flags().IntVar(&config.LoadRetries,
		"load-retries",
		3,
		"number of attempts when loading cars and tracks")
	cmd.Flags().StringVar(&config.TelemetryCacheTTL,
		"telemetry-cache-ttl",
		"10m",
		"how long downloaded lap telemetry is kept in memory")
	cmd.Flags().BoolVar(&config.EnableTelemetry,
		"enable-telemetry",
		false,
		"enables telemetry")
	cmd.Flags().StringVar(&config.TelemetryExporter,
		"telemetry-exporter",
		config.ExporterOtlp,
		"exporter for telemetry data (otlp, stdout)")
	cmd.Flags().StringVar(&config.TelemetryEndpoint,
		"telemetry-endpoint",
		"localhost:4317",
		"Endpoint that receives open telemetry data")
	cmd.Flags().StringVar(&config.MetricsAddr,
		"metrics-addr",
		"",
		"listen address for prometheus metrics (empty = disabled)")
	cmd.Flags().StringVar(&config.WaitForAPI,
		"wait-for-api",
		"0",
		"duration to wait for the API host to be reachable")
	return cmd
}

//nolint:funlen // setup sequence
func startServer(ctx context.Context) error {
	if err := util.SetupLogger(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var telemetry *config.Telemetry
	if config.EnableTelemetry {
		log.Info("Enabling telemetry")
		var err error
		if telemetry, err = config.SetupTelemetry(ctx); err != nil {
			log.Warn("Could not setup telemetry", log.ErrorField(err))
		}
		err = otlpruntime.Start(otlpruntime.WithMinimumReadMemStatsInterval(time.Second))
		if err != nil {
			log.Warn("Could not start runtime metrics", log.ErrorField(err))
		}
	}
	if telemetry != nil {
		defer telemetry.Shutdown()
	}

	if config.MetricsAddr != "" {
		startMetricsServer(ctx, config.MetricsAddr)
	}

	backend, err := util.NewBackend(ctx)
	if err != nil {
		log.Error("Could not setup backend", log.ErrorField(err))
		return err
	}
	// the server starts even without catalog, lookups report not found then
	if err := backend.Loader.Load(ctx); err != nil {
		log.Warn("Starting with empty catalog", log.ErrorField(err))
	}
	go backend.Loader.RunRefresh(ctx, backend.Config.CatalogRefresh)

	laps := service.NewLapService(backend.Resolver, backend.Client,
		service.WithTelemetryCacheTTL(backend.Config.TelemetryCacheTTL),
		service.WithLogger(log.Default().Named("service")))
	srv := mcpserver.New(backend.Resolver, laps,
		mcpserver.WithLogger(log.Default().Named("mcp")))

	err = srv.RunStdio(ctx)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("MCP server stopped", log.ErrorField(err))
		return err
	}
	log.Info("Server terminated")
	return nil
}

func startMetricsServer(ctx context.Context, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", observability.MetricsHandler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		log.Info("Starting metrics server", log.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("Metrics server stopped", log.ErrorField(err))
		}
	}()
	go func() {
		<-ctx.Done()
		//nolint:errcheck // shutdown on exit
		server.Shutdown(context.Background())
	}()
}

package main

//
//  @title           contractpulse API
//  @version         1.0
//  @description     Contract quality metrics over the live contracts table.
//  @termsOfService  https://github.com/guttosm/contractpulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/contractpulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        quality
//  @tag.description Contract quality metrics
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/guttosm/contractpulse/config"
	_ "github.com/guttosm/contractpulse/docs" // swagger docs
	"github.com/guttosm/contractpulse/internal/app"
	"github.com/guttosm/contractpulse/internal/ingestion"
	"github.com/guttosm/contractpulse/internal/logger"
)

// startServer builds the HTTP server and starts listening in a goroutine.
// The write timeout stays 5s above the per-request context deadline.
func startServer(router http.Handler, port string, requestTimeout time.Duration) *http.Server {
	if requestTimeout <= 0 {
		requestTimeout = 10 * time.Second
	}
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      requestTimeout + 5*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Dur("request_timeout", requestTimeout).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., DB connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// main is the entry point of the contractpulse application.
//
// Modes (selected via --mode flag):
//   - api:     Starts the REST API exposing the contract quality metrics.
//   - import:  Loads the ;-separated CSV exports in --dir into contratos_vivo.
//   - migrate: Applies the embedded schema migrations and exits.
//   - report:  Prints the quality dashboard as JSON to stdout.
//
// Flags:
//   - --mode:     Execution mode. Default: "api".
//   - --dir:      Directory containing .csv exports. Default: "./data/input".
//   - --parallel: Files imported concurrently (0=auto up to CPU, max 8).
//   - --force:    Re-import files already recorded in import_log.
//   - --as-of:    Reference date (YYYY-MM-DD) for report mode.
//   - --port:     Port for the API server. Defaults to value from config (SERVER_PORT).
func main() {
	ctx := context.Background()

	// Load configuration from environment or .env file
	config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	// Parse CLI flags (override config defaults if provided)
	mode := flag.String("mode", "api", "Mode: api, import, migrate or report")
	dir := flag.String("dir", "./data/input", "Directory with .csv exports")
	parallel := flag.Int("parallel", 0, "How many files to import concurrently (0=auto up to CPU, max 8)")
	force := flag.Bool("force", false, "Re-import files even if already imported (deletes their existing rows)")
	asOf := flag.String("as-of", "", "Reference date YYYY-MM-DD for report mode (default: today)")
	port := flag.String("port", config.AppConfig.Server.Port, "Port for API mode")
	flag.Parse()

	switch *mode {
	case "migrate":
		db, err := app.OpenAndMigrate(config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("migration failed")
		}
		_ = db.Close()

	case "import":
		// Import mode: load CSV exports into the contracts table
		logger.L().Info().Msg("running import")

		db, err := app.OpenAndMigrate(config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("db connect error")
		}
		defer func() { _ = db.Close() }()

		rows, err := ingestion.ImportDirectory(ctx, *dir, db, ingestion.Options{
			Table:    config.AppConfig.Source.Table,
			Parallel: *parallel,
			Force:    *force,
		})
		if err != nil {
			logger.L().Fatal().Err(err).Msg("import failed")
		}
		logger.L().Info().Int("rows", rows).Msg("import completed successfully")

	case "report":
		c, err := app.Build(ctx, config.AppConfig)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}
		defer c.Close()

		if err := runReport(ctx, os.Stdout, c.Service, *asOf); err != nil {
			logger.L().Fatal().Err(err).Msg("report failed")
		}

	case "api":
		// API mode: start the HTTP server
		logger.L().Info().Msg("starting API server")

		router, cleanup, err := app.InitializeApp()
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := startServer(router, *port, config.AppConfig.Server.RequestTimeout)
		gracefulShutdown(ctx, server, cleanup)

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}

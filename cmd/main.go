package main

//
//  @title           volpulse API
//  @version         1.0
//  @description     Daily trading history crawler with 14-day average volume.
//  @termsOfService  https://github.com/guttosm/volpulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/volpulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        crawl
//  @tag.description Batch crawl of ticker symbols
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/volpulse/config"
	_ "github.com/guttosm/volpulse/docs" // swagger docs
	"github.com/guttosm/volpulse/internal/api"
	"github.com/guttosm/volpulse/internal/app"
	"github.com/guttosm/volpulse/internal/crawler"
	"github.com/guttosm/volpulse/internal/logger"
	"github.com/guttosm/volpulse/internal/service"
)

// newServer builds the HTTP server for the given router and settings.
func newServer(router http.Handler, port string, cfg config.ServerConfig) *http.Server {
	return &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       cfg.ReadTimeout,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}
}

// serve runs server until ctx is done or the listener fails, then shuts it
// down within shutdownTimeout.
//
// Parameters:
//   - ctx (context.Context): Canceled on SIGINT/SIGTERM by the caller.
//   - server (*http.Server): The HTTP server instance to run.
//   - shutdownTimeout (time.Duration): Grace period for in-flight batches.
func serve(ctx context.Context, server *http.Server, shutdownTimeout time.Duration) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.L().Info().Str("addr", server.Addr).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed to start: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.L().Info().Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		logger.L().Info().Msg("server exited gracefully")
		return nil
	})

	return g.Wait()
}

// runCrawl processes symbols once and writes the response JSON to w.
func runCrawl(ctx context.Context, svc service.BatchService, symbols []string, w io.Writer) error {
	if len(symbols) == 0 {
		return errors.New("no symbols given, use --symbols VNM,HPG")
	}

	runLog := logger.L().With().Str("run_id", uuid.NewString()).Logger()
	ctx = logger.WithContext(ctx, runLog)

	res, err := svc.Crawl(ctx, symbols)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(api.NewCrawlBatchResponse(res))
}

// splitSymbols parses the --symbols flag. Entries are trimmed but otherwise kept as given.
func splitSymbols(s string) []string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// main is the entry point of the volpulse application.
//
// Modes (selected via --mode flag):
//   - api:   Starts the REST API exposing GET/POST /crawl_batch.
//   - crawl: Crawls --symbols once and prints the result as JSON.
//
// Flags:
//   - --mode:    Execution mode ("api" or "crawl"). Default: "api".
//   - --symbols: Comma-separated symbols for crawl mode.
//   - --port:    Port for the API server. Defaults to value from config (SERVER_PORT).
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration from environment or .env file
	cfg := config.LoadConfig()

	// Initialize JSON logger
	logger.Init()

	mode := flag.String("mode", "api", "Mode: api or crawl")
	symbols := flag.String("symbols", "", "Comma-separated symbols for crawl mode")
	port := flag.String("port", cfg.Server.Port, "Port for API mode")
	flag.Parse()

	crawlCfg := crawler.DefaultConfig()

	switch *mode {
	case "crawl":
		browser, err := app.NewBatchBrowser(crawlCfg)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("crawler init error")
		}
		svc := service.NewBatchService(browser, crawlCfg)
		if err := runCrawl(ctx, svc, splitSymbols(*symbols), os.Stdout); err != nil {
			logger.L().Fatal().Err(err).Msg("crawl failed")
		}

	case "api":
		logger.L().Info().Msg("starting API server")

		router, err := app.InitializeApp(crawlCfg)
		if err != nil {
			logger.L().Fatal().Err(err).Msg("app init error")
		}

		server := newServer(router, *port, cfg.Server)
		if err := serve(ctx, server, cfg.Server.ShutdownTimeout); err != nil {
			logger.L().Fatal().Err(err).Msg("server error")
		}

	default:
		logger.L().Fatal().Str("mode", *mode).Msg("unknown mode")
	}
}

package app

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/volpulse/internal/api"
	"github.com/guttosm/volpulse/internal/crawler"
	"github.com/guttosm/volpulse/internal/logger"
	"github.com/guttosm/volpulse/internal/service"
)

// ReadyBrowser is a crawler.Browser that can report whether it can run.
type ReadyBrowser interface {
	crawler.Browser
	Ready() error
}

// browserFactory is an indirection used by InitializeApp; overridden in tests to avoid launching Chrome.
var browserFactory = func(cfg crawler.Config) ReadyBrowser {
	return crawler.NewChromeBrowser(cfg)
}

// InitializeApp sets up all application dependencies and returns a fully
// configured Gin router, or the error encountered during initialization.
// Browser sessions are opened and released per request, so there is nothing
// to clean up on shutdown.
//
// Responsibilities:
//   - Validates the crawl configuration.
//   - Creates the browser used by every batch (one session per request).
//   - Wires the batch service, the HTTP handlers and the router.
//   - Registers health and readiness probes.
//
// A missing Chrome executable is only logged: /readyz reports it.
func InitializeApp(crawlCfg crawler.Config) (*gin.Engine, error) {
	browser, err := NewBatchBrowser(crawlCfg)
	if err != nil {
		return nil, err
	}

	svc := service.NewBatchService(browser, crawlCfg)
	handler := api.NewHandler(svc)
	router := api.NewRouter(handler)

	healthHandler := api.NewHealthHandler(browser.Ready)
	healthHandler.Register(router)

	return router, nil
}

// NewBatchBrowser validates crawlCfg and returns the browser batches run on.
func NewBatchBrowser(crawlCfg crawler.Config) (ReadyBrowser, error) {
	if err := crawlCfg.Validate(); err != nil {
		return nil, fmt.Errorf("failed to initialize crawler: %w", err)
	}

	browser := browserFactory(crawlCfg)
	if err := browser.Ready(); err != nil {
		logger.L().Warn().Err(err).Msg("browser not available; batches will fail until it is installed")
	}
	return browser, nil
}

package api

import (
	"github.com/gin-gonic/gin"
	"github.com/guttosm/volpulse/internal/middleware"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler).
//   - Mounts Swagger docs (/swagger/*any).
//   - Configures the batch crawl routes (GET and POST /crawl_batch).
//
// No request timeout is applied: a batch runs as long as its page loads take.
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
func NewRouter(handler *Handler) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
	)

	// ─── Swagger ──────────────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// ─── Crawl ────────────────────────────────────
	router.GET("/crawl_batch", handler.CrawlBatchGet)
	router.POST("/crawl_batch", handler.CrawlBatchPost)

	return router
}

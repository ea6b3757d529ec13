package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/guttosm/volpulse/internal/domain/dto"
	"github.com/guttosm/volpulse/internal/domain/models"
	"github.com/guttosm/volpulse/internal/middleware"
	"github.com/guttosm/volpulse/internal/service"
)

// Handler provides the HTTP handlers of the batch crawl endpoints.
//
// Responsibilities:
//   - Validate the symbols list (query or body) before any fetch happens
//   - Run the batch through the BatchService
//   - Flatten the result into the response DTO
type Handler struct {
	svc service.BatchService
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - svc (service.BatchService): Service that fetches and summarizes symbols.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(svc service.BatchService) *Handler {
	return &Handler{svc: svc}
}

// CrawlBatchGet handles GET /crawl_batch requests.
//
// CrawlBatchGet godoc
// @Summary      Crawl a batch of symbols (query)
// @Description  Fetches daily history for every symbol and returns the latest row with its 14-day average volume. Symbols without data are omitted.
// @Tags         crawl
// @Produce      json
// @Param        symbols  query     []string  true  "Ticker symbols" collectionFormat(multi) example(VNM)
// @Success      200      {object}  dto.CrawlBatchResponse  "Success"
// @Failure      400      {object}  dto.ErrorResponse       "Bad Request"
// @Failure      500      {object}  dto.ErrorResponse       "Internal Error"
// @Router       /crawl_batch [get]
func (h *Handler) CrawlBatchGet(c *gin.Context) {
	var req dto.CrawlBatchRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "symbols is required", err)
		return
	}
	h.crawl(c, req.Symbols)
}

// CrawlBatchPost handles POST /crawl_batch requests.
//
// CrawlBatchPost godoc
// @Summary      Crawl a batch of symbols (body)
// @Description  Same as the GET form with the symbols sent as a JSON body.
// @Tags         crawl
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CrawlBatchRequest   true  "Symbols"
// @Success      200   {object}  dto.CrawlBatchResponse  "Success"
// @Failure      400   {object}  dto.ErrorResponse       "Bad Request"
// @Failure      500   {object}  dto.ErrorResponse       "Internal Error"
// @Router       /crawl_batch [post]
func (h *Handler) CrawlBatchPost(c *gin.Context) {
	var req dto.CrawlBatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "symbols is required", err)
		return
	}
	h.crawl(c, req.Symbols)
}

func (h *Handler) crawl(c *gin.Context, symbols []string) {
	res, err := h.svc.Crawl(c.Request.Context(), symbols)
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "failed to crawl batch", err)
		return
	}
	c.JSON(http.StatusOK, NewCrawlBatchResponse(res))
}

// NewCrawlBatchResponse flattens a BatchResult; count always equals len(data).
func NewCrawlBatchResponse(res models.BatchResult) dto.CrawlBatchResponse {
	data := make([]map[string]string, 0, len(res.Data))
	for _, row := range res.Data {
		data = append(data, row.Map())
	}
	return dto.CrawlBatchResponse{Data: data, Count: len(data)}
}

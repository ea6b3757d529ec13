package dto

// CrawlBatchRequest carries the symbols of a batch, either as repeated
// `symbols` query parameters or as a JSON body.
type CrawlBatchRequest struct {
	Symbols []string `json:"symbols" form:"symbols" binding:"required" example:"VNM,HPG"`
}

// CrawlBatchResponse is returned by both GET and POST /crawl_batch.
//
// Every row is a flat map of strings: symbol, date (YYYY-MM-DD), close,
// volume and, when computed, avg_volume_14d. Missing values are "".
type CrawlBatchResponse struct {
	Data  []map[string]string `json:"data"`
	Count int                 `json:"count" example:"2"`
}

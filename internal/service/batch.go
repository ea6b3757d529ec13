package service

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/volpulse/internal/crawler"
	"github.com/guttosm/volpulse/internal/domain/models"
	"github.com/guttosm/volpulse/internal/logger"
	"github.com/guttosm/volpulse/internal/pipeline"
)

//go:generate mockgen -destination=mock_crawler_test.go -package=service github.com/guttosm/volpulse/internal/crawler Browser,Session

// BatchService crawls a list of symbols and summarizes each one.
type BatchService interface {
	Crawl(ctx context.Context, symbols []string) (models.BatchResult, error)
}

type batchService struct {
	browser crawler.Browser
	cfg     crawler.Config
}

// NewBatchService returns a BatchService fetching pages through browser with cfg.
func NewBatchService(browser crawler.Browser, cfg crawler.Config) BatchService {
	return &batchService{browser: browser, cfg: cfg}
}

// Crawl processes symbols one after another inside a single browser session.
//
// Symbols are used as given: duplicates and empty values are not filtered.
// A symbol whose page yields no usable rows is left out of the result. The
// only error returned is a failure to open the browser session.
func (s *batchService) Crawl(ctx context.Context, symbols []string) (models.BatchResult, error) {
	log := logger.FromContext(ctx)
	start := time.Now()

	session, err := s.browser.Open(ctx)
	if err != nil {
		return models.BatchResult{}, fmt.Errorf("open browser session: %w", err)
	}
	defer session.Close()

	rows := make([]models.SummaryRow, 0, len(symbols))
	for i, sym := range symbols {
		url := s.cfg.URLFor(sym)
		raw, ok := toRawRecords(session.Fetch(ctx, url))
		if !ok {
			log.Info().Int("idx", i+1).Int("total", len(symbols)).Str("symbol", sym).Bool("skipped", true).Msg("no data")
			continue
		}

		latest, err := pipeline.Latest(pipeline.Normalize(sym, raw))
		if err != nil {
			log.Info().Str("symbol", sym).Err(err).Msg("aggregation skipped")
			continue
		}
		rows = append(rows, latest)
		log.Info().Int("idx", i+1).Int("total", len(symbols)).Str("symbol", sym).Int("rows", len(raw)).
			Str("avg_volume_14d", latest.AvgVolume14d).Msg("symbol done")
	}

	log.Info().Int("symbols", len(symbols)).Int("count", len(rows)).Dur("elapsed", time.Since(start)).Msg("batch done")
	return models.BatchResult{Data: rows, Count: len(rows)}, nil
}

// toRawRecords maps extracted records onto RawRecord. It reports false when
// there is nothing usable: no records, or no record carrying a date cell.
func toRawRecords(recs []crawler.Record) ([]models.RawRecord, bool) {
	if len(recs) == 0 {
		return nil, false
	}
	out := make([]models.RawRecord, 0, len(recs))
	dated := false
	for _, r := range recs {
		if _, ok := r["date"]; ok {
			dated = true
		}
		out = append(out, models.RawRecord{
			Date:   r["date"],
			Close:  r["close"],
			Volume: r["volume"],
		})
	}
	return out, dated
}

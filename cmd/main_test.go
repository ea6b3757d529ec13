package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/guttosm/volpulse/config"
	"github.com/guttosm/volpulse/internal/domain/dto"
	"github.com/guttosm/volpulse/internal/domain/models"
)

type dummyHandler struct{}

func (d dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func TestServe_ShutdownOnContextCancel(t *testing.T) {
	srv := newServer(dummyHandler{}, "0", config.ServerConfig{ReadTimeout: time.Second}) // random port

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serve(ctx, srv, time.Second)
	}()

	// Give server a moment to start
	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("serve returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("serve did not return after cancel")
	}
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		t.Fatalf("server not shut down: %v", err)
	}
}

func TestServe_ListenError(t *testing.T) {
	srv := newServer(dummyHandler{}, "not-a-port", config.ServerConfig{})
	err := serve(context.Background(), srv, time.Second)
	if err == nil {
		t.Fatalf("expected listen error")
	}
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		t.Fatalf("server must be shut down when the listener fails: %v", err)
	}
}

type fakeBatch struct {
	res models.BatchResult
	err error
}

func (f fakeBatch) Crawl(context.Context, []string) (models.BatchResult, error) { return f.res, f.err }

func TestRunCrawl(t *testing.T) {
	var buf bytes.Buffer
	res := models.BatchResult{Data: []models.SummaryRow{{NormalizedRow: models.NormalizedRow{Symbol: "VNM", Close: "66"}}}, Count: 1}
	if err := runCrawl(context.Background(), fakeBatch{res: res}, []string{"VNM"}, &buf); err != nil {
		t.Fatalf("runCrawl: %v", err)
	}
	var out dto.CrawlBatchResponse
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("invalid json %q: %v", buf.String(), err)
	}
	if out.Count != 1 || out.Data[0]["symbol"] != "VNM" || out.Data[0]["date"] != "" {
		t.Fatalf("unexpected output: %+v", out)
	}

	if err := runCrawl(context.Background(), fakeBatch{}, nil, &buf); err == nil {
		t.Fatalf("expected error without symbols")
	}
	if err := runCrawl(context.Background(), fakeBatch{err: errors.New("boom")}, []string{"A"}, &buf); err == nil {
		t.Fatalf("expected service error")
	}
}

func TestSplitSymbols(t *testing.T) {
	cases := map[string][]string{
		"":              nil,
		"  ":            nil,
		"VNM":           {"VNM"},
		"VNM, hpg ,FPT": {"VNM", "hpg", "FPT"},
		"VNM,,VNM":      {"VNM", "", "VNM"},
	}
	for in, want := range cases {
		got := splitSymbols(in)
		if len(got) != len(want) {
			t.Fatalf("splitSymbols(%q)=%q, want %q", in, got, want)
		}
		for i := range got {
			if got[i] != want[i] {
				t.Fatalf("splitSymbols(%q)=%q, want %q", in, got, want)
			}
		}
	}
}

package crawler

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Run.PageTimeout != 90*time.Second {
		t.Fatalf("page timeout=%v, want 90s", cfg.Run.PageTimeout)
	}
	if cfg.Run.WaitUntil != WaitNetworkIdle {
		t.Fatalf("wait until=%q", cfg.Run.WaitUntil)
	}
	if cfg.Run.WaitFor != cfg.Schema.BaseSelector {
		t.Fatalf("expected to wait for the table rows, got %q", cfg.Run.WaitFor)
	}
	if !cfg.Browser.Headless || !cfg.Browser.JavaScriptEnabled {
		t.Fatalf("unexpected browser config: %+v", cfg.Browser)
	}
	if len(cfg.Schema.Fields) != 3 {
		t.Fatalf("fields=%d, want 3", len(cfg.Schema.Fields))
	}
}

func TestURLFor(t *testing.T) {
	cfg := DefaultConfig()
	cases := map[string]string{
		"VNM": "https://cafef.vn/du-lieu/lich-su-giao-dich-vnm-1.chn",
		"hpg": "https://cafef.vn/du-lieu/lich-su-giao-dich-hpg-1.chn",
		"FpT": "https://cafef.vn/du-lieu/lich-su-giao-dich-fpt-1.chn",
		"":    "https://cafef.vn/du-lieu/lich-su-giao-dich--1.chn",
	}
	for in, want := range cases {
		if got := cfg.URLFor(in); got != want {
			t.Fatalf("URLFor(%q)=%q, want %q", in, got, want)
		}
	}
}

func TestURLFor_DoesNotMutateDefault(t *testing.T) {
	cfg := DefaultConfig()
	cfg.URLTemplate = "http://127.0.0.1/" + SymbolPlaceholder
	if got := cfg.URLFor("AAA"); got != "http://127.0.0.1/aaa" {
		t.Fatalf("got %q", got)
	}
	if DefaultConfig().URLTemplate == cfg.URLTemplate {
		t.Fatalf("default config must not change")
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	loadCfg := DefaultConfig()
	loadCfg.Run.WaitUntil = WaitLoad
	if err := loadCfg.Validate(); err != nil {
		t.Fatalf("load wait policy rejected: %v", err)
	}

	cases := map[string]func(*Config){
		"no placeholder": func(c *Config) { c.URLTemplate = "https://example.com/fixed" },
		"no base":        func(c *Config) { c.Schema.BaseSelector = "" },
		"no fields":      func(c *Config) { c.Schema.Fields = nil },
		"zero timeout":   func(c *Config) { c.Run.PageTimeout = 0 },
		"unknown wait":   func(c *Config) { c.Run.WaitUntil = "domcontentloaded" },
		"empty wait":     func(c *Config) { c.Run.WaitUntil = "" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("expected validation error")
			}
		})
	}
}

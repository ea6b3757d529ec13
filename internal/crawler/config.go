package crawler

import (
	"fmt"
	"strings"
	"time"
)

// FieldType selects what is read from the node matched by a Field selector.
type FieldType string

const (
	FieldText      FieldType = "text"
	FieldAttribute FieldType = "attribute"
	FieldHTML      FieldType = "html"
)

// WaitUntil is the navigation milestone awaited before extraction.
type WaitUntil string

const (
	WaitLoad        WaitUntil = "load"
	WaitNetworkIdle WaitUntil = "networkidle"
)

// SymbolPlaceholder is replaced by the lower-cased symbol in Config.URLTemplate.
const SymbolPlaceholder = "{symbol}"

// Field maps one record key to a selector relative to the row node.
type Field struct {
	Name      string
	Selector  string
	Type      FieldType
	Attribute string // only for FieldAttribute
}

// Schema describes how records are extracted from a rendered page: every
// node matched by BaseSelector yields one record.
type Schema struct {
	Name         string
	BaseSelector string
	Fields       []Field
}

// RunConfig controls a single page load.
type RunConfig struct {
	WaitFor     string // CSS selector that must be present before extraction
	WaitUntil   WaitUntil
	PageTimeout time.Duration
	BypassCache bool
}

// BrowserConfig controls the headless browser process.
type BrowserConfig struct {
	Headless          bool
	JavaScriptEnabled bool
	ViewportWidth     int64
	ViewportHeight    int64
	UserAgent         string
	ExecPath          string // empty: let chromedp locate Chrome
}

// Config is the complete crawl configuration. It is built once at startup
// and passed by value; nothing mutates it afterwards.
type Config struct {
	URLTemplate string
	Schema      Schema
	Run         RunConfig
	Browser     BrowserConfig
}

// DefaultConfig returns the configuration for the cafef.vn daily history table.
func DefaultConfig() Config {
	return Config{
		URLTemplate: "https://cafef.vn/du-lieu/lich-su-giao-dich-" + SymbolPlaceholder + "-1.chn",
		Schema: Schema{
			Name:         "cafef_stock_daily",
			BaseSelector: "#owner-contents-table tbody tr",
			Fields: []Field{
				{Name: "date", Selector: "td.owner_time", Type: FieldText},
				{Name: "close", Selector: "td.owner_priceClose", Type: FieldText},
				{Name: "volume", Selector: "td.owner_gd_td", Type: FieldText},
			},
		},
		Run: RunConfig{
			WaitFor:     "#owner-contents-table tbody tr",
			WaitUntil:   WaitNetworkIdle,
			PageTimeout: 90 * time.Second,
			BypassCache: true,
		},
		Browser: BrowserConfig{
			Headless:          true,
			JavaScriptEnabled: true,
			ViewportWidth:     1400,
			ViewportHeight:    1000,
		},
	}
}

// URLFor builds the history page URL of symbol.
func (c Config) URLFor(symbol string) string {
	return strings.ReplaceAll(c.URLTemplate, SymbolPlaceholder, strings.ToLower(symbol))
}

// Validate reports configuration that would make every fetch fail.
func (c Config) Validate() error {
	var problems []string
	if !strings.Contains(c.URLTemplate, SymbolPlaceholder) {
		problems = append(problems, "url template has no "+SymbolPlaceholder+" placeholder")
	}
	if c.Schema.BaseSelector == "" {
		problems = append(problems, "schema base selector is empty")
	}
	if len(c.Schema.Fields) == 0 {
		problems = append(problems, "schema has no fields")
	}
	if c.Run.WaitUntil != WaitLoad && c.Run.WaitUntil != WaitNetworkIdle {
		problems = append(problems, fmt.Sprintf("unknown wait policy %q", c.Run.WaitUntil))
	}
	if c.Run.PageTimeout <= 0 {
		problems = append(problems, "page timeout must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid crawl config: %s", strings.Join(problems, "; "))
	}
	return nil
}

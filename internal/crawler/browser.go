package crawler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/emulation"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"github.com/guttosm/volpulse/internal/logger"
)

// Browser opens browser sessions.
type Browser interface {
	Open(ctx context.Context) (Session, error)
}

// Session is one running browser. Fetch renders a page and returns the
// records extracted with the configured schema; load failures and timeouts
// yield an empty result rather than an error.
type Session interface {
	Fetch(ctx context.Context, url string) []Record
	Close()
}

// ChromeBrowser launches headless Chrome through chromedp.
type ChromeBrowser struct {
	cfg Config
}

var _ Browser = (*ChromeBrowser)(nil)

// NewChromeBrowser returns a Browser driven by cfg.
func NewChromeBrowser(cfg Config) *ChromeBrowser {
	return &ChromeBrowser{cfg: cfg}
}

// Open starts a Chrome process. The process lives until Close is called or
// ctx is done.
func (b *ChromeBrowser) Open(ctx context.Context) (Session, error) {
	log := logger.FromContext(ctx)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", b.cfg.Browser.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.NoSandbox,
		chromedp.WindowSize(int(b.cfg.Browser.ViewportWidth), int(b.cfg.Browser.ViewportHeight)),
	)
	if b.cfg.Browser.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(b.cfg.Browser.UserAgent))
	}
	if b.cfg.Browser.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(b.cfg.Browser.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, opts...)
	browserCtx, browserCancel := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(format string, args ...interface{}) {
		log.Debug().Msgf(format, args...)
	}))

	// Run without actions only launches the browser.
	if err := chromedp.Run(browserCtx); err != nil {
		browserCancel()
		allocCancel()
		return nil, fmt.Errorf("launch browser: %w", err)
	}
	log.Debug().Msg("browser session opened")

	return &chromeSession{
		cfg:           b.cfg,
		browserCtx:    browserCtx,
		browserCancel: browserCancel,
		allocCancel:   allocCancel,
	}, nil
}

// Ready reports whether a Chrome executable can be found.
func (b *ChromeBrowser) Ready() error {
	if p := b.cfg.Browser.ExecPath; p != "" {
		if _, err := os.Stat(p); err != nil {
			return fmt.Errorf("browser executable %s: %w", p, err)
		}
		return nil
	}
	for _, name := range execNames {
		if _, err := exec.LookPath(name); err == nil {
			return nil
		}
	}
	return errors.New("no chrome executable found in PATH")
}

// execNames mirrors the names chromedp probes when no ExecPath is given.
var execNames = []string{
	"headless_shell",
	"headless-shell",
	"chromium",
	"chromium-browser",
	"google-chrome",
	"google-chrome-stable",
	"google-chrome-beta",
	"google-chrome-unstable",
	"/Applications/Google Chrome.app/Contents/MacOS/Google Chrome",
	"/usr/bin/google-chrome",
}

type chromeSession struct {
	cfg           Config
	browserCtx    context.Context
	browserCancel context.CancelFunc
	allocCancel   context.CancelFunc
	closeOnce     sync.Once
}

// Fetch loads url in a new tab of the session's browser.
func (s *chromeSession) Fetch(ctx context.Context, url string) []Record {
	log := logger.FromContext(ctx).With().Str("url", url).Logger()
	start := time.Now()

	tabCtx, cancelTab := chromedp.NewContext(s.browserCtx)
	defer cancelTab()
	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, s.cfg.Run.PageTimeout)
	defer cancelTimeout()

	// The tab hangs off the browser context; tie it to the caller as well.
	stop := context.AfterFunc(ctx, cancelTab)
	defer stop()

	idle := newIdleWatcher()
	chromedp.ListenTarget(tabCtx, idle.listen)

	var html string
	if err := chromedp.Run(tabCtx, s.pageActions(url, idle, &html)); err != nil {
		log.Warn().Err(err).Dur("elapsed", time.Since(start)).Msg("page fetch failed")
		return nil
	}

	records, err := Extract(html, s.cfg.Schema)
	if err != nil {
		log.Warn().Err(err).Msg("extraction failed")
		return nil
	}
	log.Debug().Int("records", len(records)).Dur("elapsed", time.Since(start)).Msg("page fetched")
	return records
}

func (s *chromeSession) pageActions(url string, idle *idleWatcher, html *string) chromedp.Tasks {
	tasks := chromedp.Tasks{
		page.SetLifecycleEventsEnabled(true),
		chromedp.EmulateViewport(s.cfg.Browser.ViewportWidth, s.cfg.Browser.ViewportHeight),
	}
	if !s.cfg.Browser.JavaScriptEnabled {
		tasks = append(tasks, emulation.SetScriptExecutionDisabled(true))
	}
	if s.cfg.Run.BypassCache {
		tasks = append(tasks, network.Enable(), network.SetCacheDisabled(true))
	}
	switch s.cfg.Run.WaitUntil {
	case WaitNetworkIdle:
		tasks = append(tasks, idle.track(), chromedp.Navigate(url), idle.wait())
	default:
		// Navigate returns once the load event has fired.
		tasks = append(tasks, chromedp.Navigate(url))
	}
	if s.cfg.Run.WaitFor != "" {
		tasks = append(tasks, chromedp.WaitReady(s.cfg.Run.WaitFor, chromedp.ByQuery))
	}
	return append(tasks, chromedp.OuterHTML("html", html, chromedp.ByQuery))
}

// Close stops the browser. Safe to call more than once.
func (s *chromeSession) Close() {
	s.closeOnce.Do(func() {
		if err := chromedp.Cancel(s.browserCtx); err != nil && !errors.Is(err, context.Canceled) {
			logger.L().Debug().Err(err).Msg("browser close")
		}
		s.browserCancel()
		s.allocCancel()
	})
}

// idleWatcher turns the page lifecycle "networkIdle" event of the current
// navigation into an action that blocks until the network has been quiet.
//
// Enabling lifecycle events replays the events of the document already in
// the tab (about:blank). Every "init" event starts a new document, so it
// clears any pending signal, and "networkIdle" only counts once an "init"
// has been seen. Events from other frames are ignored once the main frame
// is known.
type idleWatcher struct {
	idle chan struct{}

	mu      sync.Mutex
	frame   cdp.FrameID
	started bool
}

func newIdleWatcher() *idleWatcher {
	return &idleWatcher{idle: make(chan struct{}, 1)}
}

func (w *idleWatcher) listen(ev interface{}) {
	e, ok := ev.(*page.EventLifecycleEvent)
	if !ok {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.frame != "" && e.FrameID != w.frame {
		return
	}
	switch e.Name {
	case "init":
		w.started = true
		select {
		case <-w.idle:
		default:
		}
	case "networkIdle":
		if !w.started {
			return
		}
		select {
		case w.idle <- struct{}{}:
		default:
		}
	}
}

// track restricts the watcher to the tab's main frame, whose ID is the
// target ID.
func (w *idleWatcher) track() chromedp.ActionFunc {
	return func(ctx context.Context) error {
		c := chromedp.FromContext(ctx)
		if c == nil || c.Target == nil {
			return nil
		}
		w.mu.Lock()
		w.frame = cdp.FrameID(c.Target.TargetID)
		w.mu.Unlock()
		return nil
	}
}

func (w *idleWatcher) wait() chromedp.ActionFunc {
	return func(ctx context.Context) error {
		select {
		case <-w.idle:
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

package scrape

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/chromedp/cdproto/browser"
	"github.com/chromedp/chromedp"
)

// Driver is the page-automation capability the workflow runs against. The
// production implementation is Session; tests substitute a fake.
type Driver interface {
	// Navigate issues a page load. Returning does not mean the page content
	// is ready, only that the load started.
	Navigate(url string) error
	// WaitVisible blocks until an element matching the selector is visible
	// or the timeout elapses, in which case it fails with ErrElementNotFound.
	WaitVisible(selector string, timeout time.Duration) error
	// PageSource returns the serialized DOM of the current document.
	PageSource() (string, error)
	// CurrentURL returns the browser's current address, including whatever
	// query parameters the site itself appended after the last navigation.
	CurrentURL() (string, error)
	// Click locates an element and clicks it. Fails with ErrElementNotFound
	// if absent, ErrStaleElement if the node detached in between.
	Click(selector string) error
	// Sleep pauses the workflow. On the Driver so fakes can skip it.
	Sleep(d time.Duration)
	// Close tears the browser session down. Idempotent, safe after errors.
	Close() error
}

// SessionConfig configures the Chrome session for one batch run.
type SessionConfig struct {
	// Headless hides the browser window. Default on; turn off to watch the
	// run for debugging.
	Headless bool

	// DownloadDir is where the site's CSV exports land. The browser is told
	// to auto-save there without a file picker prompt.
	DownloadDir string

	// ExtensionDir optionally points at an unpacked ad-blocking extension.
	// The log viewer loads a lot of ad clutter; blocking it keeps the
	// selector waits fast and the export buttons unobscured.
	ExtensionDir string

	// BatchDeadline bounds the whole run. Zero means no deadline.
	BatchDeadline time.Duration
}

// Session owns one Chrome instance for the lifetime of a batch run and
// implements Driver over chromedp.
type Session struct {
	ctx         context.Context
	cancelAlloc context.CancelFunc
	cancelCtx   context.CancelFunc
	closeOnce   sync.Once
}

// NewSession launches Chrome and prepares it for unattended CSV downloads.
// The caller must Close the session; the orchestrator does this exactly
// once per run.
func NewSession(cfg SessionConfig) (*Session, error) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.DisableGPU,
		chromedp.NoSandbox,
		chromedp.WindowSize(1920, 1080),
		chromedp.Flag("headless", cfg.Headless),
	)
	if cfg.ExtensionDir != "" {
		opts = append(opts,
			chromedp.Flag("load-extension", cfg.ExtensionDir),
			chromedp.Flag("disable-extensions-except", cfg.ExtensionDir),
		)
	}

	parent := context.Background()
	var cancelDeadline context.CancelFunc
	if cfg.BatchDeadline > 0 {
		parent, cancelDeadline = context.WithTimeout(parent, cfg.BatchDeadline)
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(parent, opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx)

	s := &Session{
		ctx:       ctx,
		cancelCtx: cancelCtx,
		cancelAlloc: func() {
			cancelAlloc()
			if cancelDeadline != nil {
				cancelDeadline()
			}
		},
	}

	// The first Run starts the browser process. Wiring the download
	// behavior here means a broken Chrome install fails construction
	// instead of the first log.
	err := chromedp.Run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		return browser.SetDownloadBehavior(browser.SetDownloadBehaviorBehaviorAllow).
			WithDownloadPath(cfg.DownloadDir).
			WithEventsEnabled(true).
			Do(ctx)
	}))
	if err != nil {
		s.Close()
		return nil, fmt.Errorf("start browser session: %w", err)
	}

	log.Debug("browser session started", "headless", cfg.Headless, "downloads", cfg.DownloadDir)
	return s, nil
}

func (s *Session) Navigate(url string) error {
	if err := chromedp.Run(s.ctx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate to %s: %w", url, err)
	}
	return nil
}

func (s *Session) WaitVisible(selector string, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(s.ctx, timeout)
	defer cancel()
	err := chromedp.Run(ctx, chromedp.WaitVisible(selector, chromedp.ByQuery))
	return classifyDriverErr("wait for", selector, err)
}

func (s *Session) PageSource() (string, error) {
	var html string
	if err := chromedp.Run(s.ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read page source: %w", err)
	}
	return html, nil
}

func (s *Session) CurrentURL() (string, error) {
	var url string
	if err := chromedp.Run(s.ctx, chromedp.Location(&url)); err != nil {
		return "", fmt.Errorf("read current url: %w", err)
	}
	return url, nil
}

func (s *Session) Click(selector string) error {
	err := chromedp.Run(s.ctx, chromedp.Click(selector, chromedp.ByQuery))
	return classifyDriverErr("click", selector, err)
}

func (s *Session) Sleep(d time.Duration) {
	if d <= 0 {
		return
	}
	select {
	case <-time.After(d):
	case <-s.ctx.Done():
	}
}

// Close shuts the browser down. Further calls are no-ops.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.cancelCtx()
		s.cancelAlloc()
		log.Debug("browser session closed")
	})
	return nil
}

package scrape

import (
	"fmt"
	"time"

	"github.com/charmbracelet/log"
)

// compositionTableSelector marks the summary page's composition table; its
// presence means the asynchronous page content has rendered.
const compositionTableSelector = "table.composition-table"

// siteRoot is the log viewer's landing page, visited only to clear the
// first-visit consent popup on fresh browser profiles.
const siteRoot = "https://www.fflogs.com/"

// consentButtonSelector is the accept button of the consent popup.
const consentButtonSelector = "#onetrust-accept-btn-handler"

// Config holds the per-run settings of a batch.
type Config struct {
	// Logs are the log-viewer URLs to export, processed in order.
	Logs []string

	// Encounters filters the summary view to all encounters, kills only or
	// wipes only. Fixed for the whole run.
	Encounters EncounterFilter

	// ElementTimeout bounds every wait for a page element.
	ElementTimeout time.Duration

	// SettleDelay runs before the healing view's export wait.
	SettleDelay time.Duration

	// RetryAttempts bounds interaction retries on stale references.
	RetryAttempts int

	// AcceptPopup visits the site root first and clears the consent popup.
	// Only needed on fresh browser profiles.
	AcceptPopup bool
}

func (c *Config) defaults() {
	if c.ElementTimeout <= 0 {
		c.ElementTimeout = 10 * time.Second
	}
	if c.SettleDelay <= 0 {
		c.SettleDelay = defaultSettleDelay
	}
	if c.RetryAttempts <= 0 {
		c.RetryAttempts = 2
	}
}

// LogResult records what happened to one log of the batch.
type LogResult struct {
	URL     string
	Skipped bool
	Reason  string
}

// RunReport summarizes a completed batch run.
type RunReport struct {
	Processed int
	Skipped   int
	Results   []LogResult
	Elapsed   time.Duration
}

// Scraper walks every log of a batch through the summary, damage-done and
// healing-done views, exporting CSVs for logs whose group composition
// matches the batch reference.
type Scraper struct {
	cfg       Config
	drv       Driver
	rep       Reporter
	validator Validator
}

// New builds a Scraper over an already-started driver. The scraper takes
// ownership of the driver: Run closes it exactly once, on every path.
func New(cfg Config, drv Driver, rep Reporter) *Scraper {
	cfg.defaults()
	if rep == nil {
		rep = NopReporter{}
	}
	return &Scraper{cfg: cfg, drv: drv, rep: rep}
}

// Run processes the whole batch sequentially. A composition mismatch skips
// the log and continues; a missing page element aborts the run. The browser
// session is closed before Run returns, whatever happens.
func (s *Scraper) Run() (RunReport, error) {
	start := time.Now()
	report := RunReport{}
	defer s.drv.Close()

	s.rep.BatchStarted(len(s.cfg.Logs))

	if s.cfg.AcceptPopup && len(s.cfg.Logs) > 0 {
		s.acceptConsentPopup()
	}

	total := len(s.cfg.Logs)
	for i, logURL := range s.cfg.Logs {
		s.rep.LogStarted(i+1, total, logURL)

		s.rep.StageChanged(i+1, logURL, "summary")
		comp, err := s.visitSummary(logURL)
		if err != nil {
			s.rep.Error(logURL, err)
			report.Elapsed = time.Since(start)
			return report, err
		}

		s.rep.StageChanged(i+1, logURL, "validate")
		if !s.validator.Check(comp) {
			reason := fmt.Sprintf("composition mismatch: have [%s], want [%s]",
				comp, s.validator.Reference())
			s.rep.LogSkipped(i+1, logURL, reason)
			report.Skipped++
			report.Results = append(report.Results, LogResult{URL: logURL, Skipped: true, Reason: reason})
			continue
		}

		s.rep.StageChanged(i+1, logURL, "damage")
		if err := s.exportDamage(); err != nil {
			s.rep.Error(logURL, err)
			report.Elapsed = time.Since(start)
			return report, err
		}
		s.rep.StageChanged(i+1, logURL, "healing")
		if err := s.exportHealing(); err != nil {
			s.rep.Error(logURL, err)
			report.Elapsed = time.Since(start)
			return report, err
		}

		s.rep.LogFinished(i+1, total, logURL)
		report.Processed++
		report.Results = append(report.Results, LogResult{URL: logURL})
	}

	// Give in-flight downloads a moment to land before the session goes.
	if report.Processed > 0 {
		s.drv.Sleep(s.cfg.SettleDelay)
	}

	report.Elapsed = time.Since(start)
	s.rep.BatchFinished(report)
	return report, nil
}

// Reference exposes the batch's reference composition once the first log
// has been accepted.
func (s *Scraper) Reference() Composition {
	return s.validator.Reference()
}

// visitSummary opens the log's all-encounters summary, waits for the
// composition table to render and extracts the group composition.
func (s *Scraper) visitSummary(logURL string) (Composition, error) {
	if err := s.drv.Navigate(SummaryURL(logURL, s.cfg.Encounters)); err != nil {
		return nil, err
	}
	if err := s.drv.WaitVisible(compositionTableSelector, s.cfg.ElementTimeout); err != nil {
		return nil, err
	}
	html, err := s.drv.PageSource()
	if err != nil {
		return nil, err
	}
	return ExtractComposition(html)
}

// acceptConsentPopup clears the first-visit popup. Best effort: an already
// accepted profile has no popup, and a missed click surfaces later as an
// obscured export button anyway.
func (s *Scraper) acceptConsentPopup() {
	if err := s.drv.Navigate(siteRoot); err != nil {
		log.Debug("consent popup: navigation failed", "err", err)
		return
	}
	if err := s.drv.WaitVisible(consentButtonSelector, s.cfg.ElementTimeout); err != nil {
		log.Debug("consent popup not present", "err", err)
		return
	}
	if err := s.drv.Click(consentButtonSelector); err != nil {
		log.Debug("consent popup: click failed", "err", err)
	}
}

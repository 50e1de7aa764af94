package scrape

import (
	"fmt"
	"net/url"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/log"
)

// Reporter receives progress notifications from a batch run. All calls
// happen on the orchestrator's single flow of control.
type Reporter interface {
	BatchStarted(total int)
	LogStarted(index, total int, logURL string)
	// StageChanged fires on every page-view transition of the current log;
	// stage is one of "summary", "validate", "damage", "healing".
	StageChanged(index int, logURL, stage string)
	LogSkipped(index int, logURL, reason string)
	LogFinished(index, total int, logURL string)
	BatchFinished(report RunReport)
	Error(logURL string, err error)
}

// NopReporter discards all progress notifications.
type NopReporter struct{}

func (NopReporter) BatchStarted(int)                 {}
func (NopReporter) LogStarted(int, int, string)      {}
func (NopReporter) StageChanged(int, string, string) {}
func (NopReporter) LogSkipped(int, string, string)   {}
func (NopReporter) LogFinished(int, int, string)     {}
func (NopReporter) BatchFinished(RunReport)          {}
func (NopReporter) Error(string, error)              {}

// PlainReporter prints per-log progress to the terminal with a spinner while
// a log is being walked through its page views.
type PlainReporter struct {
	spin *spinner.Spinner
}

func NewPlainReporter() *PlainReporter {
	return &PlainReporter{
		spin: spinner.New(spinner.CharSets[9], 100*time.Millisecond),
	}
}

func (r *PlainReporter) BatchStarted(total int) {
	log.Info("beginning batch", "logs", total)
}

func (r *PlainReporter) LogStarted(index, total int, logURL string) {
	r.spin.Suffix = fmt.Sprintf(" beginning log %d/%d: %s", index, total, formatLogURL(logURL))
	r.spin.Start()
}

func (r *PlainReporter) StageChanged(index int, logURL, stage string) {
	r.spin.Suffix = fmt.Sprintf(" log %d (%s): %s", index, stage, formatLogURL(logURL))
}

func (r *PlainReporter) LogSkipped(index int, logURL, reason string) {
	r.spin.Stop()
	log.Warn("log will be left out", "log", index, "url", formatLogURL(logURL), "reason", reason)
}

func (r *PlainReporter) LogFinished(index, total int, logURL string) {
	r.spin.Stop()
	log.Info(fmt.Sprintf("log %d/%d finished", index, total), "url", formatLogURL(logURL))
}

func (r *PlainReporter) BatchFinished(report RunReport) {
	r.spin.Stop()
	log.Info("batch finished",
		"processed", report.Processed,
		"skipped", report.Skipped,
		"elapsed", report.Elapsed.Round(time.Millisecond))
}

func (r *PlainReporter) Error(logURL string, err error) {
	r.spin.Stop()
	log.Error("batch aborted", "url", formatLogURL(logURL), "err", err)
}

// formatLogURL truncates long log addresses for terminal output, keeping the
// host and the tail of the path.
func formatLogURL(raw string) string {
	const maxLen = 48
	if len(raw) <= maxLen {
		return raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "..." + raw[len(raw)-maxLen:]
	}
	host := u.Host
	path := u.Path
	if len(path) > maxLen-len(host)-3 {
		path = "..." + path[len(path)-(maxLen-len(host)-3):]
	}
	return host + path
}

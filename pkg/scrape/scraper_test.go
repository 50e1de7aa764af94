package scrape

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeDriver scripts a browser session in memory. Page sources are keyed by
// URL; per-selector error queues let tests inject wait and click failures.
type fakeDriver struct {
	pages     map[string]string
	waitErrs  map[string][]error
	clickErrs map[string][]error

	navigations  []string
	waits        []string
	waitTimeouts []time.Duration
	clicks       []string
	sleeps       int
	closeCalls   int
	currentURL   string
}

func newFakeDriver() *fakeDriver {
	return &fakeDriver{
		pages:     map[string]string{},
		waitErrs:  map[string][]error{},
		clickErrs: map[string][]error{},
	}
}

func (d *fakeDriver) Navigate(url string) error {
	d.navigations = append(d.navigations, url)
	d.currentURL = url
	return nil
}

func (d *fakeDriver) WaitVisible(selector string, timeout time.Duration) error {
	d.waits = append(d.waits, selector)
	d.waitTimeouts = append(d.waitTimeouts, timeout)
	return d.pop(d.waitErrs, selector)
}

func (d *fakeDriver) PageSource() (string, error) {
	return d.pages[d.currentURL], nil
}

func (d *fakeDriver) CurrentURL() (string, error) {
	return d.currentURL, nil
}

func (d *fakeDriver) Click(selector string) error {
	d.clicks = append(d.clicks, selector)
	return d.pop(d.clickErrs, selector)
}

func (d *fakeDriver) Sleep(time.Duration) {
	d.sleeps++
}

func (d *fakeDriver) Close() error {
	d.closeCalls++
	return nil
}

func (d *fakeDriver) pop(queues map[string][]error, selector string) error {
	q := queues[selector]
	if len(q) == 0 {
		return nil
	}
	queues[selector] = q[1:]
	return q[0]
}

// serveSummary registers a summary page for a log whose composition table
// holds the given jobs.
func (d *fakeDriver) serveSummary(logURL string, filter EncounterFilter, jobs ...string) {
	var b strings.Builder
	b.WriteString(`<table class="composition-table"><tr><td>`)
	for _, job := range jobs {
		fmt.Fprintf(&b, `<div class="composition-entry">%q</div>`, job)
	}
	b.WriteString(`</td></tr></table>`)
	d.pages[SummaryURL(logURL, filter)] = b.String()
}

// recordReporter captures the reporter call sequence for assertions.
type recordReporter struct {
	events   []string
	skipped  []string
	finished bool
	errs     []error
}

func (r *recordReporter) BatchStarted(total int) {
	r.events = append(r.events, fmt.Sprintf("start %d", total))
}

func (r *recordReporter) LogStarted(index, total int, logURL string) {
	r.events = append(r.events, fmt.Sprintf("log %d/%d", index, total))
}

func (r *recordReporter) StageChanged(index int, logURL, stage string) {
	r.events = append(r.events, "stage "+stage)
}

func (r *recordReporter) LogSkipped(index int, logURL, reason string) {
	r.events = append(r.events, "skip")
	r.skipped = append(r.skipped, reason)
}

func (r *recordReporter) LogFinished(index, total int, logURL string) {
	r.events = append(r.events, "done")
}

func (r *recordReporter) BatchFinished(report RunReport) {
	r.finished = true
}

func (r *recordReporter) Error(logURL string, err error) {
	r.errs = append(r.errs, err)
}

const (
	logA = "https://www.fflogs.com/reports/aaaaaaaa"
	logB = "https://www.fflogs.com/reports/bbbbbbbb"
	logC = "https://www.fflogs.com/reports/cccccccc"
)

func TestScraperRunExportsEveryLog(t *testing.T) {
	drv := newFakeDriver()
	drv.serveSummary(logA, FilterAll, "Warrior", "WhiteMage")
	drv.serveSummary(logB, FilterAll, "WhiteMage", "Warrior")

	rep := &recordReporter{}
	s := New(Config{Logs: []string{logA, logB}}, drv, rep)

	report, err := s.Run()
	require.NoError(t, err)

	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 0, report.Skipped)
	assert.Len(t, report.Results, 2)
	assert.True(t, rep.finished)
	assert.Equal(t, 1, drv.closeCalls)

	// Summary, damage and healing navigation per log, in order.
	assert.Equal(t, []string{
		SummaryURL(logA, FilterAll),
		DamageURL(SummaryURL(logA, FilterAll)),
		HealingURL(DamageURL(SummaryURL(logA, FilterAll))),
		SummaryURL(logB, FilterAll),
		DamageURL(SummaryURL(logB, FilterAll)),
		HealingURL(DamageURL(SummaryURL(logB, FilterAll))),
	}, drv.navigations)

	// One export click on the damage view and one on healing, per log.
	assert.Equal(t, 4, len(drv.clicks))
}

func TestScraperSkipsMismatchedComposition(t *testing.T) {
	drv := newFakeDriver()
	group := []string{"Paladin", "Paladin", "Warrior", "Warrior", "WhiteMage", "WhiteMage", "Scholar", "BlackMage"}
	drv.serveSummary(logA, FilterAll, group...)
	// One token differs: a Scholar swapped for a Sage.
	drv.serveSummary(logB, FilterAll, "Paladin", "Paladin", "Warrior", "Warrior", "WhiteMage", "WhiteMage", "Sage", "BlackMage")
	// Same multiset as the reference, different order.
	drv.serveSummary(logC, FilterAll, "BlackMage", "Scholar", "WhiteMage", "WhiteMage", "Warrior", "Warrior", "Paladin", "Paladin")

	rep := &recordReporter{}
	s := New(Config{Logs: []string{logA, logB, logC}}, drv, rep)

	report, err := s.Run()
	require.NoError(t, err)

	assert.Equal(t, 2, report.Processed)
	assert.Equal(t, 1, report.Skipped)
	require.Len(t, report.Results, 3)
	assert.True(t, report.Results[1].Skipped)
	assert.Contains(t, report.Results[1].Reason, "composition mismatch")

	// The mismatched log never reaches the export views.
	assert.NotContains(t, drv.navigations, DamageURL(SummaryURL(logB, FilterAll)))
	require.Len(t, rep.skipped, 1)
	assert.Contains(t, rep.skipped[0], "Sage")

	// A later matching log is still exported against the original reference.
	assert.Equal(t, Composition(group), s.Reference())
}

func TestScraperAbortsWhenSummaryNeverRenders(t *testing.T) {
	drv := newFakeDriver()
	drv.serveSummary(logA, FilterAll, "Warrior")
	drv.waitErrs[compositionTableSelector] = []error{
		nil,
		fmt.Errorf("wait %q: %w", compositionTableSelector, ErrElementNotFound),
	}

	rep := &recordReporter{}
	s := New(Config{Logs: []string{logA, logB}}, drv, rep)

	report, err := s.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrElementNotFound)

	assert.Equal(t, 1, report.Processed)
	assert.False(t, rep.finished)
	require.Len(t, rep.errs, 1)
	assert.ErrorIs(t, rep.errs[0], ErrElementNotFound)

	// The session is closed even on the failure path.
	assert.Equal(t, 1, drv.closeCalls)
}

func TestScraperAbortsWhenExportButtonMissing(t *testing.T) {
	drv := newFakeDriver()
	drv.serveSummary(logA, FilterAll, "Warrior")
	drv.waitErrs[csvButtonSelector] = []error{
		fmt.Errorf("wait %q: %w", csvButtonSelector, ErrElementNotFound),
	}

	s := New(Config{Logs: []string{logA}}, drv, &recordReporter{})

	_, err := s.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrElementNotFound)
	assert.Equal(t, 1, drv.closeCalls)
	assert.Empty(t, drv.clicks)
}

func TestScraperRetriesStaleExportClick(t *testing.T) {
	drv := newFakeDriver()
	drv.serveSummary(logA, FilterAll, "Warrior")
	drv.clickErrs[csvButtonSelector] = []error{
		fmt.Errorf("click %q: %w", csvButtonSelector, ErrStaleElement),
	}

	s := New(Config{Logs: []string{logA}}, drv, nil)

	report, err := s.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)

	// Damage view: stale click plus retry. Healing view: one clean click.
	assert.Equal(t, 3, len(drv.clicks))
}

func TestScraperClosesOnceWhereverTheRunFails(t *testing.T) {
	// A missing export control on the healing view fails after the damage
	// export already succeeded.
	drv := newFakeDriver()
	drv.serveSummary(logA, FilterAll, "Warrior")
	drv.waitErrs[csvButtonSelector] = []error{
		nil,
		fmt.Errorf("wait %q: %w", csvButtonSelector, ErrElementNotFound),
	}

	s := New(Config{Logs: []string{logA}}, drv, &recordReporter{})

	report, err := s.Run()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrElementNotFound)
	assert.Equal(t, 0, report.Processed)
	assert.Equal(t, 1, drv.closeCalls)
	assert.Equal(t, 1, len(drv.clicks))
}

func TestScraperEmptyBatch(t *testing.T) {
	drv := newFakeDriver()
	rep := &recordReporter{}
	s := New(Config{}, drv, rep)

	report, err := s.Run()
	require.NoError(t, err)

	assert.Equal(t, 0, report.Processed)
	assert.Empty(t, drv.navigations)
	assert.Equal(t, 0, drv.sleeps)
	assert.Equal(t, 1, drv.closeCalls)
	assert.True(t, rep.finished)
}

func TestScraperConsentPopupWaitUsesElementTimeout(t *testing.T) {
	drv := newFakeDriver()
	drv.serveSummary(logA, FilterAll, "Warrior")

	s := New(Config{
		Logs:           []string{logA},
		ElementTimeout: 25 * time.Second,
		AcceptPopup:    true,
	}, drv, nil)

	_, err := s.Run()
	require.NoError(t, err)

	// The consent accept runs first, against the site root, with the same
	// wait budget as every other element.
	require.NotEmpty(t, drv.navigations)
	assert.Equal(t, siteRoot, drv.navigations[0])
	require.NotEmpty(t, drv.waits)
	assert.Equal(t, consentButtonSelector, drv.waits[0])
	assert.Equal(t, 25*time.Second, drv.waitTimeouts[0])
}

func TestScraperNilReporter(t *testing.T) {
	drv := newFakeDriver()
	drv.serveSummary(logA, FilterAll, "Warrior")

	s := New(Config{Logs: []string{logA}}, drv, nil)
	report, err := s.Run()
	require.NoError(t, err)
	assert.Equal(t, 1, report.Processed)
}

func TestScraperStopsRetryOnRepeatedStale(t *testing.T) {
	drv := newFakeDriver()
	drv.serveSummary(logA, FilterAll, "Warrior")
	stale := fmt.Errorf("click %q: %w", csvButtonSelector, ErrStaleElement)
	drv.clickErrs[csvButtonSelector] = []error{stale, stale}

	s := New(Config{Logs: []string{logA}, RetryAttempts: 2}, drv, &recordReporter{})

	_, err := s.Run()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrStaleElement))
	assert.Equal(t, 1, drv.closeCalls)
}

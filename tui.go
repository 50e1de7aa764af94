package main

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/go-scripts/fflogs-export/pkg/scrape"
	"github.com/go-scripts/fflogs-export/ui"
)

// Message types
type batchStartedMsg struct{ total int }
type logStartedMsg struct {
	index, total int
	url          string
}
type stageChangedMsg struct {
	index int
	url   string
	stage string
}
type logSkippedMsg struct {
	index  int
	url    string
	reason string
}
type logFinishedMsg struct {
	index, total int
	url          string
}
type batchFinishedMsg struct{ report scrape.RunReport }
type batchErrorMsg struct {
	url string
	err error
}

// Stats ticker message
type statsTickMsg struct{}

// teaReporter forwards scraper progress into the running program.
type teaReporter struct {
	p *tea.Program
}

func (r *teaReporter) BatchStarted(total int) {
	r.p.Send(batchStartedMsg{total: total})
}

func (r *teaReporter) LogStarted(index, total int, logURL string) {
	r.p.Send(logStartedMsg{index: index, total: total, url: logURL})
}

func (r *teaReporter) StageChanged(index int, logURL, stage string) {
	r.p.Send(stageChangedMsg{index: index, url: logURL, stage: stage})
}

func (r *teaReporter) LogSkipped(index int, logURL, reason string) {
	r.p.Send(logSkippedMsg{index: index, url: logURL, reason: reason})
}

func (r *teaReporter) LogFinished(index, total int, logURL string) {
	r.p.Send(logFinishedMsg{index: index, total: total, url: logURL})
}

func (r *teaReporter) BatchFinished(report scrape.RunReport) {
	r.p.Send(batchFinishedMsg{report: report})
}

func (r *teaReporter) Error(logURL string, err error) {
	r.p.Send(batchErrorMsg{url: logURL, err: err})
}

// Base model structure
type model struct {
	layout *ui.Layout
	stats  ui.BatchStats
	start  func() (scrape.RunReport, error)
	done   bool
	err    error
}

func newModel(logs []string, start func() (scrape.RunReport, error)) model {
	layout := ui.NewLayout()
	layout.SetLogs(logs)
	return model{
		layout: layout,
		start:  start,
		stats:  ui.BatchStats{TotalLogs: len(logs)},
	}
}

// Init starts the batch in the background and the stats ticker.
func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.layout.Init(),
		func() tea.Msg {
			// Progress, including the final outcome, arrives through the
			// reporter; the return values here would duplicate it.
			m.start()
			return nil
		},
		tea.Every(time.Second, func(time.Time) tea.Msg {
			return statsTickMsg{}
		}),
	)
}

// Update handles all the updates and state transitions
func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case statsTickMsg:
		m.layout.UpdateStats(m.stats)
		cmds = append(cmds, tea.Every(time.Second, func(time.Time) tea.Msg {
			return statsTickMsg{}
		}))

	case tea.WindowSizeMsg:
		m.layout.SetSize(msg.Width, msg.Height)

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		}

	case batchStartedMsg:
		m.stats.TotalLogs = msg.total
		m.stats.StartTime = time.Now()
		m.layout.AddInfo(fmt.Sprintf("Batch started: %d logs", msg.total))

	case logStartedMsg:
		m.stats.CurrentLog = msg.index
		m.stats.CurrentURL = msg.url
		m.layout.SetLogStatus(msg.url, "processing")
		m.layout.ResetStages()
		m.layout.AddInfo(fmt.Sprintf("Beginning log %d/%d: %s", msg.index, msg.total, msg.url))

	case stageChangedMsg:
		m.layout.SetStage(uiStage(msg.stage))

	case logSkippedMsg:
		m.stats.SkippedLogs++
		m.layout.SetLogStatus(msg.url, "skipped")
		m.layout.AddWarning(fmt.Sprintf("Log %d left out: %s", msg.index, msg.reason))
		m.layout.AddResult(ui.ExportResult{
			Log:    msg.url,
			View:   "-",
			Status: "skipped",
			Reason: msg.reason,
		})
		m.layout.UpdateStats(m.stats)

	case logFinishedMsg:
		m.stats.ProcessedLogs++
		m.layout.SetLogStatus(msg.url, "exported")
		m.layout.CompleteStages()
		m.layout.AddInfo(fmt.Sprintf("Log %d/%d finished", msg.index, msg.total))
		m.layout.AddResult(ui.ExportResult{Log: msg.url, View: "damage-done", Status: "exported"})
		m.layout.AddResult(ui.ExportResult{Log: msg.url, View: "healing", Status: "exported"})
		m.layout.UpdateStats(m.stats)

	case batchFinishedMsg:
		m.done = true
		m.layout.AddInfo(fmt.Sprintf(
			"Batch finished: %d exported, %d skipped, %s elapsed. Press q to quit.",
			msg.report.Processed,
			msg.report.Skipped,
			msg.report.Elapsed.Round(time.Millisecond)))

	case batchErrorMsg:
		m.done = true
		m.err = msg.err
		m.layout.AddError(fmt.Sprintf("Batch aborted at %s: %v", msg.url, msg.err))
	}

	layoutModel, layoutCmd := m.layout.Update(msg)
	if updatedLayout, ok := layoutModel.(*ui.Layout); ok {
		m.layout = updatedLayout
	}
	cmds = append(cmds, layoutCmd)

	return m, tea.Batch(cmds...)
}

// View returns a string representation of the UI
func (m model) View() string {
	return m.layout.View()
}

// uiStage maps the reporter's stage names onto the stage grid.
func uiStage(stage string) ui.Stage {
	switch stage {
	case "validate":
		return ui.StageValidate
	case "damage":
		return ui.StageDamage
	case "healing":
		return ui.StageHealing
	default:
		return ui.StageSummary
	}
}

// runTUI drives the batch under the interactive dashboard.
func runTUI(cfg scrape.Config, drv scrape.Driver) error {
	reporter := &teaReporter{}
	scraper := scrape.New(cfg, drv, reporter)

	m := newModel(cfg.Logs, scraper.Run)
	p := tea.NewProgram(m, tea.WithAltScreen())
	reporter.p = p

	final, err := p.Run()
	if err != nil {
		return err
	}
	if fm, ok := final.(model); ok && fm.err != nil {
		return fm.err
	}
	return nil
}

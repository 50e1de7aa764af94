package ui

import (
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Base component interface
type Component interface {
	Init() tea.Cmd
	Update(tea.Msg) (Component, tea.Cmd)
	View() string
	SetSize(width, height int)
}

// Define common styles
var (
	borderStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			PaddingLeft(1)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("110"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// StagePanel shows the page-view sequence of the log in flight.
type StagePanel struct {
	viewport viewport.Model
	style    lipgloss.Style
	title    string
	width    int
	height   int
	grid     *StageGrid
}

func NewStagePanel() *StagePanel {
	s := &StagePanel{
		title: "Current Log",
		style: borderStyle.Copy().BorderForeground(lipgloss.Color("63")),
		grid:  NewStageGrid(),
	}
	s.viewport = viewport.New(0, 0)
	return s
}

func (s *StagePanel) Init() tea.Cmd {
	return nil
}

func (s *StagePanel) Update(msg tea.Msg) (Component, tea.Cmd) {
	var cmd tea.Cmd
	s.viewport, cmd = s.viewport.Update(msg)
	gridCmd := s.grid.Update(msg)
	return s, tea.Batch(cmd, gridCmd)
}

func (s *StagePanel) View() string {
	content := titleStyle.Render(s.title) + "\n\n" + s.grid.View()
	s.viewport.SetContent(content)
	return s.style.Width(s.width).Height(s.height).Render(s.viewport.View())
}

func (s *StagePanel) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.viewport.Width = width - 4
	s.viewport.Height = height - 4
	s.grid.SetSize(width-4, height-6)
}

// LogPanel wraps the batch's log list.
type LogPanel struct {
	style  lipgloss.Style
	width  int
	height int
	logs   *LogList
}

func NewLogPanel() *LogPanel {
	return &LogPanel{
		style: borderStyle.Copy().BorderForeground(lipgloss.Color("99")),
		logs:  NewLogList(),
	}
}

func (q *LogPanel) Init() tea.Cmd {
	return nil
}

func (q *LogPanel) Update(msg tea.Msg) (Component, tea.Cmd) {
	cmd := q.logs.Update(msg)
	return q, cmd
}

func (q *LogPanel) View() string {
	return q.style.Width(q.width).Height(q.height).Render(q.logs.View())
}

func (q *LogPanel) SetSize(width, height int) {
	q.width = width
	q.height = height
	q.logs.SetSize(width-4, height-4)
}

// ResultsPanel wraps the export results table.
type ResultsPanel struct {
	style  lipgloss.Style
	title  string
	width  int
	height int
	table  *ResultsTable
}

func NewResultsPanel() *ResultsPanel {
	return &ResultsPanel{
		title: "Exports",
		style: borderStyle.Copy().BorderForeground(lipgloss.Color("35")),
		table: NewResultsTable(),
	}
}

func (r *ResultsPanel) Init() tea.Cmd {
	return nil
}

func (r *ResultsPanel) Update(msg tea.Msg) (Component, tea.Cmd) {
	cmd := r.table.Update(msg)
	return r, cmd
}

func (r *ResultsPanel) View() string {
	return r.style.Width(r.width).Height(r.height).Render(r.table.View())
}

func (r *ResultsPanel) SetSize(width, height int) {
	r.width = width
	r.height = height
	r.table.SetSize(width-4, height-4)
}

func (r *ResultsPanel) AddResult(result ExportResult) {
	r.table.AddResult(result)
}

// ErrorPanel wraps the error/warning console.
type ErrorPanel struct {
	style   lipgloss.Style
	title   string
	width   int
	height  int
	console *ErrorConsole
}

func NewErrorPanel() *ErrorPanel {
	return &ErrorPanel{
		title:   "Error/Warning Console",
		style:   borderStyle.Copy().BorderForeground(lipgloss.Color("196")),
		console: NewErrorConsole(),
	}
}

func (e *ErrorPanel) Init() tea.Cmd {
	return nil
}

func (e *ErrorPanel) Update(msg tea.Msg) (Component, tea.Cmd) {
	cmd := e.console.Update(msg)
	return e, cmd
}

func (e *ErrorPanel) View() string {
	return e.style.Width(e.width).Height(e.height).Render(e.console.View())
}

func (e *ErrorPanel) SetSize(width, height int) {
	e.width = width
	e.height = height
	e.console.SetSize(width-4, height-4)
}

// Log message adding methods
func (e *ErrorPanel) AddError(msg string) {
	e.console.AddEntry(LevelError, msg)
}

func (e *ErrorPanel) AddWarning(msg string) {
	e.console.AddEntry(LevelWarning, msg)
}

func (e *ErrorPanel) AddInfo(msg string) {
	e.console.AddEntry(LevelInfo, msg)
}

// Layout manager
type Layout struct {
	stages  Component
	logs    Component
	results Component
	errors  Component
	stats   *StatsPanel // Use concrete type for direct access
	width   int
	height  int
}

// NewLayout creates and initializes a new layout with all panels
func NewLayout() *Layout {
	return &Layout{
		stages:  NewStagePanel(),
		logs:    NewLogPanel(),
		results: NewResultsPanel(),
		errors:  NewErrorPanel(),
		stats:   NewStatsPanel(),
	}
}

// SetSize adjusts the layout and all components to the given dimensions
func (l *Layout) SetSize(width, height int) {
	l.width = width
	l.height = height

	halfWidth := width / 2
	halfHeight := height / 2

	// Stages and stats share the left side
	stageHeight := int(float64(halfHeight) * 0.4)
	statsHeight := halfHeight - stageHeight

	l.stages.SetSize(halfWidth, stageHeight)
	l.stats.SetSize(halfWidth, statsHeight)
	l.logs.SetSize(halfWidth, halfHeight)
	l.results.SetSize(halfWidth, halfHeight)
	l.errors.SetSize(width, height-halfHeight)
}

// Init initializes all panels
func (l *Layout) Init() tea.Cmd {
	return tea.Batch(
		l.stages.Init(),
		l.logs.Init(),
		l.results.Init(),
		l.errors.Init(),
	)
}

// Update processes messages and updates components
func (l *Layout) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		l.SetSize(msg.Width, msg.Height)
	}

	var cmd tea.Cmd
	l.stages, cmd = l.stages.Update(msg)
	cmds = append(cmds, cmd)

	l.logs, cmd = l.logs.Update(msg)
	cmds = append(cmds, cmd)

	l.results, cmd = l.results.Update(msg)
	cmds = append(cmds, cmd)

	l.errors, cmd = l.errors.Update(msg)
	cmds = append(cmds, cmd)

	statsCmd := l.stats.Update(msg)
	cmds = append(cmds, statsCmd)

	return l, tea.Batch(cmds...)
}

// View renders the complete layout
func (l *Layout) View() string {
	leftSide := lipgloss.JoinVertical(
		lipgloss.Left,
		l.stages.View(),
		l.stats.View(),
	)

	topRow := lipgloss.JoinHorizontal(
		lipgloss.Top,
		leftSide,
		l.logs.View(),
	)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		topRow,
		l.results.View(),
		l.errors.View(),
	)
}

// SetLogs fills the log panel with the batch's URLs.
func (l *Layout) SetLogs(urls []string) {
	if lp, ok := l.logs.(*LogPanel); ok {
		lp.logs.SetLogs(urls)
	}
}

// SetLogStatus updates one log's status in the log panel.
func (l *Layout) SetLogStatus(url, status string) {
	if lp, ok := l.logs.(*LogPanel); ok {
		lp.logs.SetStatus(url, status)
	}
}

// SetStage updates the stage grid for the log in flight.
func (l *Layout) SetStage(stage Stage) {
	if sp, ok := l.stages.(*StagePanel); ok {
		sp.grid.SetStage(stage)
	}
}

// ResetStages clears the stage grid between logs.
func (l *Layout) ResetStages() {
	if sp, ok := l.stages.(*StagePanel); ok {
		sp.grid.Reset()
	}
}

// CompleteStages marks the whole page sequence done.
func (l *Layout) CompleteStages() {
	if sp, ok := l.stages.(*StagePanel); ok {
		sp.grid.Complete()
	}
}

// AddResult adds an export result to the results panel
func (l *Layout) AddResult(result ExportResult) {
	if rp, ok := l.results.(*ResultsPanel); ok {
		rp.AddResult(result)
	}
}

// AddError adds an error message to the error console
func (l *Layout) AddError(msg string) {
	if ep, ok := l.errors.(*ErrorPanel); ok {
		ep.AddError(msg)
	}
}

// AddWarning adds a warning message to the error console
func (l *Layout) AddWarning(msg string) {
	if ep, ok := l.errors.(*ErrorPanel); ok {
		ep.AddWarning(msg)
	}
}

// AddInfo adds an info message to the error console
func (l *Layout) AddInfo(msg string) {
	if ep, ok := l.errors.(*ErrorPanel); ok {
		ep.AddInfo(msg)
	}
}

// UpdateStats pushes fresh batch statistics to the stats panel.
func (l *Layout) UpdateStats(stats BatchStats) {
	l.stats.UpdateStats(stats)
}

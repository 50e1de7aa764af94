package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ExportResult represents one exported (or skipped) view of a log.
type ExportResult struct {
	Log    string
	View   string // "damage-done" or "healing"
	Status string // "exported" or "skipped"
	Reason string
}

// ResultsTable manages the export results display
type ResultsTable struct {
	viewport    viewport.Model
	results     []ExportResult
	width       int
	height      int
	headerStyle lipgloss.Style
	cellStyle   lipgloss.Style
	style       lipgloss.Style
}

// NewResultsTable creates a new results table
func NewResultsTable() *ResultsTable {
	t := &ResultsTable{
		results: make([]ExportResult, 0),
		headerStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")),
		cellStyle: lipgloss.NewStyle().
			PaddingLeft(1).
			PaddingRight(1),
		style: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("35")),
	}
	t.viewport = viewport.New(0, 0)
	return t
}

// SetSize updates the table dimensions
func (t *ResultsTable) SetSize(width, height int) {
	t.width = width
	t.height = height
	t.viewport.Width = width - 4
	t.viewport.Height = height - 4
}

// Update handles UI updates
func (t *ResultsTable) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			t.viewport.LineUp(1)
		case "down", "j":
			t.viewport.LineDown(1)
		case "pgup":
			t.viewport.HalfViewUp()
		case "pgdown":
			t.viewport.HalfViewDown()
		}
	}

	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return cmd
}

// View renders the table
func (t *ResultsTable) View() string {
	if len(t.results) == 0 {
		return t.style.Render(infoStyle.Render("No exports yet"))
	}

	logWidth := min(48, t.width/2)

	header := t.headerStyle.Render(fmt.Sprintf(
		"%-*s %-14s %-10s %s",
		logWidth, "Log",
		"View",
		"Status",
		"Reason",
	))

	var rows []string
	for _, result := range t.results {
		row := t.cellStyle.Render(fmt.Sprintf(
			"%-*s %-14s %-10s %s",
			logWidth, truncate(result.Log, logWidth),
			result.View,
			result.Status,
			result.Reason,
		))

		if result.Status == "skipped" {
			row = warningStyle.Render(row)
		}
		rows = append(rows, row)
	}

	content := header + "\n" + strings.Join(rows, "\n")
	t.viewport.SetContent(content)

	stats := fmt.Sprintf(
		"\nTotal: %d | Exported: %d | Skipped: %d",
		len(t.results),
		t.exportedCount(),
		t.skippedCount(),
	)

	return t.style.Width(t.width).Render(
		t.viewport.View() + "\n" + infoStyle.Render(stats),
	)
}

// AddResult adds a new export result
func (t *ResultsTable) AddResult(result ExportResult) {
	t.results = append(t.results, result)
	if t.viewport.AtBottom() {
		t.viewport.GotoBottom()
	}
}

// Helper functions
func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func truncate(s string, w int) string {
	if len(s) <= w {
		return s
	}
	return s[:w-3] + "..."
}

func (t *ResultsTable) exportedCount() int {
	count := 0
	for _, r := range t.results {
		if r.Status == "exported" {
			count++
		}
	}
	return count
}

func (t *ResultsTable) skippedCount() int {
	count := 0
	for _, r := range t.results {
		if r.Status == "skipped" {
			count++
		}
	}
	return count
}

package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// BatchStats holds the running numbers of a batch export.
type BatchStats struct {
	TotalLogs     int
	ProcessedLogs int
	SkippedLogs   int
	CurrentLog    int
	CurrentURL    string
	Reference     []string
	StartTime     time.Time
}

// StatsPanel displays batch statistics and an overall progress bar.
type StatsPanel struct {
	stats      BatchStats
	bar        progress.Model
	width      int
	height     int
	style      lipgloss.Style
	labelStyle lipgloss.Style
	valueStyle lipgloss.Style
}

func NewStatsPanel() *StatsPanel {
	return &StatsPanel{
		bar: progress.New(progress.WithDefaultGradient()),
		style: borderStyle.Copy().
			BorderForeground(lipgloss.Color("99")),
		labelStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Bold(true),
		valueStyle: lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")),
	}
}

func (s *StatsPanel) SetSize(width, height int) {
	s.width = width
	s.height = height
	s.bar.Width = width - 8
}

func (s *StatsPanel) Update(msg tea.Msg) tea.Cmd {
	return nil
}

func (s *StatsPanel) UpdateStats(stats BatchStats) {
	s.stats = stats
}

func (s *StatsPanel) View() string {
	done := s.stats.ProcessedLogs + s.stats.SkippedLogs
	ratio := 0.0
	if s.stats.TotalLogs > 0 {
		ratio = float64(done) / float64(s.stats.TotalLogs)
	}

	elapsed := "00:00"
	if !s.stats.StartTime.IsZero() {
		d := time.Since(s.stats.StartTime)
		elapsed = fmt.Sprintf("%02d:%02d", int(d.Minutes()), int(d.Seconds())%60)
	}

	rows := []struct {
		label string
		value string
	}{
		{"Logs", fmt.Sprintf("%d/%d", done, s.stats.TotalLogs)},
		{"Exported", fmt.Sprintf("%d", s.stats.ProcessedLogs)},
		{"Skipped", fmt.Sprintf("%d", s.stats.SkippedLogs)},
		{"Elapsed", elapsed},
	}

	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Batch Progress") + "\n\n")
	sb.WriteString(s.bar.ViewAs(ratio) + "\n\n")
	for _, row := range rows {
		sb.WriteString(fmt.Sprintf("%s %s\n",
			s.labelStyle.Render(row.label+":"),
			s.valueStyle.Render(row.value)))
	}
	if len(s.stats.Reference) > 0 {
		sb.WriteString(s.labelStyle.Render("Comp:") + " " +
			s.valueStyle.Render(strings.Join(s.stats.Reference, " ")) + "\n")
	}

	return s.style.Width(s.width).Height(s.height).Render(sb.String())
}

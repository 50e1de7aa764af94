package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Stage is one step of the per-log page-view sequence.
type Stage int

const (
	StageSummary Stage = iota
	StageValidate
	StageDamage
	StageHealing
	stageCount
)

func (s Stage) String() string {
	switch s {
	case StageSummary:
		return "summary"
	case StageValidate:
		return "validate"
	case StageDamage:
		return "damage"
	case StageHealing:
		return "healing"
	}
	return "idle"
}

// stageCell tracks the display state of one stage.
type stageCell struct {
	spinner spinner.Model
	active  bool
	started bool
	done    bool
}

// StageGrid visualizes where in the summary→validate→damage→healing
// sequence the current log is.
type StageGrid struct {
	stages []stageCell
	style  lipgloss.Style
	width  int
	height int
}

func NewStageGrid() *StageGrid {
	grid := &StageGrid{
		style:  lipgloss.NewStyle().Border(lipgloss.RoundedBorder()),
		stages: make([]stageCell, stageCount),
	}
	for i := range grid.stages {
		s := spinner.New()
		s.Spinner = spinner.Dot
		s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
		grid.stages[i] = stageCell{spinner: s}
	}
	return grid
}

// SetStage marks the given stage active and everything before it done.
func (g *StageGrid) SetStage(stage Stage) {
	for i := range g.stages {
		g.stages[i].active = Stage(i) == stage
		g.stages[i].done = Stage(i) < stage
		if !g.stages[i].active {
			g.stages[i].started = false
		}
	}
}

// Reset clears all stage state, ready for the next log.
func (g *StageGrid) Reset() {
	for i := range g.stages {
		g.stages[i].active = false
		g.stages[i].started = false
		g.stages[i].done = false
	}
}

// Complete marks every stage done.
func (g *StageGrid) Complete() {
	for i := range g.stages {
		g.stages[i].active = false
		g.stages[i].started = false
		g.stages[i].done = true
	}
}

func (g *StageGrid) Update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	for i := range g.stages {
		cell := &g.stages[i]
		if !cell.active {
			continue
		}
		// A freshly activated spinner needs its first tick kicked off.
		if !cell.started {
			cell.started = true
			cmds = append(cmds, cell.spinner.Tick)
			continue
		}
		var cmd tea.Cmd
		cell.spinner, cmd = cell.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

func (g *StageGrid) View() string {
	cellWidth := 12

	var cells []string
	for i := range g.stages {
		cell := g.stages[i]
		var marker string
		switch {
		case cell.active:
			marker = cell.spinner.View()
		case cell.done:
			marker = "✓"
		default:
			marker = "○"
		}
		text := fmt.Sprintf("%s %s", marker, Stage(i))
		cells = append(cells, lipgloss.NewStyle().
			Width(cellWidth).
			Align(lipgloss.Center).
			Render(text))
	}

	var sb strings.Builder
	sb.WriteString("Page sequence\n\n")
	sb.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, cells...))
	sb.WriteString("\n")

	return g.style.Width(g.width).Render(sb.String())
}

func (g *StageGrid) SetSize(width, height int) {
	g.width = width
	g.height = height
}

package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// LogItem represents one log URL of the batch.
type LogItem struct {
	url    string
	status string
}

// FilterValue implements list.Item.
func (i LogItem) FilterValue() string { return i.url }

// Title returns the item's title.
func (i LogItem) Title() string { return i.url }

// Description returns the item's description.
func (i LogItem) Description() string {
	return fmt.Sprintf("Status: %s", i.status)
}

// LogList shows the batch's logs and their processing status.
type LogList struct {
	list    list.Model
	width   int
	height  int
	pending int
}

func NewLogList() *LogList {
	delegate := list.NewDefaultDelegate()
	delegate.Styles.SelectedTitle = delegate.Styles.SelectedTitle.Foreground(lipgloss.Color("170"))
	delegate.Styles.SelectedDesc = delegate.Styles.SelectedDesc.Foreground(lipgloss.Color("244"))

	l := list.New([]list.Item{}, delegate, 0, 0)
	l.Title = "Logs"
	l.Styles.Title = l.Styles.Title.Foreground(lipgloss.Color("240"))
	l.SetFilteringEnabled(false)

	return &LogList{list: l}
}

func (q *LogList) SetSize(width, height int) {
	q.width = width
	q.height = height
	q.list.SetSize(width, height)
}

func (q *LogList) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	q.list, cmd = q.list.Update(msg)
	return cmd
}

func (q *LogList) View() string {
	return q.list.View()
}

// SetLogs fills the list with the batch's log URLs, all pending.
func (q *LogList) SetLogs(urls []string) {
	items := make([]list.Item, len(urls))
	for i, u := range urls {
		items[i] = LogItem{url: u, status: "pending"}
	}
	q.list.SetItems(items)
	q.pending = len(urls)
	q.updateTitle()
}

// SetStatus updates one log's status ("processing", "exported", "skipped").
func (q *LogList) SetStatus(url, status string) {
	for i, item := range q.list.Items() {
		if li, ok := item.(LogItem); ok && li.url == url {
			li.status = status
			q.list.SetItem(i, li)
			q.recount()
			return
		}
	}
}

// recount recomputes how many logs have not resolved yet. A log in flight
// still counts as pending.
func (q *LogList) recount() {
	pending := 0
	for _, item := range q.list.Items() {
		if li, ok := item.(LogItem); ok {
			if li.status == "pending" || li.status == "processing" {
				pending++
			}
		}
	}
	q.pending = pending
	q.updateTitle()
}

func (q *LogList) updateTitle() {
	q.list.Title = fmt.Sprintf("Logs (%d pending)", q.pending)
}

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/foldertime/internal/activity"
	"github.com/sadopc/foldertime/internal/store"
)

type appsModel struct {
	store    *store.Store
	analyzer *activity.Analyzer
	width    int
	height   int

	period     period
	includeWeb bool

	records []activity.FolderActivity
	totals  []activity.ApplicationTotal
	err     error

	cursor     int
	folderIdx  int
	viewingApp bool // true = listing folders of the selected application
	now        func() time.Time
}

func newAppsModel(s *store.Store, a *activity.Analyzer) appsModel {
	m := appsModel{
		store:    s,
		analyzer: a,
		now:      time.Now,
	}
	m.loadSettings()
	return m
}

func (m *appsModel) setSize(w, h int) {
	m.width = w
	m.height = h
}

func (m *appsModel) loadSettings() {
	m.period.weekStart = parseWeekday(settingValue(m.store, "week_start", "monday"))
	m.includeWeb = m.store.GetBoolSetting("include_web", false)
}

type appsDataMsg struct {
	records []activity.FolderActivity
	err     error
}

func (m appsModel) refresh() tea.Cmd {
	from, to := m.period.bounds(m.now())
	includeWeb := m.includeWeb
	return func() tea.Msg {
		res, err := analyzeRange(m.store, m.analyzer, from, to, includeWeb)
		return appsDataMsg{records: res.records, err: err}
	}
}

// selectedFolders returns the ranked folders of the application under the cursor.
func (m appsModel) selectedFolders() []activity.FolderActivity {
	if m.cursor >= len(m.totals) {
		return nil
	}
	app := m.totals[m.cursor].Application
	var out []activity.FolderActivity
	for _, r := range m.records {
		if r.Application == app {
			out = append(out, r)
		}
	}
	return out
}

func (m appsModel) update(msg tea.Msg) (appsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case appsDataMsg:
		m.err = msg.err
		m.records = msg.records
		m.totals = activity.ByApplication(msg.records)
		if m.cursor >= len(m.totals) {
			m.cursor = max(0, len(m.totals)-1)
		}
		if m.viewingApp && len(m.totals) == 0 {
			m.viewingApp = false
		}
		return m, nil

	case tea.KeyMsg:
		if m.viewingApp {
			return m.updateFolderList(msg)
		}
		return m.updateAppList(msg)
	}
	return m, nil
}

func (m appsModel) updateAppList(msg tea.KeyMsg) (appsModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, keys.Down):
		if m.cursor < len(m.totals)-1 {
			m.cursor++
		}
	case key.Matches(msg, keys.Enter):
		if len(m.totals) > 0 {
			m.viewingApp = true
			m.folderIdx = 0
		}
	case key.Matches(msg, keys.Left):
		m.period.older()
		return m, m.refresh()
	case key.Matches(msg, keys.Right):
		m.period.newer()
		return m, m.refresh()
	case key.Matches(msg, keys.Mode):
		m.period.toggleMode()
		return m, m.refresh()
	case key.Matches(msg, keys.Web):
		m.includeWeb = !m.includeWeb
		return m, m.refresh()
	}
	return m, nil
}

func (m appsModel) updateFolderList(msg tea.KeyMsg) (appsModel, tea.Cmd) {
	folders := m.selectedFolders()
	switch {
	case key.Matches(msg, keys.Back):
		m.viewingApp = false
	case key.Matches(msg, keys.Up):
		if m.folderIdx > 0 {
			m.folderIdx--
		}
	case key.Matches(msg, keys.Down):
		if m.folderIdx < len(folders)-1 {
			m.folderIdx++
		}
	}
	return m, nil
}

func (m appsModel) view() string {
	if m.viewingApp {
		return m.renderFolderList()
	}
	return m.renderAppList()
}

func (m appsModel) renderAppList() string {
	w := m.width - 4
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Applications"), "  ",
		subtitleStyle.Render(m.period.modeName()+" · "+m.period.label(m.now())),
	)

	if m.err != nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header, "", errorStyle.Render("  "+m.err.Error()),
		))
	}
	if len(m.totals) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header, "", mutedStyle.Render("  No attributed activity for this period"),
		))
	}

	var rows []string
	rows = append(rows, header, "")
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %-24s %-13s %12s %8s %7s", "", "Application", "Kind", "Time", "Folders", "Events")))

	for i, t := range m.totals {
		cursor := "  "
		style := normalItemStyle
		if i == m.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		dot := lipgloss.NewStyle().Foreground(rankColor(i)).Render("●")
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %-24s %-13s %12s %8d %7d",
			cursor, dot,
			truncate(t.Application, 24),
			t.Family,
			activity.FormatSeconds(t.TotalDuration),
			t.Folders,
			t.EventCount,
		)))
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: folders  ←/→: navigate  m: day/week  w: web"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (m appsModel) renderFolderList() string {
	w := m.width - 4
	t := m.totals[m.cursor]
	dot := lipgloss.NewStyle().Foreground(rankColor(m.cursor)).Render("●")
	title := titleStyle.Render(fmt.Sprintf("%s %s — Folders", dot, t.Application))

	folders := m.selectedFolders()
	pathWidth := max(16, w-40)

	var rows []string
	rows = append(rows, title, "")
	for i, f := range folders {
		cursor := "  "
		style := normalItemStyle
		if i == m.folderIdx {
			cursor = "> "
			style = selectedItemStyle
		}
		ctx := ""
		if c := f.ContextLabel(); c != "" {
			ctx = mutedStyle.Render(" [" + truncate(c, 24) + "]")
		}
		rows = append(rows, style.Render(fmt.Sprintf("%s%s %12s", cursor,
			padRight(truncate(f.Path, pathWidth), pathWidth),
			f.FormattedDuration()))+ctx)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  esc: back"))

	return activePanelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

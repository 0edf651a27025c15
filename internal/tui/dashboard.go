package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/foldertime/internal/activity"
	"github.com/sadopc/foldertime/internal/store"
)

const dashboardTopFolders = 5

type dashboardModel struct {
	store    *store.Store
	analyzer *activity.Analyzer
	width    int
	height   int

	includeWeb bool
	canSync    bool
	syncing    bool

	today       []activity.FolderActivity
	todayEvents int
	cached      int
	lastSync    *time.Time
	err         error
}

func newDashboardModel(s *store.Store, a *activity.Analyzer, canSync bool) dashboardModel {
	d := dashboardModel{
		store:    s,
		analyzer: a,
		canSync:  canSync,
	}
	d.loadSettings()
	return d
}

func (d dashboardModel) Init() tea.Cmd {
	return d.loadData()
}

func (d *dashboardModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d *dashboardModel) loadSettings() {
	d.includeWeb = d.store.GetBoolSetting("include_web", false)
}

type dashboardDataMsg struct {
	today    analysis
	cached   int
	lastSync *time.Time
	err      error
}

func (d dashboardModel) loadData() tea.Cmd {
	return func() tea.Msg {
		from, to := period{mode: reportDaily}.bounds(time.Now())
		today, err := analyzeRange(d.store, d.analyzer, from, to, d.includeWeb)
		if err != nil {
			return dashboardDataMsg{err: err}
		}
		cached, _ := d.store.CountEvents(store.EventFilter{})
		last, _ := d.store.LastSync()
		return dashboardDataMsg{today: today, cached: cached, lastSync: last}
	}
}

func (d dashboardModel) update(msg tea.Msg) (dashboardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardDataMsg:
		d.err = msg.err
		if msg.err == nil {
			d.today = msg.today.records
			d.todayEvents = msg.today.events
			d.cached = msg.cached
			d.lastSync = msg.lastSync
		}
		return d, nil

	case tickMsg:
		return d, d.loadData()
	}
	return d, nil
}

func (d dashboardModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}

	contentWidth := d.width - 4

	return lipgloss.JoinVertical(lipgloss.Left,
		d.renderTotalPanel(contentWidth),
		d.renderTopPanel(contentWidth),
		d.renderSourcePanel(contentWidth),
	)
}

func (d dashboardModel) renderTotalPanel(w int) string {
	total := activity.TotalDuration(d.today)
	display := totalStyle.Width(w - 6).Render(activity.FormatSeconds(total))

	folders := "folders"
	if len(d.today) == 1 {
		folders = "folder"
	}
	summary := mutedStyle.Render(fmt.Sprintf("%d %s from %d events today", len(d.today), folders, d.todayEvents))
	if d.includeWeb {
		summary += accentStyle.Render("  · web on")
	}

	content := lipgloss.JoinVertical(lipgloss.Center, display, summary)
	if total > 0 {
		return activePanelStyle.Width(w).Render(content)
	}
	return panelStyle.Width(w).Render(content)
}

func (d dashboardModel) renderTopPanel(w int) string {
	title := titleStyle.Render("Top Folders Today")

	if d.err != nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			errorStyle.Render("Could not load activity: "+d.err.Error()),
		))
	}
	if len(d.today) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No folder activity today"),
		))
	}

	top := d.today
	if len(top) > dashboardTopFolders {
		top = top[:dashboardTopFolders]
	}
	longest := top[0].TotalDuration

	labelWidth := 28
	barWidth := w - labelWidth - 24
	if barWidth < 5 {
		barWidth = 5
	}

	rows := []string{title}
	for i, f := range top {
		n := 1
		if longest > 0 {
			n = max(1, int(f.TotalDuration/longest*float64(barWidth)))
		}
		dot := lipgloss.NewStyle().Foreground(rankColor(i)).Render("●")
		bar := lipgloss.NewStyle().Foreground(rankColor(i)).Render(strings.Repeat("█", n))
		rows = append(rows, fmt.Sprintf("  %s %s %s %s",
			dot,
			padRight(truncate(folderLabel(f.Path), labelWidth), labelWidth),
			padRight(f.FormattedDuration(), 11),
			bar,
		))
	}
	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func (d dashboardModel) renderSourcePanel(w int) string {
	title := titleStyle.Render("ActivityWatch")

	last := "never"
	if d.lastSync != nil {
		last = d.lastSync.Local().Format("Jan 02 15:04")
	}
	info := fmt.Sprintf("  %d events cached  ·  last sync %s", d.cached, highlightStyle.Render(last))

	var hint string
	switch {
	case d.syncing:
		hint = warningStyle.Render("  Syncing…")
	case d.canSync:
		hint = mutedStyle.Render("  Press s to sync new events")
	default:
		hint = mutedStyle.Render("  No server configured; use `foldertime import` to load an export")
	}

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, title, info, hint))
}

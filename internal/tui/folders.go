package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/foldertime/internal/activity"
	"github.com/sadopc/foldertime/internal/store"
)

type foldersModel struct {
	store    *store.Store
	analyzer *activity.Analyzer
	width    int
	height   int

	period      period
	includeWeb  bool
	topN        int
	chartHeight int

	records []activity.FolderActivity
	events  int
	err     error

	chart barchart.Model
	now   func() time.Time
}

func newFoldersModel(s *store.Store, a *activity.Analyzer) foldersModel {
	f := foldersModel{
		store:    s,
		analyzer: a,
		chart:    barchart.New(60, 12),
		now:      time.Now,
	}
	f.loadSettings()
	return f
}

func (f *foldersModel) setSize(w, h int) {
	f.width = w
	f.height = h
}

func (f *foldersModel) loadSettings() {
	f.period.mode = parseReportMode(settingValue(f.store, "report_mode", "daily"))
	f.period.weekStart = parseWeekday(settingValue(f.store, "week_start", "monday"))
	f.includeWeb = f.store.GetBoolSetting("include_web", false)
	f.topN = max(1, f.store.GetIntSetting("top_n", 10))
	f.chartHeight = max(4, f.store.GetIntSetting("chart_height", 12))
}

type foldersDataMsg struct {
	result analysis
	err    error
}

func (f foldersModel) refresh() tea.Cmd {
	from, to := f.period.bounds(f.now())
	includeWeb := f.includeWeb
	return func() tea.Msg {
		res, err := analyzeRange(f.store, f.analyzer, from, to, includeWeb)
		return foldersDataMsg{result: res, err: err}
	}
}

func (f foldersModel) update(msg tea.Msg) (foldersModel, tea.Cmd) {
	switch msg := msg.(type) {
	case foldersDataMsg:
		f.err = msg.err
		f.records = msg.result.records
		f.events = msg.result.events
		f.buildChart()
		return f, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			f.period.older()
			return f, f.refresh()
		case key.Matches(msg, keys.Right):
			f.period.newer()
			return f, f.refresh()
		case key.Matches(msg, keys.Mode):
			f.period.toggleMode()
			return f, f.refresh()
		case key.Matches(msg, keys.Web):
			f.includeWeb = !f.includeWeb
			return f, f.refresh()
		}
	}
	return f, nil
}

func (f foldersModel) top() []activity.FolderActivity {
	if len(f.records) > f.topN {
		return f.records[:f.topN]
	}
	return f.records
}

func (f *foldersModel) buildChart() {
	chartWidth := f.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}

	f.chart = barchart.New(chartWidth, f.chartHeight)

	top := f.top()
	if len(top) == 0 {
		return
	}

	labelWidth := max(3, chartWidth/len(top)-1)
	bars := make([]barchart.BarData, 0, len(top))
	for i, r := range top {
		bars = append(bars, barchart.BarData{
			Label: truncate(folderLabel(r.Path), labelWidth),
			Values: []barchart.BarValue{{
				Name:  r.Path,
				Value: r.TotalDuration / 3600,
				Style: lipgloss.NewStyle().Foreground(rankColor(i)),
			}},
		})
	}

	f.chart.PushAll(bars)
	f.chart.Draw()
}

func (f foldersModel) view() string {
	w := f.width - 4

	dailyTab := inactiveTabStyle.Render("Daily")
	weeklyTab := inactiveTabStyle.Render("Weekly")
	if f.period.mode == reportDaily {
		dailyTab = activeTabStyle.Render("Daily")
	} else {
		weeklyTab = activeTabStyle.Render("Weekly")
	}
	modeTabs := lipgloss.JoinHorizontal(lipgloss.Bottom, dailyTab, weeklyTab)

	dateLabel := subtitleStyle.Render(f.period.label(f.now()))
	web := mutedStyle.Render("web off")
	if f.includeWeb {
		web = accentStyle.Render("web on")
	}

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Folders"), "  ", modeTabs, "  ", dateLabel, "  ", web,
	)

	nav := mutedStyle.Render("  ←/→: navigate  m: day/week  w: web  e: export")

	if f.err != nil {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			header, "", errorStyle.Render("  "+f.err.Error()), "", nav,
		))
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", f.chart.View(), "", f.renderLegend(), "", f.renderTable(w), "", nav,
		),
	)
}

func (f foldersModel) renderTable(w int) string {
	if len(f.records) == 0 {
		return mutedStyle.Render("  No folder activity for this period")
	}

	pathWidth := max(16, w-52)
	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-3s %s %-14s %10s %7s",
		"#", padRight("Folder", pathWidth), "App", "Time", "Events")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, pathWidth+40))))

	for i, r := range f.top() {
		rows = append(rows, fmt.Sprintf("  %-3d %s %-14s %10s %7d",
			i+1,
			padRight(truncate(r.Path, pathWidth), pathWidth),
			truncate(r.Application, 14),
			r.FormattedDuration(),
			r.EventCount,
		))
	}

	if rest := len(f.records) - len(f.top()); rest > 0 {
		rows = append(rows, mutedStyle.Render(fmt.Sprintf("  … %d more", rest)))
	}
	total := activity.TotalDuration(f.records)
	rows = append(rows, highlightStyle.Render(fmt.Sprintf("  Total %s (%s) across %d events",
		activity.FormatSeconds(total), formatHours(total), f.events)))

	return strings.Join(rows, "\n")
}

func (f foldersModel) renderLegend() string {
	var items []string
	for i, r := range f.top() {
		dot := lipgloss.NewStyle().Foreground(rankColor(i)).Render("●")
		items = append(items, fmt.Sprintf("%s %s", dot, folderLabel(r.Path)))
	}
	if len(items) == 0 {
		return ""
	}
	return "  " + strings.Join(items, "  ")
}

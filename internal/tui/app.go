package tui

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/sadopc/foldertime/internal/activity"
	"github.com/sadopc/foldertime/internal/export"
	"github.com/sadopc/foldertime/internal/ingest"
	"github.com/sadopc/foldertime/internal/store"
)

const (
	refreshInterval = time.Minute
	syncTimeout     = 2 * time.Minute
)

// App is the root Bubble Tea model.
type App struct {
	store    *store.Store
	analyzer *activity.Analyzer
	source   ingest.Source
	logger   *zap.Logger
	width    int
	height   int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	syncing       bool

	dashboard dashboardModel
	folders   foldersModel
	apps      appsModel
	settings  settingsModel

	help      help.Model
	status    string
	statusErr bool
}

// NewApp builds the UI over the cached events in s. src may be nil, in which
// case syncing is disabled.
func NewApp(s *store.Store, a *activity.Analyzer, src ingest.Source, logger *zap.Logger) App {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := help.New()
	h.ShowAll = false

	return App{
		store:      s,
		analyzer:   a,
		source:     src,
		logger:     logger,
		activeView: viewDashboard,
		dashboard:  newDashboardModel(s, a, src != nil),
		folders:    newFoldersModel(s, a),
		apps:       newAppsModel(s, a),
		settings:   newSettingsModel(s),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.dashboard.Init(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.dashboard.setSize(a.width, contentHeight)
		a.folders.setSize(a.width, contentHeight)
		a.apps.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		if a.activeView == viewFolders {
			a.folders.buildChart()
		}
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Sync):
			return a.startSync()
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewDashboard
			return a, a.dashboard.loadData()
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewFolders
			return a, a.folders.refresh()
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewApps
			return a, a.apps.refresh()
		case key.Matches(msg, keys.Tab4):
			a.activeView = viewSettings
			return a, a.settings.refresh()
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, a.refreshCurrentView()
		}

	case tickMsg:
		// Always route ticks to the dashboard so its totals stay current.
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, tea.Batch(tickCmd(), cmd)

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case syncDoneMsg:
		a.syncing = false
		a.dashboard.syncing = false
		if msg.err != nil {
			a.logger.Warn("sync failed", zap.Error(msg.err))
			a.status = fmt.Sprintf("Sync error: %v", msg.err)
			a.statusErr = true
			return a, nil
		}
		a.status = fmt.Sprintf("Synced %d new events from %d buckets", msg.result.Inserted, msg.result.Buckets)
		if msg.result.Updated > 0 {
			a.status += fmt.Sprintf(" (%d extended)", msg.result.Updated)
		}
		a.statusErr = false
		return a, tea.Batch(a.dashboard.loadData(), a.refreshCurrentView())

	case settingsSavedMsg:
		a.dashboard.loadSettings()
		a.folders.loadSettings()
		a.apps.loadSettings()
		a.status = "Settings saved"
		a.statusErr = false
		return a, a.dashboard.loadData()

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		a.exportPicking = false
		return a, nil

	case dashboardDataMsg:
		// Dashboard data can land while another view is active (after a sync).
		var cmd tea.Cmd
		a.dashboard, cmd = a.dashboard.update(msg)
		return a, cmd
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewDashboard:
		a.dashboard, cmd = a.dashboard.update(msg)
	case viewFolders:
		a.folders, cmd = a.folders.update(msg)
	case viewApps:
		a.apps, cmd = a.apps.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	return a.activeView == viewSettings && a.settings.formActive
}

func (a App) refreshCurrentView() tea.Cmd {
	switch a.activeView {
	case viewDashboard:
		return a.dashboard.loadData()
	case viewFolders:
		return a.folders.refresh()
	case viewApps:
		return a.apps.refresh()
	case viewSettings:
		return a.settings.refresh()
	}
	return nil
}

func (a App) startSync() (tea.Model, tea.Cmd) {
	if a.source == nil {
		a.status = "No ActivityWatch server configured"
		a.statusErr = true
		return a, nil
	}
	if a.syncing {
		return a, nil
	}
	a.syncing = true
	a.dashboard.syncing = true
	a.status = "Syncing…"
	a.statusErr = false

	src, st, logger := a.source, a.store, a.logger
	return a, func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), syncTimeout)
		defer cancel()
		res, err := ingest.Sync(ctx, src, st, time.Time{}, time.Time{}, logger)
		return syncDoneMsg{result: res, err: err}
	}
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewDashboard:
		content = a.dashboard.view()
	case viewFolders:
		content = a.folders.view()
	case viewApps:
		content = a.apps.view()
	case viewSettings:
		content = a.settings.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("foldertime")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		if a.statusErr {
			status = errorStyle.Render(" " + a.status)
		} else {
			status = mutedStyle.Render(" " + a.status)
		}
	}

	syncInfo := ""
	if a.syncing {
		syncInfo = warningStyle.Render(" ⟳")
	}

	left := footerStyle.Render(helpView)
	right := syncInfo + status

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, right)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Folders")
	sub := subtitleStyle.Render(a.folders.period.modeName() + " · " + a.folders.period.label(a.folders.now()))

	var rows []string
	rows = append(rows, title, sub, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		home, _ := os.UserHomeDir()
		return a, a.doExport(a.exportCursor, home)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

// doExport writes the Folders view's current window to dir.
func (a App) doExport(format int, dir string) tea.Cmd {
	from, to := a.folders.period.bounds(a.folders.now())
	includeWeb := a.folders.includeWeb
	st, an := a.store, a.analyzer

	return func() tea.Msg {
		res, err := analyzeRange(st, an, from, to, includeWeb)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		dateStr := from.Format("2006-01-02")

		var path string
		if format == 0 {
			path = filepath.Join(dir, fmt.Sprintf("foldertime-%s.csv", dateStr))
			if err := export.ToCSV(res.records, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, fmt.Sprintf("foldertime-%s.json", dateStr))
			if err := export.ToJSON(res.records, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}

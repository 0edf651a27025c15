package tui

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/sadopc/foldertime/internal/store"
)

type settingsModel struct {
	store  *store.Store
	width  int
	height int

	settings   []store.Setting
	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	includeWeb  *bool
	reportMode  *string
	topN        *string
	weekStart   *string
	chartHeight *string
}

func newSettingsModel(s *store.Store) settingsModel {
	web := false
	rm, tn, ws, ch := "", "", "", ""
	return settingsModel{
		store:       s,
		includeWeb:  &web,
		reportMode:  &rm,
		topN:        &tn,
		weekStart:   &ws,
		chartHeight: &ch,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings []store.Setting
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		settings, _ := s.store.GetAllSettings()
		return settingsDataMsg{settings: settings}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		return s, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Enter) {
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	// Load current values
	*s.includeWeb = s.store.GetBoolSetting("include_web", false)
	*s.reportMode = settingValue(s.store, "report_mode", "daily")
	*s.topN = settingValue(s.store, "top_n", "10")
	*s.weekStart = settingValue(s.store, "week_start", "monday")
	*s.chartHeight = settingValue(s.store, "chart_height", "12")

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().Title("Count browser tabs as folders").
				Description("Attributes browser time to host/path pseudo-folders").
				Affirmative("Yes").Negative("No").
				Value(s.includeWeb),
			huh.NewSelect[string]().Title("Default report").
				Options(
					huh.NewOption("Daily", "daily"),
					huh.NewOption("Weekly", "weekly"),
				).Value(s.reportMode),
			huh.NewSelect[string]().Title("Week starts on").
				Options(
					huh.NewOption("Monday", "monday"),
					huh.NewOption("Sunday", "sunday"),
				).Value(s.weekStart),
		).Title("Analysis"),
		huh.NewGroup(
			huh.NewInput().Title("Folders in chart").Value(s.topN).Validate(positiveInt),
			huh.NewInput().Title("Chart height (rows)").Value(s.chartHeight).Validate(positiveInt),
		).Title("Display"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.saveSettings(); err != nil {
			return s, func() tea.Msg {
				return statusMsg{text: fmt.Sprintf("Save error: %v", err), isError: true}
			}
		}
		return s, tea.Batch(s.refresh(), func() tea.Msg { return settingsSavedMsg{} })
	}

	return s, cmd
}

func (s settingsModel) saveSettings() error {
	values := map[string]string{
		"include_web":  strconv.FormatBool(*s.includeWeb),
		"report_mode":  *s.reportMode,
		"top_n":        *s.topN,
		"week_start":   *s.weekStart,
		"chart_height": *s.chartHeight,
	}
	for k, v := range values {
		if err := s.store.SetSetting(k, v); err != nil {
			return err
		}
	}
	return nil
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		title := titleStyle.Render("Settings")
		formView := s.form.View()
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, title, "", formView),
		)
	}

	title := titleStyle.Render("Settings")
	hint := mutedStyle.Render("Press enter to edit settings")

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	for _, setting := range s.settings {
		label := lipgloss.NewStyle().Width(24).Render(setting.Key)
		value := highlightStyle.Render(formatSettingValue(setting.Key, setting.Value))
		rows = append(rows, fmt.Sprintf("  %s %s", label, value))
	}

	rows = append(rows, "")
	rows = append(rows, hint)

	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func formatSettingValue(k, v string) string {
	switch k {
	case "include_web":
		if b, err := strconv.ParseBool(v); err == nil {
			if b {
				return "on"
			}
			return "off"
		}
	case "chart_height":
		if n, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d rows", n)
		}
	case "top_n":
		if n, err := strconv.Atoi(v); err == nil {
			return fmt.Sprintf("%d folders", n)
		}
	}
	return v
}

func positiveInt(s string) error {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return fmt.Errorf("enter a whole number above zero")
	}
	return nil
}

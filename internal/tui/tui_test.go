package tui

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/sadopc/foldertime/internal/activity"
	"github.com/sadopc/foldertime/internal/awclient"
	"github.com/sadopc/foldertime/internal/store"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewMemory()
	if err != nil {
		t.Fatalf("new memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// prefixResolver maps every project name under /res.
type prefixResolver struct{}

func (prefixResolver) Resolve(name string) string { return "/res/" + name }

func newTestAnalyzer() *activity.Analyzer {
	return activity.NewAnalyzer(activity.WithResolver(prefixResolver{}), activity.WithHome("/home/tester"))
}

func startOfToday() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
}

// seedToday stores a small mix of window samples timestamped today.
func seedToday(t *testing.T, s *store.Store) {
	t.Helper()
	if err := s.UpsertBucket(store.Bucket{ID: "win", Type: "currentwindow"}); err != nil {
		t.Fatal(err)
	}
	day := startOfToday()
	events := []store.Event{
		{Timestamp: day.Add(1 * time.Minute), Duration: 600, App: "Warp", Title: "alpha"},
		{Timestamp: day.Add(2 * time.Minute), Duration: 300, App: "Code", Title: "main.go — beta"},
		{Timestamp: day.Add(3 * time.Minute), Duration: 120, App: "Warp", Title: "alpha"},
		{Timestamp: day.Add(4 * time.Minute), Duration: 60, App: "Safari", Title: "Docs https://pkg.go.dev/net/url"},
		{Timestamp: day.Add(5 * time.Minute), Duration: 999, App: "Mail", Title: "Inbox"},
	}
	if _, err := s.InsertEvents("win", events); err != nil {
		t.Fatal(err)
	}
}

func newTestApp(t *testing.T) (App, *store.Store) {
	t.Helper()
	s := newTestStore(t)
	seedToday(t, s)
	app := NewApp(s, newTestAnalyzer(), nil, nil)
	app.width = 120
	app.height = 40
	return app, s
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, app App, msg tea.Msg) (App, tea.Cmd) {
	t.Helper()
	m, cmd := app.Update(msg)
	next, ok := m.(App)
	if !ok {
		t.Fatalf("Update returned %T", m)
	}
	return next, cmd
}

// ============================================================
// Periods
// ============================================================

func TestPeriodDailyBounds(t *testing.T) {
	now := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC) // Wednesday
	p := period{mode: reportDaily}

	from, to := p.bounds(now)
	if !from.Equal(time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)) || !to.Equal(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("today = %v..%v", from, to)
	}

	p.older()
	p.older()
	from, _ = p.bounds(now)
	if !from.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("two days back = %v", from)
	}

	p.newer()
	p.newer()
	p.newer()
	if p.offset != 0 {
		t.Fatalf("offset should not go below zero, got %d", p.offset)
	}
}

func TestPeriodWeeklyBounds(t *testing.T) {
	now := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC) // Wednesday

	monday := period{mode: reportWeekly, weekStart: time.Monday}
	from, to := monday.bounds(now)
	if !from.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)) || !to.Equal(time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("monday week = %v..%v", from, to)
	}

	sunday := period{mode: reportWeekly, weekStart: time.Sunday, offset: 1}
	from, _ = sunday.bounds(now)
	if !from.Equal(time.Date(2026, 2, 22, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("previous sunday week = %v", from)
	}

	// The week start day itself opens a new week
	from, _ = monday.bounds(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC))
	if !from.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("week starting today = %v", from)
	}
}

func TestPeriodToggleResetsOffset(t *testing.T) {
	p := period{offset: 3}
	p.toggleMode()
	if p.mode != reportWeekly || p.offset != 0 {
		t.Fatalf("unexpected period after toggle: %+v", p)
	}
	if p.modeName() != "Weekly" {
		t.Fatalf("modeName = %q", p.modeName())
	}
	p.toggleMode()
	if p.mode != reportDaily {
		t.Fatal("second toggle should return to daily")
	}
}

func TestPeriodLabel(t *testing.T) {
	now := time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC)
	if got := (period{mode: reportDaily}).label(now); got != "Wed, Mar 04 2026" {
		t.Fatalf("daily label = %q", got)
	}
	if got := (period{mode: reportWeekly, weekStart: time.Monday}).label(now); got != "Mar 02 – Mar 08, 2026" {
		t.Fatalf("weekly label = %q", got)
	}
}

func TestParseSettings(t *testing.T) {
	if parseReportMode("weekly") != reportWeekly || parseReportMode("daily") != reportDaily || parseReportMode("junk") != reportDaily {
		t.Fatal("parseReportMode")
	}
	if parseWeekday("sunday") != time.Sunday || parseWeekday("monday") != time.Monday || parseWeekday("") != time.Monday {
		t.Fatal("parseWeekday")
	}
}

// ============================================================
// Helper functions
// ============================================================

func TestFolderLabel(t *testing.T) {
	tests := []struct {
		path, want string
	}{
		{"/home/tester/Projects/foldertime", "Projects/foldertime"},
		{"/res/alpha", "res/alpha"},
		{"/alpha", "alpha"},
		{"pkg.go.dev/net/url", "net/url"},
		{"github.com", "github.com"},
	}
	for _, tt := range tests {
		if got := folderLabel(tt.path); got != tt.want {
			t.Errorf("folderLabel(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		s    string
		n    int
		want string
	}{
		{"foldertime", 20, "foldertime"},
		{"foldertime", 10, "foldertime"},
		{"foldertime", 6, "folde…"},
		{"foldertime", 1, "…"},
		{"foldertime", 0, ""},
		{"über-projekt", 5, "über…"},
	}
	for _, tt := range tests {
		if got := truncate(tt.s, tt.n); got != tt.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", tt.s, tt.n, got, tt.want)
		}
	}
}

func TestPadRight(t *testing.T) {
	if got := padRight("ab", 4); got != "ab  " {
		t.Fatalf("padRight = %q", got)
	}
	if got := padRight("abcdef", 4); got != "abcdef" {
		t.Fatalf("padRight should not cut: %q", got)
	}
}

func TestFormatHours(t *testing.T) {
	tests := []struct {
		secs float64
		want string
	}{
		{0, "0.0h"},
		{1800, "0.5h"},
		{3600, "1.0h"},
		{5400, "1.5h"},
	}
	for _, tt := range tests {
		if got := formatHours(tt.secs); got != tt.want {
			t.Errorf("formatHours(%v) = %q, want %q", tt.secs, got, tt.want)
		}
	}
}

func TestAnalyzeRange(t *testing.T) {
	s := newTestStore(t)
	seedToday(t, s)
	from := startOfToday()
	to := from.AddDate(0, 0, 1)

	res, err := analyzeRange(s, newTestAnalyzer(), from, to, false)
	if err != nil {
		t.Fatal(err)
	}
	if res.events != 5 {
		t.Fatalf("events = %d, want 5", res.events)
	}
	if len(res.records) != 2 {
		t.Fatalf("expected 2 folders without web, got %+v", res.records)
	}
	if res.records[0].Path != "/res/alpha" || res.records[0].TotalDuration != 720 || res.records[0].EventCount != 2 {
		t.Fatalf("unexpected top record: %+v", res.records[0])
	}

	res, _ = analyzeRange(s, newTestAnalyzer(), from, to, true)
	if len(res.records) != 3 {
		t.Fatalf("expected 3 folders with web, got %d", len(res.records))
	}

	res, _ = analyzeRange(s, newTestAnalyzer(), to, to.AddDate(0, 0, 1), false)
	if res.events != 0 || len(res.records) != 0 {
		t.Fatalf("tomorrow should be empty: %+v", res)
	}
}

func TestAnalyzeRangeClipsToWindow(t *testing.T) {
	s := newTestStore(t)
	if err := s.UpsertBucket(store.Bucket{ID: "win", Type: "currentwindow"}); err != nil {
		t.Fatal(err)
	}
	from := startOfToday()
	s.InsertEvents("win", []store.Event{
		{Timestamp: from.Add(-5 * time.Minute), Duration: 900, App: "Warp", Title: "alpha"},
		{Timestamp: from.Add(-20 * time.Minute), Duration: 600, App: "Warp", Title: "gone"},
	})

	res, err := analyzeRange(s, newTestAnalyzer(), from, from.AddDate(0, 0, 1), false)
	if err != nil {
		t.Fatal(err)
	}
	if res.events != 1 || len(res.records) != 1 {
		t.Fatalf("expected only the event still running at midnight, got %d events %+v", res.events, res.records)
	}
	if res.records[0].Path != "/res/alpha" || res.records[0].TotalDuration != 600 {
		t.Fatalf("expected the 600s after midnight, got %+v", res.records[0])
	}
}

// ============================================================
// View state
// ============================================================

func TestViewNames(t *testing.T) {
	if len(viewNames) != 4 {
		t.Fatalf("expected 4 view names, got %d", len(viewNames))
	}
	expected := []string{"Dashboard", "Folders", "Apps", "Settings"}
	for i, name := range expected {
		if viewNames[i] != name {
			t.Fatalf("viewNames[%d] = %q, want %q", i, viewNames[i], name)
		}
	}
}

func TestViewStateConstants(t *testing.T) {
	if viewDashboard != 0 || viewFolders != 1 || viewApps != 2 || viewSettings != 3 {
		t.Fatal("view state constants out of order")
	}
}

// ============================================================
// Dashboard model
// ============================================================

func TestDashboardLoadData(t *testing.T) {
	s := newTestStore(t)
	seedToday(t, s)
	s.MarkBucketSynced("win", time.Now())

	d := newDashboardModel(s, newTestAnalyzer(), true)
	d.setSize(120, 36)
	msg := d.loadData()()
	d, _ = d.update(msg)

	if len(d.today) != 2 || d.todayEvents != 5 || d.cached != 5 {
		t.Fatalf("unexpected dashboard data: folders=%d events=%d cached=%d", len(d.today), d.todayEvents, d.cached)
	}
	if d.lastSync == nil {
		t.Fatal("last sync should be set")
	}

	out := d.view()
	for _, want := range []string{"Top Folders Today", "res/alpha", "12m 0s", "Press s to sync"} {
		if !strings.Contains(out, want) {
			t.Fatalf("dashboard view missing %q:\n%s", want, out)
		}
	}
}

func TestDashboardIncludesWebFromSettings(t *testing.T) {
	s := newTestStore(t)
	seedToday(t, s)
	s.SetSetting("include_web", "true")

	d := newDashboardModel(s, newTestAnalyzer(), false)
	d, _ = d.update(d.loadData()())
	if len(d.today) != 3 {
		t.Fatalf("expected web folder to be counted, got %d folders", len(d.today))
	}
}

func TestDashboardEmpty(t *testing.T) {
	s := newTestStore(t)
	d := newDashboardModel(s, newTestAnalyzer(), false)
	d.setSize(100, 30)
	d, _ = d.update(d.loadData()())

	out := d.view()
	if !strings.Contains(out, "No folder activity today") {
		t.Fatalf("expected empty message:\n%s", out)
	}
	if !strings.Contains(out, "never") {
		t.Fatal("expected 'never' for last sync")
	}
}

func TestDashboardTickReloads(t *testing.T) {
	s := newTestStore(t)
	d := newDashboardModel(s, newTestAnalyzer(), false)
	if _, cmd := d.update(tickMsg(time.Now())); cmd == nil {
		t.Fatal("tick should schedule a reload")
	}
}

// ============================================================
// Folders model
// ============================================================

func TestFoldersRefresh(t *testing.T) {
	s := newTestStore(t)
	seedToday(t, s)
	f := newFoldersModel(s, newTestAnalyzer())
	f.setSize(120, 36)

	f, _ = f.update(f.refresh()())
	if f.err != nil {
		t.Fatal(f.err)
	}
	if len(f.records) != 2 || f.events != 5 {
		t.Fatalf("records=%d events=%d", len(f.records), f.events)
	}

	out := f.view()
	for _, want := range []string{"Folders", "Daily", "/res/alpha", "/res/beta", "web off"} {
		if !strings.Contains(out, want) {
			t.Fatalf("folders view missing %q:\n%s", want, out)
		}
	}
}

func TestFoldersWebToggle(t *testing.T) {
	s := newTestStore(t)
	seedToday(t, s)
	f := newFoldersModel(s, newTestAnalyzer())
	f.setSize(120, 36)

	f, cmd := f.update(runes("w"))
	if !f.includeWeb || cmd == nil {
		t.Fatal("w should enable web and refresh")
	}
	f, _ = f.update(cmd())
	found := false
	for _, r := range f.records {
		if r.Path == "pkg.go.dev/net/url" && r.ContextLabel() == "web" {
			found = true
		}
	}
	if !found {
		t.Fatalf("web folder missing: %+v", f.records)
	}
}

func TestFoldersNavigation(t *testing.T) {
	s := newTestStore(t)
	seedToday(t, s)
	f := newFoldersModel(s, newTestAnalyzer())

	f, cmd := f.update(tea.KeyMsg{Type: tea.KeyLeft})
	if f.period.offset != 1 || cmd == nil {
		t.Fatalf("left should go back a day, offset=%d", f.period.offset)
	}
	f, _ = f.update(cmd())
	if len(f.records) != 0 {
		t.Fatal("yesterday should be empty")
	}

	f, _ = f.update(runes("m"))
	if f.period.mode != reportWeekly || f.period.offset != 0 {
		t.Fatalf("m should switch to the current week: %+v", f.period)
	}
}

func TestFoldersSettings(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("top_n", "1")
	s.SetSetting("report_mode", "weekly")
	s.SetSetting("week_start", "sunday")
	s.SetSetting("chart_height", "0")
	seedToday(t, s)

	f := newFoldersModel(s, newTestAnalyzer())
	if f.topN != 1 || f.period.mode != reportWeekly || f.period.weekStart != time.Sunday {
		t.Fatalf("settings not applied: %+v", f)
	}
	if f.chartHeight != 4 {
		t.Fatalf("chart height should be clamped to 4, got %d", f.chartHeight)
	}

	f.setSize(120, 36)
	f, _ = f.update(f.refresh()())
	if len(f.top()) != 1 {
		t.Fatalf("top() should honour top_n, got %d", len(f.top()))
	}
	if !strings.Contains(f.view(), "1 more") {
		t.Fatal("table should mention the hidden folders")
	}
}

// ============================================================
// Apps model
// ============================================================

func TestAppsRefreshAndDrillDown(t *testing.T) {
	s := newTestStore(t)
	seedToday(t, s)
	m := newAppsModel(s, newTestAnalyzer())
	m.setSize(120, 36)

	m, _ = m.update(m.refresh()())
	if len(m.totals) != 2 {
		t.Fatalf("expected 2 applications, got %+v", m.totals)
	}
	if m.totals[0].Application != "Warp" || m.totals[0].Family != activity.FamilyTerminal {
		t.Fatalf("unexpected top application: %+v", m.totals[0])
	}
	if !strings.Contains(m.view(), "terminal") {
		t.Fatal("app list should show the application kind")
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 1 {
		t.Fatalf("cursor = %d", m.cursor)
	}
	m, _ = m.update(tea.KeyMsg{Type: tea.KeyDown})
	if m.cursor != 1 {
		t.Fatal("cursor should stop at the last application")
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.viewingApp {
		t.Fatal("enter should open the folder list")
	}
	folders := m.selectedFolders()
	if len(folders) != 1 || folders[0].Path != "/res/beta" {
		t.Fatalf("unexpected folders for Code: %+v", folders)
	}
	if !strings.Contains(m.view(), "/res/beta") {
		t.Fatal("drill-down view should list the folder")
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.viewingApp {
		t.Fatal("esc should return to the app list")
	}
}

func TestAppsEmpty(t *testing.T) {
	s := newTestStore(t)
	m := newAppsModel(s, newTestAnalyzer())
	m.setSize(100, 30)
	m, _ = m.update(m.refresh()())

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if m.viewingApp {
		t.Fatal("enter on an empty list should do nothing")
	}
	if !strings.Contains(m.view(), "No attributed activity") {
		t.Fatal("expected empty message")
	}
}

// ============================================================
// Settings helpers
// ============================================================

func TestFormatSettingValue(t *testing.T) {
	tests := []struct {
		key, val, want string
	}{
		{"include_web", "true", "on"},
		{"include_web", "false", "off"},
		{"include_web", "maybe", "maybe"},
		{"chart_height", "12", "12 rows"},
		{"top_n", "10", "10 folders"},
		{"week_start", "monday", "monday"},
		{"report_mode", "daily", "daily"},
	}
	for _, tt := range tests {
		if got := formatSettingValue(tt.key, tt.val); got != tt.want {
			t.Errorf("formatSettingValue(%q, %q) = %q, want %q", tt.key, tt.val, got, tt.want)
		}
	}
}

func TestPositiveInt(t *testing.T) {
	for _, ok := range []string{"1", "12", "100"} {
		if err := positiveInt(ok); err != nil {
			t.Errorf("positiveInt(%q) = %v", ok, err)
		}
	}
	for _, bad := range []string{"", "0", "-3", "ten", "1.5"} {
		if err := positiveInt(bad); err == nil {
			t.Errorf("positiveInt(%q) should fail", bad)
		}
	}
}

func TestSettingsSave(t *testing.T) {
	s := newTestStore(t)
	m := newSettingsModel(s)

	*m.includeWeb = true
	*m.reportMode = "weekly"
	*m.topN = "5"
	*m.weekStart = "sunday"
	*m.chartHeight = "8"
	if err := m.saveSettings(); err != nil {
		t.Fatal(err)
	}

	if !s.GetBoolSetting("include_web", false) || s.GetIntSetting("top_n", 0) != 5 || s.GetIntSetting("chart_height", 0) != 8 {
		t.Fatal("numeric or bool settings not saved")
	}
	if v, _ := s.GetSetting("week_start"); v != "sunday" {
		t.Fatalf("week_start = %q", v)
	}

	m, _ = m.update(m.refresh()())
	if len(m.settings) != 5 {
		t.Fatalf("expected 5 settings, got %d", len(m.settings))
	}
}

func TestSettingsShowForm(t *testing.T) {
	s := newTestStore(t)
	s.SetSetting("top_n", "7")
	m := newSettingsModel(s)

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEnter})
	if !m.formActive || m.form == nil {
		t.Fatal("enter should open the form")
	}
	if *m.topN != "7" {
		t.Fatalf("form should load current values, top_n = %q", *m.topN)
	}

	m, _ = m.update(tea.KeyMsg{Type: tea.KeyEsc})
	if m.formActive {
		t.Fatal("esc should close the form")
	}
}

// ============================================================
// App model
// ============================================================

func TestNewApp(t *testing.T) {
	app, _ := newTestApp(t)

	if app.activeView != viewDashboard {
		t.Fatal("default view should be dashboard")
	}
	if app.showHelp {
		t.Fatal("help should be hidden by default")
	}
	if app.exportPicking {
		t.Fatal("export picker should be hidden by default")
	}
	if app.isFormActive() {
		t.Fatal("no forms should be active initially")
	}
}

func TestAppViewStates(t *testing.T) {
	app, _ := newTestApp(t)

	// Test all views render without panic
	for v := range viewNames {
		app.activeView = viewState(v)
		if output := app.View(); output == "" {
			t.Fatalf("view %d rendered empty", v)
		}
	}
}

func TestAppTabSwitching(t *testing.T) {
	app, _ := newTestApp(t)

	app, cmd := update(t, app, runes("2"))
	if app.activeView != viewFolders || cmd == nil {
		t.Fatal("2 should switch to folders and load data")
	}
	app, _ = update(t, app, cmd())
	if len(app.folders.records) != 2 {
		t.Fatalf("folders not loaded: %d", len(app.folders.records))
	}

	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyTab})
	if app.activeView != viewApps {
		t.Fatal("tab should advance to apps")
	}
	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyTab})
	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyTab})
	if app.activeView != viewDashboard {
		t.Fatal("tab should wrap around to the dashboard")
	}
}

func TestAppRenderHeaderContainsAllTabs(t *testing.T) {
	app, _ := newTestApp(t)

	header := app.renderHeader()
	for _, name := range viewNames {
		if !strings.Contains(header, name) {
			t.Fatalf("header missing tab %q", name)
		}
	}
}

func TestAppLoadingState(t *testing.T) {
	s := newTestStore(t)
	app := NewApp(s, newTestAnalyzer(), nil, nil)
	// Width 0 means not yet sized
	if output := app.View(); output != "Loading..." {
		t.Fatalf("expected 'Loading...', got %q", output)
	}
}

func TestAppStatusMessage(t *testing.T) {
	app, _ := newTestApp(t)
	app, _ = update(t, app, statusMsg{text: "test status"})

	if !strings.Contains(app.renderFooter(), "test status") {
		t.Fatal("footer should contain status message")
	}
}

func TestAppSyncWithoutSource(t *testing.T) {
	app, _ := newTestApp(t)
	app, cmd := update(t, app, runes("s"))
	if cmd != nil {
		t.Fatal("sync without a source should not run anything")
	}
	if !app.statusErr || !strings.Contains(app.status, "No ActivityWatch") {
		t.Fatalf("unexpected status %q", app.status)
	}
}

type fakeSource struct {
	calls int
}

func (f *fakeSource) ListBuckets(ctx context.Context) ([]awclient.Bucket, error) {
	f.calls++
	return []awclient.Bucket{{ID: "aw-watcher-window_test", Type: "currentwindow"}}, nil
}

func (f *fakeSource) GetEvents(ctx context.Context, bucketID string, q awclient.EventQuery) ([]awclient.Event, error) {
	return []awclient.Event{{
		Timestamp: startOfToday().Add(10 * time.Minute),
		Duration:  42,
		Data:      map[string]any{"app": "Finder", "title": "gamma"},
	}}, nil
}

func TestAppSync(t *testing.T) {
	s := newTestStore(t)
	src := &fakeSource{}
	app := NewApp(s, newTestAnalyzer(), src, nil)
	app.width, app.height = 120, 40

	app, cmd := update(t, app, runes("s"))
	if cmd == nil || !app.syncing || !app.dashboard.syncing {
		t.Fatal("s should start a sync")
	}
	if _, again := update(t, app, runes("s")); again != nil {
		t.Fatal("a second sync should not start while one is running")
	}

	msg := cmd()
	done, ok := msg.(syncDoneMsg)
	if !ok || done.err != nil {
		t.Fatalf("unexpected sync result: %#v", msg)
	}
	if done.result.Inserted != 1 || src.calls != 1 {
		t.Fatalf("unexpected sync result: %+v", done.result)
	}

	app, cmd = update(t, app, msg)
	if app.syncing || !strings.Contains(app.status, "Synced 1 new events") {
		t.Fatalf("status after sync = %q", app.status)
	}
	if cmd == nil {
		t.Fatal("sync completion should refresh data")
	}
}

func TestAppSettingsSavedReloadsViews(t *testing.T) {
	app, s := newTestApp(t)
	s.SetSetting("include_web", "true")
	s.SetSetting("top_n", "3")

	app, _ = update(t, app, settingsSavedMsg{})
	if !app.folders.includeWeb || !app.apps.includeWeb || !app.dashboard.includeWeb {
		t.Fatal("include_web should propagate to every view")
	}
	if app.folders.topN != 3 {
		t.Fatalf("top_n = %d", app.folders.topN)
	}
}

func TestAppExport(t *testing.T) {
	app, _ := newTestApp(t)
	dir := t.TempDir()

	app, _ = update(t, app, runes("e"))
	if !app.exportPicking {
		t.Fatal("e should open the export picker")
	}
	if !strings.Contains(app.View(), "Export Folders") {
		t.Fatal("picker should render")
	}

	for format, ext := range map[int]string{0: ".csv", 1: ".json"} {
		msg := app.doExport(format, dir)()
		done, ok := msg.(exportDoneMsg)
		if !ok {
			t.Fatalf("unexpected export result: %#v", msg)
		}
		if !strings.HasSuffix(done.path, ext) {
			t.Fatalf("path %q should end in %s", done.path, ext)
		}
		data, err := os.ReadFile(done.path)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), "/res/alpha") {
			t.Fatalf("export missing folder:\n%s", data)
		}
	}

	app, _ = update(t, app, tea.KeyMsg{Type: tea.KeyEsc})
	if app.exportPicking {
		t.Fatal("esc should close the picker")
	}
}

// ============================================================
// Key bindings
// ============================================================

func TestKeyMapShortHelp(t *testing.T) {
	if len(keys.ShortHelp()) == 0 {
		t.Fatal("short help should have bindings")
	}
}

func TestKeyMapFullHelp(t *testing.T) {
	groups := keys.FullHelp()
	if len(groups) == 0 {
		t.Fatal("full help should have groups")
	}
	for i, g := range groups {
		if len(g) == 0 {
			t.Fatalf("full help group %d is empty", i)
		}
	}
}

// ============================================================
// Styles (smoke test: they must not panic)
// ============================================================

func TestStylesRender(t *testing.T) {
	styles := []struct {
		name string
		fn   func() string
	}{
		{"activeTab", func() string { return activeTabStyle.Render("test") }},
		{"inactiveTab", func() string { return inactiveTabStyle.Render("test") }},
		{"panel", func() string { return panelStyle.Render("test") }},
		{"activePanel", func() string { return activePanelStyle.Render("test") }},
		{"total", func() string { return totalStyle.Render("test") }},
		{"title", func() string { return titleStyle.Render("test") }},
		{"subtitle", func() string { return subtitleStyle.Render("test") }},
		{"accent", func() string { return accentStyle.Render("test") }},
		{"success", func() string { return successStyle.Render("test") }},
		{"warning", func() string { return warningStyle.Render("test") }},
		{"error", func() string { return errorStyle.Render("test") }},
		{"muted", func() string { return mutedStyle.Render("test") }},
		{"highlight", func() string { return highlightStyle.Render("test") }},
		{"header", func() string { return headerStyle.Render("test") }},
		{"footer", func() string { return footerStyle.Render("test") }},
		{"selectedItem", func() string { return selectedItemStyle.Render("test") }},
		{"normalItem", func() string { return normalItemStyle.Render("test") }},
	}

	for _, s := range styles {
		if result := s.fn(); result == "" {
			t.Fatalf("style %q rendered empty", s.name)
		}
	}
	if rankColor(0) != rankColor(len(chartColors)) {
		t.Fatal("rank colors should cycle")
	}
}

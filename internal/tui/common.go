package tui

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/sadopc/foldertime/internal/activity"
	"github.com/sadopc/foldertime/internal/ingest"
	"github.com/sadopc/foldertime/internal/store"
)

// viewState represents the currently active view.
type viewState int

const (
	viewDashboard viewState = iota
	viewFolders
	viewApps
	viewSettings
)

var viewNames = []string{"Dashboard", "Folders", "Apps", "Settings"}

// --- Messages ---

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

type syncDoneMsg struct {
	result ingest.Result
	err    error
}

type settingsSavedMsg struct{}

// --- Analysis ---

// analysis is the ranked folder breakdown for one time window.
type analysis struct {
	records []activity.FolderActivity
	events  int
}

// analyzeRange runs the cached events overlapping [from, to), clipped to the
// window, through the analyzer.
func analyzeRange(s *store.Store, a *activity.Analyzer, from, to time.Time, includeWeb bool) (analysis, error) {
	events, err := s.ListEvents(store.EventFilter{From: &from, To: &to, Overlap: true})
	if err != nil {
		return analysis{}, err
	}
	windows := activity.ClipToWindow(store.Windows(events), from, to)
	return analysis{
		records: a.Analyze(windows, includeWeb),
		events:  len(windows),
	}, nil
}

// --- Helpers ---

func formatHours(secs float64) string {
	return fmt.Sprintf("%.1fh", secs/3600)
}

// folderLabel shortens a path to its last two segments for narrow columns.
func folderLabel(path string) string {
	clean := filepath.Clean(path)
	parent := filepath.Base(filepath.Dir(clean))
	base := filepath.Base(clean)
	if parent == "." || parent == "/" || parent == base {
		return base
	}
	return parent + "/" + base
}

// truncate cuts s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	r := []rune(s)
	if n <= 0 {
		return ""
	}
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

func padRight(s string, n int) string {
	w := len([]rune(s))
	if w >= n {
		return s
	}
	return s + strings.Repeat(" ", n-w)
}

func settingValue(s *store.Store, k, fallback string) string {
	v, err := s.GetSetting(k)
	if err != nil {
		return fallback
	}
	return v
}

package activity

import (
	"fmt"
	"math"
	"time"
)

// WindowEvent is one observed activity sample from the window watcher.
type WindowEvent struct {
	Application string
	Title       string
	Duration    float64 // seconds
	Timestamp   time.Time
}

// valid reports whether the event can take part in aggregation.
func (e WindowEvent) valid() bool {
	return e.Duration >= 0 && !math.IsNaN(e.Duration) && !math.IsInf(e.Duration, 0)
}

// ClipToWindow trims events to [from, to). Events that end before from or
// start at or after to are dropped; a zero bound leaves that side open.
// Malformed events pass through untouched so Analyze can skip them.
func ClipToWindow(events []WindowEvent, from, to time.Time) []WindowEvent {
	out := make([]WindowEvent, 0, len(events))
	for _, e := range events {
		if !e.valid() {
			out = append(out, e)
			continue
		}
		start := e.Timestamp
		end := start.Add(time.Duration(e.Duration * float64(time.Second)))
		if !to.IsZero() && !start.Before(to) {
			continue
		}
		clipped := false
		if !from.IsZero() && start.Before(from) {
			if !end.After(from) {
				continue
			}
			start, clipped = from, true
		}
		if !to.IsZero() && end.After(to) {
			end, clipped = to, true
		}
		if clipped {
			e.Timestamp = start
			e.Duration = end.Sub(start).Seconds()
		}
		out = append(out, e)
	}
	return out
}

// ExtractedFolder is a folder candidate pulled out of a single window title.
type ExtractedFolder struct {
	Path    string
	Context *string
}

// FolderActivity is the time accumulated for one (path, application) pair.
type FolderActivity struct {
	Path          string
	Application   string
	Context       *string
	TotalDuration float64 // seconds
	EventCount    int
}

// FormattedDuration renders the total as "1h 2m 3s", "2m 3s" or "3s".
func (f FolderActivity) FormattedDuration() string {
	return FormatSeconds(f.TotalDuration)
}

// ContextLabel returns the context or an empty string.
func (f FolderActivity) ContextLabel() string {
	if f.Context == nil {
		return ""
	}
	return *f.Context
}

func FormatSeconds(secs float64) string {
	total := int64(secs)
	h := total / 3600
	m := total % 3600 / 60
	s := total % 60

	switch {
	case h > 0:
		return fmt.Sprintf("%dh %dm %ds", h, m, s)
	case m > 0:
		return fmt.Sprintf("%dm %ds", m, s)
	default:
		return fmt.Sprintf("%ds", s)
	}
}

func strPtr(s string) *string { return &s }

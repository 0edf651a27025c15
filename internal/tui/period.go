package tui

import (
	"fmt"
	"strings"
	"time"
)

type reportMode int

const (
	reportDaily reportMode = iota
	reportWeekly
)

func parseReportMode(s string) reportMode {
	if strings.EqualFold(s, "weekly") {
		return reportWeekly
	}
	return reportDaily
}

func parseWeekday(s string) time.Weekday {
	if strings.EqualFold(s, "sunday") {
		return time.Sunday
	}
	return time.Monday
}

// period is a day or week window counted back from today.
type period struct {
	mode      reportMode
	offset    int // days or weeks before the current one
	weekStart time.Weekday
}

// bounds returns the local-time window [from, to).
func (p period) bounds(now time.Time) (time.Time, time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch p.mode {
	case reportWeekly:
		back := (int(today.Weekday()) - int(p.weekStart) + 7) % 7
		start := today.AddDate(0, 0, -back-7*p.offset)
		return start, start.AddDate(0, 0, 7)
	default:
		start := today.AddDate(0, 0, -p.offset)
		return start, start.AddDate(0, 0, 1)
	}
}

func (p period) label(now time.Time) string {
	from, to := p.bounds(now)
	if p.mode == reportWeekly {
		last := to.AddDate(0, 0, -1)
		return fmt.Sprintf("%s – %s", from.Format("Jan 02"), last.Format("Jan 02, 2006"))
	}
	return from.Format("Mon, Jan 02 2006")
}

func (p *period) older() { p.offset++ }

func (p *period) newer() {
	if p.offset > 0 {
		p.offset--
	}
}

func (p *period) toggleMode() {
	if p.mode == reportDaily {
		p.mode = reportWeekly
	} else {
		p.mode = reportDaily
	}
	p.offset = 0
}

func (p period) modeName() string {
	if p.mode == reportWeekly {
		return "Weekly"
	}
	return "Daily"
}

package store

import (
	"time"

	"github.com/sadopc/foldertime/internal/activity"
)

// Bucket mirrors an ActivityWatch bucket the events were pulled from.
type Bucket struct {
	ID           string
	Name         string
	Type         string
	Client       string
	Hostname     string
	CreatedAt    string
	LastSyncedAt *time.Time
}

// Event is one cached window sample.
type Event struct {
	ID        int64
	BucketID  string
	AWID      *int64
	Timestamp time.Time
	Duration  float64 // seconds
	App       string
	Title     string
}

// Window converts the cached row into the attribution engine's input.
func (e Event) Window() activity.WindowEvent {
	return activity.WindowEvent{
		Application: e.App,
		Title:       e.Title,
		Duration:    e.Duration,
		Timestamp:   e.Timestamp,
	}
}

// Windows converts a batch of cached rows.
func Windows(events []Event) []activity.WindowEvent {
	out := make([]activity.WindowEvent, len(events))
	for i, e := range events {
		out[i] = e.Window()
	}
	return out
}

type Setting struct {
	Key   string
	Value string
}

// EventFilter is used to filter window events in queries.
type EventFilter struct {
	BucketID *string
	App      *string
	From     *time.Time
	To       *time.Time
	Limit    int

	// Overlap widens From to events that started earlier but were still
	// running at From.
	Overlap bool
}

package awclient

import (
	"time"

	"github.com/sadopc/foldertime/internal/activity"
)

// WindowBucketType is the bucket type written by aw-watcher-window.
const WindowBucketType = "currentwindow"

type Bucket struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Client   string `json:"client"`
	Hostname string `json:"hostname"`
	Created  string `json:"created"`
}

// IsWindowBucket reports whether b holds window title samples.
func IsWindowBucket(b Bucket) bool {
	return b.Type == WindowBucketType
}

// Event is a raw ActivityWatch event. Data is left untyped because its
// shape depends on the watcher that produced it.
type Event struct {
	ID        *int64         `json:"id,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
	Duration  float64        `json:"duration"`
	Data      map[string]any `json:"data"`
}

// EventQuery bounds an events request. Zero values are left out.
type EventQuery struct {
	Start *time.Time
	End   *time.Time
	Limit int
}

// Window converts the event to the attribution input. It returns false when
// the data lacks a string app or title.
func (e Event) Window() (activity.WindowEvent, bool) {
	app, ok := e.Data["app"].(string)
	if !ok {
		return activity.WindowEvent{}, false
	}
	title, ok := e.Data["title"].(string)
	if !ok {
		return activity.WindowEvent{}, false
	}
	return activity.WindowEvent{
		Application: app,
		Title:       title,
		Duration:    e.Duration,
		Timestamp:   e.Timestamp,
	}, true
}

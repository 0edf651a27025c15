package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sadopc/foldertime/internal/activity"
)

type jsonExport struct {
	ExportedAt   string       `json:"exported_at"`
	Count        int          `json:"count"`
	TotalSeconds float64      `json:"total_seconds"`
	Folders      []jsonFolder `json:"folders"`
}

type jsonFolder struct {
	Path        string  `json:"path"`
	Application string  `json:"application"`
	Context     *string `json:"context,omitempty"`
	DurationSec float64 `json:"duration_seconds"`
	Duration    string  `json:"duration"`
	EventCount  int     `json:"event_count"`
}

func newJSONExport(records []activity.FolderActivity) jsonExport {
	export := jsonExport{
		ExportedAt:   time.Now().UTC().Format(time.RFC3339),
		Count:        len(records),
		TotalSeconds: activity.TotalDuration(records),
		Folders:      make([]jsonFolder, 0, len(records)),
	}
	for _, r := range records {
		export.Folders = append(export.Folders, jsonFolder{
			Path:        r.Path,
			Application: r.Application,
			Context:     r.Context,
			DurationSec: r.TotalDuration,
			Duration:    r.FormattedDuration(),
			EventCount:  r.EventCount,
		})
	}
	return export
}

// ToJSON writes the records to an indented JSON file at path.
func ToJSON(records []activity.FolderActivity, path string) error {
	data, err := json.MarshalIndent(newJSONExport(records), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write json file: %w", err)
	}
	return nil
}

// WriteJSON streams the same document ToJSON produces.
func WriteJSON(w io.Writer, records []activity.FolderActivity) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(newJSONExport(records)); err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	return nil
}

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/sadopc/foldertime/internal/activity"
)

var csvHeader = []string{"Rank", "Path", "Application", "Context", "Duration (s)", "Duration", "Events"}

// ToCSV writes the records, in the order given, to a CSV file at path.
func ToCSV(records []activity.FolderActivity, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	if err := WriteCSV(f, records); err != nil {
		return err
	}
	return f.Close()
}

func WriteCSV(out io.Writer, records []activity.FolderActivity) error {
	w := csv.NewWriter(out)

	if err := w.Write(csvHeader); err != nil {
		return err
	}
	for i, r := range records {
		row := []string{
			strconv.Itoa(i + 1),
			r.Path,
			r.Application,
			r.ContextLabel(),
			strconv.FormatFloat(r.TotalDuration, 'f', -1, 64),
			r.FormattedDuration(),
			strconv.Itoa(r.EventCount),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

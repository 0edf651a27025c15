package export

import (
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/sadopc/foldertime/internal/activity"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7C3AED")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#374151"))
)

// Table renders the records as a bordered terminal table, ranked in the order
// given, with a total row at the bottom.
func Table(records []activity.FolderActivity) string {
	rows := make([][]string, 0, len(records)+1)
	for i, r := range records {
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			r.Path,
			r.Application,
			r.ContextLabel(),
			r.FormattedDuration(),
			strconv.Itoa(r.EventCount),
		})
	}
	rows = append(rows, []string{"", "Total", "", "", activity.FormatSeconds(activity.TotalDuration(records)), ""})

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("#", "Folder", "App", "Context", "Time", "Events").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	return t.String()
}

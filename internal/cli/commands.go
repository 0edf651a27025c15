package cli

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/sadopc/foldertime/internal/activity"
	"github.com/sadopc/foldertime/internal/export"
	"github.com/sadopc/foldertime/internal/ingest"
	"github.com/sadopc/foldertime/internal/store"
	"github.com/sadopc/foldertime/internal/tui"
)

const dateLayout = "2006-01-02"

// rangeFlags are shared by every command that works on a time window.
type rangeFlags struct {
	from string
	to   string
	days int
}

func (rf *rangeFlags) register(fs *flag.FlagSet, defaultDays int) {
	fs.StringVar(&rf.from, "from", "", "start of the range (YYYY-MM-DD or RFC3339)")
	fs.StringVar(&rf.to, "to", "", "end of the range, inclusive for dates (YYYY-MM-DD or RFC3339)")
	fs.IntVar(&rf.days, "days", defaultDays, "last N days including today, ignored when -from is set")
}

// resolve turns the flags into a half-open [from, to) window. Zero times
// mean an open end; they are only produced when days is 0 and no explicit
// bound was given.
func (rf rangeFlags) resolve(now time.Time) (time.Time, time.Time, error) {
	var from, to time.Time

	if rf.days < 0 {
		return from, to, usagef("-days must not be negative")
	}
	if rf.from != "" {
		t, err := parseTime(rf.from, false)
		if err != nil {
			return from, to, usagef("invalid -from: %v", err)
		}
		from = t
	} else if rf.days > 0 {
		from = startOfDay(now).AddDate(0, 0, -(rf.days - 1))
	}

	if rf.to != "" {
		t, err := parseTime(rf.to, true)
		if err != nil {
			return from, to, usagef("invalid -to: %v", err)
		}
		to = t
	} else if !from.IsZero() {
		to = startOfDay(now).AddDate(0, 0, 1)
	}

	if !from.IsZero() && !to.IsZero() && !to.After(from) {
		return from, to, usagef("-to must be after -from")
	}
	return from, to, nil
}

// parseTime accepts RFC3339 or a local date. A date used as an end bound
// covers the whole day.
func parseTime(s string, end bool) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("%q is neither YYYY-MM-DD nor RFC3339", s)
	}
	if end {
		t = t.AddDate(0, 0, 1)
	}
	return t, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// ==================== sync ====================

func (r *runner) sync(ctx context.Context, args []string) error {
	fs := r.newFlagSet("sync")
	var rf rangeFlags
	rf.register(fs, 0)
	keep := fs.Int("keep-days", 0, "after syncing, drop cached events older than N days (0 keeps everything)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *keep < 0 {
		return usagef("-keep-days must not be negative")
	}
	from, to, err := rf.resolve(r.now())
	if err != nil {
		return err
	}

	st, err := r.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	client := r.client()
	res, err := ingest.Sync(ctx, client, st, from, to, r.logger)
	if err != nil {
		return fmt.Errorf("sync from %s: %w", client.BaseURL(), err)
	}
	fmt.Fprintf(r.stdout, "Synced %d bucket(s): %d fetched, %d new, %d updated, %d skipped\n",
		res.Buckets, res.Fetched, res.Inserted, res.Updated, res.Skipped)

	if *keep > 0 {
		cutoff := startOfDay(r.now()).AddDate(0, 0, -(*keep - 1))
		n, err := st.DeleteEventsBefore(cutoff)
		if err != nil {
			return fmt.Errorf("prune cache: %w", err)
		}
		r.logger.Info("pruned cache", zap.Time("before", cutoff), zap.Int("deleted", n))
		fmt.Fprintf(r.stdout, "Pruned %d cached event(s) before %s\n", n, cutoff.Format(dateLayout))
	}
	return nil
}

// ==================== import ====================

func (r *runner) importFile(args []string) error {
	fs := r.newFlagSet("import")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return usagef("import takes exactly one export file")
	}

	f, err := openFile(fs.Arg(0))
	if err != nil {
		return err
	}
	defer f.Close()

	data, err := ingest.ReadExport(f)
	if err != nil {
		return fmt.Errorf("read %s: %w", fs.Arg(0), err)
	}

	st, err := r.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	res, err := ingest.Import(st, data, r.logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.stdout, "Imported %d bucket(s): %d read, %d new, %d updated, %d skipped\n",
		res.Buckets, res.Fetched, res.Inserted, res.Updated, res.Skipped)
	return nil
}

// ==================== report / export ====================

// analyze loads the cached events overlapping the window, clips them to it
// and ranks their folders.
func (r *runner) analyze(st *store.Store, from, to time.Time, includeWeb bool) ([]activity.FolderActivity, error) {
	events, err := st.ListEvents(store.EventFilter{From: &from, To: &to, Overlap: true})
	if err != nil {
		return nil, err
	}
	windows := activity.ClipToWindow(store.Windows(events), from, to)
	records := r.analyzer().Analyze(windows, includeWeb)
	r.logger.Debug("analyzed range",
		zap.Time("from", from),
		zap.Time("to", to),
		zap.Int("events", len(events)),
		zap.Int("folders", len(records)))
	return records, nil
}

func (r *runner) report(args []string) error {
	fs := r.newFlagSet("report")
	var rf rangeFlags
	rf.register(fs, 1)
	web := fs.Bool("web", false, "attribute browser windows to host/path folders")
	top := fs.Int("top", 0, "show only the N longest folders (0 for all)")
	asJSON := fs.Bool("json", false, "print JSON instead of a table")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if *top < 0 {
		return usagef("-top must not be negative")
	}
	from, to, err := r.boundedRange(rf)
	if err != nil {
		return err
	}

	st, err := r.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := r.analyze(st, from, to, r.includeWeb(fs, *web, st))
	if err != nil {
		return err
	}
	if *top > 0 && len(records) > *top {
		records = records[:*top]
	}

	if *asJSON {
		return export.WriteJSON(r.stdout, records)
	}
	if len(records) == 0 {
		fmt.Fprintf(r.stdout, "No folder activity between %s and %s\n", describe(from), describe(to))
		return nil
	}
	fmt.Fprintln(r.stdout, export.Table(records))
	return nil
}

func (r *runner) export(args []string) error {
	fs := r.newFlagSet("export")
	var rf rangeFlags
	rf.register(fs, 1)
	web := fs.Bool("web", false, "attribute browser windows to host/path folders")
	format := fs.String("format", "csv", "output format: csv or json")
	out := fs.String("o", "", "output file (default foldertime-<date>.<format>)")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	*format = strings.ToLower(*format)
	if *format != "csv" && *format != "json" {
		return usagef("unknown -format %q (want csv or json)", *format)
	}
	from, to, err := r.boundedRange(rf)
	if err != nil {
		return err
	}

	st, err := r.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	records, err := r.analyze(st, from, to, r.includeWeb(fs, *web, st))
	if err != nil {
		return err
	}

	path := *out
	if path == "" {
		path = fmt.Sprintf("foldertime-%s.%s", from.Format(dateLayout), *format)
	}
	if *format == "json" {
		err = export.ToJSON(records, path)
	} else {
		err = export.ToCSV(records, path)
	}
	if err != nil {
		return err
	}
	abs, _ := filepath.Abs(path)
	fmt.Fprintf(r.stdout, "Exported %d folder(s) to %s\n", len(records), abs)
	return nil
}

// boundedRange is resolve for commands that need both ends of the window.
func (r *runner) boundedRange(rf rangeFlags) (time.Time, time.Time, error) {
	if rf.days == 0 && rf.from == "" {
		return time.Time{}, time.Time{}, usagef("-days must be at least 1 when -from is not set")
	}
	return rf.resolve(r.now())
}

func describe(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}

// ==================== tui ====================

func (r *runner) tui(args []string) error {
	fs := r.newFlagSet("tui")
	if err := parseFlags(fs, args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return usagef("tui takes no arguments")
	}

	st, err := r.openStore()
	if err != nil {
		return err
	}
	defer st.Close()

	app := tui.NewApp(st, r.analyzer(), r.client(), r.logger)
	if _, err := tea.NewProgram(app, tea.WithAltScreen()).Run(); err != nil {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// Package cli implements the foldertime command line: sync, import, report,
// export and the interactive UI.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/sadopc/foldertime/internal/activity"
	"github.com/sadopc/foldertime/internal/awclient"
	"github.com/sadopc/foldertime/internal/config"
	"github.com/sadopc/foldertime/internal/logging"
	"github.com/sadopc/foldertime/internal/store"
)

const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitUsage   = 2
)

// UsageError marks a bad invocation; Run reports it with ExitUsage.
type UsageError struct {
	Message string
}

func (e *UsageError) Error() string {
	return e.Message
}

func usagef(format string, args ...any) error {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}

const usage = `usage: foldertime <command> [flags]

commands:
  sync     fetch window events from ActivityWatch into the local cache
  import   load an ActivityWatch export file into the local cache
  report   print the folders you spent time in
  export   write the folder report to a CSV or JSON file
  tui      open the interactive dashboard (default)

Run "foldertime <command> -h" for command flags.
`

// runner carries what every subcommand needs.
type runner struct {
	cfg    *config.Config
	logger *zap.Logger
	stdout io.Writer
	stderr io.Writer
	now    func() time.Time
}

// Run executes one invocation and returns the process exit code.
func Run(ctx context.Context, args []string, cfg *config.Config, stdout, stderr io.Writer) int {
	if cfg == nil {
		cfg = config.Default()
	}
	r := &runner{cfg: cfg, stdout: stdout, stderr: stderr, now: time.Now}

	cmd := "tui"
	if len(args) > 0 && (args[0] == "-h" || args[0] == "--help") {
		cmd, args = "help", nil
	} else if len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		cmd, args = args[0], args[1:]
	}

	var err error
	switch cmd {
	case "sync":
		err = r.withLogger(false, func() error { return r.sync(ctx, args) })
	case "import":
		err = r.withLogger(false, func() error { return r.importFile(args) })
	case "report":
		err = r.withLogger(false, func() error { return r.report(args) })
	case "export":
		err = r.withLogger(false, func() error { return r.export(args) })
	case "tui":
		err = r.withLogger(true, func() error { return r.tui(args) })
	case "help":
		fmt.Fprint(stdout, usage)
		return ExitSuccess
	default:
		err = usagef("unknown command %q", cmd)
	}

	var uerr *UsageError
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, flag.ErrHelp):
		return ExitSuccess
	case errors.As(err, &uerr):
		fmt.Fprintf(stderr, "error: %v\n\n%s", err, usage)
		return ExitUsage
	default:
		fmt.Fprintf(stderr, "error: %v\n", err)
		return ExitFailure
	}
}

// withLogger builds the logger for one command and flushes it afterwards.
// The interactive UI owns the terminal, so its logs go to a file next to the
// database instead of stderr.
func (r *runner) withLogger(tui bool, fn func() error) error {
	lc := logging.Config{
		Level:       r.cfg.Logging.Level,
		Development: r.cfg.Logging.Dev,
		OutputPaths: []string{"stderr"},
	}
	if tui {
		if path, err := r.dbPath(); err == nil {
			dir := filepath.Dir(path)
			if err := os.MkdirAll(dir, 0o755); err == nil {
				lc.OutputPaths = []string{filepath.Join(dir, "foldertime.log")}
			}
		}
	}

	logger, err := logging.New(lc)
	switch {
	case err == nil:
	case tui:
		fmt.Fprintf(r.stderr, "warning: %v; logging disabled\n", err)
		logger = zap.NewNop()
	default:
		fmt.Fprintf(r.stderr, "warning: %v; using default logging\n", err)
		logger = logging.NewDefault()
	}
	r.logger = logger
	defer logger.Sync()

	return fn()
}

func (r *runner) dbPath() (string, error) {
	if r.cfg.Store.Path != "" {
		return r.cfg.Store.Path, nil
	}
	return store.DefaultDBPath()
}

func (r *runner) openStore() (*store.Store, error) {
	path, err := r.dbPath()
	if err != nil {
		return nil, fmt.Errorf("locate database: %w", err)
	}
	s, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	r.logger.Debug("opened store", zap.String("path", path))
	return s, nil
}

func (r *runner) analyzer() *activity.Analyzer {
	return activity.NewAnalyzer(
		activity.WithHome(r.cfg.Analysis.Home),
		activity.WithMemoize(r.cfg.Analysis.Cache),
		activity.WithLogger(r.logger.Named("analyze")),
	)
}

func (r *runner) client() *awclient.Client {
	aw := r.cfg.ActivityWatch
	return awclient.New(awclient.Config{URL: aw.URL, Timeout: aw.Timeout, Retries: aw.Retries}, r.logger)
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func (r *runner) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet("foldertime "+name, flag.ContinueOnError)
	fs.SetOutput(r.stderr)
	return fs
}

func parseFlags(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return err
		}
		return usagef("%v", err)
	}
	return nil
}

// includeWeb resolves the web toggle: an explicit -web flag wins, then the
// environment, then the stored setting.
func (r *runner) includeWeb(fs *flag.FlagSet, flagValue bool, st *store.Store) bool {
	set := false
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "web" {
			set = true
		}
	})
	if set {
		return flagValue
	}
	return r.cfg.Analysis.IncludeWeb || st.GetBoolSetting("include_web", false)
}

func openFile(path string) (*os.File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return f, nil
}

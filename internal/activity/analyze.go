package activity

import (
	"sort"

	"go.uber.org/zap"
)

// Analyzer attributes window events to folders. It holds no per-call state,
// so one Analyzer may serve concurrent callers.
type Analyzer struct {
	resolver Resolver
	home     string
	memoize  bool
	logger   *zap.Logger
}

type Option func(*Analyzer)

// WithResolver replaces the filesystem resolver.
func WithResolver(r Resolver) Option {
	return func(a *Analyzer) { a.resolver = r }
}

// WithHome sets the directory "~" expands to, both in titles and in the
// default resolver's search bases.
func WithHome(home string) Option {
	return func(a *Analyzer) { a.home = home }
}

// WithMemoize caches name lookups for the duration of each Analyze call.
func WithMemoize(on bool) Option {
	return func(a *Analyzer) { a.memoize = on }
}

func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

func NewAnalyzer(opts ...Option) *Analyzer {
	a := &Analyzer{memoize: true, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	if a.resolver == nil {
		dr := NewDirResolver(a.home)
		a.home = dr.Home()
		a.resolver = dr
	}
	return a
}

// Classify runs a single title through the classifier without aggregation.
func (a *Analyzer) Classify(app, title string, includeWeb bool) []ExtractedFolder {
	return NewClassifier(a.resolver, a.home).Classify(app, title, includeWeb)
}

// Analyze folds the batch into per-(path, application) totals and returns
// them ranked. It never fails: events that cannot be attributed are dropped.
func (a *Analyzer) Analyze(events []WindowEvent, includeWeb bool) []FolderActivity {
	var r Resolver = a.resolver
	if a.memoize {
		r = newMemoResolver(r)
	}
	c := NewClassifier(r, a.home)

	agg := newAggregator()
	var skipped, unmatched int
	for _, ev := range events {
		if !ev.valid() {
			skipped++
			a.logger.Debug("skipping malformed event",
				zap.String("app", ev.Application),
				zap.Float64("duration", ev.Duration))
			continue
		}
		folders := c.Classify(ev.Application, ev.Title, includeWeb)
		if len(folders) == 0 {
			unmatched++
			continue
		}
		for _, f := range folders {
			agg.add(f, ev)
		}
	}

	ranked := Rank(agg.records())
	a.logger.Debug("folder analysis complete",
		zap.Int("events", len(events)),
		zap.Int("skipped", skipped),
		zap.Int("unmatched", unmatched),
		zap.Int("folders", len(ranked)),
		zap.Bool("include_web", includeWeb))
	return ranked
}

type folderKey struct {
	path        string
	application string
}

type aggregator struct {
	byKey map[folderKey]*FolderActivity
}

func newAggregator() *aggregator {
	return &aggregator{byKey: make(map[folderKey]*FolderActivity)}
}

func (g *aggregator) add(f ExtractedFolder, ev WindowEvent) {
	k := folderKey{path: f.Path, application: ev.Application}
	if existing, ok := g.byKey[k]; ok {
		existing.TotalDuration += ev.Duration
		existing.EventCount++
		if existing.Context == nil {
			existing.Context = f.Context
		}
		return
	}
	g.byKey[k] = &FolderActivity{
		Path:          f.Path,
		Application:   ev.Application,
		Context:       f.Context,
		TotalDuration: ev.Duration,
		EventCount:    1,
	}
}

func (g *aggregator) records() []FolderActivity {
	out := make([]FolderActivity, 0, len(g.byKey))
	for _, fa := range g.byKey {
		out = append(out, *fa)
	}
	return out
}

// Rank sorts by total duration, longest first. Equal durations are ordered
// by path and then application so the output is deterministic.
func Rank(records []FolderActivity) []FolderActivity {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		if a.TotalDuration != b.TotalDuration {
			return a.TotalDuration > b.TotalDuration
		}
		if a.Path != b.Path {
			return a.Path < b.Path
		}
		return a.Application < b.Application
	})
	return records
}

// ApplicationTotal is the time attributed to one application across folders.
type ApplicationTotal struct {
	Application   string
	Family        Family
	TotalDuration float64
	EventCount    int
	Folders       int
}

// ByApplication rolls ranked folder records up per application, longest first.
func ByApplication(records []FolderActivity) []ApplicationTotal {
	idx := make(map[string]int)
	var out []ApplicationTotal
	for _, r := range records {
		i, ok := idx[r.Application]
		if !ok {
			i = len(out)
			idx[r.Application] = i
			out = append(out, ApplicationTotal{Application: r.Application, Family: FamilyOf(r.Application)})
		}
		out[i].TotalDuration += r.TotalDuration
		out[i].EventCount += r.EventCount
		out[i].Folders++
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalDuration != out[j].TotalDuration {
			return out[i].TotalDuration > out[j].TotalDuration
		}
		return out[i].Application < out[j].Application
	})
	return out
}

// TotalDuration sums the durations of all records.
func TotalDuration(records []FolderActivity) float64 {
	var total float64
	for _, r := range records {
		total += r.TotalDuration
	}
	return total
}

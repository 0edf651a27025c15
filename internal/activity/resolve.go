package activity

import (
	"os"
	"path/filepath"
	"strings"
)

// Resolver turns bare folder names into absolute paths.
type Resolver interface {
	Resolve(name string) string
}

// searchBases are probed in this order. A leading "~" is expanded against the
// resolver's home directory.
var searchBases = []string{
	"~/Developer",
	"~/Documents",
	"~/Projects",
	"~/Code",
	"~/dev",
	"~/src",
	"~/workspace",
	"~/Desktop",
	"~/Downloads",
	"/tmp",
}

// DirResolver probes a fixed list of base directories, first directly and then
// one level of subdirectories deep. Probes are read-only and every error is
// swallowed; an unresolvable name comes back unchanged.
type DirResolver struct {
	home  string
	bases []string
}

// NewDirResolver builds a resolver rooted at home. An empty home falls back to
// the current user's home directory; when that is unknown too, only the
// absolute bases are probed.
func NewDirResolver(home string) *DirResolver {
	if home == "" {
		home, _ = os.UserHomeDir()
	}
	bases := make([]string, 0, len(searchBases))
	for _, b := range searchBases {
		if home == "" && strings.HasPrefix(b, "~") {
			continue
		}
		bases = append(bases, expandTilde(b, home))
	}
	return &DirResolver{home: home, bases: bases}
}

// Home returns the directory "~" expands to.
func (r *DirResolver) Home() string { return r.home }

func (r *DirResolver) Resolve(name string) string {
	clean := strings.TrimSpace(name)
	if clean == "" || strings.HasPrefix(clean, "/") {
		return clean
	}

	for _, base := range r.bases {
		candidate := base + "/" + clean
		if isDir(candidate) {
			return candidate
		}
	}

	for _, base := range r.bases {
		entries, err := os.ReadDir(base)
		if err != nil {
			continue
		}
		for _, e := range entries {
			candidate := base + "/" + e.Name() + "/" + clean
			if isDir(candidate) {
				return candidate
			}
		}
	}

	return clean
}

func isDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}

// expandTilde handles "~" and "~/..." only; "~user" forms are left alone.
func expandTilde(p, home string) string {
	if home == "" {
		return p
	}
	if p == "~" {
		return home
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(home, p[2:])
	}
	return p
}

// memoResolver caches lookups for the lifetime of one analysis pass.
type memoResolver struct {
	next Resolver
	seen map[string]string
}

func newMemoResolver(next Resolver) *memoResolver {
	return &memoResolver{next: next, seen: make(map[string]string)}
}

func (m *memoResolver) Resolve(name string) string {
	if p, ok := m.seen[name]; ok {
		return p
	}
	p := m.next.Resolve(name)
	m.seen[name] = p
	return p
}

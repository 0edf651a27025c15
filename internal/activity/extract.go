package activity

import (
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	editorSeparator    = " — " // em dash
	xcodeSeparator     = "—"
	jetBrainsSeparator = " – " // en dash
	webContext         = "web"
)

var (
	// "git-mcp = side-project"
	assignmentRe = regexp.MustCompile(`^([^=\s]+)\s*=\s*(.+)$`)
	// "[project] file.ext"
	bracketRe = regexp.MustCompile(`\[([^\]]+)\]`)
	urlRe     = regexp.MustCompile(`https?://([^/\s]+)(/[^?\s#]*)?`)
)

// shellTitles are terminal titles that say nothing about the working folder.
var shellTitles = map[string]bool{
	"zsh": true, "bash": true, "sh": true, "fish": true, "tcsh": true,
	"~": true, "-": true, "_": true, ".": true, "..": true,
	"git": true, "cd": true, "ls": true, "pwd": true,
}

func (c *Classifier) terminal(title string) []ExtractedFolder {
	if m := assignmentRe.FindStringSubmatch(title); m != nil {
		name := strings.TrimSpace(m[1])
		ctx := strings.TrimSpace(m[2])
		return c.folder(c.resolver.Resolve(name), strPtr(ctx))
	}

	if isAbsLike(title) {
		clean := strings.TrimSpace(title)
		if utf8.RuneCountInString(clean) > 1 {
			return c.folder(c.expand(clean), nil)
		}
	}

	switch {
	case strings.HasPrefix(title, ".."):
		// "..git-mcp/src" style titles from shortened prompts
		rest := strings.TrimLeft(strings.TrimSpace(title), "./")
		name, _, _ := strings.Cut(rest, "/")
		if name == "" {
			return nil
		}
		return c.folder(c.resolver.Resolve(name), nil)

	case !strings.ContainsAny(title, `/\`) && utf8.RuneCountInString(title) > 1 && !shellTitles[title]:
		return c.folder(c.resolver.Resolve(title), nil)

	case strings.Contains(title, "/"):
		if isAbsLike(title) {
			return c.folder(c.expand(title), nil)
		}
		last := lastSegment(title)
		if last == "" || last == "~" {
			return nil
		}
		return c.folder(c.resolver.Resolve(last), nil)
	}
	return nil
}

func (c *Classifier) fileManager(title string) []ExtractedFolder {
	clean := strings.TrimSpace(title)
	if clean == "" {
		return nil
	}
	return c.folder(c.resolver.Resolve(clean), nil)
}

func (c *Classifier) editor(title string) []ExtractedFolder {
	if _, after, ok := strings.Cut(title, editorSeparator); ok {
		project := strings.TrimSpace(after)
		if project == "" {
			return nil
		}
		return c.folder(c.pathOrResolve(project), nil)
	}

	if m := bracketRe.FindStringSubmatch(title); m != nil {
		return c.folder(c.pathOrResolve(m[1]), nil)
	}

	if title != "" && !strings.ContainsAny(title, "./") {
		return c.folder(c.resolver.Resolve(title), nil)
	}
	return nil
}

func (c *Classifier) xcode(title string) []ExtractedFolder {
	before, _, _ := strings.Cut(title, xcodeSeparator)
	project := strings.TrimSpace(before)
	if project == "" {
		return nil
	}
	return c.folder(c.resolver.Resolve(project), nil)
}

func (c *Classifier) jetBrains(title string) []ExtractedFolder {
	before, _, ok := strings.Cut(title, jetBrainsSeparator)
	if !ok {
		return nil
	}
	project := strings.TrimSpace(before)
	if project == "" {
		return nil
	}
	return c.folder(c.pathOrResolve(project), nil)
}

func (c *Classifier) web(title string) []ExtractedFolder {
	raw := urlRe.FindString(title)
	if raw == "" {
		return nil
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return nil
	}
	p := u.Hostname()
	if u.Path != "" && u.Path != "/" {
		p += u.Path
	}
	return c.folder(p, strPtr(webContext))
}

// pathOrResolve keeps absolute-looking names (after tilde expansion) and
// resolves everything else.
func (c *Classifier) pathOrResolve(name string) string {
	if isAbsLike(name) {
		return c.expand(name)
	}
	return c.resolver.Resolve(name)
}

func (c *Classifier) expand(p string) string {
	return expandTilde(p, c.home)
}

// folder wraps a single result. Empty paths carry no attribution and are dropped.
func (c *Classifier) folder(path string, ctx *string) []ExtractedFolder {
	if path == "" {
		return nil
	}
	return []ExtractedFolder{{Path: path, Context: ctx}}
}

func isAbsLike(s string) bool {
	return strings.HasPrefix(s, "/") || strings.HasPrefix(s, "~")
}

func lastSegment(p string) string {
	parts := strings.Split(p, "/")
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" {
			return parts[i]
		}
	}
	return ""
}

package activity

// Family groups applications whose window titles share a format.
type Family int

const (
	FamilyUnknown Family = iota
	FamilyTerminal
	FamilyFileManager
	FamilyEditor
	FamilyXcode
	FamilyJetBrains
	FamilyBrowser
)

var familyNames = map[Family]string{
	FamilyUnknown:     "other",
	FamilyTerminal:    "terminal",
	FamilyFileManager: "file manager",
	FamilyEditor:      "editor",
	FamilyXcode:       "xcode",
	FamilyJetBrains:   "jetbrains",
	FamilyBrowser:     "browser",
}

func (f Family) String() string {
	if name, ok := familyNames[f]; ok {
		return name
	}
	return "other"
}

// appFamilies maps exact application names to their family. The sets are
// disjoint, so a lookup is equivalent to checking families in priority order.
var appFamilies = map[string]Family{
	"Warp":      FamilyTerminal,
	"Terminal":  FamilyTerminal,
	"iTerm":     FamilyTerminal,
	"iTerm2":    FamilyTerminal,
	"Hyper":     FamilyTerminal,
	"Alacritty": FamilyTerminal,
	"kitty":     FamilyTerminal,

	"Finder":      FamilyFileManager,
	"Path Finder": FamilyFileManager,

	"Cursor":             FamilyEditor,
	"Visual Studio Code": FamilyEditor,
	"VSCode":             FamilyEditor,
	"Code":               FamilyEditor,
	"Sublime Text":       FamilyEditor,
	"Atom":               FamilyEditor,
	"TextMate":           FamilyEditor,
	"Nova":               FamilyEditor,
	"BBEdit":             FamilyEditor,

	"Xcode": FamilyXcode,

	"IntelliJ IDEA":  FamilyJetBrains,
	"WebStorm":       FamilyJetBrains,
	"PyCharm":        FamilyJetBrains,
	"RubyMine":       FamilyJetBrains,
	"PhpStorm":       FamilyJetBrains,
	"CLion":          FamilyJetBrains,
	"GoLand":         FamilyJetBrains,
	"DataGrip":       FamilyJetBrains,
	"Android Studio": FamilyJetBrains,

	"Safari":  FamilyBrowser,
	"Chrome":  FamilyBrowser,
	"Firefox": FamilyBrowser,
	"Edge":    FamilyBrowser,
	"Brave":   FamilyBrowser,
	"Arc":     FamilyBrowser,
	"Vivaldi": FamilyBrowser,
	"Opera":   FamilyBrowser,
}

// FamilyOf returns the family for an application name.
func FamilyOf(app string) Family {
	return appFamilies[app]
}

type extractFunc func(c *Classifier, title string) []ExtractedFolder

var extractors = map[Family]extractFunc{
	FamilyTerminal:    (*Classifier).terminal,
	FamilyFileManager: (*Classifier).fileManager,
	FamilyEditor:      (*Classifier).editor,
	FamilyXcode:       (*Classifier).xcode,
	FamilyJetBrains:   (*Classifier).jetBrains,
	FamilyBrowser:     (*Classifier).web,
}

// Classifier dispatches window titles to the extractor for their
// application's family.
type Classifier struct {
	resolver Resolver
	home     string
}

// NewClassifier returns a classifier that resolves bare names with r and
// expands "~" against home.
func NewClassifier(r Resolver, home string) *Classifier {
	return &Classifier{resolver: r, home: home}
}

// Classify extracts folder candidates from a window title. Unknown
// applications, and browsers when includeWeb is false, yield nothing.
func (c *Classifier) Classify(app, title string, includeWeb bool) []ExtractedFolder {
	fam := FamilyOf(app)
	if fam == FamilyBrowser && !includeWeb {
		return nil
	}
	extract, ok := extractors[fam]
	if !ok {
		return nil
	}
	return extract(c, title)
}

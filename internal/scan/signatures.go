package scan

// The signature tables below are configuration data, not code: a fixed,
// versioned table of directory names and file patterns matched during
// traversal. Matching logic lives in the scanners; the tables are unit
// tested independently of any filesystem.

// Category identifiers for bloat classification.
const (
	CategoryDependencies = "dependencies"
	CategoryBuildOutput  = "build-output"
	CategoryVirtualEnv   = "virtualenv"
	CategoryVCSInternals = "vcs-internals"
	CategoryToolCache    = "tool-cache"
)

// BloatSignature matches a directory by exact base name and assigns it a
// category and a default safety level.
type BloatSignature struct {
	Name       string
	CategoryID string
	Kind       string
	Safety     SafetyLevel
}

var bloatSignatures = []BloatSignature{
	// Dependency trees: fully regenerable from lockfiles.
	{Name: "node_modules", CategoryID: CategoryDependencies, Kind: "npm packages", Safety: SafetySafe},
	{Name: "bower_components", CategoryID: CategoryDependencies, Kind: "bower packages", Safety: SafetySafe},
	{Name: "Pods", CategoryID: CategoryDependencies, Kind: "cocoapods", Safety: SafetySafe},
	{Name: "vendor", CategoryID: CategoryDependencies, Kind: "vendored packages", Safety: SafetyReview},

	// Build output: regenerable, but may hold artifacts not yet shipped.
	{Name: "target", CategoryID: CategoryBuildOutput, Kind: "cargo/maven output", Safety: SafetyReview},
	{Name: "build", CategoryID: CategoryBuildOutput, Kind: "build output", Safety: SafetyReview},
	{Name: "dist", CategoryID: CategoryBuildOutput, Kind: "distribution output", Safety: SafetyReview},
	{Name: "out", CategoryID: CategoryBuildOutput, Kind: "build output", Safety: SafetyReview},
	{Name: ".next", CategoryID: CategoryBuildOutput, Kind: "next.js output", Safety: SafetySafe},
	{Name: ".nuxt", CategoryID: CategoryBuildOutput, Kind: "nuxt output", Safety: SafetySafe},
	{Name: "DerivedData", CategoryID: CategoryBuildOutput, Kind: "xcode derived data", Safety: SafetySafe},

	// Virtual environments.
	{Name: ".venv", CategoryID: CategoryVirtualEnv, Kind: "python venv", Safety: SafetySafe},
	{Name: "venv", CategoryID: CategoryVirtualEnv, Kind: "python venv", Safety: SafetySafe},
	{Name: ".tox", CategoryID: CategoryVirtualEnv, Kind: "tox environments", Safety: SafetySafe},

	// Revision-control internals: deleting these loses history.
	{Name: ".git", CategoryID: CategoryVCSInternals, Kind: "git repository", Safety: SafetyDangerous},
	{Name: ".svn", CategoryID: CategoryVCSInternals, Kind: "subversion metadata", Safety: SafetyDangerous},
	{Name: ".hg", CategoryID: CategoryVCSInternals, Kind: "mercurial metadata", Safety: SafetyDangerous},

	// Generic tool caches.
	{Name: "__pycache__", CategoryID: CategoryToolCache, Kind: "python bytecode", Safety: SafetySafe},
	{Name: ".pytest_cache", CategoryID: CategoryToolCache, Kind: "pytest cache", Safety: SafetySafe},
	{Name: ".mypy_cache", CategoryID: CategoryToolCache, Kind: "mypy cache", Safety: SafetySafe},
	{Name: ".cache", CategoryID: CategoryToolCache, Kind: "generic cache", Safety: SafetySafe},
	{Name: ".parcel-cache", CategoryID: CategoryToolCache, Kind: "parcel cache", Safety: SafetySafe},
	{Name: ".turbo", CategoryID: CategoryToolCache, Kind: "turborepo cache", Safety: SafetySafe},
	{Name: ".gradle", CategoryID: CategoryToolCache, Kind: "gradle cache", Safety: SafetySafe},
	{Name: ".terraform", CategoryID: CategoryToolCache, Kind: "terraform providers", Safety: SafetySafe},
	{Name: ".dart_tool", CategoryID: CategoryToolCache, Kind: "dart tool cache", Safety: SafetySafe},
}

var bloatByName = func() map[string]BloatSignature {
	m := make(map[string]BloatSignature, len(bloatSignatures))
	for _, sig := range bloatSignatures {
		m[sig.Name] = sig
	}
	return m
}()

// matchBloat looks up a directory base name in the signature table.
func matchBloat(name string) (BloatSignature, bool) {
	sig, ok := bloatByName[name]
	return sig, ok
}

// junkMatchKind selects how a junk pattern is applied to a file name.
type junkMatchKind int

const (
	matchExact junkMatchKind = iota
	matchExtension
	matchPrefix
)

// JunkPattern matches a file by name. All patterns are pre-vetted as safe
// to delete, including at zero bytes.
type JunkPattern struct {
	Pattern string
	Kind    junkMatchKind
	Label   string
}

var junkPatterns = []JunkPattern{
	{Pattern: ".DS_Store", Kind: matchExact, Label: "macOS folder metadata"},
	{Pattern: ".localized", Kind: matchExact, Label: "macOS localization marker"},
	{Pattern: "Thumbs.db", Kind: matchExact, Label: "Windows thumbnail cache"},
	{Pattern: "ehthumbs.db", Kind: matchExact, Label: "Windows thumbnail cache"},
	{Pattern: "desktop.ini", Kind: matchExact, Label: "Windows folder settings"},
	{Pattern: "npm-debug.log", Kind: matchExact, Label: "npm crash log"},
	{Pattern: "yarn-error.log", Kind: matchExact, Label: "yarn crash log"},

	{Pattern: "._", Kind: matchPrefix, Label: "AppleDouble resource fork"},
	{Pattern: ".~lock.", Kind: matchPrefix, Label: "LibreOffice lock file"},

	{Pattern: ".tmp", Kind: matchExtension, Label: "temporary file"},
	{Pattern: ".temp", Kind: matchExtension, Label: "temporary file"},
	{Pattern: ".swp", Kind: matchExtension, Label: "vim swap file"},
	{Pattern: ".swo", Kind: matchExtension, Label: "vim swap file"},
	{Pattern: ".bak", Kind: matchExtension, Label: "editor backup"},
	{Pattern: ".old", Kind: matchExtension, Label: "stale backup"},
	{Pattern: ".orig", Kind: matchExtension, Label: "merge leftovers"},
	{Pattern: ".rej", Kind: matchExtension, Label: "patch rejects"},
	{Pattern: ".part", Kind: matchExtension, Label: "partial download"},
	{Pattern: ".crdownload", Kind: matchExtension, Label: "partial download"},
	{Pattern: ".download", Kind: matchExtension, Label: "partial download"},
	{Pattern: ".pyc", Kind: matchExtension, Label: "python bytecode"},
}

// matchJunk tests a file base name against the junk pattern table and
// returns the matched pattern's label.
func matchJunk(name string) (string, bool) {
	for _, p := range junkPatterns {
		switch p.Kind {
		case matchExact:
			if name == p.Pattern {
				return p.Pattern, true
			}
		case matchPrefix:
			if len(name) > len(p.Pattern) && name[:len(p.Pattern)] == p.Pattern {
				return p.Pattern + "*", true
			}
		case matchExtension:
			if len(name) > len(p.Pattern) && name[len(name)-len(p.Pattern):] == p.Pattern {
				return "*" + p.Pattern, true
			}
		}
	}
	return "", false
}

package scan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchBloat(t *testing.T) {
	tests := []struct {
		name         string
		wantMatch    bool
		wantCategory string
		wantSafety   SafetyLevel
	}{
		{"node_modules", true, CategoryDependencies, SafetySafe},
		{"Pods", true, CategoryDependencies, SafetySafe},
		{"vendor", true, CategoryDependencies, SafetyReview},
		{"target", true, CategoryBuildOutput, SafetyReview},
		{".next", true, CategoryBuildOutput, SafetySafe},
		{".venv", true, CategoryVirtualEnv, SafetySafe},
		{".git", true, CategoryVCSInternals, SafetyDangerous},
		{"__pycache__", true, CategoryToolCache, SafetySafe},
		{"src", false, "", ""},
		{"NODE_MODULES", false, "", ""}, // matching is case-sensitive
		{"node_modules2", false, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sig, ok := matchBloat(tt.name)
			require.Equal(t, tt.wantMatch, ok)
			if !tt.wantMatch {
				return
			}
			assert.Equal(t, tt.wantCategory, sig.CategoryID)
			assert.Equal(t, tt.wantSafety, sig.Safety)
		})
	}
}

func TestMatchJunk(t *testing.T) {
	tests := []struct {
		name        string
		wantMatch   bool
		wantPattern string
	}{
		{".DS_Store", true, ".DS_Store"},
		{"Thumbs.db", true, "Thumbs.db"},
		{"._resource", true, "._*"},
		{".~lock.report.odt#", true, ".~lock.*"},
		{"build.tmp", true, "*.tmp"},
		{"notes.txt.bak", true, "*.bak"},
		{"module.pyc", true, "*.pyc"},
		{"movie.mkv.part", true, "*.part"},
		{"report.pdf", false, ""},
		{"tmp", false, ""},   // extension needs a leading name
		{"._", false, ""},    // prefix needs a suffix
		{"DS_Store", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pattern, ok := matchJunk(tt.name)
			require.Equal(t, tt.wantMatch, ok)
			assert.Equal(t, tt.wantPattern, pattern)
		})
	}
}

func TestBloatSignatureTableIsConsistent(t *testing.T) {
	seen := make(map[string]bool)
	for _, sig := range bloatSignatures {
		assert.False(t, seen[sig.Name], "duplicate signature name %q", sig.Name)
		seen[sig.Name] = true
		assert.NotEmpty(t, sig.CategoryID)
		assert.Contains(t, []SafetyLevel{SafetySafe, SafetyReview, SafetyDangerous}, sig.Safety)
	}
	// VCS internals must never be presented as safe to delete.
	for _, name := range []string{".git", ".svn", ".hg"} {
		sig, ok := matchBloat(name)
		require.True(t, ok)
		assert.Equal(t, SafetyDangerous, sig.Safety)
	}
}

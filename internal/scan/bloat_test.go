package scan

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reclaim/internal/testutil"
)

func TestClassifyFindsKnownCategories(t *testing.T) {
	f := testutil.NewFixture(t)
	nmSize := f.PopulateNodeModules("project")
	venvSize := f.PopulateVenv("project")
	f.CreateFileOfSize("project/src/main.go", 512)

	results, warnings, err := NewBloatClassifier(2).Classify(context.Background(), fixtureRequest(t, f))
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, results, 2)

	// Categories come back sorted by ID.
	assert.Equal(t, CategoryDependencies, results[0].CategoryID)
	assert.Equal(t, CategoryVirtualEnv, results[1].CategoryID)
	assert.Equal(t, nmSize, results[0].TotalSizeBytes)
	assert.Equal(t, venvSize, results[1].TotalSizeBytes)

	require.Len(t, results[0].Entries, 1)
	assert.Equal(t, f.Path("project/node_modules"), results[0].Entries[0].Path)
	assert.Equal(t, SafetySafe, results[0].Entries[0].Safety)
}

func TestClassifyNestedMatchCountedOnce(t *testing.T) {
	f := testutil.NewFixture(t)
	// A package that vendors its own node_modules inside the outer one.
	f.CreateFileOfSize("app/node_modules/left-pad/index.js", 1000)
	f.CreateFileOfSize("app/node_modules/webpack/node_modules/acorn/acorn.js", 2000)

	results, _, err := NewBloatClassifier(2).Classify(context.Background(), fixtureRequest(t, f))
	require.NoError(t, err)
	require.Len(t, results, 1)

	cat := results[0]
	assert.Equal(t, CategoryDependencies, cat.CategoryID)
	// Only the outermost match is reported; the inner tree is part of its size.
	require.Len(t, cat.Entries, 1)
	assert.Equal(t, f.Path("app/node_modules"), cat.Entries[0].Path)
	assert.Equal(t, int64(3000), cat.TotalSizeBytes)
}

func TestClassifyMinSizeDropsSmallCategories(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileOfSize("a/node_modules/pkg/index.js", 100)
	f.CreateFileOfSize("b/__pycache__/mod.cpython-312.pyc", 9000)

	req := fixtureRequest(t, f)
	req.MinSizeBytes = 1000

	results, _, err := NewBloatClassifier(2).Classify(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, CategoryToolCache, results[0].CategoryID)
}

func TestClassifyIsIdempotent(t *testing.T) {
	f := testutil.NewFixture(t)
	f.PopulateNodeModules("svc")
	f.CreateFileOfSize("svc/target/debug/binary", 4096)
	f.CreateFileOfSize("svc/.git/objects/ab/cdef", 128)

	req := fixtureRequest(t, f)
	first, _, err := NewBloatClassifier(4).Classify(context.Background(), req)
	require.NoError(t, err)
	second, _, err := NewBloatClassifier(4).Classify(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestClassifyRespectsExcludePatterns(t *testing.T) {
	f := testutil.NewFixture(t)
	f.PopulateNodeModules("keep")
	f.PopulateNodeModules(filepath.Join("skipme", "sub"))

	req := fixtureRequest(t, f)
	req.ExcludePatterns = []string{"skipme"}

	results, _, err := NewBloatClassifier(2).Classify(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Len(t, results[0].Entries, 1)
	assert.Equal(t, f.Path("keep/node_modules"), results[0].Entries[0].Path)
}

package scan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"reclaim/internal/platform"
	"reclaim/internal/security"
	"reclaim/internal/testutil"
)

// validatedRoot produces a ValidatedPath for a fixture directory through
// the real validator, backed by a deny-list that cannot collide with temp
// directories.
func validatedRoot(t *testing.T, dir string) security.ValidatedPath {
	t.Helper()

	info := &platform.Info{
		OS:             platform.Linux,
		ProtectedPaths: []string{"/proc", "/sys"},
	}
	root, err := security.NewValidator(info).Validate(dir)
	require.NoError(t, err)
	return root
}

func fixtureRequest(t *testing.T, f *testutil.Fixture) Request {
	t.Helper()
	return Request{Root: validatedRoot(t, f.RootDir)}
}

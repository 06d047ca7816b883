package platform

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetect(t *testing.T) {
	got := Detect()
	switch runtime.GOOS {
	case "darwin":
		assert.Equal(t, MacOS, got)
	case "linux":
		assert.Equal(t, Linux, got)
	default:
		assert.Equal(t, Unknown, got)
	}
}

func TestGetInfo(t *testing.T) {
	if Detect() == Unknown {
		t.Skip("unsupported platform")
	}

	info, err := GetInfo()
	require.NoError(t, err)
	assert.NotEmpty(t, info.HomeDir)
	assert.NotEmpty(t, info.TrashDir)
	assert.NotEmpty(t, info.DataDir)
	assert.NotEmpty(t, info.ProtectedPaths)
	assert.Contains(t, info.ProtectedPaths, "/")

	for _, p := range info.ProtectedPaths {
		assert.True(t, filepath.IsAbs(p), "protected path %q must be absolute", p)
	}
}

func TestIsProtected(t *testing.T) {
	info := &Info{
		ProtectedPaths: []string{"/", "/etc", "/usr"},
	}

	tests := []struct {
		path string
		want bool
	}{
		{"/", true},
		{"/etc", true},
		{"/etc/passwd", true},
		{"/usr/local/bin", true},
		{"/etcetera", false}, // prefix match requires a separator boundary
		{"/home/dev/project", false},
		{"/tmp", false}, // "/" matches exactly, never by prefix
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, info.IsProtected(tt.path), "path %q", tt.path)
	}
}

func TestIsCloudSynced(t *testing.T) {
	info := &Info{
		CloudSyncRoots: []string{"/home/dev/Dropbox"},
	}

	assert.True(t, info.IsCloudSynced("/home/dev/Dropbox"))
	assert.True(t, info.IsCloudSynced("/home/dev/Dropbox/photos/a.jpg"))
	assert.False(t, info.IsCloudSynced("/home/dev/Dropbox2/a.jpg"))
	assert.False(t, info.IsCloudSynced("/home/dev/code"))
}

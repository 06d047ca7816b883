// Package platform resolves per-OS filesystem locations used by the engine:
// protected system directories, the user trash folder, cloud-synced storage
// roots, and the application data directory.
package platform

import (
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
)

// OS represents the operating system platform
type OS string

const (
	MacOS   OS = "darwin"
	Linux   OS = "linux"
	Unknown OS = "unknown"
)

// Info contains platform-specific paths resolved once at startup.
// The protected-path and cloud-sync checks here are the single source of
// truth for every component; scanning code never inlines platform switches.
type Info struct {
	OS             OS
	HomeDir        string
	Username       string
	DataDir        string   // audit log and debug log location
	TrashDir       string   // destination for trash-based deletion
	TrashInfoDir   string   // XDG .trashinfo sidecar directory; empty where unused
	ProtectedPaths []string // deny-list roots, absolute and cleaned
	CloudSyncRoots []string // path prefixes hosted by cloud-sync providers
}

// Detect returns the current platform
func Detect() OS {
	switch runtime.GOOS {
	case "darwin":
		return MacOS
	case "linux":
		return Linux
	default:
		return Unknown
	}
}

// GetInfo returns platform-specific information for the current OS
func GetInfo() (*Info, error) {
	currentUser, err := user.Current()
	if err != nil {
		return nil, err
	}

	switch Detect() {
	case MacOS:
		return getMacOSInfo(currentUser.HomeDir, currentUser.Username), nil
	case Linux:
		return getLinuxInfo(currentUser.HomeDir, currentUser.Username), nil
	default:
		return nil, ErrUnsupportedPlatform
	}
}

// IsProtected reports whether path is equal to or nested under any entry in
// the deny-list. The filesystem root is matched exactly, never by prefix.
func (i *Info) IsProtected(path string) bool {
	clean := filepath.Clean(path)
	for _, protected := range i.ProtectedPaths {
		if clean == protected {
			return true
		}
		if protected != "/" && strings.HasPrefix(clean, protected+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// IsCloudSynced reports whether path lives under a cloud-sync provider root.
// Detection is a path-prefix heuristic; providers that hydrate files lazily
// can make deletions flaky, so the executor retries these paths.
func (i *Info) IsCloudSynced(path string) bool {
	clean := filepath.Clean(path)
	for _, root := range i.CloudSyncRoots {
		if clean == root || strings.HasPrefix(clean, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Errors
var (
	ErrUnsupportedPlatform = &PlatformError{"unsupported platform"}
)

// PlatformError represents a platform-related error
type PlatformError struct {
	Message string
}

func (e *PlatformError) Error() string {
	return e.Message
}

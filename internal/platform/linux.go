package platform

import (
	"os"
	"path/filepath"
)

// getLinuxInfo returns platform-specific information for Linux
func getLinuxInfo(homeDir, username string) *Info {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		dataHome = filepath.Join(homeDir, ".local/share")
	}

	return &Info{
		OS:           Linux,
		HomeDir:      homeDir,
		Username:     username,
		DataDir:      filepath.Join(dataHome, "reclaim"),
		TrashDir:     filepath.Join(dataHome, "Trash/files"),
		TrashInfoDir: filepath.Join(dataHome, "Trash/info"),
		ProtectedPaths: []string{
			"/",
			"/bin",
			"/boot",
			"/dev",
			"/etc",
			"/lib",
			"/lib64",
			"/opt",
			"/proc",
			"/root",
			"/run",
			"/sbin",
			"/srv",
			"/sys",
			"/usr",
			"/var/lib",
			"/var/db",
			filepath.Join(homeDir, ".config"),
			filepath.Join(homeDir, ".local/share"),
		},
		CloudSyncRoots: []string{
			filepath.Join(homeDir, "Dropbox"),
			filepath.Join(homeDir, "OneDrive"),
			filepath.Join(homeDir, "Google Drive"),
			filepath.Join(homeDir, "Insync"),
		},
	}
}

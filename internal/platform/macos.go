package platform

import "path/filepath"

// getMacOSInfo returns platform-specific information for macOS
func getMacOSInfo(homeDir, username string) *Info {
	return &Info{
		OS:       MacOS,
		HomeDir:  homeDir,
		Username: username,
		DataDir:  filepath.Join(homeDir, "Library/Application Support/reclaim"),
		TrashDir: filepath.Join(homeDir, ".Trash"),
		// Finder does not use .trashinfo sidecars
		TrashInfoDir: "",
		ProtectedPaths: []string{
			"/",
			"/System",
			"/Applications",
			"/Library",
			"/bin",
			"/sbin",
			"/usr",
			"/etc",
			"/var",
			"/dev",
			"/private/etc",
			"/private/var/db",
			filepath.Join(homeDir, "Library/Application Support"),
			filepath.Join(homeDir, "Library/Preferences"),
		},
		CloudSyncRoots: []string{
			filepath.Join(homeDir, "Library/Mobile Documents"), // iCloud Drive
			filepath.Join(homeDir, "Library/CloudStorage"),     // OneDrive, Google Drive, Box
			filepath.Join(homeDir, "Dropbox"),
		},
	}
}

//go:build unix

package cookies

import (
	"os"
	"path/filepath"
	"runtime"
)

// browserStoresForHome lists the cookie stores below homeDir, using the
// macOS layout when goos is "darwin" and the XDG layout otherwise.
func browserStoresForHome(homeDir, goos string) []browserStore {
	home := func(parts ...string) string {
		return filepath.Join(append([]string{homeDir}, parts...)...)
	}

	if goos == "darwin" {
		support := home("Library", "Application Support")
		return []browserStore{
			{Name: "Firefox", Profiles: []string{filepath.Join(support, "Firefox", "profiles.ini")}},
			{Name: "LibreWolf", Profiles: []string{filepath.Join(support, "librewolf", "profiles.ini")}},
			{Name: "Chrome", Files: chromiumFiles(filepath.Join(support, "Google", "Chrome", "Default"))},
			{Name: "Chromium", Files: chromiumFiles(filepath.Join(support, "Chromium", "Default"))},
			{Name: "Edge", Files: chromiumFiles(filepath.Join(support, "Microsoft Edge", "Default"))},
			{Name: "Brave", Files: chromiumFiles(filepath.Join(support, "BraveSoftware", "Brave-Browser", "Default"))},
		}
	}

	config := home(".config")
	return []browserStore{
		{Name: "Firefox", Profiles: []string{
			home(".mozilla", "firefox", "profiles.ini"),
			home("snap", "firefox", "common", ".mozilla", "firefox", "profiles.ini"),
		}},
		{Name: "LibreWolf", Profiles: []string{home(".librewolf", "profiles.ini")}},
		{Name: "Chrome", Files: chromiumFiles(filepath.Join(config, "google-chrome", "Default"))},
		{Name: "Chromium", Files: chromiumFiles(filepath.Join(config, "chromium", "Default"))},
		{Name: "Edge", Files: chromiumFiles(filepath.Join(config, "microsoft-edge", "Default"))},
		{Name: "Brave", Files: chromiumFiles(filepath.Join(config, "BraveSoftware", "Brave-Browser", "Default"))},
	}
}

func browserStores() []browserStore {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil
	}
	return browserStoresForHome(homeDir, runtime.GOOS)
}

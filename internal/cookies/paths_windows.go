//go:build windows

package cookies

import (
	"os"
	"path/filepath"
)

// browserStoresForEnv lists the cookie stores below the LOCALAPPDATA and
// APPDATA directories.
func browserStoresForEnv(localAppData, appData string) []browserStore {
	userData := func(parts ...string) string {
		parts = append([]string{localAppData}, parts...)
		return filepath.Join(append(parts, "User Data", "Default")...)
	}
	return []browserStore{
		{Name: "Firefox", Profiles: []string{filepath.Join(appData, "Mozilla", "Firefox", "profiles.ini")}},
		{Name: "LibreWolf", Profiles: []string{filepath.Join(appData, "LibreWolf", "profiles.ini")}},
		{Name: "Chrome", Files: chromiumFiles(userData("Google", "Chrome"))},
		{Name: "Chromium", Files: chromiumFiles(userData("Chromium"))},
		{Name: "Edge", Files: chromiumFiles(userData("Microsoft", "Edge"))},
		{Name: "Brave", Files: chromiumFiles(userData("BraveSoftware", "Brave-Browser"))},
	}
}

func browserStores() []browserStore {
	return browserStoresForEnv(os.Getenv("LOCALAPPDATA"), os.Getenv("APPDATA"))
}

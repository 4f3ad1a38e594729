package cookies

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/warpdl/cookiejar/pkg/logger"
)

// ErrNoBrowserStore is returned by DetectBrowserCookies when no known
// browser cookie store exists.
var ErrNoBrowserStore = errors.New("no supported browser cookie store found")

// browserStore locates the cookie database of one browser.
type browserStore struct {
	Name string
	// Profiles lists profiles.ini candidates of Firefox-family browsers.
	Profiles []string
	// Files lists cookie database candidates of Chromium-family browsers.
	Files []string
}

// chromiumFiles returns the cookie database candidates of a Chromium profile
// directory. Newer versions keep the database under Network/.
func chromiumFiles(profileDir string) []string {
	return []string{
		filepath.Join(profileDir, "Network", "Cookies"),
		filepath.Join(profileDir, "Cookies"),
	}
}

func (b browserStore) candidates(fs afero.Fs) []string {
	if len(b.Profiles) == 0 {
		return b.Files
	}
	var out []string
	for _, ini := range b.Profiles {
		if dir := defaultProfile(fs, ini); dir != "" {
			out = append(out, filepath.Join(dir, "cookies.sqlite"))
		}
	}
	return out
}

// defaultProfile returns the default profile directory named by a Firefox
// profiles.ini file, or "" when there is none. The Default key of an
// [Install...] section wins over a [Profile...] section with Default=1.
func defaultProfile(fs afero.Fs, iniPath string) string {
	data, err := afero.ReadFile(fs, iniPath)
	if err != nil {
		return ""
	}
	base := filepath.Dir(iniPath)
	resolve := func(p string) string {
		p = filepath.FromSlash(p)
		if filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(base, p)
	}

	var (
		install, flagged string
		section, path    string
		isDefault        bool
	)
	endSection := func() {
		if strings.HasPrefix(section, "Profile") && isDefault && path != "" && flagged == "" {
			flagged = path
		}
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || line[0] == ';' || line[0] == '#' {
			continue
		}
		if line[0] == '[' {
			endSection()
			section = strings.Trim(line, "[]")
			path, isDefault = "", false
			continue
		}
		key, val, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key, val = strings.TrimSpace(key), strings.TrimSpace(val)
		switch {
		case strings.HasPrefix(section, "Install") && key == "Default" && install == "":
			install = resolve(val)
		case strings.HasPrefix(section, "Profile") && key == "Path":
			path = resolve(val)
		case strings.HasPrefix(section, "Profile") && key == "Default":
			isDefault = val == "1"
		}
	}
	endSection()

	if install != "" {
		return install
	}
	return flagged
}

func findBrowserCookies(fs afero.Fs, domain string, stores []browserStore, l logger.Logger) ([]*Cookie, *CookieSource, error) {
	tried := make([]string, 0, len(stores))
	for _, b := range stores {
		tried = append(tried, b.Name)
		for _, path := range b.candidates(fs) {
			if ok, _ := afero.Exists(fs, path); !ok {
				continue
			}
			found, source, err := ImportCookies(fs, path, domain, l)
			if err != nil {
				l.Warning("skipping %s cookie store %s: %v", b.Name, path, err)
				continue
			}
			source.Browser = b.Name
			return found, source, nil
		}
	}
	return nil, nil, fmt.Errorf("%w (tried %s)", ErrNoBrowserStore, strings.Join(tried, ", "))
}

// DetectBrowserCookies imports the cookies of domain (all domains when
// empty) from the first browser cookie store found, trying Firefox,
// LibreWolf, Chrome, Chromium, Edge and Brave in that order.
func DetectBrowserCookies(fs afero.Fs, domain string, l logger.Logger) ([]*Cookie, *CookieSource, error) {
	if l == nil {
		l = logger.NewNopLogger()
	}
	return findBrowserCookies(fs, domain, browserStores(), l)
}

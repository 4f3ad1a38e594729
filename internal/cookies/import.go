package cookies

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/warpdl/cookiejar/pkg/logger"
)

// ImportCookies imports cookies from a browser cookie store file for the given
// domain (all domains when empty). It detects the format, copies SQLite files
// safely, parses cookies, and returns them with the source metadata.
func ImportCookies(fs afero.Fs, sourcePath string, domain string, l logger.Logger) ([]*Cookie, *CookieSource, error) {
	format, err := sniffFormat(fs, sourcePath)
	if err != nil {
		return nil, nil, err
	}

	source := &CookieSource{Path: sourcePath}
	var cookies []*Cookie

	switch format {
	case formatSQLite:
		cookies, source.Format, err = importSQLite(fs, sourcePath, domain)
	case FormatNetscape:
		source.Format = FormatNetscape
		cookies, err = ParseNetscapeFile(fs, sourcePath, domain, l)
	default:
		return nil, nil, fmt.Errorf("error: unsupported cookie database schema at %s", sourcePath)
	}
	if err != nil {
		return nil, nil, err
	}
	source.Browser = source.Format.String()

	return cookies, source, nil
}

// ImportInto imports cookies like ImportCookies and inserts them into jar.
// It returns the number of cookies inserted.
func ImportInto(jar *Jar, fs afero.Fs, sourcePath string, domain string, l logger.Logger) (int, *CookieSource, error) {
	cookies, source, err := ImportCookies(fs, sourcePath, domain, l)
	if err != nil {
		return 0, nil, err
	}
	for _, c := range cookies {
		jar.Insert(c)
	}
	return len(cookies), source, nil
}

// importSQLite copies a SQLite cookie file safely, detects its schema and
// parses it with the matching reader.
func importSQLite(fs afero.Fs, sourcePath, domain string) ([]*Cookie, CookieFormat, error) {
	tempDir, cleanup, err := SafeCopy(fs, sourcePath)
	if err != nil {
		return nil, FormatUnknown, err
	}
	defer cleanup()

	copiedPath := filepath.Join(tempDir, filepath.Base(sourcePath))
	format, err := detectSQLiteFormat(copiedPath)
	if err != nil {
		return nil, FormatUnknown, err
	}

	var cookies []*Cookie
	switch format {
	case FormatFirefox:
		cookies, err = ParseFirefox(copiedPath, domain)
	case FormatChrome:
		cookies, err = ParseChrome(copiedPath, domain)
	}
	return cookies, format, err
}

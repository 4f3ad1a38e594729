package cookies

import (
	"bytes"
	"database/sql"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	_ "modernc.org/sqlite"
)

// sqliteMagic is the first 16 bytes of any SQLite database file.
var sqliteMagic = []byte("SQLite format 3\x00")

// DetectFormat determines the cookie store format of the file at the given path.
// It returns FormatFirefox, FormatChrome, or FormatNetscape, or an error if the
// format cannot be determined.
func DetectFormat(fs afero.Fs, path string) (CookieFormat, error) {
	format, err := sniffFormat(fs, path)
	if err != nil || format != formatSQLite {
		return format, err
	}
	tempDir, cleanup, err := SafeCopy(fs, path)
	if err != nil {
		return FormatUnknown, err
	}
	defer cleanup()
	return detectSQLiteFormat(filepath.Join(tempDir, filepath.Base(path)))
}

// formatSQLite is an intermediate result of sniffFormat: a SQLite file whose
// schema has not been inspected yet.
const formatSQLite CookieFormat = -1

// sniffFormat looks at the first bytes of the file only.
func sniffFormat(fs afero.Fs, path string) (CookieFormat, error) {
	if err := checkCookieFile(fs, path); err != nil {
		return FormatUnknown, err
	}

	f, err := fs.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("error: cannot open cookie file: %w", err)
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := io.ReadFull(f, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FormatUnknown, fmt.Errorf("error: cannot read cookie file: %w", err)
	}
	buf = buf[:n]

	if bytes.HasPrefix(buf, sqliteMagic) {
		return formatSQLite, nil
	}

	firstLine := string(buf)
	if idx := strings.IndexByte(firstLine, '\n'); idx >= 0 {
		firstLine = firstLine[:idx]
	}
	firstLine = strings.TrimRight(firstLine, "\r")

	if firstLine == netscapeHeader || firstLine == "# HTTP Cookie File" {
		return FormatNetscape, nil
	}

	return FormatUnknown, fmt.Errorf("error: unsupported cookie database schema at %s", path)
}

// detectSQLiteFormat opens the SQLite file and checks which cookie table exists.
func detectSQLiteFormat(path string) (CookieFormat, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("file:%s?mode=ro", path))
	if err != nil {
		return FormatUnknown, fmt.Errorf("error: cannot open SQLite database: %w", err)
	}
	defer db.Close()

	var tableName string
	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='moz_cookies'`).Scan(&tableName)
	if err == nil {
		return FormatFirefox, nil
	}

	err = db.QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='cookies'`).Scan(&tableName)
	if err == nil {
		return FormatChrome, nil
	}

	return FormatUnknown, fmt.Errorf("error: unsupported cookie database schema at %s", path)
}

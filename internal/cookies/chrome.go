package cookies

import (
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// chromeEpochOffsetSeconds is the number of seconds between the Windows NT epoch
// (1601-01-01 00:00:00 UTC) and the Unix epoch (1970-01-01 00:00:00 UTC).
const chromeEpochOffsetSeconds int64 = 11_644_473_600

// chromeToUnix converts a Chrome timestamp (microseconds since 1601-01-01)
// to a Unix timestamp (seconds since 1970-01-01).
func chromeToUnix(chromeUSec int64) int64 {
	return (chromeUSec / 1_000_000) - chromeEpochOffsetSeconds
}

// ParseChrome reads cookies from a Chrome Cookies SQLite file for the given
// domain, or all cookies when domain is empty.
// Rows with an empty value column hold encrypted values and are skipped.
// Session cookies (expires_utc = 0) get the default lifetime.
// The dbPath should be a path to a copied (not in-use) SQLite database.
func ParseChrome(dbPath string, domain string) ([]*Cookie, error) {
	db, err := openReadOnly(dbPath)
	if err != nil {
		return nil, fmt.Errorf("error: cannot open Chrome cookie database: %w", err)
	}
	defer db.Close()

	where, args := hostFilter("host_key", domain)
	rows, err := db.Query(`
        SELECT name, value, host_key, path, expires_utc, is_secure, is_httponly
        FROM cookies
        WHERE `+where+`
          AND value != ''
        ORDER BY path DESC, name ASC
    `, args...)
	if err != nil {
		return nil, fmt.Errorf("error: failed to query Chrome cookies: %w", err)
	}
	defer rows.Close()

	current := now()
	var cookies []*Cookie
	for rows.Next() {
		var (
			name, value, hostKey, path string
			expiresUTC                 int64
			isSecure, isHttpOnly       int
		)
		if err := rows.Scan(&name, &value, &hostKey, &path, &expiresUTC, &isSecure, &isHttpOnly); err != nil {
			return nil, fmt.Errorf("error: failed to scan Chrome cookie row: %w", err)
		}
		c := New(name, value)
		c.Domain = hostKey
		c.Path = path
		c.Secure = isSecure != 0
		c.HttpOnly = isHttpOnly != 0
		if expiresUTC != 0 {
			c.Expires = time.Unix(chromeToUnix(expiresUTC), 0)
		}
		if c.ExpiredAt(current) {
			continue
		}
		cookies = append(cookies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error: failed to iterate Chrome cookie rows: %w", err)
	}

	return cookies, nil
}

package cookies

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// firefoxMillisThreshold separates second and millisecond expiry values;
// recent Firefox releases store moz_cookies.expiry in milliseconds.
const firefoxMillisThreshold int64 = 100_000_000_000

// ParseFirefox reads cookies from a Firefox cookies.sqlite file for the given
// domain, or all cookies when domain is empty.
// The dbPath should be a path to a copied (not in-use) SQLite database.
// Expired cookies are skipped.
func ParseFirefox(dbPath string, domain string) ([]*Cookie, error) {
	db, err := openReadOnly(dbPath)
	if err != nil {
		return nil, fmt.Errorf("error: cannot open Firefox cookie database: %w", err)
	}
	defer db.Close()

	where, args := hostFilter("host", domain)
	rows, err := db.Query(`
        SELECT name, value, host, path, expiry, isSecure, isHttpOnly
        FROM moz_cookies
        WHERE `+where+`
        ORDER BY path DESC, name ASC
    `, args...)
	if err != nil {
		return nil, fmt.Errorf("error: failed to query Firefox cookies: %w", err)
	}
	defer rows.Close()

	current := now()
	var cookies []*Cookie
	for rows.Next() {
		var (
			name, value, host, path string
			expiry                  int64
			isSecure, isHttpOnly    int
		)
		if err := rows.Scan(&name, &value, &host, &path, &expiry, &isSecure, &isHttpOnly); err != nil {
			return nil, fmt.Errorf("error: failed to scan Firefox cookie row: %w", err)
		}
		if expiry > firefoxMillisThreshold {
			expiry /= 1000
		}
		c := &Cookie{
			Name:     name,
			Value:    value,
			Domain:   host,
			Path:     path,
			Expires:  time.Unix(expiry, 0),
			Secure:   isSecure != 0,
			HttpOnly: isHttpOnly != 0,
		}
		if c.ExpiredAt(current) {
			continue
		}
		cookies = append(cookies, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error: failed to iterate Firefox cookie rows: %w", err)
	}

	return cookies, nil
}

// openReadOnly opens a SQLite file without taking locks or writing journals.
func openReadOnly(dbPath string) (*sql.DB, error) {
	return sql.Open("sqlite", fmt.Sprintf("file:%s?immutable=1", dbPath))
}

// hostFilter returns a WHERE clause matching column against domain, its
// dot-prefixed form and its subdomains. An empty domain matches every row.
func hostFilter(column, domain string) (string, []any) {
	if domain == "" {
		return "1 = 1", nil
	}
	clause := fmt.Sprintf("(%[1]s = ? OR %[1]s = ? OR %[1]s LIKE ?)", column)
	return clause, []any{domain, "." + domain, "%." + domain}
}

package cookies

import (
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
)

// now is swapped in tests.
var now = time.Now

// expiresLayouts are tried after http.ParseTime when reading an Expires attribute.
var expiresLayouts = []string{
	"Mon, 02-Jan-2006 15:04:05 MST",
	"Mon, 02 Jan 2006 15:04:05 -0700",
	"Mon Jan 02 2006 15:04:05 GMT-0700",
	time.RFC3339,
}

// jsDateSuffix matches the "(Zone Name)" tail of JavaScript Date strings.
var jsDateSuffix = regexp.MustCompile(`\s*\([^)]*\)$`)

// New creates a cookie with the default domain, path and expiry.
func New(name, value string) *Cookie {
	return &Cookie{
		Name:    name,
		Value:   value,
		Path:    "/",
		Expires: now().Add(DefaultLifetime),
	}
}

// Build parses a "Set-Cookie"-style header value such as
//
//	LSID=DQAAAK; Domain=docs.foo.com; Path=/accounts; Expires=Wed, 13 Jan 2021 22:23:01 GMT; Secure; HttpOnly
//
// If u is not nil its host and path become the default Domain and Path,
// overridden by explicit attributes. Unknown attributes are ignored.
func Build(text string, u *url.URL) (*Cookie, error) {
	c := New("", "")
	if u != nil {
		c.Domain = u.Hostname()
		if u.Path != "" {
			c.Path = u.Path
		}
	}

	params := strings.Split(text, "; ")
	name, value, _ := strings.Cut(params[0], "=")
	if name == "" {
		return nil, fmt.Errorf("%w: missing cookie name", ErrInvalidFormat)
	}
	c.Name = name
	c.Value = value

	var (
		rawExpires string
		hasExpires bool
	)
	for _, param := range params[1:] {
		key, val, hasVal := strings.Cut(param, "=")
		if key == "" {
			continue
		}
		switch strings.ToLower(key) {
		case "secure":
			c.Secure = true
		case "httponly":
			c.HttpOnly = true
		}
		if !hasVal {
			continue
		}
		switch strings.ToLower(key) {
		case "name":
			c.Name = val
		case "value":
			c.Value = val
		case "domain":
			c.Domain = val
		case "path":
			c.Path = val
		case "expires":
			rawExpires, hasExpires = val, true
		}
	}
	if c.Name == "" {
		return nil, fmt.Errorf("%w: empty cookie name", ErrInvalidFormat)
	}

	if hasExpires {
		t, err := parseExpires(rawExpires)
		if err != nil {
			return nil, err
		}
		c.Expires = t
	}
	return c, nil
}

// BuildString is Build with the request URL given as a string.
// An empty rawURL means no URL context.
func BuildString(text, rawURL string) (*Cookie, error) {
	if rawURL == "" {
		return Build(text, nil)
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("error: invalid cookie url: %w", err)
	}
	return Build(text, u)
}

func parseExpires(s string) (time.Time, error) {
	if t, err := http.ParseTime(s); err == nil {
		return t, nil
	}
	trimmed := jsDateSuffix.ReplaceAllString(s, "")
	for _, layout := range expiresLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidExpires, s)
}

// String returns the canonical "Set-Cookie"-style header value. It is also the
// line format of Jar.Save.
func (c *Cookie) String() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte('=')
	b.WriteString(c.Value)
	b.WriteString("; Domain=")
	b.WriteString(c.Domain)
	b.WriteString("; Path=")
	b.WriteString(c.Path)
	b.WriteString("; Expires=")
	b.WriteString(c.Expires.UTC().Format(http.TimeFormat))
	if c.Secure {
		b.WriteString("; Secure")
	}
	if c.HttpOnly {
		b.WriteString("; HttpOnly")
	}
	return b.String()
}

// Expired reports whether the cookie has expired by now.
func (c *Cookie) Expired() bool {
	return c.ExpiredAt(now())
}

// ExpiredAt reports whether the cookie expires strictly before t.
func (c *Cookie) ExpiredAt(t time.Time) bool {
	return c.Expires.Before(t)
}

// Key returns the identity of the cookie.
func (c *Cookie) Key() Key {
	return Key{Name: c.Name, Domain: c.Domain, Path: c.Path}
}

// FromHTTP converts a net/http cookie received from u. Missing Domain and
// Path default to the host and path of u, as in Build.
func FromHTTP(hc *http.Cookie, u *url.URL) *Cookie {
	c := New(hc.Name, hc.Value)
	if u != nil {
		c.Domain = u.Hostname()
		if u.Path != "" {
			c.Path = u.Path
		}
	}
	if hc.Domain != "" {
		c.Domain = hc.Domain
	}
	if hc.Path != "" {
		c.Path = hc.Path
	}
	switch {
	case hc.MaxAge < 0:
		c.Expires = now().Add(-time.Second)
	case hc.MaxAge > 0:
		c.Expires = now().Add(time.Duration(hc.MaxAge) * time.Second)
	case !hc.Expires.IsZero():
		c.Expires = hc.Expires
	}
	c.Secure = hc.Secure
	c.HttpOnly = hc.HttpOnly
	return c
}

// HTTP converts the cookie to a net/http cookie.
func (c *Cookie) HTTP() *http.Cookie {
	return &http.Cookie{
		Name:     c.Name,
		Value:    c.Value,
		Domain:   c.Domain,
		Path:     c.Path,
		Expires:  c.Expires,
		Secure:   c.Secure,
		HttpOnly: c.HttpOnly,
	}
}

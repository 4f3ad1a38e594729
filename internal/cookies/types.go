package cookies

import "time"

// DefaultLifetime is the expiry applied to cookies that carry no Expires attribute.
const DefaultLifetime = 365 * 24 * time.Hour

// CookieFormat identifies the format of a browser cookie store.
type CookieFormat int

const (
	// FormatUnknown means the cookie store format could not be detected.
	FormatUnknown CookieFormat = 0
	// FormatFirefox means the cookie store uses the Firefox moz_cookies SQLite schema.
	FormatFirefox CookieFormat = 1
	// FormatChrome means the cookie store uses the Chrome cookies SQLite schema.
	// Only unencrypted cookies (value != '') are usable.
	FormatChrome CookieFormat = 2
	// FormatNetscape means the cookie store uses the Netscape tab-separated text format.
	FormatNetscape CookieFormat = 3
)

// String returns the browser family name of the format.
func (f CookieFormat) String() string {
	switch f {
	case FormatFirefox:
		return "Firefox"
	case FormatChrome:
		return "Chrome"
	case FormatNetscape:
		return "Netscape"
	default:
		return "Unknown"
	}
}

// Cookie represents a single HTTP cookie.
// IMPORTANT: Value is SENSITIVE and must never be logged or put into error messages.
type Cookie struct {
	// Name is the cookie name.
	Name string
	// Value is the cookie value. SENSITIVE, never log.
	Value string
	// Domain is the cookie domain (may have a leading dot).
	Domain string
	// Path is the cookie path scope.
	Path string
	// Expires is the cookie expiration time.
	Expires time.Time
	// Secure indicates the cookie should only be sent over HTTPS.
	Secure bool
	// HttpOnly indicates the cookie is not accessible via JavaScript.
	HttpOnly bool
}

// Key is the identity of a cookie inside a Jar. Two cookies with the same Key
// are the same logical cookie.
type Key struct {
	Name   string
	Domain string
	Path   string
}

// CookieSource describes where imported cookies came from.
type CookieSource struct {
	// Path is the filesystem path to the cookie store file.
	Path string
	// Format is the detected cookie store format.
	Format CookieFormat
	// Browser is the detected browser name (e.g., "Firefox", "Chrome", "Netscape").
	Browser string
}

package cookies

import (
	"net/url"
	"regexp"
	"strings"
)

var httpScheme = regexp.MustCompile(`(?i)^https?$`)

// BuildCookieHeader builds an HTTP Cookie header value from a slice of cookies.
// Format: "name1=val1; name2=val2"
func BuildCookieHeader(cookies []*Cookie) string {
	if len(cookies) == 0 {
		return ""
	}

	parts := make([]string, len(cookies))
	for i, c := range cookies {
		parts[i] = c.Name + "=" + c.Value
	}
	return strings.Join(parts, "; ")
}

// SendFilter drops the cookies that must not be sent to a URL with the given
// scheme. Secure cookies are only sent over "https". HttpOnly cookies are only
// sent to "http" and "https" URLs (case-insensitive), which excludes nothing
// for ordinary requests.
func SendFilter(cookies []*Cookie, scheme string) []*Cookie {
	var out []*Cookie
	for _, c := range cookies {
		if c.Secure && scheme != "https" {
			continue
		}
		if c.HttpOnly && !httpScheme.MatchString(scheme) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// MergeCookieHeader appends add to an existing Cookie header value.
func MergeCookieHeader(existing, add string) string {
	switch {
	case existing == "":
		return add
	case add == "":
		return existing
	default:
		return existing + "; " + add
	}
}

// RequestCookies returns the cookies to send with a request to u. host
// overrides u.Hostname() when not empty.
func RequestCookies(jar *Jar, u *url.URL, host string) []*Cookie {
	if host == "" {
		host = u.Hostname()
	}
	path := u.Path
	if path == "" {
		path = "/"
	}
	return SendFilter(jar.FindFuzzy(host, path), u.Scheme)
}

// RequestHeader returns the Cookie header value for a request to u, or "" if
// no cookie applies.
func RequestHeader(jar *Jar, u *url.URL, host string) string {
	return BuildCookieHeader(RequestCookies(jar, u, host))
}

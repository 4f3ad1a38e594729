package transport

import (
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// normalizeHost returns the lowercase ASCII form of host, as used for jar
// lookups. Hosts that are not valid IDNA names are only lowercased.
func normalizeHost(host string) string {
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return strings.ToLower(host)
	}
	return ascii
}

// cookieURL returns a copy of u whose host is normalized. The port is dropped
// since cookies are not scoped by port.
func cookieURL(u *url.URL) *url.URL {
	nu := *u
	host := normalizeHost(u.Hostname())
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	nu.Host = host
	return &nu
}

package transport

import (
	"net/http"
	"net/url"

	"github.com/warpdl/cookiejar/internal/cookies"
)

// HTTPJar adapts a shared cookie jar to net/http.CookieJar.
type HTTPJar struct {
	jar *cookies.Shared
}

var _ http.CookieJar = (*HTTPJar)(nil)

func NewHTTPJar(jar *cookies.Shared) *HTTPJar {
	return &HTTPJar{jar: jar}
}

// SetCookies stores cookies received from u. Missing domains and paths
// default to the host and path of u.
func (h *HTTPJar) SetCookies(u *url.URL, received []*http.Cookie) {
	cu := cookieURL(u)
	h.jar.Do(func(j *cookies.Jar) {
		for _, hc := range received {
			if hc.Name == "" {
				continue
			}
			store(j, cookies.FromHTTP(hc, cu))
		}
	})
}

// Cookies returns the cookies to send in a request to u, with their stored
// attributes.
func (h *HTTPJar) Cookies(u *url.URL) []*http.Cookie {
	cu := cookieURL(u)
	var out []*http.Cookie
	h.jar.Do(func(j *cookies.Jar) {
		for _, c := range cookies.RequestCookies(j, cu, "") {
			out = append(out, c.HTTP())
		}
	})
	return out
}

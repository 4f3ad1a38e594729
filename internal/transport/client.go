// Package transport sends and receives cookies over HTTP on behalf of a
// cookies.Jar.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/warpdl/cookiejar/internal/cookies"
	"github.com/warpdl/cookiejar/pkg/logger"
)

const maxRedirects = 10

// Client is a cookie-aware HTTP client. The jar is shared and guarded by an
// internal mutex, so a Client may be used from several goroutines.
type Client struct {
	http      *http.Client
	jar       *cookies.Shared
	log       logger.Logger
	userAgent string
}

type Option func(*Client)

// WithHTTPClient sets the underlying client. Its Jar must be nil.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithLogger(l logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// NewClient returns a client backed by jar. Pass the same Shared jar to every
// collaborator that uses it.
func NewClient(jar *cookies.Shared, opts ...Option) *Client {
	c := &Client{
		http: http.DefaultClient,
		jar:  jar,
		log:  logger.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Send returns the Cookie header value for a request to u.
func (c *Client) Send(u *url.URL) string {
	return cookies.BuildCookieHeader(c.outgoing(u))
}

func (c *Client) outgoing(u *url.URL) []*cookies.Cookie {
	cu := cookieURL(u)
	var out []*cookies.Cookie
	c.jar.Do(func(j *cookies.Jar) {
		out = cookies.RequestCookies(j, cu, "")
	})
	return out
}

// Receive stores the Set-Cookie values of a response from u. Values that do
// not parse are logged and skipped. Cookies that arrive already expired remove
// their stored counterpart.
func (c *Client) Receive(u *url.URL, values []string) {
	if len(values) == 0 {
		return
	}
	cu := cookieURL(u)
	c.jar.Do(func(j *cookies.Jar) {
		for _, v := range values {
			ck, err := cookies.Build(v, cu)
			if err != nil {
				c.log.Warning("ignoring Set-Cookie from %s: %v", cu.Host, err)
				continue
			}
			store(j, ck)
			c.log.Debug("received cookie %s for %s%s", ck.Name, ck.Domain, ck.Path)
		}
	})
}

func store(j *cookies.Jar, ck *cookies.Cookie) {
	if ck.Expired() {
		_ = j.Remove(ck)
		return
	}
	j.Insert(ck)
}

// Do sends req with the jar's cookies merged into any Cookie header already
// set, follows redirects, and stores every Set-Cookie received on the way.
func (c *Client) Do(req *http.Request) (*http.Response, error) {
	userCookies := req.Header.Get("Cookie")
	c.attach(req, userCookies)
	if c.userAgent != "" && req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	hc := *c.http
	next := c.http.CheckRedirect
	hc.CheckRedirect = func(r *http.Request, via []*http.Request) error {
		if len(via) >= maxRedirects {
			return fmt.Errorf("stopped after %d redirects", maxRedirects)
		}
		if r.Response != nil {
			c.Receive(via[len(via)-1].URL, r.Response.Header.Values("Set-Cookie"))
		}
		// net/http drops Cookie on redirects to another domain; the
		// caller's own cookies stay dropped in that case.
		base := ""
		if r.Header.Get("Cookie") != "" {
			base = userCookies
		}
		c.attach(r, base)
		if next != nil {
			return next(r, via)
		}
		return nil
	}

	resp, err := hc.Do(req)
	if err != nil {
		return nil, err
	}
	c.Receive(resp.Request.URL, resp.Header.Values("Set-Cookie"))
	return resp, nil
}

// attach replaces the Cookie header of req with base followed by the jar's
// cookies for req.URL.
func (c *Client) attach(req *http.Request, base string) {
	out := c.outgoing(req.URL)
	if len(out) > 0 {
		c.log.Debug("sending cookies %v to %s", cookieNames(out), req.URL.Host)
	}
	header := cookies.MergeCookieHeader(base, cookies.BuildCookieHeader(out))
	if header == "" {
		req.Header.Del("Cookie")
		return
	}
	req.Header.Set("Cookie", header)
}

// Get issues a GET request to rawURL.
func (c *Client) Get(ctx context.Context, rawURL string) (*http.Response, error) {
	if rawURL == "" {
		return nil, errors.New("error: empty url")
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	return c.Do(req)
}

func cookieNames(cs []*cookies.Cookie) []string {
	names := make([]string, len(cs))
	for i, c := range cs {
		names[i] = c.Name
	}
	return names
}

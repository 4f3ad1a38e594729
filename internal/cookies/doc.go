// Package cookies implements a client-side HTTP cookie store.
//
// A Cookie is parsed from a "Set-Cookie"-style header value with Build and
// serialized back with String. A Jar keeps cookies in insertion order, keyed by
// their (name, domain, path) identity, and answers which cookies apply to an
// outgoing request with FindFuzzy. Cookies can also be imported from Firefox
// (moz_cookies SQLite), Chrome (cookies SQLite, unencrypted only) and Netscape
// text format cookie files.
//
// A Jar is not safe for concurrent use. Callers sharing a Jar between
// goroutines must serialize every access, including find-then-send sequences.
//
// Cookie values are never logged. Only Name and Domain may appear in logs.
package cookies

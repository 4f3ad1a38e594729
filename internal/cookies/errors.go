package cookies

import "errors"

var (
	// ErrInvalidFormat is returned when a cookie string does not match
	// "name[=value](; attr[=value])*".
	ErrInvalidFormat = errors.New("failed to parse cookie string")
	// ErrInvalidExpires is returned when the Expires attribute is not a valid HTTP date.
	ErrInvalidExpires = errors.New("invalid cookie expiry date")
	// ErrNotFound is returned by Remove when the cookie is not in the jar.
	ErrNotFound = errors.New("cookie not in cookie jar")
)

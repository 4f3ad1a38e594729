package cookies

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"
	"github.com/warpdl/cookiejar/pkg/logger"
)

const (
	netscapeHeader = "# Netscape HTTP Cookie File"
	httpOnlyPrefix = "#HttpOnly_"
)

// ParseNetscape reads cookies in Netscape format for the given domain. An
// empty domain disables domain filtering.
// Lines starting with # are skipped, except #HttpOnly_ which sets the HttpOnly flag.
// Malformed lines are skipped with a warning. Session cookies (expiry 0) get
// the default lifetime.
func ParseNetscape(r io.Reader, domain string, l logger.Logger) ([]*Cookie, error) {
	if l == nil {
		l = logger.NewNopLogger()
	}
	current := now()
	dotDomain := "." + domain
	var cookies []*Cookie

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		httpOnly := false
		if strings.HasPrefix(line, httpOnlyPrefix) {
			httpOnly = true
			line = line[len(httpOnlyPrefix):]
		} else if strings.HasPrefix(line, "#") {
			continue
		}

		// domain, subdomain flag, path, secure, expiry, name, value
		fields := strings.Split(line, "\t")
		if len(fields) != 7 {
			l.Warning("skipping malformed Netscape cookie line with %d fields", len(fields))
			continue
		}
		expiry, err := strconv.ParseInt(fields[4], 10, 64)
		if err != nil {
			l.Warning("skipping cookie %q with invalid expiry: %q", fields[5], fields[4])
			continue
		}
		if domain != "" && !matchesDomain(fields[0], domain, dotDomain) {
			continue
		}

		c := New(fields[5], fields[6])
		c.Domain = fields[0]
		c.Path = fields[2]
		c.Secure = strings.EqualFold(fields[3], "TRUE")
		c.HttpOnly = httpOnly
		if expiry > 0 {
			c.Expires = time.Unix(expiry, 0)
		}
		if c.ExpiredAt(current) {
			continue
		}
		cookies = append(cookies, c)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error: failed to read Netscape cookie file: %w", err)
	}
	return cookies, nil
}

// ParseNetscapeFile is ParseNetscape on a file of fs.
func ParseNetscapeFile(fs afero.Fs, filePath, domain string, l logger.Logger) ([]*Cookie, error) {
	f, err := fs.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("error: cannot open Netscape cookie file: %w", err)
	}
	defer f.Close()
	return ParseNetscape(f, domain, l)
}

// WriteNetscape writes cookies in Netscape format, header line included.
func WriteNetscape(w io.Writer, cookies []*Cookie) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintln(bw, netscapeHeader)
	for _, c := range cookies {
		prefix := ""
		if c.HttpOnly {
			prefix = httpOnlyPrefix
		}
		fmt.Fprintf(bw, "%s%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			prefix,
			c.Domain,
			netscapeBool(strings.HasPrefix(c.Domain, ".")),
			c.Path,
			netscapeBool(c.Secure),
			c.Expires.Unix(),
			c.Name,
			c.Value,
		)
	}
	return bw.Flush()
}

func netscapeBool(b bool) string {
	if b {
		return "TRUE"
	}
	return "FALSE"
}

// matchesDomain checks if a cookie domain matches the target domain.
// Matches: exact match, dot-prefix, or subdomain wildcard.
func matchesDomain(cookieDomain, domain, dotDomain string) bool {
	if cookieDomain == domain || cookieDomain == dotDomain {
		return true
	}
	return strings.HasSuffix(cookieDomain, dotDomain)
}

package cookies

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	lineSplit = regexp.MustCompile(`\r?\n`)
	// domainStep strips one leading label or the leading dot.
	domainStep = regexp.MustCompile(`^(?:[^.]+|\.)`)
	// pathStep strips the trailing segment or the trailing slash.
	pathStep = regexp.MustCompile(`(?:[^/]+|/)$`)
)

// Jar is an ordered cookie store with constant time lookup by Key.
//
// The zero value is not usable; create jars with NewJar.
type Jar struct {
	list []*Cookie
	// keys[i] is the key list[i] was stored under.
	keys []Key
	// index maps every stored key to its position in list.
	index map[Key]int
}

// NewJar returns an empty cookie jar.
func NewJar() *Jar {
	return &Jar{index: make(map[Key]int)}
}

// Clear removes all cookies.
func (j *Jar) Clear() {
	j.list = nil
	j.keys = nil
	j.index = make(map[Key]int)
}

// Len returns the number of stored cookies, expired ones included.
func (j *Jar) Len() int {
	return len(j.list)
}

// Cookies returns a copy of the stored cookies in jar order.
func (j *Jar) Cookies() []*Cookie {
	out := make([]*Cookie, len(j.list))
	copy(out, j.list)
	return out
}

// Get returns the cookie stored under k.
func (j *Jar) Get(k Key) (*Cookie, bool) {
	i, ok := j.index[k]
	if !ok {
		return nil, false
	}
	return j.list[i], true
}

// Save exports all cookies, one String line per cookie terminated by CRLF.
func (j *Jar) Save() string {
	var b strings.Builder
	for _, c := range j.list {
		b.WriteString(c.String())
		b.WriteString("\r\n")
	}
	return b.String()
}

// Load replaces the jar contents with the cookies in text, as produced by
// Save. Empty lines are skipped. The first malformed line aborts the load and
// leaves the jar unchanged.
func (j *Jar) Load(text string) error {
	fresh := NewJar()
	for i, line := range lineSplit.Split(text, -1) {
		if line == "" {
			continue
		}
		c, err := Build(line, nil)
		if err != nil {
			return fmt.Errorf("line %d: %w", i+1, err)
		}
		fresh.Insert(c)
	}
	j.list, j.keys, j.index = fresh.list, fresh.keys, fresh.index
	return nil
}

// Insert adds a copy of c, replacing a stored cookie with the same key in
// place. Cookies that are already expired are ignored. It reports whether c
// was stored.
func (j *Jar) Insert(c *Cookie) bool {
	if c.Expired() {
		return false
	}
	cp := *c
	k := cp.Key()
	if i, ok := j.index[k]; ok {
		j.list[i] = &cp
		return true
	}
	j.index[k] = len(j.list)
	j.list = append(j.list, &cp)
	j.keys = append(j.keys, k)
	return true
}

// Remove deletes the cookie with the same key as c.
func (j *Jar) Remove(c *Cookie) error {
	k := c.Key()
	i, ok := j.index[k]
	if !ok {
		return ErrNotFound
	}
	delete(j.index, k)
	j.list = append(j.list[:i], j.list[i+1:]...)
	j.keys = append(j.keys[:i], j.keys[i+1:]...)
	for n, moved := range j.keys[i:] {
		j.index[moved] = i + n
	}
	return nil
}

// Find returns the non-expired cookies whose domain and path equal the
// arguments exactly.
func (j *Jar) Find(domain, path string) []*Cookie {
	var cookies []*Cookie
	for _, c := range j.list {
		if c.Domain == domain && c.Path == path && !c.Expired() {
			cookies = append(cookies, c)
		}
	}
	return cookies
}

// FindDefault is Find for the empty domain and the root path.
func (j *Jar) FindDefault() []*Cookie {
	return j.Find("", "/")
}

// FindFuzzy returns the cookies visible from a request to domain and path.
//
// Domains are visited from the most specific one outwards, alternately
// stripping a label and a dot ("www.example.com", ".example.com",
// "example.com", ".com", "com"). For each domain, paths are visited from the
// longest prefix down to "/" ("/a/b", "/a/", "/a", "/").
//
// Only the first cookie of each name is returned, even when later matches are
// different cookies from a broader scope.
func (j *Jar) FindFuzzy(domain, path string) []*Cookie {
	var cookies []*Cookie
	found := make(map[string]bool)
	for d := domain; d != ""; d = domainStep.ReplaceAllString(d, "") {
		for p := path; p != ""; p = pathStep.ReplaceAllString(p, "") {
			for _, c := range j.Find(d, p) {
				if found[c.Name] {
					continue
				}
				found[c.Name] = true
				cookies = append(cookies, c)
			}
		}
	}
	return cookies
}

package server

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	"github.com/creachadair/jrpc2"
	"github.com/creachadair/jrpc2/handler"
	"github.com/creachadair/jrpc2/jhttp"
	"github.com/warpdl/cookiejar/internal/cookies"
	"github.com/warpdl/cookiejar/pkg/logger"
)

// Custom JSON-RPC error codes for jar operations.
const (
	codeCookieNotFound = jrpc2.Code(-32001)
	codeParseError     = jrpc2.Code(-32003)
	codeInvalidParams  = jrpc2.Code(-32602)
	codeInternal       = jrpc2.Code(-32603)
)

// Persister stores the jar after every mutation. *store.Store implements it.
type Persister interface {
	Save(jar *cookies.Jar) error
}

// RPCConfig holds configuration for the JSON-RPC endpoint.
type RPCConfig struct {
	Secret    string // Auth token (required -- empty means RPC disabled)
	Version   string
	Commit    string
	BuildType string
}

// RPCServer manages the JSON-RPC 2.0 bridge and method handlers.
type RPCServer struct {
	bridge    jhttp.Bridge
	methods   handler.Map
	secret    string
	version   string
	commit    string
	buildType string
	jar       *cookies.Shared
	persist   Persister
	log       logger.Logger
}

// VersionResult is the response for system.getVersion.
type VersionResult struct {
	Version   string `json:"version"`
	Commit    string `json:"commit,omitempty"`
	BuildType string `json:"buildType,omitempty"`
}

// CookieResult is the wire form of a stored cookie.
type CookieResult struct {
	Name      string    `json:"name"`
	Value     string    `json:"value"`
	Domain    string    `json:"domain"`
	Path      string    `json:"path"`
	Expires   time.Time `json:"expires"`
	Secure    bool      `json:"secure,omitempty"`
	HttpOnly  bool      `json:"httpOnly,omitempty"`
	SetCookie string    `json:"setCookie"`
}

// InsertParams is the input for jar.insert.
type InsertParams struct {
	SetCookie string `json:"setCookie"`
	URL       string `json:"url,omitempty"`
}

// InsertResult is the response for jar.insert. Stored is false when the
// cookie was already expired and the jar ignored it.
type InsertResult struct {
	Cookie *CookieResult `json:"cookie"`
	Stored bool          `json:"stored"`
}

// KeyParams identifies a cookie for jar.remove.
type KeyParams struct {
	Name   string `json:"name"`
	Domain string `json:"domain"`
	Path   string `json:"path"`
}

// ScopeParams is the input for jar.find and jar.findFuzzy. An empty path
// means "/".
type ScopeParams struct {
	Domain string `json:"domain"`
	Path   string `json:"path,omitempty"`
}

// URLParam is the input for jar.header.
type URLParam struct {
	URL string `json:"url"`
}

// HeaderResult is the response for jar.header.
type HeaderResult struct {
	Cookie string `json:"cookie"`
}

// ListResult is the response for the listing methods.
type ListResult struct {
	Cookies []*CookieResult `json:"cookies"`
}

// TextParam carries a jar export for jar.load.
type TextParam struct {
	Text string `json:"text"`
}

// TextResult is the response for jar.save.
type TextResult struct {
	Text  string `json:"text"`
	Count int    `json:"count"`
}

// EmptyResult is a placeholder for methods that return no data.
type EmptyResult struct{}

// NewRPCServer creates an RPCServer serving jar. persist may be nil.
func NewRPCServer(cfg *RPCConfig, jar *cookies.Shared, persist Persister, l logger.Logger) *RPCServer {
	if l == nil {
		l = logger.NewNopLogger()
	}
	rs := &RPCServer{
		secret:    cfg.Secret,
		version:   cfg.Version,
		commit:    cfg.Commit,
		buildType: cfg.BuildType,
		jar:       jar,
		persist:   persist,
		log:       l,
	}

	rs.methods = handler.Map{
		"system.getVersion": handler.New(rs.systemGetVersion),
		"jar.insert":        handler.New(rs.jarInsert),
		"jar.remove":        handler.New(rs.jarRemove),
		"jar.find":          handler.New(rs.jarFind),
		"jar.findFuzzy":     handler.New(rs.jarFindFuzzy),
		"jar.header":        handler.New(rs.jarHeader),
		"jar.list":          handler.New(rs.jarList),
		"jar.clear":         handler.New(rs.jarClear),
		"jar.save":          handler.New(rs.jarSave),
		"jar.load":          handler.New(rs.jarLoad),
	}

	rs.bridge = jhttp.NewBridge(rs.methods, nil)
	return rs
}

func (rs *RPCServer) systemGetVersion(_ context.Context) (*VersionResult, error) {
	return &VersionResult{
		Version:   rs.version,
		Commit:    rs.commit,
		BuildType: rs.buildType,
	}, nil
}

// jarInsert parses a Set-Cookie value, with url supplying the default domain
// and path, and stores it.
func (rs *RPCServer) jarInsert(_ context.Context, p *InsertParams) (*InsertResult, error) {
	if p.SetCookie == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: setCookie"}
	}
	c, err := cookies.BuildString(p.SetCookie, p.URL)
	if err != nil {
		return nil, &jrpc2.Error{Code: codeParseError, Message: err.Error()}
	}

	var stored bool
	err = rs.mutate(func(j *cookies.Jar) error {
		stored = j.Insert(c)
		return nil
	})
	if err != nil {
		return nil, err
	}
	rs.log.Info("rpc: inserted cookie %s for %s%s (stored=%t)", c.Name, c.Domain, c.Path, stored)
	return &InsertResult{Cookie: toResult(c), Stored: stored}, nil
}

func (rs *RPCServer) jarRemove(_ context.Context, p *KeyParams) (*EmptyResult, error) {
	if p.Name == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: name"}
	}
	target := &cookies.Cookie{Name: p.Name, Domain: p.Domain, Path: p.Path}
	err := rs.mutate(func(j *cookies.Jar) error {
		return j.Remove(target)
	})
	if errors.Is(err, cookies.ErrNotFound) {
		return nil, &jrpc2.Error{Code: codeCookieNotFound, Message: "cookie not found: " + p.Name}
	}
	if err != nil {
		return nil, err
	}
	rs.log.Info("rpc: removed cookie %s for %s%s", p.Name, p.Domain, p.Path)
	return &EmptyResult{}, nil
}

func (rs *RPCServer) jarFind(_ context.Context, p *ScopeParams) (*ListResult, error) {
	var found []*cookies.Cookie
	rs.jar.Do(func(j *cookies.Jar) {
		found = j.Find(p.Domain, scopePath(p.Path))
	})
	return toList(found), nil
}

func (rs *RPCServer) jarFindFuzzy(_ context.Context, p *ScopeParams) (*ListResult, error) {
	if p.Domain == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: domain"}
	}
	var found []*cookies.Cookie
	rs.jar.Do(func(j *cookies.Jar) {
		found = j.FindFuzzy(strings.ToLower(p.Domain), scopePath(p.Path))
	})
	return toList(found), nil
}

// jarHeader returns the Cookie header a client would send to url.
func (rs *RPCServer) jarHeader(_ context.Context, p *URLParam) (*HeaderResult, error) {
	if p.URL == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "missing required param: url"}
	}
	u, err := url.Parse(p.URL)
	if err != nil || u.Host == "" {
		return nil, &jrpc2.Error{Code: codeInvalidParams, Message: "invalid url: " + p.URL}
	}
	var header string
	rs.jar.Do(func(j *cookies.Jar) {
		header = cookies.RequestHeader(j, u, strings.ToLower(u.Hostname()))
	})
	return &HeaderResult{Cookie: header}, nil
}

func (rs *RPCServer) jarList(_ context.Context) (*ListResult, error) {
	var all []*cookies.Cookie
	rs.jar.Do(func(j *cookies.Jar) {
		all = j.Cookies()
	})
	return toList(all), nil
}

func (rs *RPCServer) jarClear(_ context.Context) (*EmptyResult, error) {
	err := rs.mutate(func(j *cookies.Jar) error {
		j.Clear()
		return nil
	})
	if err != nil {
		return nil, err
	}
	rs.log.Info("rpc: cleared cookie jar")
	return &EmptyResult{}, nil
}

func (rs *RPCServer) jarSave(_ context.Context) (*TextResult, error) {
	var res TextResult
	rs.jar.Do(func(j *cookies.Jar) {
		res.Text = j.Save()
		res.Count = j.Len()
	})
	return &res, nil
}

// jarLoad replaces the jar with an export. A malformed export leaves the jar
// untouched.
func (rs *RPCServer) jarLoad(_ context.Context, p *TextParam) (*EmptyResult, error) {
	err := rs.mutate(func(j *cookies.Jar) error {
		return j.Load(p.Text)
	})
	if errors.Is(err, cookies.ErrInvalidFormat) || errors.Is(err, cookies.ErrInvalidExpires) {
		return nil, &jrpc2.Error{Code: codeParseError, Message: err.Error()}
	}
	if err != nil {
		return nil, err
	}
	return &EmptyResult{}, nil
}

// mutate runs fn under the jar lock and persists the jar when fn succeeds.
func (rs *RPCServer) mutate(fn func(*cookies.Jar) error) error {
	var err error
	rs.jar.Do(func(j *cookies.Jar) {
		if err = fn(j); err != nil {
			return
		}
		if rs.persist != nil {
			if perr := rs.persist.Save(j); perr != nil {
				rs.log.Error("rpc: failed to persist cookie jar: %v", perr)
				err = &jrpc2.Error{Code: codeInternal, Message: "failed to persist cookie jar"}
			}
		}
	})
	return err
}

// Close shuts down the HTTP bridge.
func (rs *RPCServer) Close() {
	rs.bridge.Close()
}

func scopePath(p string) string {
	if p == "" {
		return "/"
	}
	return p
}

func toResult(c *cookies.Cookie) *CookieResult {
	return &CookieResult{
		Name:      c.Name,
		Value:     c.Value,
		Domain:    c.Domain,
		Path:      c.Path,
		Expires:   c.Expires.UTC(),
		Secure:    c.Secure,
		HttpOnly:  c.HttpOnly,
		SetCookie: c.String(),
	}
}

func toList(cs []*cookies.Cookie) *ListResult {
	res := &ListResult{Cookies: make([]*CookieResult, 0, len(cs))}
	for _, c := range cs {
		res.Cookies = append(res.Cookies, toResult(c))
	}
	return res
}

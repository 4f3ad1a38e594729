package cookies

import (
	"errors"
	"net/http"
	"net/url"
	"testing"
	"time"
)

// freezeNow pins the package clock for the duration of the test.
func freezeNow(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("failed to parse url %q: %v", raw, err)
	}
	return u
}

func TestBuild_AllAttributes(t *testing.T) {
	c, err := Build("sid=abc123; Domain=example.com; Path=/; Secure", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "sid" || c.Value != "abc123" {
		t.Errorf("expected sid=abc123, got %s=%s", c.Name, c.Value)
	}
	if c.Domain != "example.com" {
		t.Errorf("expected domain 'example.com', got '%s'", c.Domain)
	}
	if c.Path != "/" {
		t.Errorf("expected path '/', got '%s'", c.Path)
	}
	if !c.Secure {
		t.Error("expected Secure=true")
	}
	if c.HttpOnly {
		t.Error("expected HttpOnly=false")
	}
}

func TestBuild_Defaults(t *testing.T) {
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	freezeNow(t, fixed)

	c, err := Build("lang=en", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Domain != "" {
		t.Errorf("expected empty domain, got '%s'", c.Domain)
	}
	if c.Path != "/" {
		t.Errorf("expected path '/', got '%s'", c.Path)
	}
	if !c.Expires.Equal(fixed.Add(DefaultLifetime)) {
		t.Errorf("expected default expiry %v, got %v", fixed.Add(DefaultLifetime), c.Expires)
	}
	if c.Secure || c.HttpOnly {
		t.Error("expected flags to default to false")
	}
}

func TestBuild_URLDefaults(t *testing.T) {
	u := mustParseURL(t, "https://www.example.com/accounts/login?next=1")

	c, err := Build("sid=1", u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Domain != "www.example.com" {
		t.Errorf("expected domain from url, got '%s'", c.Domain)
	}
	if c.Path != "/accounts/login" {
		t.Errorf("expected path from url, got '%s'", c.Path)
	}

	c, err = Build("sid=1; Domain=.example.com; Path=/", u)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Domain != ".example.com" || c.Path != "/" {
		t.Errorf("expected explicit attributes to win, got domain=%s path=%s", c.Domain, c.Path)
	}
}

func TestBuild_URLWithoutPath(t *testing.T) {
	c, err := Build("sid=1", mustParseURL(t, "https://example.com"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Path != "/" {
		t.Errorf("expected path '/', got '%s'", c.Path)
	}
}

func TestBuildString(t *testing.T) {
	c, err := BuildString("sid=1", "http://example.com:8080/a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Domain != "example.com" || c.Path != "/a" {
		t.Errorf("unexpected scope %s%s", c.Domain, c.Path)
	}
	if _, err := BuildString("sid=1", "http://[::1"); err == nil {
		t.Error("expected error for invalid url")
	}
}

func TestBuild_InvalidFormat(t *testing.T) {
	for _, input := range []string{"", "=abc", "sid=1; Name="} {
		_, err := Build(input, nil)
		if !errors.Is(err, ErrInvalidFormat) {
			t.Errorf("Build(%q): expected ErrInvalidFormat, got %v", input, err)
		}
	}
}

func TestBuild_MissingValue(t *testing.T) {
	c, err := Build("flag", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "flag" || c.Value != "" {
		t.Errorf("expected flag with empty value, got %s=%q", c.Name, c.Value)
	}
}

func TestBuild_ValueWithEquals(t *testing.T) {
	c, err := Build("token=a=b==; Path=/x", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Value != "a=b==" {
		t.Errorf("expected value 'a=b==', got %q", c.Value)
	}
}

func TestBuild_AttributeKeysCaseInsensitive(t *testing.T) {
	c, err := Build("sid=1; DOMAIN=example.com; pAtH=/a; SECURE; httponly", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Domain != "example.com" || c.Path != "/a" || !c.Secure || !c.HttpOnly {
		t.Errorf("unexpected cookie: %+v", c)
	}
}

func TestBuild_UnknownAttributesIgnored(t *testing.T) {
	c, err := Build("sid=1; SameSite=Lax; Max-Age=10; Priority", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "sid" || c.Value != "1" || c.Path != "/" {
		t.Errorf("unexpected cookie: %+v", c)
	}
}

func TestBuild_NameAndValueAttributes(t *testing.T) {
	c, err := Build("sid=1; Name=other; Value=2", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Name != "other" || c.Value != "2" {
		t.Errorf("expected attributes to override name and value, got %s=%s", c.Name, c.Value)
	}
}

func TestBuild_BareStringAttributeIgnored(t *testing.T) {
	c, err := Build("sid=1; Domain; Path", mustParseURL(t, "https://example.com/a"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Domain != "example.com" || c.Path != "/a" {
		t.Errorf("expected url defaults to survive bare attributes, got %s%s", c.Domain, c.Path)
	}
}

func TestBuild_Expires(t *testing.T) {
	want := time.Date(2021, 1, 13, 22, 23, 1, 0, time.UTC)
	tests := []string{
		"Wed, 13 Jan 2021 22:23:01 GMT",
		"Wednesday, 13-Jan-21 22:23:01 GMT",
		"Wed, 13-Jan-2021 22:23:01 GMT",
		"Wed Jan 13 2021 22:23:01 GMT+0000 (Coordinated Universal Time)",
	}
	for _, raw := range tests {
		c, err := Build("sid=1; Expires="+raw, nil)
		if err != nil {
			t.Errorf("Expires=%q: unexpected error: %v", raw, err)
			continue
		}
		if !c.Expires.Equal(want) {
			t.Errorf("Expires=%q: expected %v, got %v", raw, want, c.Expires)
		}
	}
}

func TestBuild_InvalidExpires(t *testing.T) {
	for _, text := range []string{
		"sid=1; Expires=tomorrow-ish",
		"sid=1; Expires=",
	} {
		if _, err := Build(text, nil); !errors.Is(err, ErrInvalidExpires) {
			t.Errorf("%q: expected ErrInvalidExpires, got %v", text, err)
		}
	}
}

func TestBuild_LastExpiresWins(t *testing.T) {
	c, err := Build("sid=1; Expires=garbage; Expires=Wed, 13 Jan 2021 22:23:01 GMT", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Expires.Year() != 2021 {
		t.Errorf("expected the last Expires attribute to be used, got %v", c.Expires)
	}
}

func TestCookie_String(t *testing.T) {
	c := &Cookie{
		Name:     "LSID",
		Value:    "DQAAAK",
		Domain:   "docs.foo.com",
		Path:     "/accounts",
		Expires:  time.Date(2021, 1, 13, 22, 23, 1, 0, time.UTC),
		Secure:   true,
		HttpOnly: true,
	}
	want := "LSID=DQAAAK; Domain=docs.foo.com; Path=/accounts; Expires=Wed, 13 Jan 2021 22:23:01 GMT; Secure; HttpOnly"
	if got := c.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}

	c.Secure, c.HttpOnly = false, false
	want = "LSID=DQAAAK; Domain=docs.foo.com; Path=/accounts; Expires=Wed, 13 Jan 2021 22:23:01 GMT"
	if got := c.String(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestCookie_RoundTrip(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	cookies := []*Cookie{
		{Name: "sid", Value: "abc", Domain: "example.com", Path: "/", Expires: time.Now().Add(time.Hour).In(loc)},
		{Name: "pref", Value: "", Domain: ".example.com", Path: "/a/b", Expires: time.Now().Add(48 * time.Hour), Secure: true},
		{Name: "x", Value: "1=2", Domain: "", Path: "/", Expires: time.Now().Add(-time.Hour), HttpOnly: true},
	}
	for _, c := range cookies {
		parsed, err := Build(c.String(), nil)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", c.String(), err)
		}
		if parsed.Key() != c.Key() {
			t.Errorf("expected key %+v, got %+v", c.Key(), parsed.Key())
		}
		if parsed.Value != c.Value || parsed.Secure != c.Secure || parsed.HttpOnly != c.HttpOnly {
			t.Errorf("attributes changed in round trip: %+v vs %+v", c, parsed)
		}
		if !parsed.Expires.Equal(c.Expires.Truncate(time.Second)) {
			t.Errorf("expected expiry %v, got %v", c.Expires.Truncate(time.Second), parsed.Expires)
		}
	}
}

func TestCookie_Expired(t *testing.T) {
	fixed := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	freezeNow(t, fixed)

	c := New("sid", "1")
	c.Expires = fixed.Add(-time.Second)
	if !c.Expired() {
		t.Error("expected cookie in the past to be expired")
	}
	c.Expires = fixed
	if c.Expired() {
		t.Error("expected cookie expiring exactly now not to be expired")
	}
	c.Expires = fixed.Add(time.Second)
	if c.Expired() {
		t.Error("expected cookie in the future not to be expired")
	}
}

func TestCookie_KeyDoesNotCollide(t *testing.T) {
	a := &Cookie{Name: "a:b", Domain: "c", Path: "/"}
	b := &Cookie{Name: "a", Domain: "b:c", Path: "/"}
	if a.Key() == b.Key() {
		t.Error("expected distinct keys for distinct (name, domain, path) triples")
	}
}

func TestFromHTTP(t *testing.T) {
	fixed := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	freezeNow(t, fixed)
	u := mustParseURL(t, "https://www.example.com/app")

	c := FromHTTP(&http.Cookie{Name: "sid", Value: "1", HttpOnly: true}, u)
	if c.Domain != "www.example.com" || c.Path != "/app" || !c.HttpOnly {
		t.Errorf("unexpected cookie: %+v", c)
	}
	if !c.Expires.Equal(fixed.Add(DefaultLifetime)) {
		t.Errorf("expected default expiry, got %v", c.Expires)
	}

	c = FromHTTP(&http.Cookie{Name: "sid", Value: "1", Domain: "example.com", Path: "/", MaxAge: 60}, u)
	if c.Domain != "example.com" || c.Path != "/" {
		t.Errorf("expected explicit scope, got %s%s", c.Domain, c.Path)
	}
	if !c.Expires.Equal(fixed.Add(time.Minute)) {
		t.Errorf("expected Max-Age expiry, got %v", c.Expires)
	}

	c = FromHTTP(&http.Cookie{Name: "sid", MaxAge: -1}, u)
	if !c.Expired() {
		t.Error("expected negative Max-Age to produce an expired cookie")
	}

	back := c.HTTP()
	if back.Name != "sid" || back.Domain != c.Domain || back.Path != c.Path {
		t.Errorf("unexpected http cookie: %+v", back)
	}
}

package cmd

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/spf13/afero"
	"github.com/warpdl/cookiejar/internal/cookies"
	"github.com/warpdl/cookiejar/internal/store/keyring"
	"github.com/warpdl/cookiejar/pkg/logger"
)

const testJar = "/jar.txt"

// setupCmd points the commands at an in-memory filesystem, an empty
// environment and a captured stdout.
func setupCmd(t *testing.T, env map[string]string) (afero.Fs, *bytes.Buffer) {
	t.Helper()
	fs := afero.NewMemMapFs()
	out := &bytes.Buffer{}

	oldFs, oldLookup, oldLog, oldStdout := appFs, lookupEnv, logOutput, stdout
	oldProgress, oldKeyStore := progressOutput, newKeyStore
	t.Cleanup(func() {
		appFs, lookupEnv, logOutput, stdout = oldFs, oldLookup, oldLog, oldStdout
		progressOutput, newKeyStore = oldProgress, oldKeyStore
	})

	appFs = fs
	lookupEnv = func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
	logOutput = io.Discard
	stdout = out
	progressOutput = nil
	newKeyStore = func(fs afero.Fs, dir string, _ logger.Logger) keyring.KeyStore {
		return keyring.NewFileKeyStore(fs, dir)
	}
	return fs, out
}

// run executes the app against the test jar.
func run(args ...string) error {
	return Execute(append([]string{"cookiejar", "--jar", testJar}, args...), BuildArgs{Version: "test", BuildType: "unit"})
}

func mustRun(t *testing.T, out *bytes.Buffer, args ...string) string {
	t.Helper()
	out.Reset()
	if err := run(args...); err != nil {
		t.Fatalf("%v: %v", args, err)
	}
	return out.String()
}

func TestParse(t *testing.T) {
	_, out := setupCmd(t, nil)

	got := mustRun(t, out, "parse", "sid=abc;", "Domain=example.com;", "Path=/app;", "Secure")
	if !strings.HasPrefix(got, "sid=abc; Domain=example.com; Path=/app; Expires=") {
		t.Fatalf("unexpected output %q", got)
	}
	if !strings.HasSuffix(strings.TrimSpace(got), "; Secure") {
		t.Fatalf("expected Secure flag in %q", got)
	}
}

func TestParse_URLDefaults(t *testing.T) {
	_, out := setupCmd(t, nil)

	got := mustRun(t, out, "parse", "--url", "https://www.example.com/app", "sid=abc")
	if !strings.HasPrefix(got, "sid=abc; Domain=www.example.com; Path=/app;") {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestParse_InvalidExpires(t *testing.T) {
	setupCmd(t, nil)

	err := run("parse", "sid=abc; Expires=someday")
	if !errors.Is(err, cookies.ErrInvalidExpires) {
		t.Fatalf("expected ErrInvalidExpires, got %v", err)
	}
	if !strings.HasPrefix(err.Error(), "parse[build]:") {
		t.Fatalf("unexpected error format %q", err)
	}
}

func TestSetListHeader(t *testing.T) {
	_, out := setupCmd(t, nil)

	mustRun(t, out, "set", "--url", "https://www.example.com/app", "sid=abc; HttpOnly")
	mustRun(t, out, "set", "theme=dark; Domain=example.com; Path=/")

	if got := mustRun(t, out, "header", "https://www.example.com/app/page"); got != "sid=abc; theme=dark\n" {
		t.Fatalf("unexpected header %q", got)
	}
	if got := mustRun(t, out, "header", "https://example.com/"); got != "theme=dark\n" {
		t.Fatalf("unexpected header %q", got)
	}

	got := mustRun(t, out, "list")
	if !strings.Contains(got, "sid") || !strings.Contains(got, "theme") {
		t.Fatalf("expected both cookies listed:\n%s", got)
	}

	got = mustRun(t, out, "list", "--domain", "example.com")
	if !strings.Contains(got, "theme") || strings.Contains(got, "sid") {
		t.Fatalf("expected only theme for exact scope:\n%s", got)
	}

	got = mustRun(t, out, "list", "--domain", "www.example.com", "--path", "/app/page", "--fuzzy")
	if !strings.Contains(got, "theme") || !strings.Contains(got, "sid") {
		t.Fatalf("expected fuzzy lookup to see both cookies:\n%s", got)
	}

	got = mustRun(t, out, "list", "--domain", "other.org")
	if !strings.Contains(got, "no cookies found") {
		t.Fatalf("expected empty listing:\n%s", got)
	}
}

func TestSet_ExpiredNotStored(t *testing.T) {
	fs, out := setupCmd(t, nil)

	got := mustRun(t, out, "set", "old=1; Expires=Thu, 01 Jan 1970 00:00:00 GMT")
	if !strings.Contains(got, "already expired") {
		t.Fatalf("unexpected output %q", got)
	}
	if ok, _ := afero.Exists(fs, testJar); ok {
		t.Fatal("expected no jar file to be written")
	}
}

func TestSet_ReplacesSameKey(t *testing.T) {
	fs, out := setupCmd(t, nil)

	mustRun(t, out, "set", "sid=one; Domain=example.com")
	mustRun(t, out, "set", "sid=two; Domain=example.com")

	data, err := afero.ReadFile(fs, testJar)
	if err != nil {
		t.Fatal(err)
	}
	jar := cookies.NewJar()
	if err := jar.Load(string(data)); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if jar.Len() != 1 {
		t.Fatalf("expected one cookie, got %d", jar.Len())
	}
	if c := jar.Cookies()[0]; c.Value != "two" {
		t.Fatalf("expected replaced value, got %q", c.Value)
	}
}

func TestRemoveAndClear(t *testing.T) {
	_, out := setupCmd(t, nil)

	mustRun(t, out, "set", "a=1; Domain=example.com")
	mustRun(t, out, "set", "b=2; Domain=example.com; Path=/x")

	if got := mustRun(t, out, "remove", "--domain", "example.com", "a"); !strings.Contains(got, `removed cookie "a"`) {
		t.Fatalf("unexpected output %q", got)
	}
	if err := run("remove", "--domain", "example.com", "a"); !errors.Is(err, cookies.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	// b lives under /x, so the default path misses it.
	if err := run("remove", "--domain", "example.com", "b"); !errors.Is(err, cookies.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for wrong path, got %v", err)
	}

	if got := mustRun(t, out, "clear"); got != "removed 1 cookies\n" {
		t.Fatalf("unexpected output %q", got)
	}
	if got := mustRun(t, out, "list"); !strings.Contains(got, "no cookies found") {
		t.Fatalf("expected empty jar:\n%s", got)
	}
}

func TestImportNetscape(t *testing.T) {
	fs, out := setupCmd(t, nil)

	data := "# Netscape HTTP Cookie File\n" +
		".example.com\tTRUE\t/\tTRUE\t4102444800\tsid\tabc\n" +
		"#HttpOnly_www.example.com\tFALSE\t/app\tFALSE\t4102444800\ttok\txyz\n" +
		".other.org\tTRUE\t/\tFALSE\t4102444800\tx\ty\n"
	if err := afero.WriteFile(fs, "/cookies.txt", []byte(data), 0o600); err != nil {
		t.Fatal(err)
	}

	got := mustRun(t, out, "import", "--domain", "example.com", "/cookies.txt")
	if !strings.Contains(got, "imported 2 cookies from /cookies.txt") {
		t.Fatalf("unexpected output %q", got)
	}
	if got := mustRun(t, out, "header", "https://www.example.com/app"); got != "tok=xyz; sid=abc\n" {
		t.Fatalf("unexpected header %q", got)
	}
}

func TestImport_MissingFile(t *testing.T) {
	setupCmd(t, nil)
	err := run("import", "/nope.txt")
	if err == nil || !strings.HasPrefix(err.Error(), "import[read]:") {
		t.Fatalf("expected import[read] error, got %v", err)
	}
}

func TestImport_BrowserNoneFound(t *testing.T) {
	setupCmd(t, nil)
	err := run("import", "--browser")
	if !errors.Is(err, cookies.ErrNoBrowserStore) {
		t.Fatalf("expected ErrNoBrowserStore, got %v", err)
	}
}

func TestExport(t *testing.T) {
	fs, out := setupCmd(t, nil)

	mustRun(t, out, "set", "sid=abc; Domain=example.com; HttpOnly")

	got := mustRun(t, out, "export")
	if !strings.HasPrefix(got, "sid=abc; Domain=example.com; Path=/;") || !strings.HasSuffix(got, "; HttpOnly\r\n") {
		t.Fatalf("unexpected export %q", got)
	}

	mustRun(t, out, "export", "--netscape", "--output", "/out.txt")
	data, err := afero.ReadFile(fs, "/out.txt")
	if err != nil {
		t.Fatal(err)
	}
	text := string(data)
	if !strings.HasPrefix(text, "# Netscape HTTP Cookie File\n") {
		t.Fatalf("missing header:\n%s", text)
	}
	if !strings.Contains(text, "#HttpOnly_example.com\tFALSE\t/\tFALSE\t") {
		t.Fatalf("unexpected netscape line:\n%s", text)
	}
}

func TestVersionCommand(t *testing.T) {
	setupCmd(t, nil)
	if err := run("version"); err != nil {
		t.Fatalf("version: %v", err)
	}
}

func TestFit(t *testing.T) {
	tests := []struct {
		in   string
		n    int
		want string
	}{
		{"sid", 5, " sid "},
		{"session", 5, "se..."},
		{"ééééééé", 6, "ééé..."},
		{"é", 3, " é "},
	}
	for _, tt := range tests {
		got := fit(tt.in, tt.n)
		if got != tt.want {
			t.Errorf("fit(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
		}
		if !utf8.ValidString(got) {
			t.Errorf("fit(%q, %d) produced invalid UTF-8", tt.in, tt.n)
		}
	}
}

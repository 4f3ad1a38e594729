package common

import (
	"errors"
	"flag"
	"io"
	"testing"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
)

func newTestContext() *cli.Context {
	app := cli.NewApp()
	app.Name = "cookiejar"
	app.Version = "test"
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	ctx := cli.NewContext(app, set, nil)
	ctx.Command = cli.Command{Name: "cmd"}
	return ctx
}

func newDiscardProgress() *mpb.Progress {
	return mpb.New(mpb.WithOutput(io.Discard))
}

func TestInitBar_KnownLength(t *testing.T) {
	p := newDiscardProgress()
	bar := InitBar(p, "Fetching", 100)
	if bar == nil {
		t.Fatal("expected bar")
	}
	bar.IncrBy(100)
	p.Wait()
	if !bar.Completed() {
		t.Fatal("expected bar to complete when the length is reached")
	}
}

func TestInitBar_UnknownLength(t *testing.T) {
	p := newDiscardProgress()
	bar := InitBar(p, "Fetching", -1)
	bar.IncrBy(42)
	bar.SetTotal(-1, true)
	p.Wait()
	if !bar.Completed() {
		t.Fatal("expected bar to complete once the total is set")
	}
	if got := bar.Current(); got != 42 {
		t.Fatalf("expected current 42, got %d", got)
	}
}

func TestBeautAndReplic(t *testing.T) {
	if got := Beaut("hi", 4); got != " hi " {
		t.Fatalf("unexpected beaut output: %q", got)
	}
	vals := replic('x', 3)
	if len(vals) != 3 || vals[0] != 'x' {
		t.Fatalf("unexpected replic output: %v", vals)
	}
}

func TestBeautLongerThanField(t *testing.T) {
	if got := Beaut("toolong", 3); got != "toolong" {
		t.Fatalf("unexpected beaut output: %q", got)
	}
}

func TestBeautCountsRunes(t *testing.T) {
	if got := Beaut("héé", 5); got != " héé " {
		t.Fatalf("unexpected beaut output: %q", got)
	}
}

func TestBeautOddRemainder(t *testing.T) {
	if got := Beaut("hi", 5); got != " hi  " {
		t.Fatalf("unexpected beaut output for odd padding: %q", got)
	}
}

func TestRuntimeErr(t *testing.T) {
	base := errors.New("boom")
	err := RuntimeErr("set", "save", base)
	if !errors.Is(err, base) {
		t.Fatal("expected wrapped error")
	}
	if got := err.Error(); got != "set[save]: boom" {
		t.Fatalf("unexpected message %q", got)
	}
}

// stubHelp replaces both help printers for the duration of the test and
// reports which one ran.
func stubHelp(t *testing.T, cmdErr error) (app, cmd *bool) {
	t.Helper()
	app, cmd = new(bool), new(bool)
	oldApp, oldCmd := showAppHelpAndExit, showCommandHelp
	showAppHelpAndExit = func(*cli.Context, int) { *app = true }
	showCommandHelp = func(*cli.Context, string) error {
		*cmd = true
		return cmdErr
	}
	t.Cleanup(func() { showAppHelpAndExit, showCommandHelp = oldApp, oldCmd })
	return app, cmd
}

func TestUsageErrorCallback(t *testing.T) {
	tests := []struct {
		name    string
		command string
		err     error
		wantApp bool
		wantCmd bool
	}{
		{"command usage error", "list", errors.New("flag provided but not defined: -x"), false, true},
		{"app usage error", "", errors.New("flag provided but not defined: -x"), true, false},
		{"help requested", "", errors.New("flag: help requested"), true, false},
		{"version requested", "", errors.New("flag provided but not defined: -version"), false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app, cmd := stubHelp(t, nil)
			ctx := newTestContext()
			ctx.Command = cli.Command{Name: tt.command}
			if err := UsageErrorCallback(ctx, tt.err, false); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if *app != tt.wantApp || *cmd != tt.wantCmd {
				t.Fatalf("app help %v, command help %v; want %v, %v", *app, *cmd, tt.wantApp, tt.wantCmd)
			}
		})
	}
}

func TestPrintErrWithCmdHelp_NilError(t *testing.T) {
	_, cmd := stubHelp(t, nil)
	if err := PrintErrWithCmdHelp(newTestContext(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *cmd {
		t.Fatal("expected no help for a nil error")
	}
}

func TestHelp(t *testing.T) {
	app, _ := stubHelp(t, nil)
	if err := Help(newTestContext()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !*app {
		t.Fatal("expected app help")
	}
}

func helpContext(args ...string) *cli.Context {
	set := flag.NewFlagSet("test", flag.ContinueOnError)
	_ = set.Parse(args)
	ctx := cli.NewContext(cli.NewApp(), set, nil)
	ctx.Command = cli.Command{Name: "help"}
	return ctx
}

func TestHelp_Command(t *testing.T) {
	_, cmd := stubHelp(t, nil)
	if err := Help(helpContext("list")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !*cmd {
		t.Fatal("expected command help")
	}
}

func TestHelp_UnknownCommand(t *testing.T) {
	stubHelp(t, errors.New("no help topic for 'bogus'"))
	if err := Help(helpContext("bogus")); err == nil {
		t.Fatal("expected error for an unknown command")
	}
}

func TestGetVersion(t *testing.T) {
	old := VersionCmdStr
	VersionCmdStr = "cookiejar version test"
	defer func() { VersionCmdStr = old }()

	if err := GetVersion(newTestContext()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

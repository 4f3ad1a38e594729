package cmd

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/urfave/cli"
	"github.com/warpdl/cookiejar/cmd/common"
	"github.com/warpdl/cookiejar/internal/cookies"
	"github.com/warpdl/cookiejar/internal/transport"
)

const expiresLayout = "2006-01-02 15:04:05"

var (
	urlFlag = cli.StringFlag{
		Name:  "url, u",
		Usage: "request url supplying the default domain and path",
	}

	lsDomain string
	lsPath   string
	lsFuzzy  bool

	lsFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "domain, d",
			Usage:       "only list cookies of this domain",
			Destination: &lsDomain,
		},
		cli.StringFlag{
			Name:        "path, p",
			Usage:       "only list cookies of this path (default: /)",
			Destination: &lsPath,
		},
		cli.BoolFlag{
			Name:        "fuzzy, f",
			Usage:       "list every cookie visible from the domain and path",
			Destination: &lsFuzzy,
		},
	}

	rmDomain string
	rmPath   string

	rmFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "domain, d",
			Usage:       "domain of the cookie",
			Destination: &rmDomain,
		},
		cli.StringFlag{
			Name:        "path, p",
			Usage:       "path of the cookie",
			Value:       "/",
			Destination: &rmPath,
		},
	}
)

// cookieArg joins the arguments so that an unquoted "a=b; Path=/" survives
// shell word splitting.
func cookieArg(ctx *cli.Context) string {
	return strings.TrimSpace(strings.Join(ctx.Args(), " "))
}

func parse(ctx *cli.Context) error {
	text := cookieArg(ctx)
	if text == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no cookie provided"))
	}
	c, err := cookies.BuildString(text, ctx.String("url"))
	if err != nil {
		return common.RuntimeErr("parse", "build", err)
	}
	fmt.Fprintln(stdout, c.String())
	return nil
}

func setCookie(ctx *cli.Context) error {
	text := cookieArg(ctx)
	if text == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no cookie provided"))
	}
	c, err := cookies.BuildString(text, ctx.String("url"))
	if err != nil {
		return common.RuntimeErr("set", "build", err)
	}
	if c.Expired() {
		fmt.Fprintf(stdout, "cookie %q is already expired, not stored\n", c.Name)
		return nil
	}

	env, err := newJarEnv(ctx)
	if err != nil {
		return common.RuntimeErr("set", "config", err)
	}
	defer env.Close()
	jar, err := env.loadJar()
	if err != nil {
		return common.RuntimeErr("set", "load", err)
	}
	jar.Insert(c)
	if err := env.store.Save(jar); err != nil {
		return common.RuntimeErr("set", "save", err)
	}
	fmt.Fprintln(stdout, c.String())
	return nil
}

func list(ctx *cli.Context) error {
	if ctx.Args().First() == "help" {
		return cli.ShowCommandHelp(ctx, ctx.Command.Name)
	}
	if lsFuzzy && lsDomain == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("--fuzzy needs --domain"))
	}
	env, err := newJarEnv(ctx)
	if err != nil {
		return common.RuntimeErr("list", "config", err)
	}
	defer env.Close()
	jar, err := env.loadJar()
	if err != nil {
		return common.RuntimeErr("list", "load", err)
	}

	path := lsPath
	if path == "" {
		path = "/"
	}
	var found []*cookies.Cookie
	switch {
	case lsFuzzy:
		found = jar.FindFuzzy(lsDomain, path)
	case lsDomain != "" || lsPath != "":
		found = jar.Find(lsDomain, path)
	default:
		for _, c := range jar.Cookies() {
			if !c.Expired() {
				found = append(found, c)
			}
		}
	}
	if len(found) == 0 {
		fmt.Fprintln(stdout, "cookiejar: no cookies found")
		return nil
	}

	txt := "Here are your cookies:"
	txt += "\n\n---------------------------------------------------------------------------------------"
	txt += "\n|Num|        Name        |         Domain         |    Path    |       Expires       |Flags|"
	txt += "\n|---|--------------------|------------------------|------------|---------------------|-----|"
	for i, c := range found {
		txt += fmt.Sprintf("\n|%s|%s|%s|%s| %s |%s|",
			fit(fmt.Sprint(i+1), 3),
			fit(c.Name, 20),
			fit(c.Domain, 24),
			fit(c.Path, 12),
			c.Expires.Local().Format(expiresLayout),
			fit(flags(c), 5),
		)
	}
	txt += "\n---------------------------------------------------------------------------------------"
	fmt.Fprintln(stdout, txt)
	return nil
}

// fit centers s in n columns, cutting it short with "..." when too long.
func fit(s string, n int) string {
	if r := []rune(s); len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return common.Beaut(s, n)
}

func flags(c *cookies.Cookie) string {
	var f string
	if c.Secure {
		f += "S"
	}
	if c.HttpOnly {
		f += "H"
	}
	return f
}

func header(ctx *cli.Context) error {
	rawURL := ctx.Args().First()
	if rawURL == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no url provided"))
	}
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return common.RuntimeErr("header", "url", err)
	}
	if u.Host == "" {
		return common.RuntimeErr("header", "url", fmt.Errorf("url %q has no host", rawURL))
	}
	env, err := newJarEnv(ctx)
	if err != nil {
		return common.RuntimeErr("header", "config", err)
	}
	defer env.Close()
	jar, err := env.loadJar()
	if err != nil {
		return common.RuntimeErr("header", "load", err)
	}

	client := transport.NewClient(cookies.NewShared(jar), transport.WithLogger(env.log))
	fmt.Fprintln(stdout, client.Send(u))
	return nil
}

func removeCookie(ctx *cli.Context) error {
	name := ctx.Args().First()
	if name == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no cookie name provided"))
	}
	env, err := newJarEnv(ctx)
	if err != nil {
		return common.RuntimeErr("remove", "config", err)
	}
	defer env.Close()
	jar, err := env.loadJar()
	if err != nil {
		return common.RuntimeErr("remove", "load", err)
	}
	if err := jar.Remove(&cookies.Cookie{Name: name, Domain: rmDomain, Path: rmPath}); err != nil {
		return common.RuntimeErr("remove", "remove", err)
	}
	if err := env.store.Save(jar); err != nil {
		return common.RuntimeErr("remove", "save", err)
	}
	fmt.Fprintf(stdout, "removed cookie %q\n", name)
	return nil
}

func clearJar(ctx *cli.Context) error {
	env, err := newJarEnv(ctx)
	if err != nil {
		return common.RuntimeErr("clear", "config", err)
	}
	defer env.Close()
	jar, err := env.loadJar()
	if err != nil {
		return common.RuntimeErr("clear", "load", err)
	}
	n := jar.Len()
	jar.Clear()
	if err := env.store.Save(jar); err != nil {
		return common.RuntimeErr("clear", "save", err)
	}
	fmt.Fprintf(stdout, "removed %d cookies\n", n)
	return nil
}

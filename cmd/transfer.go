package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli"
	"github.com/warpdl/cookiejar/cmd/common"
	"github.com/warpdl/cookiejar/internal/cookies"
)

var (
	importDomain  string
	importBrowser bool

	importFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "browser, b",
			Usage:       "import from the first browser cookie store found instead of a file",
			Destination: &importBrowser,
		},
		cli.StringFlag{
			Name:        "domain, d",
			Usage:       "only import cookies of this domain and its subdomains",
			Destination: &importDomain,
		},
	}

	exportNetscape bool
	exportOutput   string

	exportFlags = []cli.Flag{
		cli.BoolFlag{
			Name:        "netscape, n",
			Usage:       "write a Netscape cookies.txt file",
			Destination: &exportNetscape,
		},
		cli.StringFlag{
			Name:        "output, o",
			Usage:       "write to this file instead of stdout",
			Destination: &exportOutput,
		},
	}
)

func importCookies(ctx *cli.Context) error {
	src := ctx.Args().First()
	if src == "" && !importBrowser {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no cookie file provided"))
	}
	env, err := newJarEnv(ctx)
	if err != nil {
		return common.RuntimeErr("import", "config", err)
	}
	defer env.Close()
	jar, err := env.loadJar()
	if err != nil {
		return common.RuntimeErr("import", "load", err)
	}

	var (
		n      int
		source *cookies.CookieSource
	)
	if src != "" {
		n, source, err = cookies.ImportInto(jar, appFs, src, importDomain, env.log)
	} else {
		var found []*cookies.Cookie
		found, source, err = cookies.DetectBrowserCookies(appFs, importDomain, env.log)
		for _, c := range found {
			jar.Insert(c)
		}
		n = len(found)
	}
	if err != nil {
		return common.RuntimeErr("import", "read", err)
	}
	if err := env.store.Save(jar); err != nil {
		return common.RuntimeErr("import", "save", err)
	}
	env.log.Info("imported %d cookies from %s", n, source.Path)
	fmt.Fprintf(stdout, "imported %d cookies from %s (%s)\n", n, source.Path, source.Browser)
	return nil
}

func export(ctx *cli.Context) error {
	env, err := newJarEnv(ctx)
	if err != nil {
		return common.RuntimeErr("export", "config", err)
	}
	defer env.Close()
	jar, err := env.loadJar()
	if err != nil {
		return common.RuntimeErr("export", "load", err)
	}

	w := stdout
	if exportOutput != "" {
		f, err := appFs.OpenFile(exportOutput, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return common.RuntimeErr("export", "create", err)
		}
		defer f.Close()
		w = f
	}
	if err := writeJar(w, jar, exportNetscape); err != nil {
		return common.RuntimeErr("export", "write", err)
	}
	return nil
}

func writeJar(w io.Writer, jar *cookies.Jar, netscape bool) error {
	if !netscape {
		_, err := io.WriteString(w, jar.Save())
		return err
	}
	var live []*cookies.Cookie
	for _, c := range jar.Cookies() {
		if !c.Expired() {
			live = append(live, c)
		}
	}
	return cookies.WriteNetscape(w, live)
}

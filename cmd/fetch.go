package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"

	"github.com/urfave/cli"
	"github.com/vbauerster/mpb/v8"
	"github.com/warpdl/cookiejar/cmd/common"
	"github.com/warpdl/cookiejar/internal/cookies"
	"github.com/warpdl/cookiejar/internal/transport"
)

var (
	fetchOutput string

	fetchFlags = []cli.Flag{
		cli.StringFlag{
			Name:        "output, o",
			Usage:       "save the response body to this file instead of stdout",
			Destination: &fetchOutput,
		},
		cli.BoolFlag{
			Name:  "debug, d",
			Usage: "log the names of the cookies sent and received",
		},
	}

	// progressOutput receives the progress bar; nil disables it.
	progressOutput io.Writer = os.Stderr
)

func fetch(ctx *cli.Context) error {
	rawURL := ctx.Args().First()
	if rawURL == "" {
		return common.PrintErrWithCmdHelp(ctx, errors.New("no url provided"))
	}
	env, err := newJarEnv(ctx)
	if err != nil {
		return common.RuntimeErr("fetch", "config", err)
	}
	defer env.Close()
	jar, err := env.loadJar()
	if err != nil {
		return common.RuntimeErr("fetch", "load", err)
	}

	timeout, err := env.cfg.FetchTimeout()
	if err != nil {
		return common.RuntimeErr("fetch", "config", err)
	}
	shared := cookies.NewShared(jar)
	client := transport.NewClient(shared,
		transport.WithHTTPClient(&http.Client{Timeout: timeout}),
		transport.WithLogger(env.log),
		transport.WithUserAgent(env.cfg.Fetch.UserAgent),
	)

	reqCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	resp, err := client.Get(reqCtx, rawURL)
	if err != nil {
		return common.RuntimeErr("fetch", "get", err)
	}
	defer resp.Body.Close()
	env.log.Info("%s: %s", rawURL, resp.Status)

	n, copyErr := copyBody(resp, fetchOutput)

	// Cookies from a partial response are still worth keeping.
	var saveErr error
	shared.Do(func(j *cookies.Jar) {
		saveErr = env.store.Save(j)
	})
	if copyErr != nil {
		return common.RuntimeErr("fetch", "body", copyErr)
	}
	if saveErr != nil {
		return common.RuntimeErr("fetch", "save", saveErr)
	}
	if fetchOutput != "" {
		fmt.Fprintf(stdout, "saved %d bytes to %s (%s)\n", n, fetchOutput, resp.Status)
	}
	return nil
}

// copyBody writes the response body to stdout, or to the output file with a
// progress bar.
func copyBody(resp *http.Response, output string) (int64, error) {
	if output == "" {
		return io.Copy(stdout, resp.Body)
	}
	f, err := appFs.Create(output)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	if progressOutput == nil {
		return io.Copy(f, resp.Body)
	}
	p := mpb.New(mpb.WithOutput(progressOutput), mpb.WithWidth(64))
	bar := common.InitBar(p, "Fetching", resp.ContentLength)
	n, err := io.Copy(f, bar.ProxyReader(resp.Body))
	if err != nil {
		bar.Abort(false)
	} else {
		bar.SetTotal(-1, true)
	}
	p.Wait()
	return n, err
}

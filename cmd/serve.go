package cmd

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"
	"github.com/warpdl/cookiejar/cmd/common"
	"github.com/warpdl/cookiejar/internal/cookies"
	"github.com/warpdl/cookiejar/internal/server"
)

var (
	serveFlags = []cli.Flag{
		cli.StringFlag{
			Name:  "listen, l",
			Usage: "address to listen on (default: 127.0.0.1:8089)",
		},
		cli.StringFlag{
			Name:  "secret, s",
			Usage: "bearer token clients must send",
		},
	}

	errNoSecret = errors.New("a secret is required, use --secret or set COOKIEJAR_SECRET")

	// serveContext is done when the server should stop.
	serveContext = func() (context.Context, context.CancelFunc) {
		return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	}
)

func serve(ctx *cli.Context) error {
	env, err := newJarEnv(ctx)
	if err != nil {
		return common.RuntimeErr("serve", "config", err)
	}
	defer env.Close()
	if env.cfg.Server.Secret == "" {
		return common.RuntimeErr("serve", "config", errNoSecret)
	}
	jar, err := env.loadJar()
	if err != nil {
		return common.RuntimeErr("serve", "load", err)
	}

	rpc := server.NewRPCServer(&server.RPCConfig{
		Secret:    env.cfg.Server.Secret,
		Version:   currentBuildArgs.Version,
		Commit:    currentBuildArgs.Commit,
		BuildType: currentBuildArgs.BuildType,
	}, cookies.NewShared(jar), env.store, env.log)
	ws := server.NewWebServer(env.cfg.Server.Listen, rpc, env.log)

	runCtx, stop := serveContext()
	defer stop()
	if err := ws.Start(runCtx); err != nil {
		return common.RuntimeErr("serve", "listen", err)
	}
	env.log.Info("rpc server stopped")
	return nil
}

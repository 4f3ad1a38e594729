package cmd

import (
	"github.com/urfave/cli"
	"github.com/warpdl/cookiejar/cmd/common"
)

func showConfig(ctx *cli.Context) error {
	env, err := newJarEnv(ctx)
	if err != nil {
		return common.RuntimeErr("config", "load", err)
	}
	defer env.Close()
	out, err := env.cfg.Marshal()
	if err != nil {
		return common.RuntimeErr("config", "marshal", err)
	}
	_, err = stdout.Write(out)
	return err
}

// Package cmd implements the cookiejar command line interface.
package cmd

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/urfave/cli"
	"github.com/warpdl/cookiejar/cmd/common"
	internalcommon "github.com/warpdl/cookiejar/common"
	"github.com/warpdl/cookiejar/internal/config"
)

type BuildArgs struct {
	Version   string
	BuildType string
	Date      string
	Commit    string
}

var currentBuildArgs BuildArgs

var globalFlags = []cli.Flag{
	cli.StringFlag{
		Name:   "config",
		Usage:  "path of the YAML configuration file",
		Value:  filepath.Join(config.DefaultDir(), "config.yaml"),
		EnvVar: internalcommon.ConfigPathEnv,
	},
	cli.StringFlag{
		Name:  "jar, j",
		Usage: "path of the jar file (overrides the configuration)",
	},
	cli.StringFlag{
		Name:  "log-format",
		Usage: "log format: console or json (default: console on a terminal)",
	},
	cli.StringFlag{
		Name:  "log-level",
		Usage: "log level: debug, info, warn or error",
	},
	cli.StringFlag{
		Name:  "log-file",
		Usage: "also append log records to this file",
	},
	cli.BoolFlag{
		Name:  "keyring, k",
		Usage: "encrypt the jar with a key kept in the system keyring",
	},
}

func Execute(args []string, bArgs BuildArgs) error {
	currentBuildArgs = bArgs
	app := cli.App{
		Name:                  "cookiejar",
		HelpName:              "cookiejar",
		Usage:                 "A persistent HTTP cookie jar.",
		Version:               fmt.Sprintf("%s-%s", bArgs.Version, bArgs.BuildType),
		UsageText:             "cookiejar [global options] <command> [arguments...]",
		Description:           DESCRIPTION,
		CustomAppHelpTemplate: HELP_TEMPL,
		OnUsageError:          common.UsageErrorCallback,
		Flags:                 globalFlags,
		Commands: []cli.Command{
			{
				Name:               "parse",
				Aliases:            []string{"p"},
				Usage:              "parse a Set-Cookie value",
				UsageText:          "[--url <url>] <cookie>",
				Description:        ParseDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             parse,
				Flags:              []cli.Flag{urlFlag},
			},
			{
				Name:               "set",
				Aliases:            []string{"s"},
				Usage:              "store a cookie in the jar",
				UsageText:          "[--url <url>] <cookie>",
				Description:        SetDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             setCookie,
				Flags:              []cli.Flag{urlFlag},
			},
			{
				Name:                   "list",
				Aliases:                []string{"l"},
				Usage:                  "display the cookies in the jar",
				UsageText:              "[--domain <domain>] [--path <path>] [--fuzzy]",
				Description:            ListDescription,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				OnUsageError:           common.UsageErrorCallback,
				Action:                 list,
				UseShortOptionHandling: true,
				Flags:                  lsFlags,
			},
			{
				Name:               "header",
				Usage:              "print the Cookie header for a url",
				UsageText:          "<url>",
				Description:        HeaderDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             header,
			},
			{
				Name:               "remove",
				Aliases:            []string{"rm"},
				Usage:              "remove a cookie from the jar",
				UsageText:          "[--domain <domain>] [--path <path>] <name>",
				Description:        RemoveDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             removeCookie,
				Flags:              rmFlags,
			},
			{
				Name:               "clear",
				Aliases:            []string{"c"},
				Usage:              "remove every cookie from the jar",
				UsageText:          " ",
				Description:        ClearDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             clearJar,
			},
			{
				Name:               "import",
				Aliases:            []string{"i"},
				Usage:              "import cookies from a browser or cookies.txt file",
				UsageText:          "[--domain <domain>] <file> | --browser",
				Description:        ImportDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             importCookies,
				Flags:              importFlags,
			},
			{
				Name:               "export",
				Aliases:            []string{"e"},
				Usage:              "export the jar",
				UsageText:          "[--netscape] [--output <file>]",
				Description:        ExportDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             export,
				Flags:              exportFlags,
			},
			{
				Name:                   "fetch",
				Aliases:                []string{"f"},
				Usage:                  "GET a url with the jar's cookies",
				UsageText:              "[--output <file>] [--debug] <url>",
				Description:            FetchDescription,
				CustomHelpTemplate:     CMD_HELP_TEMPL,
				OnUsageError:           common.UsageErrorCallback,
				Action:                 fetch,
				UseShortOptionHandling: true,
				Flags:                  fetchFlags,
			},
			{
				Name:               "serve",
				Usage:              "serve the jar over JSON-RPC",
				UsageText:          "[--listen <addr>] [--secret <token>]",
				Description:        ServeDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				OnUsageError:       common.UsageErrorCallback,
				Action:             serve,
				Flags:              serveFlags,
			},
			{
				Name:               "config",
				Usage:              "print the effective configuration",
				UsageText:          " ",
				Description:        ConfigDescription,
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             showConfig,
			},
			{
				Name:    "help",
				Aliases: []string{"h"},
				Usage:   "prints the help message",
				Action:  common.Help,
			},
			{
				Name:               "version",
				Aliases:            []string{"v"},
				Usage:              "prints installed version of cookiejar",
				UsageText:          " ",
				CustomHelpTemplate: CMD_HELP_TEMPL,
				Action:             common.GetVersion,
			},
		},
		Action:      common.Help,
		HideHelp:    true,
		HideVersion: true,
	}
	common.VersionCmdStr = fmt.Sprintf("%s %s (%s_%s)\nBuild: %s=%s\n",
		app.Name,
		app.Version,
		runtime.GOOS,
		runtime.GOARCH,
		bArgs.Date, bArgs.Commit,
	)
	return app.Run(args)
}

package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/gofrs/uuid"
	"github.com/kairos-io/archstrap/internal/config"
	"github.com/kairos-io/archstrap/internal/utils"
	"github.com/kairos-io/archstrap/internal/version"
	"github.com/kairos-io/archstrap/pkg/probe"
	"github.com/urfave/cli/v2"
)

var Flags = []cli.Flag{
	&cli.BoolFlag{
		Name:    "dry-run",
		Usage:   "print the installation plan and exit before running any tool",
		EnvVars: []string{"ARCHSTRAP_DRY_RUN"},
	},
	&cli.BoolFlag{
		Name:    "debug",
		EnvVars: []string{"ARCHSTRAP_DEBUG"},
	},
	&cli.StringFlag{
		Name:    "config",
		Usage:   "yaml config file",
		EnvVars: []string{"ARCHSTRAP_CONFIG"},
	},
}

// InstallAction is the default action of the cli.
func InstallAction(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	setLogger(c.Bool("debug") || cfg.Debug)

	stop := utils.HandleInterrupt(os.Exit)
	defer stop()

	return Install(context.Background(), Options{
		Config: cfg,
		DryRun: c.Bool("dry-run"),
	})
}

var Commands = []*cli.Command{
	{
		Name:  "probe",
		Usage: "list installable disks and memory",
		Action: func(c *cli.Context) error {
			setLogger(c.Bool("debug"))
			return Probe(utils.CommandRunner{}, c.App.Writer, probe.DescribeDisks)
		},
	},
	{
		Name:  "version",
		Usage: "version",
		Action: func(c *cli.Context) error {
			_, err := fmt.Fprintln(c.App.Writer, version.Get())
			return err
		},
	},
}

func setLogger(debug bool) {
	runID := ""
	if id, err := uuid.NewV4(); err == nil {
		runID = id.String()
	}
	utils.SetLogger(debug, runID)
	v := version.Get()
	utils.Log.Info().Str("commit", v.GitCommit).Str("compiled with", v.GoVersion).Str("version", v.Version).Msg("archstrap")
}

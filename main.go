package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/kairos-io/archstrap/internal/cmd"
	"github.com/kairos-io/archstrap/internal/constants"
	"github.com/kairos-io/archstrap/internal/version"
	"github.com/urfave/cli/v2"
)

// Install Arch on a blank disk.
func main() {
	app := cli.NewApp()
	app.Name = "archstrap"
	app.Usage = "provision a fresh Arch Linux system onto a disk"
	app.Version = version.GetVersion()
	app.Authors = []*cli.Author{{Name: "Kairos authors"}}
	app.Copyright = "kairos authors"
	app.Flags = cmd.Flags
	app.Action = cmd.InstallAction
	app.Commands = cmd.Commands

	err := app.Run(os.Args)
	if errors.Is(err, constants.ErrUserAbort) {
		fmt.Fprintln(os.Stderr, "Installation aborted.")
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Command blzcli executes bluzelle requests from the command line.
package main

import (
	"os"
	"sort"

	"github.com/urfave/cli/v2"

	"github.com/bluzelle/blzgo/cmd/utils"
	"github.com/bluzelle/blzgo/log"
)

var (
	clientIdentifier = "blzcli"
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
	// The app that holds all commands and flags.
	app = utils.NewApp(clientIdentifier, gitCommit, gitDate, "the bluzelle command line client")
)

func initApp() {
	app.HideVersion = true // we have a command to print the version
	app.Before = func(ctx *cli.Context) error {
		utils.SetLogger(ctx)
		return nil
	}
	app.Commands = []*cli.Command{
		requestCommand,
		consoleCommand,
		utils.VersionCommand,
	}
	app.Flags = []cli.Flag{
		utils.ConfigFileFlag,
		utils.EndpointFlag,
		utils.ChainIDFlag,
		utils.UUIDFlag,
		utils.MnemonicFileFlag,
		utils.VerbosityFlag,
		utils.JSONFormatFlag,
		utils.ColorFormatFlag,
	}
	sort.Sort(cli.CommandsByName(app.Commands))
}

func main() {
	initApp()
	if err := app.Run(os.Args); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

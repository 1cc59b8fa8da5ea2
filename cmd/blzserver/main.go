// Command blzserver serves one bluzelle session over http, json rpc and websocket.
package main

import (
	"context"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/bluzelle/blzgo/cmd/utils"
	"github.com/bluzelle/blzgo/internal/gatewayapi"
	"github.com/bluzelle/blzgo/log"
	"github.com/bluzelle/blzgo/params"
	rpcserver "github.com/bluzelle/blzgo/rpc/server"
	"github.com/bluzelle/blzgo/worker"
)

var (
	clientIdentifier = "blzserver"
	// Git SHA1 commit hash of the release (set via linker flags)
	gitCommit = ""
	gitDate   = ""
	// The app that holds all commands and flags.
	app = utils.NewApp(clientIdentifier, gitCommit, gitDate, "the bluzelle gateway daemon")
)

func initApp() {
	app.Action = blzserver
	app.HideVersion = true // we have a command to print the version
	app.Commands = []*cli.Command{
		utils.VersionCommand,
	}
	app.Flags = []cli.Flag{
		utils.ConfigFileFlag,
		utils.LogFileFlag,
		utils.LogRotationFlag,
		utils.LogMaxAgeFlag,
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

func blzserver(ctx *cli.Context) error {
	utils.SetLogger(ctx)
	if ctx.NArg() > 0 {
		return fmt.Errorf("invalid command: %q", ctx.Args().Get(0))
	}
	configFile := utils.GetConfigFilePath(ctx)
	config := params.LoadConfig(configFile)

	options := worker.ClientOptions(config.Client)
	gatewayapi.Init(&options)
	if err := worker.ApplyClientConfig(config.Client); err != nil {
		log.Warn("connect at startup failed, waiting for connect request", "err", err)
	}

	svr := rpcserver.StartAPIServer()
	worker.WatchConfigFile(configFile)

	utils.WaitAndCleanup(func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := svr.Shutdown(shutdownCtx); err != nil {
			log.Warn("shutdown api server failed", "err", err)
		}
	})
	return nil
}

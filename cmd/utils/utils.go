package utils

import (
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"

	"github.com/urfave/cli/v2"

	"github.com/bluzelle/blzgo/log"
	"github.com/bluzelle/blzgo/params"
)

var (
	clientIdentifier string
	gitCommit        string
	gitDate          string

	// TopWaitGroup waits the background jobs to exit
	TopWaitGroup = new(sync.WaitGroup)
	// CleanupChan is closed to stop the background jobs
	CleanupChan = make(chan struct{})
)

// NewApp creates an app with sane defaults.
func NewApp(identifier, gitcommit, gitdate, usage string) *cli.App {
	clientIdentifier = identifier
	gitCommit = gitcommit
	gitDate = gitdate
	app := cli.NewApp()
	app.Name = filepath.Base(os.Args[0])
	app.Version = params.VersionWithCommit(gitCommit, gitDate)
	app.Usage = usage
	return app
}

// WaitAndCleanup blocks until SIGINT or SIGTERM, then stops the
// background jobs and calls the cleanup functions
func WaitAndCleanup(cleanups ...func()) {
	signalChan := make(chan os.Signal, 1)
	signal.Notify(signalChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signalChan)

	sig := <-signalChan
	log.Info("receive signal, start cleanup", "signal", sig)
	close(CleanupChan)
	for _, cleanup := range cleanups {
		cleanup()
	}
	TopWaitGroup.Wait()
	log.Info("cleanup finished")
}

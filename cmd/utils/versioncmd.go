package utils

import (
	"fmt"
	"io"
	"runtime"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/bluzelle/blzgo/bluzelle"
	"github.com/bluzelle/blzgo/keys"
	"github.com/bluzelle/blzgo/params"
)

var (
	// VersionCommand version subcommand
	VersionCommand = &cli.Command{
		Action:    version,
		Name:      "version",
		Usage:     "Print version numbers",
		ArgsUsage: " ",
		Description: `
The output of this command is supposed to be machine-readable.
`,
	}
)

func version(ctx *cli.Context) error {
	printVersion(ctx.App.Writer)
	return nil
}

func printVersion(w io.Writer) {
	fmt.Fprintln(w, strings.Title(clientIdentifier))
	fmt.Fprintln(w, "Version:", params.VersionWithMeta)
	if gitCommit != "" {
		fmt.Fprintln(w, "Git Commit:", gitCommit)
	}
	if gitDate != "" {
		fmt.Fprintln(w, "Git Commit Date:", gitDate)
	}
	fmt.Fprintln(w, "Default Endpoint:", bluzelle.DefaultEndpoint)
	fmt.Fprintln(w, "Default Chain ID:", bluzelle.DefaultChainID)
	fmt.Fprintln(w, "Key Path:", keys.FullPath)
	fmt.Fprintln(w, "Architecture:", runtime.GOARCH)
	fmt.Fprintln(w, "Go Version:", runtime.Version())
	fmt.Fprintln(w, "Operating System:", runtime.GOOS)
}

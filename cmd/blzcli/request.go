package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/bluzelle/blzgo/dispatcher"
)

var (
	requestCommand = &cli.Command{
		Action:    request,
		Name:      "request",
		Usage:     "execute one request",
		ArgsUsage: "<request json>",
		Description: `
execute one request like {"method":"read","args":["key"]}
and print the result string, or null if there is none.
`,
	}

	consoleCommand = &cli.Command{
		Action:    console,
		Name:      "console",
		Usage:     "execute requests read from stdin, one per line",
		ArgsUsage: " ",
	}

	resultColor = color.New(color.FgGreen)
	errorColor  = color.New(color.FgRed)
)

func request(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return fmt.Errorf("request needs exactly one argument, got %v", ctx.NArg())
	}
	wrapper, err := newWrapper(ctx)
	if err != nil {
		return err
	}
	res, err := wrapper.Request(ctx.Args().First())
	if err != nil {
		return err
	}
	fmt.Println(formatResult(res))
	return nil
}

func console(ctx *cli.Context) error {
	wrapper, err := newWrapper(ctx)
	if err != nil {
		return err
	}
	return runConsole(wrapper, os.Stdin, os.Stdout)
}

func runConsole(wrapper *dispatcher.Wrapper, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), 4<<20)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		res, err := wrapper.Request(line)
		if err != nil {
			_, _ = errorColor.Fprintln(out, "error:", err)
			continue
		}
		_, _ = resultColor.Fprintln(out, formatResult(res))
	}
	return scanner.Err()
}

func formatResult(res *string) string {
	if res == nil {
		return "null"
	}
	return *res
}

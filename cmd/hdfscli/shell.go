package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"
)

func (a *app) shellCommand() *cli.Command {
	return &cli.Command{
		Name:  "shell",
		Usage: "start an interactive session",
		Action: func(c *cli.Context) error {
			return a.loop(c)
		},
	}
}

// shellApp runs one shell line. It shares the session, so cd and lcd
// persist across lines.
func (a *app) shellApp(c *cli.Context) *cli.App {
	return &cli.App{
		Name:           "hdfscli",
		HideVersion:    true,
		Writer:         c.App.Writer,
		ErrWriter:      c.App.ErrWriter,
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: append(a.operations(), &cli.Command{
			Name:    "exit",
			Aliases: []string{"quit"},
			Usage:   "leave the shell",
			Action: func(*cli.Context) error {
				return errQuit
			},
		}),
	}
}

func (a *app) prompt(w io.Writer, noColor bool) {
	ep := a.sess.client.Endpoint()
	scheme, cwd, arrow := color.New(color.FgBlue), color.New(color.FgRed), color.New(color.FgGreen)
	if noColor {
		for _, c := range []*color.Color{scheme, cwd, arrow} {
			c.DisableColor()
		}
	}
	fmt.Fprintf(w, "%s%s@%s%s%s ",
		scheme.Sprint("webhdfs://"), ep.User, ep.Host,
		cwd.Sprintf("[%s]", a.sess.client.Pwd()), arrow.Sprint(">"))
}

func (a *app) loop(c *cli.Context) error {
	noColor := c.Bool("no-color")
	sh := a.shellApp(c)
	r := bufio.NewReader(c.App.Reader)
	for {
		a.prompt(c.App.Writer, noColor)
		line, err := r.ReadString('\n')
		tokens := strings.Fields(line)
		if len(tokens) > 0 {
			runErr := sh.RunContext(c.Context, append([]string{"hdfscli"}, tokens...))
			switch {
			case errors.Is(runErr, errQuit):
				return nil
			case runErr != nil && !errors.Is(runErr, errReported):
				fmt.Fprintln(c.App.ErrWriter, runErr)
			}
		}
		if err != nil {
			fmt.Fprintln(c.App.Writer)
			return nil
		}
	}
}

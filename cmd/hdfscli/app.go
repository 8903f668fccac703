package main

import (
	"errors"
	"fmt"
	"path"

	"github.com/urfave/cli/v2"
)

var (
	// errReported marks failures the console reporter already printed.
	errReported = errors.New("operation failed")
	errQuit     = errors.New("quit")
	errNoArgs   = errors.New("not enough arguments")
)

type app struct {
	sess *session
}

func newApp() *cli.App {
	a := &app{}
	return &cli.App{
		Name:  "hdfscli",
		Usage: "work with HDFS through a WebHDFS gateway",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "host", Usage: "gateway host", EnvVars: []string{"WEBHDFS_HOST"}},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "gateway port", EnvVars: []string{"WEBHDFS_PORT"}},
			&cli.StringFlag{Name: "user", Aliases: []string{"u"}, Usage: "HDFS user sent as user.name", EnvVars: []string{"WEBHDFS_USER"}},
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML config file", EnvVars: []string{"WEBHDFS_CONFIG"}},
			&cli.DurationFlag{Name: "timeout", Usage: "per-request timeout", EnvVars: []string{"WEBHDFS_TIMEOUT"}},
			&cli.StringFlag{Name: "log-level", Usage: "debug, info, warn or error", EnvVars: []string{"WEBHDFS_LOG_LEVEL"}},
			&cli.StringFlag{Name: "log-format", Usage: "text or json"},
			&cli.StringFlag{Name: "local-dir", Usage: "initial local working directory"},
			&cli.StringFlag{Name: "metrics-addr", Usage: "serve Prometheus metrics on this address"},
			&cli.BoolFlag{Name: "no-color", Usage: "disable colored output"},
		},
		Before: func(c *cli.Context) error {
			if c.Args().Len() == 0 {
				return nil
			}
			s, err := newSession(c)
			if err != nil {
				return err
			}
			a.sess = s
			return nil
		},
		After: func(*cli.Context) error {
			a.sess.close()
			return nil
		},
		Commands: append(a.operations(), a.shellCommand(), a.demoCommand()),
	}
}

// operations are the commands available both from the command line and
// inside the shell.
func (a *app) operations() []*cli.Command {
	return []*cli.Command{
		{
			Name:      "mkdir",
			Usage:     "create a remote directory under the working directory",
			ArgsUsage: "<name>",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return errNoArgs
				}
				_, err := a.sess.client.Mkdir(c.Context, c.Args().First())
				return reported(err)
			},
		},
		{
			Name:      "put",
			Usage:     "upload a local file into the working directory",
			ArgsUsage: "<local-file>",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return errNoArgs
				}
				_, err := a.sess.client.Put(c.Context, c.Args().First())
				return reported(err)
			},
		},
		{
			Name:      "get",
			Usage:     "download a remote file",
			ArgsUsage: "<remote-name> [local-file]",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return errNoArgs
				}
				remote := c.Args().Get(0)
				local := c.Args().Get(1)
				if local == "" {
					local = path.Base(remote)
				}
				_, err := a.sess.client.Get(c.Context, remote, local)
				return reported(err)
			},
		},
		{
			Name:      "append",
			Usage:     "append a local file to a remote file",
			ArgsUsage: "<local-file> <remote-name>",
			Action: func(c *cli.Context) error {
				if c.NArg() < 2 {
					return errNoArgs
				}
				_, err := a.sess.client.Append(c.Context, c.Args().Get(0), c.Args().Get(1))
				return reported(err)
			},
		},
		{
			Name:      "rm",
			Aliases:   []string{"delete"},
			Usage:     "delete a remote file or empty directory",
			ArgsUsage: "<name>",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return errNoArgs
				}
				_, err := a.sess.client.Delete(c.Context, c.Args().First())
				return reported(err)
			},
		},
		{
			Name:  "ls",
			Usage: "list the remote working directory",
			Action: func(c *cli.Context) error {
				names, err := a.sess.client.List(c.Context)
				if err != nil {
					return reported(err)
				}
				for _, name := range names {
					fmt.Fprintln(a.sess.out, name)
				}
				return nil
			},
		},
		{
			Name:      "cd",
			Usage:     "change the remote working directory",
			ArgsUsage: "<name|..>",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return errNoArgs
				}
				fmt.Fprintln(a.sess.out, a.sess.client.Cd(c.Args().First()))
				return nil
			},
		},
		{
			Name:  "pwd",
			Usage: "print the remote and local working directories",
			Action: func(c *cli.Context) error {
				fmt.Fprintf(a.sess.out, "remote: %s\nlocal:  %s\n", a.sess.client.Pwd(), a.sess.client.LocalDir())
				return nil
			},
		},
		{
			Name:      "lls",
			Usage:     "list a local directory",
			ArgsUsage: "[dir]",
			Action: func(c *cli.Context) error {
				names, err := a.sess.client.LocalList(c.Args().First())
				if err != nil {
					return reported(err)
				}
				for _, name := range names {
					fmt.Fprintln(a.sess.out, name)
				}
				return nil
			},
		},
		{
			Name:      "lcd",
			Usage:     "change the local working directory, creating it if needed",
			ArgsUsage: "<dir>",
			Action: func(c *cli.Context) error {
				if c.NArg() < 1 {
					return errNoArgs
				}
				return reported(a.sess.client.LocalCd(c.Args().First()))
			},
		},
	}
}

func reported(err error) error {
	if err != nil {
		return errReported
	}
	return nil
}

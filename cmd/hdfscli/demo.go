package main

import (
	"fmt"

	"github.com/urfave/cli/v2"
)

// demoCommand replays the classic walkthrough: every step runs even when an
// earlier one fails, and each outcome is printed by the console reporter.
func (a *app) demoCommand() *cli.Command {
	return &cli.Command{
		Name:  "demo",
		Usage: "run the scripted walkthrough against the gateway",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "lcd-target", Value: "/new/local/directory", Usage: "directory for the final lcd step"},
		},
		Action: func(c *cli.Context) error {
			ctx := c.Context
			client := a.sess.client
			out := a.sess.out

			_, _ = client.Mkdir(ctx, "test_dir")
			_, _ = client.Put(ctx, "local_file.txt")
			_, _ = client.Put(ctx, "hdfs_file.txt")
			_, _ = client.Get(ctx, "hdfs_file.txt", "local_dest.txt")
			files, _ := client.List(ctx)
			fmt.Fprintln(out, "Files:", files)
			client.Cd("..")
			_, _ = client.Delete(ctx, "test_dir")
			_, _ = client.Put(ctx, "local_file_to_append.txt")
			_, _ = client.Append(ctx, "local_file_to_append.txt", "hdfs_file.txt")
			localFiles, _ := client.LocalList(".")
			fmt.Fprintln(out, "Local files:", localFiles)
			_ = client.LocalCd(c.String("lcd-target"))
			return nil
		},
	}
}

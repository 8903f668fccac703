// Command hdfscli manipulates HDFS through a WebHDFS gateway, one command
// per invocation or interactively with the shell command.
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

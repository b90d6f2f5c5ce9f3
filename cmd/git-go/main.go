// Command git-go is a thin CLI front-end over the gitgo package: it
// parses arguments with cobra, loads (or creates) a Repository, and
// prints whatever the porcelain layer returns. All the actual engine
// logic lives in the gitgo package; this directory only handles
// command-line parsing, output formatting, and exit-code plumbing.
package main

import (
	"fmt"
	"os"

	"github.com/pterm/pterm"
)

func main() {
	cwd, err := os.Getwd()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	root := newRootCmd(cwd)
	if err := root.Execute(); err != nil {
		pterm.Error.Println(err)
		os.Exit(1)
	}
}

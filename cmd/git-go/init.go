package main

import (
	"fmt"
	"io"

	"github.com/halvorsen/gitgo"
	"github.com/spf13/cobra"
)

func newInitCmd(cfg *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Create an empty Git repository",
		Args:  cobra.MaximumNArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		dir := cfg.C
		if len(args) > 0 {
			dir = args[0]
		}
		return initCmd(cmd.OutOrStdout(), dir)
	}

	return cmd
}

func initCmd(out io.Writer, dir string) error {
	r, err := gitgo.Init(dir, gitgo.InitOptions{})
	if err != nil {
		return err
	}
	defer r.Close() //nolint:errcheck // informational command, nothing left to roll back

	fmt.Fprintf(out, "Initialized empty Git repository in %s\n", r.Config.GitDirPath)
	return nil
}

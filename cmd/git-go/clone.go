package main

import (
	"fmt"

	"github.com/halvorsen/gitgo"
	"github.com/spf13/cobra"
)

func newCloneCmd(cfg *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clone SRC DST",
		Short: "Clone a repository into a new directory",
		Args:  cobra.ExactArgs(2),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		r, err := gitgo.Clone(args[0], args[1], gitgo.CloneOptions{})
		if err != nil {
			return err
		}
		defer r.Close() //nolint:errcheck // best effort; clone itself already succeeded

		fmt.Fprintf(cmd.OutOrStdout(), "Cloned into %s\n", args[1])
		return nil
	}
	return cmd
}

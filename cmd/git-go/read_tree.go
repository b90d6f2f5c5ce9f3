package main

import (
	"github.com/halvorsen/gitgo/githash"
	"github.com/spf13/cobra"
)

func newReadTreeCmd(cfg *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "read-tree TREE",
		Short: "Replace the index with the contents of a tree object",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		id, err := githash.FromHex(args[0])
		if err != nil {
			return err
		}

		r, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer closeRepository(r, &err)

		return r.ReadTree(id)
	}
	return cmd
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newWriteTreeCmd(cfg *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write-tree",
		Short: "Write the current index as a tree object",
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		r, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer closeRepository(r, &err)

		id, err := r.WriteTree()
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id.String())
		return nil
	}
	return cmd
}

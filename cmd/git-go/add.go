package main

import (
	"github.com/spf13/cobra"
)

func newAddCmd(cfg *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add PATH...",
		Short: "Add file contents to the index",
		Args:  cobra.MinimumNArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		r, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer closeRepository(r, &err)
		return r.Add(args...)
	}
	return cmd
}

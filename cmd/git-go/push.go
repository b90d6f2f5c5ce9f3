package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newPushCmd(cfg *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "push REMOTE BRANCH",
		Short: "Upload objects and update a ref on another repository",
		Args:  cobra.ExactArgs(2),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		r, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer closeRepository(r, &err)

		result, err := r.Push(args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d object(s)\n", result.ID, result.Copied)
		return nil
	}
	return cmd
}

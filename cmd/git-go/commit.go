package main

import (
	"fmt"

	"github.com/halvorsen/gitgo"
	"github.com/spf13/cobra"
)

func newCommitCmd(cfg *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "commit",
		Short: "Record changes staged in the index",
	}

	message := cmd.Flags().StringP("message", "m", "", "the commit message")
	allowEmpty := cmd.Flags().Bool("allow-empty", false, "allow a commit whose tree matches its parent's")

	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		r, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer closeRepository(r, &err)

		id, err := r.Commit(gitgo.CommitOptions{Message: *message, AllowEmpty: *allowEmpty})
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id.String())
		return nil
	}
	return cmd
}

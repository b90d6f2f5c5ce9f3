package main

import (
	"errors"
	"fmt"

	"github.com/halvorsen/gitgo"
	"github.com/halvorsen/gitgo/worktree"
	"github.com/spf13/cobra"
)

func newPullCmd(cfg *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pull REMOTE BRANCH",
		Short: "Fetch from another repository and merge into the current branch",
		Args:  cobra.ExactArgs(2),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		r, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer closeRepository(r, &err)

		result, pullErr := r.Pull(args[0], args[1])
		if errors.Is(pullErr, gitgo.ErrAlreadyUpToDate) {
			fmt.Fprintln(cmd.OutOrStdout(), "Already up to date.")
			return nil
		}
		if pullErr != nil && !errors.Is(pullErr, worktree.ErrConflict) {
			return pullErr
		}

		out := cmd.OutOrStdout()
		switch {
		case len(result.Conflicts) > 0:
			fmt.Fprintln(out, "Automatic merge failed; fix conflicts and then commit the result.")
			for _, path := range result.Conflicts {
				fmt.Fprintf(out, "CONFLICT: %s\n", path)
			}
		case result.FastForward:
			fmt.Fprintf(out, "Fast-forward to %s\n", result.Commit)
		default:
			fmt.Fprintf(out, "Merge made by the 'recursive' strategy: %s\n", result.Commit)
		}
		return nil
	}
	return cmd
}

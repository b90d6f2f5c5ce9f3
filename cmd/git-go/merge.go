package main

import (
	"errors"
	"fmt"

	"github.com/halvorsen/gitgo"
	"github.com/halvorsen/gitgo/worktree"
	"github.com/spf13/cobra"
)

func newMergeCmd(cfg *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "merge BRANCH",
		Short: "Merge a branch into the current branch",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		r, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer closeRepository(r, &err)

		result, mergeErr := r.Merge(args[0])
		if errors.Is(mergeErr, gitgo.ErrAlreadyUpToDate) {
			fmt.Fprintln(cmd.OutOrStdout(), "Already up to date.")
			return nil
		}
		if mergeErr != nil && !errors.Is(mergeErr, worktree.ErrConflict) {
			return mergeErr
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

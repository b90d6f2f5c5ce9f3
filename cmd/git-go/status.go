package main

import (
	"fmt"

	"github.com/halvorsen/gitgo/worktree"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newStatusCmd(cfg *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show changes between the index and the working tree",
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		r, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer closeRepository(r, &err)

		changes, err := r.Status()
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, c := range changes {
			switch c.Type {
			case worktree.New:
				fmt.Fprintln(out, pterm.FgGreen.Sprintf("new file:   %s", c.Path))
			case worktree.Modified:
				fmt.Fprintln(out, pterm.FgYellow.Sprintf("modified:   %s", c.Path))
			case worktree.Deleted:
				fmt.Fprintln(out, pterm.FgRed.Sprintf("deleted:    %s", c.Path))
			case worktree.Same:
			}
		}
		return nil
	}
	return cmd
}

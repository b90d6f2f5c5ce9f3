package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newBranchCmd(cfg *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "branch [-l] [NAME]",
		Short: "List local branches, or create a new one pointing at HEAD",
		Args:  cobra.MaximumNArgs(1),
	}

	list := cmd.Flags().BoolP("list", "l", false, "list branches")

	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		r, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer closeRepository(r, &err)

		if *list || len(args) == 0 {
			names, err := r.Branches()
			if err != nil {
				return err
			}
			current, _, err := r.CurrentBranch()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, name := range names {
				if name == current {
					fmt.Fprintf(out, "* %s\n", name)
					continue
				}
				fmt.Fprintf(out, "  %s\n", name)
			}
			return nil
		}

		return r.Branch(args[0])
	}
	return cmd
}

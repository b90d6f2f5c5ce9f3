package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDiffCmd(cfg *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff [PATH...]",
		Short: "Show changes between the index and the working tree",
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		r, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer closeRepository(r, &err)

		diffs, err := r.Diff(args...)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, d := range diffs {
			fmt.Fprintf(out, "diff --git a/%s b/%s\n", d.Path, d.Path)
			fmt.Fprint(out, d.Unified)
		}
		return nil
	}
	return cmd
}

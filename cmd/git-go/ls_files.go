package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLsFilesCmd(cfg *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ls-files",
		Short: "Show information about files in the index",
	}

	showStage := cmd.Flags().BoolP("s", "s", false, "show staged file mode, object name, and stage number")

	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		r, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer closeRepository(r, &err)

		entries, err := r.LsFiles()
		if err != nil {
			return err
		}
		for _, e := range entries {
			if *showStage {
				fmt.Fprintf(cmd.OutOrStdout(), "%06o %s %d\t%s\n", e.Mode, e.Hash, (e.Flags>>12)&0b11, e.Path)
				continue
			}
			fmt.Fprintln(cmd.OutOrStdout(), e.Path)
		}
		return nil
	}
	return cmd
}

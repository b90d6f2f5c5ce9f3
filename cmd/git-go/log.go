package main

import (
	"fmt"

	"github.com/halvorsen/gitgo/githash"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
)

func newLogCmd(cfg *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show commit history starting at HEAD",
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		r, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer closeRepository(r, &err)

		entries, err := r.Log(githash.NullOid)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, e := range entries {
			author := e.Commit.Author()
			fmt.Fprintln(out, pterm.FgYellow.Sprintf("commit %s", e.ID))
			fmt.Fprintf(out, "Author: %s <%s>\n", author.Name, author.Email)
			fmt.Fprintf(out, "Date:   %s\n", author.Time.String())
			fmt.Fprintln(out)
			fmt.Fprintf(out, "    %s\n", e.Commit.Message())
			fmt.Fprintln(out)
		}
		return nil
	}
	return cmd
}

package main

import (
	"errors"
	"fmt"

	"github.com/halvorsen/gitgo"
	"github.com/halvorsen/gitgo/githash"
	"github.com/spf13/cobra"
)

func newCheckoutCmd(cfg *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkout TARGET",
		Short: "Switch the working tree to a branch or a commit",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		r, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer closeRepository(r, &err)

		target := args[0]
		err = r.Checkout(target)
		if err == nil {
			return nil
		}
		if errors.Is(err, gitgo.ErrAlreadyOnBranch) {
			fmt.Fprintf(cmd.OutOrStdout(), "Already on '%s'\n", target)
			return nil
		}
		if !errors.Is(err, gitgo.ErrBranchNotFound) {
			return err
		}

		id, hexErr := githash.FromHex(target)
		if hexErr != nil {
			return err
		}
		return r.CheckoutDetached(id)
	}
	return cmd
}

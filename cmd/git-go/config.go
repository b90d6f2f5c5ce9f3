package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newConfigCmd(cfg *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config (--list | KEY [VALUE])",
		Short: "Get, set, or list repository configuration variables",
		Args:  cobra.RangeArgs(0, 2),
	}

	unset := cmd.Flags().Bool("unset", false, "remove the configuration variable")
	list := cmd.Flags().Bool("list", false, "list every configured variable")

	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		r, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer closeRepository(r, &err)

		if *list {
			for _, line := range r.ConfigList() {
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		}
		if len(args) == 0 {
			return cmd.Usage()
		}
		key := args[0]

		if *unset {
			return r.ConfigUnset(key)
		}

		if len(args) == 2 {
			return r.ConfigSet(key, args[1])
		}

		value, ok := r.ConfigGet(key)
		if !ok {
			return fmt.Errorf("%s is not set", key)
		}
		fmt.Fprintln(cmd.OutOrStdout(), value)
		return nil
	}
	return cmd
}

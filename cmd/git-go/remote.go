package main

import (
	"github.com/spf13/cobra"
)

func newRemoteCmd(cfg *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remote",
		Short: "Manage the set of repositories tracked as remotes",
	}

	cmd.AddCommand(newRemoteAddCmd(cfg), newRemoteRemoveCmd(cfg))
	return cmd
}

func newRemoteAddCmd(cfg *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add NAME URL",
		Short: "Add a remote named NAME pointing at URL",
		Args:  cobra.ExactArgs(2),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		r, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer closeRepository(r, &err)

		return r.Remote(args[0], args[1])
	}
	return cmd
}

func newRemoteRemoveCmd(cfg *flags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove NAME",
		Short: "Remove the remote named NAME",
		Args:  cobra.ExactArgs(1),
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) (err error) {
		r, err := openRepository(cfg)
		if err != nil {
			return err
		}
		defer closeRepository(r, &err)

		return r.RemoteRemove(args[0])
	}
	return cmd
}

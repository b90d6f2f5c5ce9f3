package main

import (
	"github.com/halvorsen/gitgo/internal/pathutil"
	"github.com/spf13/cobra"
)

// flags holds the global state every subcommand shares: the
// repository path to operate against.
type flags struct {
	// C mirrors git's -C: run as if git-go was started in this
	// directory instead of the actual working directory.
	C string
}

func newRootCmd(cwd string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "git-go",
		Short:         "A Git-compatible source control engine, in Go",
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cfg := &flags{C: cwd}
	repoPath := pathutil.NewDirPathFlagWithDefault(cwd)
	cmd.PersistentFlags().VarP(repoPath, "C", "C", "Run as if git-go was started in the provided path instead of the current working directory.")
	cmd.PersistentPreRun = func(*cobra.Command, []string) {
		cfg.C = repoPath.String()
	}

	cmd.AddCommand(
		newInitCmd(cfg),
		newHashObjectCmd(cfg),
		newCatFileCmd(cfg),
		newAddCmd(cfg),
		newLsFilesCmd(cfg),
		newWriteTreeCmd(cfg),
		newReadTreeCmd(cfg),
		newCommitCmd(cfg),
		newStatusCmd(cfg),
		newDiffCmd(cfg),
		newLogCmd(cfg),
		newBranchCmd(cfg),
		newCheckoutCmd(cfg),
		newMergeCmd(cfg),
		newConfigCmd(cfg),
		newRemoteCmd(cfg),
		newFetchCmd(cfg),
		newPushCmd(cfg),
		newPullCmd(cfg),
		newCloneCmd(cfg),
	)

	return cmd
}

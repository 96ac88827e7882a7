package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewRootCommand assembles the dirmirror command tree
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "dirmirror",
		Short: "Keep a target directory an exact mirror of a source directory",
		Long: `dirmirror periodically compares a source directory with a target
directory and makes the target an exact copy: modified and new entries are
copied, entries missing from the source are removed. Every cycle is
appended to a plain-text audit log.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	AddGlobalFlags(rootCmd)

	rootCmd.AddCommand(NewRunCommand())
	rootCmd.AddCommand(NewOnceCommand())
	rootCmd.AddCommand(NewCompareCommand())
	rootCmd.AddCommand(NewConfigCommand())
	rootCmd.AddCommand(NewVersionCommand())

	return rootCmd
}

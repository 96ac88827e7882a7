package cli

import (
	"github.com/spf13/cobra"
)

// NewCompareCommand creates the compare command
func NewCompareCommand() *cobra.Command {
	f := &MirrorFlags{}
	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare folders without mirroring (dry-run)",
		Long: `Compare source and target and report the differences without performing
any file operation. Nothing is written to the target or to the audit log.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMirror(cmd, f, modeCompare)
		},
	}

	addMirrorFlags(cmd, f)

	return cmd
}

package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.trai.ch/genpack/internal/build"
)

// versionLine is shared by the version command and the --version flag.
func versionLine() string {
	return fmt.Sprintf("genpack version %s (commit: %s, date: %s)\n", build.Version, build.Commit, build.Date)
}

func (c *CLI) newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version, commit and build date",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprint(cmd.OutOrStdout(), versionLine())
			return err
		},
	}
}

package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/genpack/internal/app"
)

func (c *CLI) newCleanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Remove a variant's work directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			all, _ := cmd.Flags().GetBool("all")
			return c.app.Clean(cmd.Context(), app.CleanOptions{Options: c.opts, All: all})
		},
	}
	cmd.Flags().BoolP("all", "a", false, "Remove the work directory of every variant of this architecture")
	return cmd
}

package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/genpack/internal/core/domain"
)

func (c *CLI) newStageCmd(name, short string, stages domain.StageSet) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Build(cmd.Context(), stages, c.opts)
		},
	}
}

func (c *CLI) newShellCmd(name, short string, upper bool) *cobra.Command {
	return &cobra.Command{
		Use:   name,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Shell(cmd.Context(), upper, c.opts)
		},
	}
}

func (c *CLI) newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect",
		Short: "Print the resolved spec of a variant as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Inspect(cmd.Context(), c.opts)
		},
	}
}

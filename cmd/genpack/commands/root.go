// Package commands implements the CLI commands for genpack.
package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/genpack/internal/app"
	"go.trai.ch/genpack/internal/build"
	"go.trai.ch/genpack/internal/core/domain"
)

// CLI represents the command line interface for genpack.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
	opts    app.Options
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, stages domain.StageSet, opts app.Options) error
	Shell(ctx context.Context, upper bool, opts app.Options) error
	Inspect(ctx context.Context, opts app.Options) error
	Clean(ctx context.Context, opts app.CleanOptions) error
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:           "genpack",
		Short:         "Build layered Gentoo system images",
		Long:          "genpack builds a squashfs system image from genpack.json5. Without a command it runs a full build.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return c.app.Build(cmd.Context(), domain.AllStages, c.opts)
		},
	}

	rootCmd.SetVersionTemplate(versionLine())
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&c.opts.Variant, "variant", "", "Variant to build (default: the manifest's default_variant)")
	flags.BoolVar(&c.opts.Devel, "devel", false, "Include devel_packages in the image")
	flags.StringVar(&c.opts.Compression, "compression", "", "Compression: none, fast, balanced or maximal-ratio")
	flags.StringVar(&c.opts.CacheSharing, "cache-sharing", "", "Binary package cache: shared or isolated")
	flags.StringVar(&c.opts.LogFormat, "log-format", "", "Log format: auto, pretty, plain or json")

	c.rootCmd = rootCmd

	rootCmd.AddCommand(c.newStageCmd("build", "Build the lower and upper layers and pack the image", domain.AllStages))
	rootCmd.AddCommand(c.newStageCmd("lower", "Build or refresh the lower layer", domain.NewStageSet(domain.StageLower)))
	rootCmd.AddCommand(c.newStageCmd("upper", "Regenerate the upper layer", domain.NewStageSet(domain.StageUpper)))
	rootCmd.AddCommand(c.newStageCmd("pack", "Pack the upper layer into the image", domain.NewStageSet(domain.StagePack)))
	rootCmd.AddCommand(c.newShellCmd("bash", "Open a shell in the lower layer", false))
	rootCmd.AddCommand(c.newShellCmd("upper-bash", "Open a shell in the upper layer", true))
	rootCmd.AddCommand(c.newInspectCmd())
	rootCmd.AddCommand(c.newCleanCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

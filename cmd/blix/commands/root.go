// Package commands implements the CLI commands for blix.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.trai.ch/blix/internal/app"
	"go.trai.ch/blix/internal/build"
)

// CLI represents the command line interface for blix.
type CLI struct {
	app     Application
	rootCmd *cobra.Command

	dir     string
	verbose bool
	json    bool
}

// Application represents the application logic interface.
type Application interface {
	Build(ctx context.Context, opts app.BuildOptions) error
	ValidateWheel(ctx context.Context, path string, opts app.ValidateOptions) error
	ValidateContainer(ctx context.Context, containerID string, opts app.ContainerOptions) error
	SetLogging(verbose, json bool)
}

// New creates a new CLI instance with the given app.
func New(a Application) *CLI {
	c := &CLI{app: a}

	rootCmd := &cobra.Command{
		Use:           "blix",
		Short:         "Build and validate Poetry wheels pinned to poetry.lock",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			c.app.SetLogging(c.verbose, c.json)
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().StringVarP(&c.dir, "directory", "C", ".", "Project directory containing pyproject.toml")
	rootCmd.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "Show debug output")
	rootCmd.PersistentFlags().BoolVar(&c.json, "json-logs", false, "Write logs as JSON")

	c.rootCmd = rootCmd
	rootCmd.AddCommand(c.newBuildCmd())
	rootCmd.AddCommand(c.newValidateWheelCmd())
	rootCmd.AddCommand(c.newValidateContainerCmd())
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

// addLockFlags registers the flags shared by build and validate-wheel.
func addLockFlags(cmd *cobra.Command, opts *app.LockOptions) {
	cmd.Flags().BoolVar(&opts.NoLock, "no-lock", false, "Do not pin dependencies from poetry.lock")
	cmd.Flags().BoolVar(&opts.OnlyLock, "only-lock", false, "Use only exact pins from poetry.lock")
	cmd.Flags().StringSliceVar(&opts.WithGroups, "with-groups", nil,
		"Dependency groups to include in addition to main (repeatable or comma separated)")
}

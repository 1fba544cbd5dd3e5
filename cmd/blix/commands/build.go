package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/blix/internal/app"
)

func (c *CLI) newBuildCmd() *cobra.Command {
	var opts app.BuildOptions
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a wheel with dependencies pinned from poetry.lock and data_files embedded",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts.Dir = c.dir
			return c.app.Build(cmd.Context(), opts)
		},
	}
	addLockFlags(cmd, &opts.LockOptions)
	cmd.Flags().StringVar(&opts.Wheel, "wheel", "", "Rewrite an existing wheel instead of running poetry build")
	return cmd
}

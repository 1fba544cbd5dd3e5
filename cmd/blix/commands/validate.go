package commands

import (
	"github.com/spf13/cobra"
	"go.trai.ch/blix/internal/app"
)

func (c *CLI) newValidateWheelCmd() *cobra.Command {
	var opts app.ValidateOptions
	cmd := &cobra.Command{
		Use:   "validate-wheel <wheelPath>",
		Short: "Check a wheel's Requires-Dist and data_files against pyproject.toml and poetry.lock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Dir = c.dir
			return c.app.ValidateWheel(cmd.Context(), args[0], opts)
		},
	}
	addLockFlags(cmd, &opts.LockOptions)
	return cmd
}

func (c *CLI) newValidateContainerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate-container <containerId>",
		Short: "Check the packages installed in a running container against poetry.lock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.app.ValidateContainer(cmd.Context(), args[0], app.ContainerOptions{Dir: c.dir})
		},
	}
}

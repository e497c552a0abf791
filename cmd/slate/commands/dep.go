package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newDepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dep",
		Short: "Manage task dependencies",
	}

	cmd.AddCommand(c.newDepAddCmd())
	cmd.AddCommand(c.newDepRemoveCmd())

	return cmd
}

func (c *CLI) newDepAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add TASK DEPENDENCY",
		Short: "Make a task depend on another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.app.AddDependency(cmd.Context(), args[0], args[1])
			return err
		},
	}
}

func (c *CLI) newDepRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm TASK DEPENDENCY",
		Aliases: []string{"remove"},
		Short:   "Remove a dependency from a task",
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.app.RemoveDependency(cmd.Context(), args[0], args[1])
			return err
		},
	}
}

package commands

import (
	"github.com/spf13/cobra"
)

func (c *CLI) newTaskCompleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "complete TASK",
		Aliases: []string{"done"},
		Short:   "Mark a task as completed",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.app.CompleteTask(cmd.Context(), args[0])
			return err
		},
	}
}

func (c *CLI) newTaskReopenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reopen TASK",
		Short: "Reopen a completed task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.app.ReopenTask(cmd.Context(), args[0])
			return err
		},
	}
}

func (c *CLI) newTaskRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm TASK",
		Aliases: []string{"remove"},
		Short:   "Remove a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.app.RemoveTask(cmd.Context(), args[0])
			return err
		},
	}
}

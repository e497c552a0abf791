package commands

import (
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	str2duration "github.com/xhit/go-str2duration/v2"
	"go.trai.ch/zerr"

	"github.com/slatehq/slate/internal/app"
	"github.com/slatehq/slate/internal/core/domain"
)

func (c *CLI) newTaskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create and manage tasks",
	}

	cmd.AddCommand(c.newTaskAddCmd())
	cmd.AddCommand(c.newTaskEditCmd())
	cmd.AddCommand(c.newTaskMoveCmd())
	cmd.AddCommand(c.newTaskCompleteCmd())
	cmd.AddCommand(c.newTaskReopenCmd())
	cmd.AddCommand(c.newTaskRemoveCmd())
	cmd.AddCommand(c.newTaskShowCmd())
	cmd.AddCommand(c.newTaskListCmd())

	return cmd
}

func (c *CLI) newTaskAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add TITLE...",
		Short: "Add a task",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := dateFlag(cmd, "start")
			if err != nil {
				return err
			}
			due, err := dateFlag(cmd, "due")
			if err != nil {
				return err
			}
			duration, err := durationFlag(cmd, "duration")
			if err != nil {
				return err
			}
			list, _ := cmd.Flags().GetString("list")
			deps, _ := cmd.Flags().GetStringArray("after")

			_, err = c.app.AddTask(cmd.Context(), app.AddOptions{
				Title:     strings.Join(args, " "),
				List:      list,
				Start:     start,
				Due:       due,
				Duration:  duration,
				DependsOn: deps,
			})
			return err
		},
	}
	cmd.Flags().StringP("list", "l", "", "List the task belongs to")
	cmd.Flags().StringP("start", "s", "", "Start date (2006-01-02)")
	cmd.Flags().StringP("due", "d", "", "Due date (2006-01-02)")
	cmd.Flags().StringP("duration", "D", "", "Duration in days (5, 5d or 2w)")
	cmd.Flags().StringArrayP("after", "a", nil, "Task this one depends on, repeatable")
	return cmd
}

func (c *CLI) newTaskEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit TASK",
		Short: "Edit a task's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var edit domain.Edit

			if cmd.Flags().Changed("title") {
				title, _ := cmd.Flags().GetString("title")
				edit.Title = &title
			}
			if cmd.Flags().Changed("list") {
				list, _ := cmd.Flags().GetString("list")
				edit.List = &list
			}
			var err error
			if edit.Start, err = dateFlag(cmd, "start"); err != nil {
				return err
			}
			if edit.Due, err = dateFlag(cmd, "due"); err != nil {
				return err
			}
			if edit.DurationDays, err = durationFlag(cmd, "duration"); err != nil {
				return err
			}

			_, err = c.app.EditTask(cmd.Context(), args[0], edit)
			return err
		},
	}
	cmd.Flags().StringP("title", "t", "", "New title")
	cmd.Flags().StringP("list", "l", "", "New list")
	cmd.Flags().StringP("start", "s", "", "New start date (2006-01-02)")
	cmd.Flags().StringP("due", "d", "", "New due date (2006-01-02)")
	cmd.Flags().StringP("duration", "D", "", "New duration in days (5, 5d or 2w)")
	return cmd
}

func (c *CLI) newTaskMoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "move TASK DATE",
		Short: "Move a task to a new start date",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, err := domain.ParseDate(args[1])
			if err != nil {
				return err
			}
			_, err = c.app.MoveTask(cmd.Context(), args[0], start)
			return err
		},
	}
}

// dateFlag reads an optional date flag. An unset flag yields nil.
func dateFlag(cmd *cobra.Command, name string) (*domain.Date, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	value, _ := cmd.Flags().GetString(name)
	d, err := domain.ParseDate(value)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// durationFlag reads an optional duration flag. An unset flag yields nil.
func durationFlag(cmd *cobra.Command, name string) (*int, error) {
	if !cmd.Flags().Changed(name) {
		return nil, nil
	}
	value, _ := cmd.Flags().GetString(name)
	days, err := parseDurationDays(value)
	if err != nil {
		return nil, err
	}
	return &days, nil
}

// parseDurationDays accepts a plain day count or a 5d/2w style duration.
// Durations that do not land on whole days are rejected; task scheduling is
// day-precision throughout.
func parseDurationDays(s string) (int, error) {
	if days, err := strconv.Atoi(s); err == nil {
		return days, nil
	}

	d, err := str2duration.ParseDuration(s)
	if err != nil {
		return 0, zerr.With(domain.ErrInvalidDuration, "value", s)
	}
	if d <= 0 || d%(24*time.Hour) != 0 {
		return 0, zerr.With(domain.ErrInvalidDuration, "value", s)
	}
	return int(d / (24 * time.Hour)), nil
}

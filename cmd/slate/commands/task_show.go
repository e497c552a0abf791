package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/slatehq/slate/internal/app"
	"github.com/slatehq/slate/internal/core/domain"
)

func (c *CLI) newTaskShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show TASK",
		Short: "Show a task and its derived schedule",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			detail, err := c.app.ShowTask(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			writeDetail(cmd.OutOrStdout(), detail)
			return nil
		},
	}
}

func (c *CLI) newTaskListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "ls",
		Aliases: []string{"list"},
		Short:   "List tasks",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, _ := cmd.Flags().GetString("list")
			tasks, err := c.app.ListTasks(cmd.Context(), list)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(tasks) == 0 {
				_, _ = fmt.Fprintln(out, "no tasks")
				return nil
			}
			for _, task := range tasks {
				marker := " "
				if task.Completed {
					marker = "x"
				}
				_, _ = fmt.Fprintf(out, "[%s] %s  %s", marker, shortRef(task.ID), task.Title)
				if task.List != "" {
					_, _ = fmt.Fprintf(out, "  (%s)", task.List)
				}
				_, _ = fmt.Fprintln(out)
			}
			return nil
		},
	}
	cmd.Flags().StringP("list", "l", "", "Only show tasks from this list")
	return cmd
}

func writeDetail(w io.Writer, detail *app.TaskDetail) {
	task := detail.Task
	line := func(key, value string) {
		_, _ = fmt.Fprintf(w, "%-12s%s\n", key+":", value)
	}

	line("id", task.ID.String())
	line("title", task.Title)
	if task.List != "" {
		line("list", task.List)
	}
	line("status", statusDetail(detail))
	line("start", startDetail(task))
	line("due", dueDetail(task))
	if task.DurationDays != nil {
		line("duration", fmt.Sprintf("%dd", *task.DurationDays))
	}
	if !task.Completed && detail.EffectiveStart != nil {
		line("earliest", detail.EffectiveStart.String())
	}
	if len(task.DependsOn) > 0 {
		line("depends on", joinRefs(task.DependsOn))
	}
	if len(detail.Dependents) > 0 {
		line("dependents", joinRefs(detail.Dependents))
	}
}

func statusDetail(detail *app.TaskDetail) string {
	task := detail.Task
	switch {
	case task.Completed:
		s := "done"
		if task.CompletedAt != nil {
			s += " " + task.CompletedAt.String()
		}
		return s
	case detail.Blocked:
		s := "blocked"
		if detail.Bottleneck != nil {
			s += " by " + shortRef(*detail.Bottleneck)
		}
		return s
	default:
		return "open"
	}
}

func startDetail(task domain.Task) string {
	if task.Start == nil {
		return "-"
	}
	s := task.Start.String()
	if task.StartOrigin == domain.OriginDerived {
		s += " (derived)"
	}
	return s
}

func dueDetail(task domain.Task) string {
	if task.Due == nil {
		return "-"
	}
	s := task.Due.String()
	if task.DueFixed {
		s += " (fixed)"
	}
	return s
}

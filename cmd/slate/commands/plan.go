package commands

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/slatehq/slate/internal/app"
	"github.com/slatehq/slate/internal/core/domain"
	"github.com/slatehq/slate/internal/ui/planview"
)

// shortRefLen is how many id characters the table and annotations show.
// Prefixes this long are accepted back as task references everywhere.
const shortRefLen = 8

func (c *CLI) newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the computed schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			by, _ := cmd.Flags().GetString("by")
			scale, err := planview.ParseScale(by)
			if err != nil {
				return err
			}

			schedule, err := c.app.Plan(cmd.Context())
			if err != nil {
				return err
			}

			renderer := planview.NewRenderer(cmd.OutOrStdout())
			return renderer.Table(schedule.Project, scale, planRows(schedule))
		},
	}
	cmd.Flags().StringP("by", "b", "day", "Timeline scale: day or week")
	return cmd
}

func planRows(schedule *app.Schedule) []planview.Row {
	rows := make([]planview.Row, 0, len(schedule.Entries))
	for _, entry := range schedule.Entries {
		rows = append(rows, planRow(entry))
	}
	return rows
}

// planRow folds a schedule entry into a display row. Tasks without a stored
// start fall back to the computed effective start, and a missing due date is
// completed from start and duration so the table always shows the full span
// the engine is working with.
func planRow(entry app.ScheduleEntry) planview.Row {
	task := entry.Task
	row := planview.Row{
		ID:           shortRef(task.ID),
		Title:        task.Title,
		Start:        task.Start,
		Due:          task.Due,
		DurationDays: task.DurationDays,
		Predicted:    entry.Predicted,
		Done:         task.Completed,
		Blocked:      entry.Blocked,
	}
	if row.Start == nil {
		row.Start = entry.EffectiveStart
	}
	if row.Due == nil && row.Start != nil && task.DurationDays != nil {
		due := row.Start.AddDays(*task.DurationDays - 1)
		row.Due = &due
	}
	if entry.Bottleneck != nil {
		row.Bottleneck = shortRef(*entry.Bottleneck)
	}
	return row
}

func shortRef(id domain.TaskID) string {
	s := id.String()
	if len(s) > shortRefLen {
		return s[:shortRefLen]
	}
	return s
}

func joinRefs(ids []domain.TaskID) string {
	refs := make([]string, len(ids))
	for i, id := range ids {
		refs[i] = shortRef(id)
	}
	return strings.Join(refs, ", ")
}

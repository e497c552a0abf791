package commands

import (
	"github.com/spf13/cobra"

	"github.com/slatehq/slate/internal/app"
	"github.com/slatehq/slate/internal/ui/planview"
)

func (c *CLI) newWatchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-render the schedule whenever the store changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			by, _ := cmd.Flags().GetString("by")
			scale, err := planview.ParseScale(by)
			if err != nil {
				return err
			}

			renderer := planview.NewRenderer(cmd.OutOrStdout())
			return c.app.Watch(cmd.Context(), func(schedule *app.Schedule) {
				_ = renderer.Table(schedule.Project, scale, planRows(schedule))
			})
		},
	}
	cmd.Flags().StringP("by", "b", "day", "Timeline scale: day or week")
	return cmd
}

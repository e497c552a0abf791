package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"github.com/slatehq/slate/internal/core/domain"
)

func (c *CLI) newExportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Export the project as a plan file",
		Long:  "Export every task as a YAML plan file. Writes to stdout when no file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var out io.Writer = cmd.OutOrStdout()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Create(args[0])
				if err != nil {
					return zerr.Wrap(err, domain.ErrPlanWriteFailed.Error())
				}
				defer func() { _ = f.Close() }()
				out = f
			}

			_, err := c.app.ExportPlan(cmd.Context(), out)
			return err
		},
	}
}

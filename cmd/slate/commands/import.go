package commands

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"github.com/slatehq/slate/internal/core/domain"
)

func (c *CLI) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import [file]",
		Short: "Import tasks from a plan file",
		Long:  "Import tasks from a YAML plan file. Reads from stdin when no file is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return zerr.Wrap(err, domain.ErrPlanReadFailed.Error())
				}
				defer func() { _ = f.Close() }()
				in = f
			}

			_, err := c.app.ImportPlan(cmd.Context(), in)
			return err
		},
	}
}

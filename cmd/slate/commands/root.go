// Package commands implements the CLI commands for the slate scheduler.
package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/slatehq/slate/internal/app"
	"github.com/slatehq/slate/internal/build"
	"github.com/slatehq/slate/internal/core/domain"
	"github.com/slatehq/slate/internal/core/ports"
)

// CLI represents the command line interface for slate.
type CLI struct {
	app     Application
	rootCmd *cobra.Command
}

// Application represents the application logic interface.
type Application interface {
	Init(ctx context.Context, name string) (*domain.Project, error)
	AddTask(ctx context.Context, opts app.AddOptions) (*domain.Task, error)
	EditTask(ctx context.Context, ref string, edit domain.Edit) (*domain.Task, error)
	MoveTask(ctx context.Context, ref string, start domain.Date) (*app.MoveResult, error)
	CompleteTask(ctx context.Context, ref string) (*domain.Task, error)
	ReopenTask(ctx context.Context, ref string) (*domain.Task, error)
	RemoveTask(ctx context.Context, ref string) (*domain.Task, error)
	AddDependency(ctx context.Context, taskRef, depRef string) (*domain.Task, error)
	RemoveDependency(ctx context.Context, taskRef, depRef string) (*domain.Task, error)
	ShowTask(ctx context.Context, ref string) (*app.TaskDetail, error)
	ListTasks(ctx context.Context, list string) ([]domain.Task, error)
	Plan(ctx context.Context) (*app.Schedule, error)
	ImportPlan(ctx context.Context, r io.Reader) (*app.ImportResult, error)
	ExportPlan(ctx context.Context, w io.Writer) (int, error)
	Watch(ctx context.Context, onChange func(*app.Schedule)) error
}

// New creates a new CLI instance with the given app and logger.
func New(a Application, log ports.Logger) *CLI {
	rootCmd := &cobra.Command{
		Use:           "slate",
		Short:         "A dependency-aware task scheduler",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       build.Version,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			if jsonLogs, _ := cmd.Flags().GetBool("log-json"); jsonLogs {
				log.SetJSON(true)
			}
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"{{.Name}} version {{.Version}} (commit: %s, date: %s)\n",
		build.Commit,
		build.Date,
	))
	rootCmd.InitDefaultVersionFlag()
	rootCmd.Flags().Lookup("version").Usage = "Print the application version"

	rootCmd.InitDefaultHelpFlag()
	rootCmd.Flags().Lookup("help").Usage = "Show help for command"

	rootCmd.PersistentFlags().Bool("log-json", false, "Emit log lines as JSON")

	c := &CLI{
		app:     a,
		rootCmd: rootCmd,
	}

	rootCmd.AddCommand(c.newInitCmd())
	rootCmd.AddCommand(c.newTaskCmd())
	rootCmd.AddCommand(c.newDepCmd())
	rootCmd.AddCommand(c.newPlanCmd())
	rootCmd.AddCommand(c.newWatchCmd())
	rootCmd.AddCommand(c.newImportCmd())
	rootCmd.AddCommand(c.newExportCmd())
	rootCmd.AddCommand(c.newVersionCmd())

	return c
}

// Execute runs the root command with the given context.
func (c *CLI) Execute(ctx context.Context) error {
	c.rootCmd.SetContext(ctx)
	return c.rootCmd.Execute()
}

// SetArgs sets the arguments for the root command. Used for testing.
func (c *CLI) SetArgs(args []string) {
	c.rootCmd.SetArgs(args)
}

// SetOutput sets the output and error streams for the root command. Used for testing.
func (c *CLI) SetOutput(out, err io.Writer) {
	c.rootCmd.SetOut(out)
	c.rootCmd.SetErr(err)
}

// SetInput sets the input stream for the root command. Used for testing.
func (c *CLI) SetInput(r io.Reader) {
	c.rootCmd.SetIn(r)
}

package terminal

import (
	"context"
	"io"
	"os"

	"github.com/hopital-foch/ll-report/pkg/runtime"
	"github.com/hopital-foch/ll-report/pkg/terminal/commands"
	"github.com/hopital-foch/ll-report/pkg/terminal/export"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	factory  commands.AppFactory
	reporter *export.Reporter
	rootCmd  *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Factory commands.AppFactory
	Output  io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Factory == nil {
		opts.Factory = runtime.NewApp
	}

	cli := &CLI{
		factory:  opts.Factory,
		reporter: export.NewReporter(opts.Output),
	}

	cli.rootCmd = cli.newRootCmd()
	return cli
}

func (cli *CLI) Execute() error {
	return cli.rootCmd.Execute()
}

func (cli *CLI) ExecuteContext(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ll-report",
		Short: "Discharge-letter compliance indicators",
	}

	cmd.AddCommand(commands.NewGenerateCmd(cli.factory, cli.reporter))
	cmd.AddCommand(commands.NewMonthlyCmd(cli.factory))

	return cmd
}

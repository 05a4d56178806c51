package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hopital-foch/ll-report/pkg/export/excel"
	"github.com/hopital-foch/ll-report/pkg/models/domain"
	"github.com/hopital-foch/ll-report/pkg/runtime"
	"github.com/hopital-foch/ll-report/pkg/terminal/export"
	"github.com/spf13/cobra"
)

// AppFactory builds the wired pipeline from a configuration path.
type AppFactory func(ctx context.Context, cfgPath string) (*runtime.App, error)

type GenerateCmd struct {
	cfgPath  string
	fromDate string
	toDate   string
	stayIDs  []string
	outPath  string
	factory  AppFactory
	reporter *export.Reporter
}

func NewGenerateCmd(factory AppFactory, reporter *export.Reporter) *cobra.Command {
	gc := &GenerateCmd{factory: factory, reporter: reporter}
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate the indicator report for a period or a stay list",
		RunE:  gc.run,
	}

	cmd.Flags().StringVar(&gc.cfgPath, "config", "", "Path to the configuration file")
	cmd.Flags().StringVar(&gc.fromDate, "from", "", "Period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&gc.toDate, "to", "", "Period end (YYYY-MM-DD)")
	cmd.Flags().StringSliceVar(&gc.stayIDs, "stays", nil, "Explicit stay identifiers (overrides the period)")
	cmd.Flags().StringVar(&gc.outPath, "out", "", "Write the xlsx workbook to this path")

	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func (gc *GenerateCmd) run(cmd *cobra.Command, args []string) error {
	scope, err := gc.scope()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Minute)
	defer cancel()

	app, err := gc.factory(ctx, gc.cfgPath)
	if err != nil {
		return err
	}
	defer app.Close()

	report, err := app.Controller.GenerateReport(ctx, *scope)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	if gc.outPath != "" {
		data, err := excel.Render(report)
		if err != nil {
			return fmt.Errorf("failed to render workbook: %w", err)
		}
		if err := os.WriteFile(gc.outPath, data, 0o644); err != nil {
			return fmt.Errorf("failed to write workbook: %w", err)
		}
	}

	return gc.reporter.Handle(report)
}

func (gc *GenerateCmd) scope() (*domain.ReportScope, error) {
	if len(gc.stayIDs) > 0 {
		return &domain.ReportScope{StayIDs: gc.stayIDs}, nil
	}
	if gc.fromDate == "" || gc.toDate == "" {
		return nil, fmt.Errorf("either --stays or both --from and --to must be given")
	}

	start, err := time.Parse("2006-01-02", gc.fromDate)
	if err != nil {
		return nil, fmt.Errorf("invalid --from date %q", gc.fromDate)
	}
	end, err := time.Parse("2006-01-02", gc.toDate)
	if err != nil {
		return nil, fmt.Errorf("invalid --to date %q", gc.toDate)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("--to %s is before --from %s", gc.toDate, gc.fromDate)
	}

	return &domain.ReportScope{Period: &domain.Period{Start: start, End: end}}, nil
}

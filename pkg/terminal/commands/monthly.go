package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hopital-foch/ll-report/pkg/export/email"
	"github.com/hopital-foch/ll-report/pkg/export/excel"
	"github.com/hopital-foch/ll-report/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type MonthlyCmd struct {
	cfgPath string
	outDir  string
	factory AppFactory
}

// NewMonthlyCmd builds the command run by cron on the first of each month:
// report the previous calendar month, archive the workbook and mail it.
func NewMonthlyCmd(factory AppFactory) *cobra.Command {
	mc := &MonthlyCmd{factory: factory}
	cmd := &cobra.Command{
		Use:   "monthly",
		Short: "Generate, archive and mail the previous month's report",
		RunE:  mc.run,
	}

	cmd.Flags().StringVar(&mc.cfgPath, "config", "", "Path to the configuration file")
	cmd.Flags().StringVar(&mc.outDir, "out-dir", ".", "Directory receiving the xlsx workbook")

	_ = cmd.MarkFlagRequired("config")

	return cmd
}

func (mc *MonthlyCmd) run(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Minute)
	defer cancel()
	logger := zerolog.Ctx(ctx)

	app, err := mc.factory(ctx, mc.cfgPath)
	if err != nil {
		return err
	}
	defer app.Close()

	period := previousMonth(time.Now())
	report, err := app.Controller.GenerateReport(ctx, domain.ReportScope{Period: &period})
	if err != nil {
		return fmt.Errorf("failed to generate monthly report: %w", err)
	}

	data, err := excel.Render(report)
	if err != nil {
		return fmt.Errorf("failed to render workbook: %w", err)
	}

	outPath := filepath.Join(mc.outDir, fmt.Sprintf("indicateurs_ll_%s.xlsx", period.Start.Format("2006-01")))
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	logger.Info().Str("path", outPath).Str("run_id", report.RunID).Msg("monthly workbook written")

	mail := app.Config.Email
	if len(mail.Recipients) == 0 {
		logger.Warn().Msg("no mail recipients configured, skipping send")
		return nil
	}

	sender := email.NewSender(mail.Host, mail.Port, mail.From)
	if err := sender.SendReport(mail.Recipients, report, data); err != nil {
		return err
	}
	logger.Info().Strs("recipients", mail.Recipients).Msg("monthly report mailed")
	return nil
}

// previousMonth returns the full calendar month before the reference time.
func previousMonth(now time.Time) domain.Period {
	firstOfCurrent := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	return domain.Period{
		Start: firstOfCurrent.AddDate(0, -1, 0),
		End:   firstOfCurrent.AddDate(0, 0, -1),
	}
}

package adapters

import (
	"github.com/hopital-foch/ll-report/pkg/models/api"
	"github.com/hopital-foch/ll-report/pkg/models/domain"
)

func MapReportDomainToApi(report *domain.Report) api.ReportSummary {
	summary := api.ReportSummary{
		RunID:        report.RunID,
		PeriodStart:  report.Period.Start.Format("2006-01-02"),
		PeriodEnd:    report.Period.End.Format("2006-01-02"),
		StayCount:    len(report.Stays),
		DroppedRows:  report.Stats.StaysDropped + report.Stats.DocsDropped,
		ExcludedRows: report.Stats.StaysExcluded,
		Rows:         []api.IndicatorRow{},
	}

	for _, row := range report.Rows {
		summary.Rows = append(summary.Rows, MapIndicatorRowDomainToApi(row))
	}
	return summary
}

func MapIndicatorRowDomainToApi(row domain.SpecialtyIndicatorRow) api.IndicatorRow {
	return api.IndicatorRow{
		Specialty:           row.Specialty,
		StayCount:           row.StayCount,
		ValidatedCount:      row.ValidatedCount,
		ValidatedRate:       row.ValidatedRate,
		ValidatedRateClass:  string(row.ValidatedRateClass),
		J0Rate:              row.J0Rate,
		J0RateClass:         string(row.J0RateClass),
		MeanValidationDelay: row.MeanValidationDelay,
		DiffusedCount:       row.DiffusedCount,
		DiffusedRate:        row.DiffusedRate,
		DiffusedRateClass:   string(row.DiffusedRateClass),
		MeanDiffusionDelay:  row.MeanDiffusionDelay,
		Historical:          MapHistoricalRefDomainToApi(row.Historical),
	}
}

func MapHistoricalRefDomainToApi(ref *domain.HistoricalRef) *api.HistoricalRef {
	if ref == nil {
		return nil
	}
	return &api.HistoricalRef{
		Period:        ref.Period,
		ValidatedRate: ref.ValidatedRate,
		J0Rate:        ref.J0Rate,
		DiffusedRate:  ref.DiffusedRate,
	}
}

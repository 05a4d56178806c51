package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hopital-foch/ll-report/pkg/models/domain"
	"github.com/hopital-foch/ll-report/pkg/models/store"
	"github.com/hopital-foch/ll-report/pkg/services/indicator"
	"github.com/hopital-foch/ll-report/pkg/services/mapping"
	"github.com/hopital-foch/ll-report/pkg/services/normalize"
	"github.com/hopital-foch/ll-report/pkg/services/reconcile"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// StayExtractor fetches raw stay rows from the patient-management system for
// the given scope.
type StayExtractor interface {
	CollectStays(ctx context.Context, scope domain.ReportScope) ([]store.RawRow, error)
}

// DocumentExtractor fetches raw discharge-letter version rows from the
// document system for the given scope.
type DocumentExtractor interface {
	CollectDocuments(ctx context.Context, scope domain.ReportScope) ([]store.RawRow, error)
}

// Settings carry the run-independent configuration of the pipeline.
type Settings struct {
	ExcludedUnits []string
	Holidays      []time.Time
	Thresholds    domain.Thresholds
	Historical    map[string]domain.HistoricalRef
}

// Controller runs the full report pipeline: extract from both sources,
// normalize, reconcile, aggregate.
type Controller interface {
	GenerateReport(ctx context.Context, scope domain.ReportScope) (*domain.Report, error)
}

type controller struct {
	stays    StayExtractor
	docs     DocumentExtractor
	table    *mapping.Table
	settings Settings
}

func NewController(stays StayExtractor, docs DocumentExtractor, table *mapping.Table, settings Settings) (Controller, error) {
	if stays == nil || docs == nil {
		return nil, fmt.Errorf("both extractors must be provided")
	}
	if table == nil {
		return nil, fmt.Errorf("specialty mapping table must be provided")
	}
	if err := settings.Thresholds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid thresholds: %w", err)
	}
	return &controller{stays: stays, docs: docs, table: table, settings: settings}, nil
}

// GenerateReport runs one report. The two extractions run concurrently; a
// failure of either aborts the run, since indicators computed from a single
// source would be meaningless. An empty scope result is a valid report with
// zero rows.
func (c *controller) GenerateReport(ctx context.Context, scope domain.ReportScope) (*domain.Report, error) {
	logger := zerolog.Ctx(ctx)
	start := time.Now()

	var stayRows, docRows []store.RawRow
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rows, err := c.stays.CollectStays(gctx, scope)
		if err != nil {
			return fmt.Errorf("stay extraction failed: %w", err)
		}
		stayRows = rows
		return nil
	})
	g.Go(func() error {
		rows, err := c.docs.CollectDocuments(gctx, scope)
		if err != nil {
			return fmt.Errorf("document extraction failed: %w", err)
		}
		docRows = rows
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	stays, stayStats := normalize.Stays(ctx, stayRows, c.table)
	docs, docStats := normalize.Documents(ctx, docRows)

	reconciled, err := reconcile.Reconcile(ctx, stays, docs, reconcile.Options{
		Scope:         scope,
		ExcludedUnits: c.settings.ExcludedUnits,
		Holidays:      c.settings.Holidays,
	})
	if err != nil {
		return nil, err
	}

	rows := indicator.Aggregate(reconciled, indicator.Options{
		Thresholds: c.settings.Thresholds,
		Historical: c.settings.Historical,
	})

	report := &domain.Report{
		RunID:       uuid.NewString(),
		Period:      reportPeriod(scope, reconciled),
		GeneratedAt: time.Now().UTC(),
		Rows:        rows,
		Stays:       reconciled,
		Stats: domain.RunStats{
			StaysParsed:   stayStats.Parsed,
			StaysDropped:  stayStats.Dropped,
			DocsParsed:    docStats.Parsed,
			DocsDropped:   docStats.Dropped,
			StaysExcluded: stayStats.Parsed - len(reconciled),
		},
	}

	logger.Info().
		Str("run_id", report.RunID).
		Int("stays", len(reconciled)).
		Int("stays_dropped", stayStats.Dropped).
		Int("docs_dropped", docStats.Dropped).
		Dur("elapsed", time.Since(start)).
		Msg("report generated")

	return report, nil
}

// reportPeriod echoes the requested period, or derives one from the discharge
// dates when the scope was an explicit stay list.
func reportPeriod(scope domain.ReportScope, stays []domain.ReconciledStay) domain.Period {
	if len(scope.StayIDs) == 0 && scope.Period != nil {
		return *scope.Period
	}
	var p domain.Period
	for _, stay := range stays {
		if p.Start.IsZero() || stay.DischargeDate.Before(p.Start) {
			p.Start = stay.DischargeDate
		}
		if stay.DischargeDate.After(p.End) {
			p.End = stay.DischargeDate
		}
	}
	return p
}

package indicator

import (
	"math"
	"sort"

	"github.com/hopital-foch/ll-report/pkg/models/domain"
)

// Options configure one aggregation pass. Historical maps a specialty name to
// its prior-period reference values; specialties without an entry render with
// a nil Historical.
type Options struct {
	Thresholds domain.Thresholds
	Historical map[string]domain.HistoricalRef
}

type accumulator struct {
	stayCount      int
	validatedCount int
	j0Count        int
	validationSum  int

	diffusionDenom int
	diffusedCount  int
	diffusionSum   int
}

func (a *accumulator) add(stay domain.ReconciledStay) {
	a.stayCount++

	if stay.ValidationDelay != nil {
		a.validatedCount++
		a.validationSum += *stay.ValidationDelay
		if stay.SameDay {
			a.j0Count++
		}
	}

	switch stay.Diffusion {
	case domain.Diffused:
		a.diffusionDenom++
		a.diffusedCount++
		a.diffusionSum += *stay.DiffusionDelay
	case domain.NotDiffused:
		a.diffusionDenom++
	}
}

// Aggregate folds reconciled stays into one indicator row per specialty plus
// the overall roll-up row. The overall row is first, then specialties in
// alphabetical order. An empty input yields just an empty overall row.
func Aggregate(stays []domain.ReconciledStay, opts Options) []domain.SpecialtyIndicatorRow {
	perSpecialty := make(map[string]*accumulator)
	overall := &accumulator{}
	for _, stay := range stays {
		acc, ok := perSpecialty[stay.Specialty]
		if !ok {
			acc = &accumulator{}
			perSpecialty[stay.Specialty] = acc
		}
		acc.add(stay)
		overall.add(stay)
	}

	specialties := make([]string, 0, len(perSpecialty))
	for name := range perSpecialty {
		specialties = append(specialties, name)
	}
	sort.Strings(specialties)

	rows := make([]domain.SpecialtyIndicatorRow, 0, len(specialties)+1)
	rows = append(rows, buildRow(domain.OverallSpecialty, overall, opts))
	for _, name := range specialties {
		rows = append(rows, buildRow(name, perSpecialty[name], opts))
	}
	return rows
}

func buildRow(specialty string, acc *accumulator, opts Options) domain.SpecialtyIndicatorRow {
	row := domain.SpecialtyIndicatorRow{
		Specialty:            specialty,
		StayCount:            acc.stayCount,
		ValidatedCount:       acc.validatedCount,
		J0Count:              acc.j0Count,
		DiffusionDenominator: acc.diffusionDenom,
		DiffusedCount:        acc.diffusedCount,
	}

	row.ValidatedRate = rate(acc.validatedCount, acc.stayCount)
	row.J0Rate = rate(acc.j0Count, acc.validatedCount)
	row.DiffusedRate = rate(acc.diffusedCount, acc.diffusionDenom)
	row.MeanValidationDelay = mean(acc.validationSum, acc.validatedCount)
	row.MeanDiffusionDelay = mean(acc.diffusionSum, acc.diffusedCount)

	row.ValidatedRateClass = Classify(opts.Thresholds, row.ValidatedRate)
	row.J0RateClass = Classify(opts.Thresholds, row.J0Rate)
	row.DiffusedRateClass = Classify(opts.Thresholds, row.DiffusedRate)

	if ref, ok := opts.Historical[specialty]; ok {
		refCopy := ref
		row.Historical = &refCopy
	}
	return row
}

// rate returns num/denom as a percentage rounded to two decimals, nil on an
// empty denominator.
func rate(num, denom int) *float64 {
	if denom == 0 {
		return nil
	}
	v := round2(100 * float64(num) / float64(denom))
	return &v
}

func mean(sum, count int) *float64 {
	if count == 0 {
		return nil
	}
	v := round2(float64(sum) / float64(count))
	return &v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

package domain

// RateClass is the color classification applied to a rate for presentation.
type RateClass string

const (
	RateExcellent RateClass = "excellent"
	RateGood      RateClass = "good"
	RateMedium    RateClass = "medium"
	RateLow       RateClass = "low"
	// RateNone marks a rate with no data (nil value).
	RateNone RateClass = "none"
)

// HistoricalRef holds fixed prior-period reference values for one specialty.
// The table is externally supplied and read-only.
type HistoricalRef struct {
	Period        string
	ValidatedRate *float64
	J0Rate        *float64
	DiffusedRate  *float64
}

// SpecialtyIndicatorRow is one aggregate row of the report, one per
// specialty plus the synthetic overall row. Rates are percentages in
// [0,100] or nil when the denominator is zero.
type SpecialtyIndicatorRow struct {
	Specialty string

	StayCount           int
	ValidatedCount      int
	ValidatedRate       *float64
	ValidatedRateClass  RateClass
	J0Count             int
	J0Rate              *float64
	J0RateClass         RateClass
	MeanValidationDelay *float64

	// DiffusionDenominator counts the validated stays that qualify for
	// diffusion statistics (corrective re-issues excluded).
	DiffusionDenominator int
	DiffusedCount        int
	DiffusedRate         *float64
	DiffusedRateClass    RateClass
	MeanDiffusionDelay   *float64

	// Historical is nil when the reference table has no entry for the
	// specialty.
	Historical *HistoricalRef
}

// OverallSpecialty names the synthetic roll-up row.
const OverallSpecialty = "ALL"

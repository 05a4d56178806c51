package api

// ReportByDateRequest asks for a report over a discharge-date range.
// Dates use the YYYY-MM-DD format.
type ReportByDateRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

// ReportByStaysRequest asks for a report over an explicit stay set.
type ReportByStaysRequest struct {
	StayIDs []string `json:"stay_ids"`
}

type HistoricalRef struct {
	Period        string   `json:"period"`
	ValidatedRate *float64 `json:"validated_rate,omitempty"`
	J0Rate        *float64 `json:"j0_rate,omitempty"`
	DiffusedRate  *float64 `json:"diffused_rate,omitempty"`
}

type IndicatorRow struct {
	Specialty           string         `json:"specialty"`
	StayCount           int            `json:"stay_count"`
	ValidatedCount      int            `json:"validated_count"`
	ValidatedRate       *float64       `json:"validated_rate,omitempty"`
	ValidatedRateClass  string         `json:"validated_rate_class"`
	J0Rate              *float64       `json:"j0_rate,omitempty"`
	J0RateClass         string         `json:"j0_rate_class"`
	MeanValidationDelay *float64       `json:"mean_validation_delay,omitempty"`
	DiffusedCount       int            `json:"diffused_count"`
	DiffusedRate        *float64       `json:"diffused_rate,omitempty"`
	DiffusedRateClass   string         `json:"diffused_rate_class"`
	MeanDiffusionDelay  *float64       `json:"mean_diffusion_delay,omitempty"`
	Historical          *HistoricalRef `json:"historical,omitempty"`
}

type ReportSummary struct {
	RunID        string         `json:"run_id"`
	PeriodStart  string         `json:"period_start"`
	PeriodEnd    string         `json:"period_end"`
	StayCount    int            `json:"stay_count"`
	DroppedRows  int            `json:"dropped_rows"`
	ExcludedRows int            `json:"excluded_rows"`
	Rows         []IndicatorRow `json:"rows"`
}

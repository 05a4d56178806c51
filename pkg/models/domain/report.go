package domain

import "time"

// Period is the discharge-date range a report covers.
type Period struct {
	Start time.Time
	End   time.Time
}

// ReportScope selects the stays a report run covers: either a discharge
// period or an explicit stay-identifier set. When StayIDs is non-empty it
// takes precedence over Period.
type ReportScope struct {
	Period  *Period
	StayIDs []string
}

// RunStats carries the row accounting of one report run.
type RunStats struct {
	StaysParsed  int
	StaysDropped int
	DocsParsed   int
	DocsDropped  int
	// StaysExcluded counts stays removed by the eligibility rules
	// (deceased, excluded unit, <24h, out of scope).
	StaysExcluded int
}

// Report is the full outcome of one run: the aggregate indicator table plus
// the verbatim reconciled stays for the raw-data export. It carries no
// formatting; rendering belongs to the export layer.
type Report struct {
	RunID       string
	Period      Period
	GeneratedAt time.Time
	Rows        []SpecialtyIndicatorRow
	Stays       []ReconciledStay
	Stats       RunStats
}

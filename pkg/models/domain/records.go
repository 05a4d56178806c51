package domain

import "time"

// StayRecord is one conventional hospitalisation of 24h or more, as
// extracted from GAM and normalized.
type StayRecord struct {
	StayID        string
	PatientID     string
	AdmissionDate time.Time
	DischargeDate time.Time
	UnitCode      string
	Specialty     string
	// Deceased marks patients deceased on the discharge day; those stays
	// are excluded from every indicator.
	Deceased bool
}

// DocumentVersion is one revision of a discharge letter (lettre de liaison)
// tied to a stay. A stay can carry several versions; the reconciliation
// engine selects at most one authoritative version per stay.
type DocumentVersion struct {
	StayID     string
	DocumentID string
	CreatedAt  time.Time
	// ValidatedAt is nil while the version has not been validated by a
	// clinician. When set it is >= CreatedAt.
	ValidatedAt *time.Time
	// DiffusedAt is nil while the version has not been sent to downstream
	// care providers.
	DiffusedAt *time.Time
	// ParentCreatedAt carries the creation time of the parent version
	// (fiche mere) when this version is a re-issue.
	ParentCreatedAt *time.Time
}

// ValidationClass is the validation-axis classification of a reconciled stay.
type ValidationClass string

const (
	ValidatedJ0   ValidationClass = "validated-J0"
	ValidatedLate ValidationClass = "validated-late"
	NotValidated  ValidationClass = "not-validated"
)

// DiffusionClass is the diffusion-axis classification. The empty value marks
// stays excluded from the diffusion denominator (never validated, or
// diffusion carried by a corrective re-issue).
type DiffusionClass string

const (
	Diffused          DiffusionClass = "diffused"
	NotDiffused       DiffusionClass = "not-diffused"
	DiffusionExcluded DiffusionClass = ""
)

// ReconciledStay is one eligible stay after the merge with its authoritative
// document version. Classification fields are derived from the delay fields,
// never set independently.
type ReconciledStay struct {
	StayID        string
	Specialty     string
	DischargeDate time.Time
	// DocumentID of the selected version; empty when no version matched.
	DocumentID string
	// ValidationDelay is the delay in days between discharge and validation,
	// clamped to >= 0 (a letter validated before discharge counts as day
	// zero). Nil when never validated.
	ValidationDelay *int
	SameDay         bool
	// DiffusionDelay is the delay in business days between validation and
	// diffusion. Nil when the stay carries no diffusion or is excluded from
	// the diffusion denominator.
	DiffusionDelay *int
	Validation     ValidationClass
	Diffusion      DiffusionClass
}

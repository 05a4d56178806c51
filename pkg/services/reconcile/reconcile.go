package reconcile

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/hopital-foch/ll-report/pkg/models/domain"
	"github.com/rs/zerolog"
)

// candidateWindowDays is how many days before discharge a validation may
// fall and still be attributed to the stay. Earlier validations belong to a
// previous stay of the same patient.
const candidateWindowDays = 3

// correctionGraceDays bounds the corrective re-issue rule: when the
// diffusion is carried by a version created more than this many days after
// the validation, the stay leaves the diffusion denominator.
const correctionGraceDays = 1

// Options configure one reconciliation run. The zero scope means no
// filtering on period or stay set.
type Options struct {
	Scope         domain.ReportScope
	ExcludedUnits []string
	Holidays      []time.Time
}

func (o Options) validate() error {
	if p := o.Scope.Period; p != nil && p.End.Before(p.Start) {
		return fmt.Errorf("scope period end %s before start %s",
			p.End.Format("2006-01-02"), p.Start.Format("2006-01-02"))
	}
	return nil
}

// Reconcile joins stays to their document versions, applies the eligibility
// rules, selects the authoritative version per stay and computes the delay
// fields. It emits exactly one ReconciledStay per eligible stay, in
// deterministic order, regardless of how documents are ordered on input.
// Data-shape issues are logged and skipped; only invalid options fail the
// run.
func Reconcile(
	ctx context.Context,
	stays []domain.StayRecord,
	docs []domain.DocumentVersion,
	opts Options,
) ([]domain.ReconciledStay, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	logger := zerolog.Ctx(ctx)

	byStay := make(map[string][]domain.DocumentVersion)
	for _, doc := range docs {
		byStay[doc.StayID] = append(byStay[doc.StayID], doc)
	}

	excludedUnits := make(map[string]struct{}, len(opts.ExcludedUnits))
	for _, u := range opts.ExcludedUnits {
		excludedUnits[u] = struct{}{}
	}
	cal := NewCalendar(opts.Holidays)

	seen := make(map[string]struct{}, len(stays))
	out := make([]domain.ReconciledStay, 0, len(stays))
	for _, stay := range stays {
		if _, dup := seen[stay.StayID]; dup {
			logger.Warn().Str("sej_id", stay.StayID).Msg("duplicate stay skipped")
			continue
		}
		seen[stay.StayID] = struct{}{}

		if !eligible(stay, opts.Scope, excludedUnits) {
			continue
		}

		out = append(out, reconcileStay(stay, byStay[stay.StayID], cal))
	}

	sort.Slice(out, func(i, j int) bool { return out[i].StayID < out[j].StayID })
	return out, nil
}

func eligible(stay domain.StayRecord, scope domain.ReportScope, excludedUnits map[string]struct{}) bool {
	if stay.Deceased {
		return false
	}
	if _, excluded := excludedUnits[stay.UnitCode]; excluded {
		return false
	}
	if stay.DischargeDate.Sub(stay.AdmissionDate) < 24*time.Hour {
		return false
	}

	if len(scope.StayIDs) > 0 {
		for _, id := range scope.StayIDs {
			if id == stay.StayID {
				return true
			}
		}
		return false
	}
	if p := scope.Period; p != nil {
		d := truncateDay(stay.DischargeDate)
		if d.Before(truncateDay(p.Start)) || d.After(truncateDay(p.End)) {
			return false
		}
	}
	return true
}

func reconcileStay(stay domain.StayRecord, versions []domain.DocumentVersion, cal *Calendar) domain.ReconciledStay {
	rec := domain.ReconciledStay{
		StayID:        stay.StayID,
		Specialty:     stay.Specialty,
		DischargeDate: stay.DischargeDate,
		Validation:    domain.NotValidated,
		Diffusion:     domain.DiffusionExcluded,
	}

	candidates := candidateVersions(stay.DischargeDate, versions)
	sel := SelectAuthoritativeVersion(stay.DischargeDate, candidates)
	if sel == nil {
		return rec
	}
	rec.DocumentID = sel.DocumentID

	if sel.ValidatedAt == nil {
		return rec
	}

	delay := daysBetween(stay.DischargeDate, *sel.ValidatedAt)
	if delay < 0 {
		// Validated before discharge, inside the attribution window:
		// counts as day zero.
		delay = 0
	}
	rec.ValidationDelay = &delay
	rec.SameDay = delay == 0
	if rec.SameDay {
		rec.Validation = domain.ValidatedJ0
	} else {
		rec.Validation = domain.ValidatedLate
	}

	applyDiffusion(&rec, sel, versions, cal)
	return rec
}

// candidateVersions keeps the versions attributable to the stay: any
// unvalidated version, plus validated ones whose validation is not earlier
// than discharge minus the attribution window. A validated re-issue whose
// parent version was created after discharge belongs to post-stay
// correction work, not to the letter handed over at discharge, and is not
// attributable either.
func candidateVersions(discharge time.Time, versions []domain.DocumentVersion) []domain.DocumentVersion {
	earliest := truncateDay(discharge).AddDate(0, 0, -candidateWindowDays)

	candidates := make([]domain.DocumentVersion, 0, len(versions))
	for _, v := range versions {
		if v.ValidatedAt != nil {
			if truncateDay(*v.ValidatedAt).Before(earliest) {
				continue
			}
			if v.ParentCreatedAt != nil && v.ParentCreatedAt.After(discharge) {
				continue
			}
		}
		candidates = append(candidates, v)
	}
	return candidates
}

// applyDiffusion fills the diffusion fields of a validated stay. The
// diffusion timestamp comes from the selected version when present,
// otherwise from the earliest later version that was diffused. When that
// later version is a corrective re-issue (created more than the grace
// period after validation), the stay is excluded from the diffusion
// denominator instead of being penalized.
func applyDiffusion(rec *domain.ReconciledStay, sel *domain.DocumentVersion, versions []domain.DocumentVersion, cal *Calendar) {
	diffusedAt := sel.DiffusedAt

	if diffusedAt == nil {
		var carrier *domain.DocumentVersion
		for i := range versions {
			v := &versions[i]
			if v.DiffusedAt == nil || !v.CreatedAt.After(sel.CreatedAt) {
				continue
			}
			if carrier == nil || v.DiffusedAt.Before(*carrier.DiffusedAt) {
				carrier = v
			}
		}
		if carrier != nil {
			if daysBetween(*sel.ValidatedAt, carrier.CreatedAt) > correctionGraceDays {
				rec.Diffusion = domain.DiffusionExcluded
				return
			}
			diffusedAt = carrier.DiffusedAt
		}
	}

	if diffusedAt == nil {
		rec.Diffusion = domain.NotDiffused
		return
	}

	delay := cal.BusinessDaysBetween(*sel.ValidatedAt, *diffusedAt)
	rec.DiffusionDelay = &delay
	rec.Diffusion = domain.Diffused
}

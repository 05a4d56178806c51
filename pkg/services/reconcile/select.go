package reconcile

import (
	"time"

	"github.com/hopital-foch/ll-report/pkg/models/domain"
)

// SelectAuthoritativeVersion picks the single document version that counts
// for a stay, per the decree methodology:
//
//   - among validated candidates, the one whose validation date is closest
//     to the discharge date wins, with on-or-after-discharge beating any
//     before-discharge validation;
//   - when no candidate is validated, the most recently created version is
//     kept (the stay stays "not validated" but the version identifies the
//     draft letter);
//   - zero candidates returns nil.
//
// Ties fall back to the later creation time, then the lower document ID,
// so selection is deterministic regardless of input order.
func SelectAuthoritativeVersion(discharge time.Time, candidates []domain.DocumentVersion) *domain.DocumentVersion {
	var best *domain.DocumentVersion
	for i := range candidates {
		c := &candidates[i]
		if best == nil || betterCandidate(discharge, c, best) {
			best = c
		}
	}
	if best == nil {
		return nil
	}
	out := *best
	return &out
}

func betterCandidate(discharge time.Time, a, b *domain.DocumentVersion) bool {
	aValidated := a.ValidatedAt != nil
	bValidated := b.ValidatedAt != nil
	if aValidated != bValidated {
		return aValidated
	}

	if aValidated {
		aRank, aDist := validationRank(discharge, *a.ValidatedAt)
		bRank, bDist := validationRank(discharge, *b.ValidatedAt)
		if aRank != bRank {
			return aRank < bRank
		}
		if aDist != bDist {
			return aDist < bDist
		}
	}

	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.DocumentID < b.DocumentID
}

// validationRank orders validated candidates: rank 0 for validations on or
// after the discharge day, rank 1 for earlier ones; within a rank the
// smaller day distance wins.
func validationRank(discharge, validated time.Time) (int, int) {
	delta := daysBetween(discharge, validated)
	if delta >= 0 {
		return 0, delta
	}
	return 1, -delta
}

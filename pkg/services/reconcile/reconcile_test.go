package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/hopital-foch/ll-report/pkg/models/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stay(id, admission, discharge string) domain.StayRecord {
	return domain.StayRecord{
		StayID:        id,
		PatientID:     "123456789",
		AdmissionDate: day(admission),
		DischargeDate: day(discharge),
		UnitCode:      "123",
		Specialty:     "CARDIOLOGIE",
	}
}

func docFor(stayID, docID, created string, validatedAt, diffusedAt *time.Time) domain.DocumentVersion {
	return domain.DocumentVersion{
		StayID:      stayID,
		DocumentID:  docID,
		CreatedAt:   day(created),
		ValidatedAt: validatedAt,
		DiffusedAt:  diffusedAt,
	}
}

func TestReconcile_SameDayValidation(t *testing.T) {
	// Stay discharged 2025-01-10, letter validated 2025-01-10.
	stays := []domain.StayRecord{stay("S1", "2025-01-08", "2025-01-10")}
	docs := []domain.DocumentVersion{
		docFor("S1", "D1", "2025-01-10", dayPtr("2025-01-10"), nil),
	}

	out, err := Reconcile(context.Background(), stays, docs, Options{})
	require.NoError(t, err)
	require.Len(t, out, 1)

	rec := out[0]
	assert.Equal(t, domain.ValidatedJ0, rec.Validation)
	assert.True(t, rec.SameDay)
	require.NotNil(t, rec.ValidationDelay)
	assert.Equal(t, 0, *rec.ValidationDelay)
	assert.Equal(t, "D1", rec.DocumentID)
}

func TestReconcile_UnvalidatedOnly(t *testing.T) {
	stays := []domain.StayRecord{stay("S2", "2025-01-08", "2025-01-10")}
	docs := []domain.DocumentVersion{
		docFor("S2", "D1", "2025-01-10", nil, nil),
	}

	out, err := Reconcile(context.Background(), stays, docs, Options{})
	require.NoError(t, err)
	require.Len(t, out, 1)

	rec := out[0]
	assert.Equal(t, domain.NotValidated, rec.Validation)
	assert.Nil(t, rec.ValidationDelay)
	assert.False(t, rec.SameDay)
	assert.Equal(t, domain.DiffusionExcluded, rec.Diffusion)
	assert.Equal(t, "D1", rec.DocumentID, "draft still identifies the letter")
}

func TestReconcile_EligibilityFilters(t *testing.T) {
	deceased := stay("S3", "2025-01-08", "2025-01-10")
	deceased.Deceased = true

	excludedUnit := stay("S4", "2025-01-08", "2025-01-10")
	excludedUnit.UnitCode = "392"

	short := domain.StayRecord{
		StayID:        "S5",
		PatientID:     "123456789",
		AdmissionDate: time.Date(2025, 1, 10, 8, 0, 0, 0, time.UTC),
		DischargeDate: time.Date(2025, 1, 10, 18, 0, 0, 0, time.UTC),
		UnitCode:      "123",
		Specialty:     "CARDIOLOGIE",
	}

	kept := stay("S6", "2025-01-08", "2025-01-10")

	out, err := Reconcile(
		context.Background(),
		[]domain.StayRecord{deceased, excludedUnit, short, kept},
		nil,
		Options{ExcludedUnits: []string{"392"}},
	)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "S6", out[0].StayID)
}

func TestReconcile_ScopeFiltering(t *testing.T) {
	stays := []domain.StayRecord{
		stay("IN", "2025-01-05", "2025-01-10"),
		stay("OUT", "2025-02-05", "2025-02-10"),
	}

	t.Run("period scope", func(t *testing.T) {
		out, err := Reconcile(context.Background(), stays, nil, Options{
			Scope: domain.ReportScope{
				Period: &domain.Period{Start: day("2025-01-01"), End: day("2025-01-31")},
			},
		})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "IN", out[0].StayID)
	})

	t.Run("stay-id scope wins over period", func(t *testing.T) {
		out, err := Reconcile(context.Background(), stays, nil, Options{
			Scope: domain.ReportScope{
				Period:  &domain.Period{Start: day("2025-01-01"), End: day("2025-01-31")},
				StayIDs: []string{"OUT"},
			},
		})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "OUT", out[0].StayID)
	})

	t.Run("inverted period is a config error", func(t *testing.T) {
		_, err := Reconcile(context.Background(), stays, nil, Options{
			Scope: domain.ReportScope{
				Period: &domain.Period{Start: day("2025-01-31"), End: day("2025-01-01")},
			},
		})
		assert.Error(t, err)
	})
}

func TestReconcile_ValidationWindow(t *testing.T) {
	// A validation more than three days before discharge belongs to an
	// earlier stay and must not be attributed.
	stays := []domain.StayRecord{stay("S1", "2025-01-01", "2025-01-10")}
	docs := []domain.DocumentVersion{
		docFor("S1", "OLD", "2025-01-02", dayPtr("2025-01-03"), nil),
	}

	out, err := Reconcile(context.Background(), stays, docs, Options{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, domain.NotValidated, out[0].Validation)

	// Exactly discharge minus three days is still in the window and
	// counts as day zero.
	docs = []domain.DocumentVersion{
		docFor("S1", "EDGE", "2025-01-02", dayPtr("2025-01-07"), nil),
	}
	out, err = Reconcile(context.Background(), stays, docs, Options{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, domain.ValidatedJ0, out[0].Validation)
	require.NotNil(t, out[0].ValidationDelay)
	assert.Equal(t, 0, *out[0].ValidationDelay)
}

func TestReconcile_PostDischargeReissueNotAttributed(t *testing.T) {
	stays := []domain.StayRecord{stay("S1", "2025-01-06", "2025-01-10")}

	t.Run("parent created after discharge", func(t *testing.T) {
		reissue := docFor("S1", "D2", "2025-01-12", dayPtr("2025-01-12"), nil)
		reissue.ParentCreatedAt = dayPtr("2025-01-12")

		out, err := Reconcile(context.Background(), stays, []domain.DocumentVersion{reissue}, Options{})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, domain.NotValidated, out[0].Validation)
		assert.Nil(t, out[0].ValidationDelay)
	})

	t.Run("parent created before discharge stays attributable", func(t *testing.T) {
		reissue := docFor("S1", "D2", "2025-01-11", dayPtr("2025-01-11"), nil)
		reissue.ParentCreatedAt = dayPtr("2025-01-09")

		out, err := Reconcile(context.Background(), stays, []domain.DocumentVersion{reissue}, Options{})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, domain.ValidatedLate, out[0].Validation)
		require.NotNil(t, out[0].ValidationDelay)
		assert.Equal(t, 1, *out[0].ValidationDelay)
	})

	t.Run("post-discharge re-issue loses to the original version", func(t *testing.T) {
		original := docFor("S1", "D1", "2025-01-10", dayPtr("2025-01-10"), nil)
		reissue := docFor("S1", "D2", "2025-01-13", dayPtr("2025-01-13"), nil)
		reissue.ParentCreatedAt = dayPtr("2025-01-13")

		out, err := Reconcile(context.Background(), stays, []domain.DocumentVersion{original, reissue}, Options{})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "D1", out[0].DocumentID)
		assert.Equal(t, domain.ValidatedJ0, out[0].Validation)
	})
}

func TestReconcile_Diffusion(t *testing.T) {
	holidays := []time.Time{day("2025-07-14")}

	t.Run("diffused next business day", func(t *testing.T) {
		// Validated Friday 2025-07-11, diffused Tuesday 2025-07-15:
		// one business day (monday is a holiday).
		stays := []domain.StayRecord{stay("S1", "2025-07-09", "2025-07-11")}
		docs := []domain.DocumentVersion{
			docFor("S1", "D1", "2025-07-11", dayPtr("2025-07-11"), dayPtr("2025-07-15")),
		}

		out, err := Reconcile(context.Background(), stays, docs, Options{Holidays: holidays})
		require.NoError(t, err)
		require.Len(t, out, 1)

		rec := out[0]
		assert.Equal(t, domain.Diffused, rec.Diffusion)
		require.NotNil(t, rec.DiffusionDelay)
		assert.Equal(t, 1, *rec.DiffusionDelay)
	})

	t.Run("validated but never diffused", func(t *testing.T) {
		stays := []domain.StayRecord{stay("S1", "2025-07-09", "2025-07-11")}
		docs := []domain.DocumentVersion{
			docFor("S1", "D1", "2025-07-11", dayPtr("2025-07-11"), nil),
		}

		out, err := Reconcile(context.Background(), stays, docs, Options{})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, domain.NotDiffused, out[0].Diffusion)
		assert.Nil(t, out[0].DiffusionDelay)
	})

	t.Run("diffusion carried by prompt re-issue counts", func(t *testing.T) {
		stays := []domain.StayRecord{stay("S1", "2025-01-06", "2025-01-08")}
		docs := []domain.DocumentVersion{
			docFor("S1", "D1", "2025-01-08", dayPtr("2025-01-08"), nil),
			docFor("S1", "D2", "2025-01-09", nil, dayPtr("2025-01-09")),
		}

		out, err := Reconcile(context.Background(), stays, docs, Options{})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, domain.Diffused, out[0].Diffusion)
		require.NotNil(t, out[0].DiffusionDelay)
		assert.Equal(t, 1, *out[0].DiffusionDelay)
	})

	t.Run("corrective re-issue leaves the denominator", func(t *testing.T) {
		// The diffusion comes from a version created three days after
		// validation: a correction, not a late diffusion.
		stays := []domain.StayRecord{stay("S1", "2025-01-06", "2025-01-08")}
		docs := []domain.DocumentVersion{
			docFor("S1", "D1", "2025-01-08", dayPtr("2025-01-08"), nil),
			docFor("S1", "D2", "2025-01-11", nil, dayPtr("2025-01-11")),
		}

		out, err := Reconcile(context.Background(), stays, docs, Options{})
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, domain.DiffusionExcluded, out[0].Diffusion)
		assert.Nil(t, out[0].DiffusionDelay)
	})
}

func TestReconcile_Deterministic(t *testing.T) {
	stays := []domain.StayRecord{
		stay("S1", "2025-01-05", "2025-01-10"),
		stay("S2", "2025-01-06", "2025-01-11"),
	}
	docs := []domain.DocumentVersion{
		docFor("S1", "A", "2025-01-10", dayPtr("2025-01-10"), nil),
		docFor("S1", "B", "2025-01-10", dayPtr("2025-01-11"), nil),
		docFor("S2", "C", "2025-01-11", nil, nil),
	}

	first, err := Reconcile(context.Background(), stays, docs, Options{})
	require.NoError(t, err)

	shuffled := []domain.DocumentVersion{docs[2], docs[0], docs[1]}
	second, err := Reconcile(context.Background(), stays, shuffled, Options{})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestReconcile_OneRowPerEligibleStay(t *testing.T) {
	stays := []domain.StayRecord{
		stay("S1", "2025-01-05", "2025-01-10"),
		stay("S2", "2025-01-06", "2025-01-11"),
		stay("S1", "2025-01-05", "2025-01-10"), // duplicate extract row
	}

	out, err := Reconcile(context.Background(), stays, nil, Options{})
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

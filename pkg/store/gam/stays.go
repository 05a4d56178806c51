package gam

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/hopital-foch/ll-report/pkg/models/domain"
	"github.com/hopital-foch/ll-report/pkg/models/store"
	"github.com/hopital-foch/ll-report/pkg/store/profiles"
	"github.com/rs/zerolog"
	go_ora "github.com/sijms/go-ora/v2"
)

// Store extracts conventional-hospitalisation stays from the GAM Oracle
// database.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to GAM using a credentials profile.
func Open(profile *profiles.DBProfile) (*Store, error) {
	dsn := go_ora.BuildUrl(profile.Host, profile.Port, profile.Service, profile.User, profile.Password, nil)
	db, err := sql.Open("oracle", dsn)
	if err != nil {
		return nil, fmt.Errorf("open gam connection: %w", err)
	}
	return NewStore(db), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

const baseQuery = `
SELECT
	sej.sej_id,
	pat.pat_ipp,
	sej.sej_date_entree,
	sej.sej_date_sortie,
	sej.sej_uf_sortie,
	CASE WHEN sej.sej_mode_sortie = 'DC' THEN 1 ELSE 0 END AS deces_sortie
FROM gam.sejour sej
JOIN gam.patient pat ON pat.pat_id = sej.pat_id
LEFT JOIN gam.uf uf ON uf.uf_code = sej.sej_uf_sortie
WHERE sej.sej_type = 'HC'
	AND sej.sej_dernier_mouv = 'X'
	AND sej.sej_date_sortie IS NOT NULL
	AND uf.uf_hjour IS NULL`

// CollectStays fetches the raw stay rows for the scope. A stay-identifier
// scope overrides a period scope.
func (s *Store) CollectStays(ctx context.Context, scope domain.ReportScope) ([]store.RawRow, error) {
	query, args, err := buildQuery(scope)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("gam stay query failed: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close gam stay rows")
		}
	}(rows)

	var out []store.RawRow
	for rows.Next() {
		var (
			stayID, ipp, unit string
			admission, exit   time.Time
			deceased          int
		)
		if err := rows.Scan(&stayID, &ipp, &admission, &exit, &unit, &deceased); err != nil {
			return nil, err
		}
		out = append(out, store.RawRow{
			store.ColStayID:    stayID,
			store.ColPatientID: ipp,
			store.ColAdmission: admission.Format(store.TimeLayout),
			store.ColDischarge: exit.Format(store.TimeLayout),
			store.ColUnit:      unit,
			store.ColDeceased:  fmt.Sprintf("%d", deceased),
		})
	}
	return out, rows.Err()
}

func buildQuery(scope domain.ReportScope) (string, []any, error) {
	if len(scope.StayIDs) > 0 {
		placeholders := make([]string, len(scope.StayIDs))
		args := make([]any, len(scope.StayIDs))
		for i, id := range scope.StayIDs {
			placeholders[i] = fmt.Sprintf(":%d", i+1)
			args[i] = id
		}
		query := baseQuery + fmt.Sprintf("\n\tAND sej.sej_id IN (%s)", strings.Join(placeholders, ", "))
		return query, args, nil
	}

	if scope.Period == nil {
		return "", nil, fmt.Errorf("gam extraction requires a period or a stay list")
	}
	query := baseQuery + "\n\tAND sej.sej_date_sortie >= :1 AND sej.sej_date_sortie < :2"
	// End bound is exclusive at the next midnight so the last day is fully
	// covered whatever the stored time component.
	end := scope.Period.End.AddDate(0, 0, 1)
	return query, []any{scope.Period.Start, end}, nil
}

package easily

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/hopital-foch/ll-report/pkg/models/domain"
	"github.com/hopital-foch/ll-report/pkg/models/store"
	"github.com/hopital-foch/ll-report/pkg/store/profiles"
	"github.com/rs/zerolog"

	_ "github.com/microsoft/go-mssqldb"
)

// Store extracts discharge-letter versions from the EASILY SQL Server
// database.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open connects to EASILY using a credentials profile.
func Open(profile *profiles.DBProfile) (*Store, error) {
	u := url.URL{
		Scheme:   "sqlserver",
		User:     url.UserPassword(profile.User, profile.Password),
		Host:     fmt.Sprintf("%s:%d", profile.Host, profile.Port),
		RawQuery: url.Values{"database": []string{profile.Database}}.Encode(),
	}
	db, err := sql.Open("sqlserver", u.String())
	if err != nil {
		return nil, fmt.Errorf("open easily connection: %w", err)
	}
	return NewStore(db), nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

const baseQuery = `
SELECT
	doc.sej_id,
	doc.doc_id,
	doc.date_creation,
	doc.date_validation,
	doc.date_diffusion,
	mere.date_creation AS date_creation_mere
FROM dbo.document doc
LEFT JOIN dbo.document mere ON mere.doc_id = doc.doc_id_mere
WHERE doc.type_document = 'LL'
	AND doc.modele NOT LIKE '%extraction%'
	AND doc.modele NOT LIKE '%Word Direct%'`

// CollectDocuments fetches every letter version attached to the stays in
// scope. The period bound is widened on both sides so versions created or
// validated around the discharge date are not cut off; the reconciliation
// engine applies the exact attribution window.
func (s *Store) CollectDocuments(ctx context.Context, scope domain.ReportScope) ([]store.RawRow, error) {
	query, args, err := buildQuery(scope)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("easily document query failed: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Msg("failed to close easily document rows")
		}
	}(rows)

	var out []store.RawRow
	for rows.Next() {
		var (
			stayID, docID                  string
			created                        time.Time
			validated, diffused, parentCre sql.NullTime
		)
		if err := rows.Scan(&stayID, &docID, &created, &validated, &diffused, &parentCre); err != nil {
			return nil, err
		}
		out = append(out, store.RawRow{
			store.ColStayID:       stayID,
			store.ColDocID:        docID,
			store.ColDocCreated:   created.Format(store.TimeLayout),
			store.ColDocValidated: formatNullTime(validated),
			store.ColDocDiffused:  formatNullTime(diffused),
			store.ColDocParentCre: formatNullTime(parentCre),
		})
	}
	return out, rows.Err()
}

// periodMarginDays widens the extraction window around the report period.
const periodMarginDays = 7

func buildQuery(scope domain.ReportScope) (string, []any, error) {
	if len(scope.StayIDs) > 0 {
		placeholders := make([]string, len(scope.StayIDs))
		args := make([]any, len(scope.StayIDs))
		for i, id := range scope.StayIDs {
			placeholders[i] = fmt.Sprintf("@p%d", i+1)
			args[i] = id
		}
		query := baseQuery + fmt.Sprintf("\n\tAND doc.sej_id IN (%s)", strings.Join(placeholders, ", "))
		return query, args, nil
	}

	if scope.Period == nil {
		return "", nil, fmt.Errorf("easily extraction requires a period or a stay list")
	}
	query := baseQuery + "\n\tAND doc.date_creation >= @p1 AND doc.date_creation < @p2"
	start := scope.Period.Start.AddDate(0, 0, -periodMarginDays)
	end := scope.Period.End.AddDate(0, 0, periodMarginDays+1)
	return query, []any{start, end}, nil
}

func formatNullTime(t sql.NullTime) string {
	if !t.Valid {
		return ""
	}
	return t.Time.Format(store.TimeLayout)
}

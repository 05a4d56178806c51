package normalize

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/hopital-foch/ll-report/pkg/models/domain"
	"github.com/hopital-foch/ll-report/pkg/models/store"
	"github.com/hopital-foch/ll-report/pkg/services/mapping"
	"github.com/rs/zerolog"
)

var ippPattern = regexp.MustCompile(`^\d{9}$`)

// Stays converts raw GAM rows into typed StayRecords. A row with a missing
// stay identifier, an unparseable date, an invalid IPP or a discharge date
// before the admission date is dropped and counted; normalization never
// fails on data shape.
func Stays(ctx context.Context, rows []store.RawRow, table *mapping.Table) ([]domain.StayRecord, store.DropStats) {
	logger := zerolog.Ctx(ctx)

	stays := make([]domain.StayRecord, 0, len(rows))
	var stats store.DropStats
	for _, row := range rows {
		stay, err := stayFromRow(row, table)
		if err != nil {
			stats.Dropped++
			logger.Warn().Err(err).Str("sej_id", row[store.ColStayID]).Msg("dropping stay row")
			continue
		}
		stats.Parsed++
		stays = append(stays, stay)
	}
	return stays, stats
}

// Documents converts raw EASILY rows into typed DocumentVersions, dropping
// and counting unparseable rows.
func Documents(ctx context.Context, rows []store.RawRow) ([]domain.DocumentVersion, store.DropStats) {
	logger := zerolog.Ctx(ctx)

	docs := make([]domain.DocumentVersion, 0, len(rows))
	var stats store.DropStats
	for _, row := range rows {
		doc, err := documentFromRow(row)
		if err != nil {
			stats.Dropped++
			logger.Warn().Err(err).Str("doc_id", row[store.ColDocID]).Msg("dropping document row")
			continue
		}
		stats.Parsed++
		docs = append(docs, doc)
	}
	return docs, stats
}

func stayFromRow(row store.RawRow, table *mapping.Table) (domain.StayRecord, error) {
	stayID := strings.TrimSpace(row[store.ColStayID])
	if stayID == "" {
		return domain.StayRecord{}, fmt.Errorf("missing %s", store.ColStayID)
	}

	ipp, err := cleanIPP(row[store.ColPatientID])
	if err != nil {
		return domain.StayRecord{}, err
	}

	admission, err := parseDate(row[store.ColAdmission])
	if err != nil {
		return domain.StayRecord{}, fmt.Errorf("%s: %w", store.ColAdmission, err)
	}
	discharge, err := parseDate(row[store.ColDischarge])
	if err != nil {
		return domain.StayRecord{}, fmt.Errorf("%s: %w", store.ColDischarge, err)
	}
	if discharge.Before(admission) {
		return domain.StayRecord{}, fmt.Errorf("discharge %s before admission %s",
			discharge.Format("2006-01-02"), admission.Format("2006-01-02"))
	}

	unit := unitCode(row[store.ColUnit])
	return domain.StayRecord{
		StayID:        stayID,
		PatientID:     ipp,
		AdmissionDate: admission,
		DischargeDate: discharge,
		UnitCode:      unit,
		Specialty:     table.Specialty(unit),
		Deceased:      parseFlag(row[store.ColDeceased]),
	}, nil
}

func documentFromRow(row store.RawRow) (domain.DocumentVersion, error) {
	stayID := strings.TrimSpace(row[store.ColStayID])
	if stayID == "" {
		return domain.DocumentVersion{}, fmt.Errorf("missing %s", store.ColStayID)
	}
	docID := strings.TrimSpace(row[store.ColDocID])
	if docID == "" {
		return domain.DocumentVersion{}, fmt.Errorf("missing %s", store.ColDocID)
	}

	created, err := parseDate(row[store.ColDocCreated])
	if err != nil {
		return domain.DocumentVersion{}, fmt.Errorf("%s: %w", store.ColDocCreated, err)
	}

	validated, err := parseOptionalDate(row[store.ColDocValidated])
	if err != nil {
		return domain.DocumentVersion{}, fmt.Errorf("%s: %w", store.ColDocValidated, err)
	}
	diffused, err := parseOptionalDate(row[store.ColDocDiffused])
	if err != nil {
		return domain.DocumentVersion{}, fmt.Errorf("%s: %w", store.ColDocDiffused, err)
	}
	parentCreated, err := parseOptionalDate(row[store.ColDocParentCre])
	if err != nil {
		return domain.DocumentVersion{}, fmt.Errorf("%s: %w", store.ColDocParentCre, err)
	}

	if validated != nil && validated.Before(created) {
		return domain.DocumentVersion{}, fmt.Errorf("validation %s before creation %s",
			validated.Format("2006-01-02"), created.Format("2006-01-02"))
	}

	return domain.DocumentVersion{
		StayID:          stayID,
		DocumentID:      docID,
		CreatedAt:       created,
		ValidatedAt:     validated,
		DiffusedAt:      diffused,
		ParentCreatedAt: parentCreated,
	}, nil
}

// cleanIPP validates a patient identifier: exactly nine digits once
// trimmed. GAM occasionally pads IPPs or stores artifacts from migrations;
// those rows cannot be matched and are dropped.
func cleanIPP(raw string) (string, error) {
	ipp := strings.TrimSpace(raw)
	ipp = strings.TrimLeft(ipp, "0")
	for len(ipp) < 9 && ipp != "" {
		ipp = "0" + ipp
	}
	if !ippPattern.MatchString(ipp) {
		return "", fmt.Errorf("invalid IPP %q", raw)
	}
	return ipp, nil
}

// unitCode keeps the first three characters of the raw discharge unit
// field; GAM suffixes the UF code with a movement marker.
func unitCode(raw string) string {
	u := strings.TrimSpace(raw)
	if len(u) > 3 {
		return u[:3]
	}
	return u
}

func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	for _, layout := range []string{store.TimeLayout, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", raw)
}

func parseOptionalDate(raw string) (*time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := parseDate(raw)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func parseFlag(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "1", "true", "x":
		return true
	}
	return false
}

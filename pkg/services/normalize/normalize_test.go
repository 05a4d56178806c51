package normalize

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hopital-foch/ll-report/pkg/models/store"
	"github.com/hopital-foch/ll-report/pkg/services/mapping"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testTable(t *testing.T) *mapping.Table {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matrix.csv")
	require.NoError(t, os.WriteFile(path, []byte("unit_code;specialty\n123;Cardiologie\n"), 0o644))
	table, err := mapping.Load(path)
	require.NoError(t, err)
	return table
}

func stayRow(overrides store.RawRow) store.RawRow {
	row := store.RawRow{
		store.ColStayID:    "S1",
		store.ColPatientID: "123456789",
		store.ColAdmission: "2025-01-08 10:00:00",
		store.ColDischarge: "2025-01-10 16:00:00",
		store.ColUnit:      "123A",
		store.ColDeceased:  "0",
	}
	for k, v := range overrides {
		row[k] = v
	}
	return row
}

func TestStays(t *testing.T) {
	table := testTable(t)

	tests := []struct {
		name        string
		rows        []store.RawRow
		wantParsed  int
		wantDropped int
	}{
		{
			name:        "valid row",
			rows:        []store.RawRow{stayRow(nil)},
			wantParsed:  1,
			wantDropped: 0,
		},
		{
			name: "unparseable discharge date is dropped",
			rows: []store.RawRow{
				stayRow(nil),
				stayRow(store.RawRow{store.ColStayID: "S2", store.ColDischarge: "10/01/2025"}),
			},
			wantParsed:  1,
			wantDropped: 1,
		},
		{
			name:        "missing stay id is dropped",
			rows:        []store.RawRow{stayRow(store.RawRow{store.ColStayID: ""})},
			wantParsed:  0,
			wantDropped: 1,
		},
		{
			name:        "invalid IPP is dropped",
			rows:        []store.RawRow{stayRow(store.RawRow{store.ColPatientID: "12AB"})},
			wantParsed:  0,
			wantDropped: 1,
		},
		{
			name: "discharge before admission is dropped",
			rows: []store.RawRow{stayRow(store.RawRow{
				store.ColAdmission: "2025-01-10 10:00:00",
				store.ColDischarge: "2025-01-08 10:00:00",
			})},
			wantParsed:  0,
			wantDropped: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stays, stats := Stays(context.Background(), tt.rows, table)

			assert.Equal(t, tt.wantParsed, stats.Parsed)
			assert.Equal(t, tt.wantDropped, stats.Dropped)
			assert.Len(t, stays, tt.wantParsed)
		})
	}
}

func TestStays_Fields(t *testing.T) {
	table := testTable(t)

	stays, stats := Stays(context.Background(), []store.RawRow{stayRow(nil)}, table)
	require.Equal(t, 1, stats.Parsed)

	stay := stays[0]
	assert.Equal(t, "S1", stay.StayID)
	assert.Equal(t, "123456789", stay.PatientID)
	assert.Equal(t, "123", stay.UnitCode, "unit code keeps the first three characters")
	assert.Equal(t, "CARDIOLOGIE", stay.Specialty)
	assert.False(t, stay.Deceased)
}

func TestStays_UnmappedUnitGetsUnknown(t *testing.T) {
	table := testTable(t)

	stays, _ := Stays(context.Background(), []store.RawRow{
		stayRow(store.RawRow{store.ColUnit: "999Z"}),
	}, table)
	require.Len(t, stays, 1)
	assert.Equal(t, mapping.Unknown, stays[0].Specialty)
}

func docRow(overrides store.RawRow) store.RawRow {
	row := store.RawRow{
		store.ColStayID:     "S1",
		store.ColDocID:      "D1",
		store.ColDocCreated: "2025-01-10 09:00:00",
	}
	for k, v := range overrides {
		row[k] = v
	}
	return row
}

func TestDocuments(t *testing.T) {
	tests := []struct {
		name        string
		rows        []store.RawRow
		wantParsed  int
		wantDropped int
	}{
		{
			name:       "unvalidated version",
			rows:       []store.RawRow{docRow(nil)},
			wantParsed: 1,
		},
		{
			name: "validated and diffused version",
			rows: []store.RawRow{docRow(store.RawRow{
				store.ColDocValidated: "2025-01-10 15:00:00",
				store.ColDocDiffused:  "2025-01-10 15:30:00",
			})},
			wantParsed: 1,
		},
		{
			name:        "missing document id is dropped",
			rows:        []store.RawRow{docRow(store.RawRow{store.ColDocID: ""})},
			wantDropped: 1,
		},
		{
			name: "validation before creation is dropped",
			rows: []store.RawRow{docRow(store.RawRow{
				store.ColDocValidated: "2025-01-09 15:00:00",
			})},
			wantDropped: 1,
		},
		{
			name:        "garbage validation date is dropped",
			rows:        []store.RawRow{docRow(store.RawRow{store.ColDocValidated: "not-a-date"})},
			wantDropped: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			docs, stats := Documents(context.Background(), tt.rows)

			assert.Equal(t, tt.wantParsed, stats.Parsed)
			assert.Equal(t, tt.wantDropped, stats.Dropped)
			assert.Len(t, docs, tt.wantParsed)
		})
	}
}

func TestCleanIPP(t *testing.T) {
	tests := []struct {
		in       string
		expected string
		wantErr  bool
	}{
		{in: "123456789", expected: "123456789"},
		{in: " 123456789 ", expected: "123456789"},
		{in: "0012345678", expected: "012345678"},
		{in: "12345", expected: "000012345"},
		{in: "12AB", wantErr: true},
		{in: "", wantErr: true},
		{in: "1234567890123", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := cleanIPP(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

package mapping

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Unknown is assigned to stays whose discharge unit is absent from the
// mapping table. Such stays are kept, not dropped.
const Unknown = "UNKNOWN"

// Table maps discharge unit codes (UF) to canonical specialty names. It is
// loaded once, immutable afterwards, and passed explicitly into the
// pipeline.
type Table struct {
	specialties map[string]string
}

// Load reads the unit/specialty matrix from a `;`-separated CSV file with a
// header row (unit_code;specialty). Duplicate unit codes keep the first
// occurrence. A missing file or an empty matrix is a configuration error:
// it invalidates all specialty attribution.
func Load(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open specialty matrix: %w", err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = ';'
	r.FieldsPerRecord = -1

	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read specialty matrix: %w", err)
	}

	t := &Table{specialties: make(map[string]string)}
	for i, row := range rows {
		if i == 0 || len(row) < 2 {
			continue
		}
		unit := strings.TrimSpace(row[0])
		specialty := Normalize(row[1])
		if unit == "" || specialty == "" {
			continue
		}
		if _, exists := t.specialties[unit]; exists {
			continue
		}
		t.specialties[unit] = specialty
	}

	if len(t.specialties) == 0 {
		return nil, fmt.Errorf("specialty matrix %s is empty", path)
	}
	return t, nil
}

// Specialty returns the canonical specialty for a unit code, or Unknown
// when the code is not mapped.
func (t *Table) Specialty(unitCode string) string {
	if s, ok := t.specialties[strings.TrimSpace(unitCode)]; ok {
		return s
	}
	return Unknown
}

func (t *Table) Len() int {
	return len(t.specialties)
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize canonicalizes a specialty label: uppercase, trimmed, accents
// stripped, so that "Néphrologie" and "NEPHROLOGIE " compare equal.
func Normalize(s string) string {
	out, _, err := transform.String(stripAccents, s)
	if err != nil {
		out = s
	}
	return strings.ToUpper(strings.TrimSpace(out))
}

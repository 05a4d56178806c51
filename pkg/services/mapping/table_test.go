package mapping

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeMatrix(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "matrix.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	path := writeMatrix(t, "unit_code;specialty\n123;Cardiologie\n456;Néphrologie\n123;Duplicate\n")

	table, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, table.Len())
	assert.Equal(t, "CARDIOLOGIE", table.Specialty("123"))
	assert.Equal(t, "NEPHROLOGIE", table.Specialty("456"))
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestLoad_EmptyMatrix(t *testing.T) {
	path := writeMatrix(t, "unit_code;specialty\n")

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestSpecialty_UnknownUnit(t *testing.T) {
	path := writeMatrix(t, "unit_code;specialty\n123;Cardiologie\n")

	table, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, Unknown, table.Specialty("999"))
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Cardiologie", "CARDIOLOGIE"},
		{" néphrologie ", "NEPHROLOGIE"},
		{"HÉPATO-GASTRO", "HEPATO-GASTRO"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, Normalize(tt.in))
		})
	}
}

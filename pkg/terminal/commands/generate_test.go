package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCmd_Scope(t *testing.T) {
	t.Run("period", func(t *testing.T) {
		gc := &GenerateCmd{fromDate: "2025-01-01", toDate: "2025-01-31"}
		scope, err := gc.scope()
		require.NoError(t, err)
		require.NotNil(t, scope.Period)
		assert.Equal(t, "2025-01-01", scope.Period.Start.Format("2006-01-02"))
		assert.Equal(t, "2025-01-31", scope.Period.End.Format("2006-01-02"))
	})

	t.Run("stays override period", func(t *testing.T) {
		gc := &GenerateCmd{fromDate: "2025-01-01", toDate: "2025-01-31", stayIDs: []string{"S1"}}
		scope, err := gc.scope()
		require.NoError(t, err)
		assert.Nil(t, scope.Period)
		assert.Equal(t, []string{"S1"}, scope.StayIDs)
	})

	t.Run("errors", func(t *testing.T) {
		tests := []struct {
			name string
			gc   GenerateCmd
		}{
			{name: "no scope at all", gc: GenerateCmd{}},
			{name: "missing to", gc: GenerateCmd{fromDate: "2025-01-01"}},
			{name: "bad from", gc: GenerateCmd{fromDate: "01/01/2025", toDate: "2025-01-31"}},
			{name: "inverted range", gc: GenerateCmd{fromDate: "2025-01-31", toDate: "2025-01-01"}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := tt.gc.scope()
				assert.Error(t, err)
			})
		}
	})
}

package resulttypes

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnNameRoundTrip(t *testing.T) {
	t.Parallel()

	cfg := For(Drifts, DirX)
	require.Equal(t, "_X", cfg.DirectionSuffix)

	col, ok := cfg.ColumnName("160Wil_DES_TH01_X")
	require.True(t, ok)
	assert.Equal(t, "TH01", col)

	key := cfg.MatrixKey(col)
	assert.True(t, strings.HasSuffix(key, "_X"))

	_, ok = cfg.ColumnName("160Wil_DES_TH01_Y")
	assert.False(t, ok, "keys of the other direction are rejected")
}

func TestColumnNameWithoutSuffix(t *testing.T) {
	t.Parallel()

	cfg := For(ColumnAxials, DirNone)
	tests := []struct {
		key  string
		want string
	}{
		{"TH01", "TH01"},
		{"DES_TH02", "TH02"},
		{"Push Modal X", "Push Modal X"},
		{"trailing_", "trailing_"},
	}
	for _, tt := range tests {
		got, ok := cfg.ColumnName(tt.key)
		assert.True(t, ok)
		assert.Equal(t, tt.want, got, tt.key)
	}
}

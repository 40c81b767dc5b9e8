package resulttypes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVariantsInheritFromBase(t *testing.T) {
	t.Parallel()

	cfg := Get("Drifts_X")
	assert.Equal(t, Drifts, cfg.Base)
	assert.Equal(t, DirX, cfg.Direction)
	assert.Equal(t, "_X", cfg.DirectionSuffix)
	assert.Equal(t, "%", cfg.Unit)
	assert.InDelta(t, 100.0, cfg.Multiplier, 0)
	assert.Equal(t, 2, cfg.DecimalPlaces)
	assert.Equal(t, "Drift [%]", cfg.YLabel)
	assert.Equal(t, ScopeGlobal, cfg.Scope)

	y := Get("Drifts_Y")
	assert.Equal(t, cfg.Multiplier, y.Multiplier)
	assert.Equal(t, "_Y", y.DirectionSuffix)
}

func TestOverridesOnlyTouchDisplayFields(t *testing.T) {
	t.Parallel()

	vx := Get("Forces_VX")
	assert.Equal(t, "Story Shears X", vx.Label)
	assert.Equal(t, "_VX", vx.DirectionSuffix)
	assert.Equal(t, "kN", vx.Unit)
	assert.Equal(t, Get("Forces").ColorScheme, vx.ColorScheme)
}

func TestUnknownKeyFallsBack(t *testing.T) {
	t.Parallel()

	cfg := Get("NotAResult_Q")
	assert.Equal(t, "NotAResult_Q", cfg.Label)
	assert.InDelta(t, 1.0, cfg.Multiplier, 0)
	assert.Empty(t, cfg.DirectionSuffix)

	_, ok := Lookup("NotAResult_Q")
	assert.False(t, ok)
}

func TestFormatWithUnit(t *testing.T) {
	t.Parallel()

	tests := []struct {
		base, dir, want string
	}{
		{"Drifts", "X", "Story Drifts X [%]"},
		{"Drifts", "", "Story Drifts [%]"},
		{"WallShears", "V2", "Wall Shears V2 [kN]"},
		{"Drifts", "Q", "Story Drifts [%]"},
		{"Mystery", "", "Mystery"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatWithUnit(tt.base, tt.dir), "%s/%s", tt.base, tt.dir)
	}
}

func TestVariantsAndDirections(t *testing.T) {
	t.Parallel()

	assert.Equal(t, []string{"WallShears_V2", "WallShears_V3"}, Variants(WallShears))
	assert.Equal(t, []string{"ColumnAxials"}, Variants(ColumnAxials))
	assert.Nil(t, Directions(SoilPressures))

	for _, base := range Bases() {
		for _, key := range Variants(base) {
			_, ok := Lookup(key)
			assert.True(t, ok, "variant %s must be registered", key)
		}
	}
}

func TestParseDirection(t *testing.T) {
	t.Parallel()

	d, ok := ParseDirection(ColumnRotations, "r2")
	require.True(t, ok)
	assert.Equal(t, DirR2, d)

	_, ok = ParseDirection(Drifts, "V2")
	assert.False(t, ok)

	_, ok = ParseDirection(BeamRotations, "")
	assert.True(t, ok)
}

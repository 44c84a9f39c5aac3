package function

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryCoversAllKinds(t *testing.T) {
	assert.Len(t, Kinds(), 35)
}

func TestDefaultThresholds(t *testing.T) {
	defaults := NewDefaults()
	cases := map[Kind]float64{
		KindTempReachUpper:      8,
		KindTempExceedUpper:     8,
		KindTempReachLower:      2,
		KindTempExceedLower:     2,
		KindHumidityReachUpper:  80,
		KindHumidityExceedUpper: 80,
		KindHumidityReachLower:  20,
		KindHumidityExceedLower: 20,
	}
	for kind, want := range cases {
		got, ok := defaults.Thresholds[kind]
		require.True(t, ok, string(kind))
		assert.Equal(t, want, got, string(kind))
	}
	assert.Equal(t, 8.0, defaults.MaxTemp)
	assert.Equal(t, 2.0, defaults.MinTemp)
}

func TestEveryKindDeclaresRequiredRoles(t *testing.T) {
	for kind, spec := range kinds {
		assert.NotEmpty(t, spec.requires, string(kind))
	}
}

func TestRoundingPassesNonFiniteThrough(t *testing.T) {
	assert.Equal(t, 3.8, roundTo(3.75, 1))
	assert.Equal(t, -3.8, roundTo(-3.75, 1))
	assert.True(t, math.IsNaN(roundTo(math.NaN(), 2)))
	assert.True(t, math.IsInf(roundTo(math.Inf(1), 1), 1))
}

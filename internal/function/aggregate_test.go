package function

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"report-function-service/internal/models"
)

func scalarReadings() []models.Reading {
	return []models.Reading{
		reading("A", "2024-01-15 09:00:00", 2.0, 45),
		reading("B", "2024-01-15 09:00:00", 6.0, 55),
		reading("A", "2024-01-15 09:01:00", 3.0, 50),
		reading("B", "2024-01-15 09:01:00", 4.0, 60),
	}
}

func evalKind(t *testing.T, kind Kind, readings []models.Reading) models.FunctionResult {
	t.Helper()
	e := newTestEvaluator(readings...)
	roster := testRoster("A|B", "2024-01-15", "2024-01-15")
	return e.Evaluate(context.Background(), testTask, testConfig(kind), roster)
}

func TestScalarAggregates(t *testing.T) {
	cases := []struct {
		kind Kind
		want float64
	}{
		{KindMaxTemp, 6.0},
		{KindMinTemp, 2.0},
		{KindAvgTemp, 3.8},
		{KindMaxHumidity, 60.0},
		{KindMinHumidity, 45.0},
		{KindAvgHumidity, 52.5},
	}
	for _, tc := range cases {
		t.Run(string(tc.kind), func(t *testing.T) {
			result := evalKind(t, tc.kind, scalarReadings())
			require.Equal(t, models.StatusSuccess, result.Status)
			assert.Equal(t, tc.want, result.Value)
			assert.Contains(t, result.Detail, "数据条数：4")
		})
	}
}

func TestScalarMinAvgMaxOrdering(t *testing.T) {
	minR := evalKind(t, KindMinTemp, scalarReadings()).Value.(float64)
	avgR := evalKind(t, KindAvgTemp, scalarReadings()).Value.(float64)
	maxR := evalKind(t, KindMaxTemp, scalarReadings()).Value.(float64)
	assert.LessOrEqual(t, minR, avgR)
	assert.LessOrEqual(t, avgR, maxR)
}

func TestScalarEmptyAfterLocationFilter(t *testing.T) {
	// readings exist, but for a device outside the location set
	e := newTestEvaluator(reading("C", "2024-01-15 09:00:00", 2.0, 50))
	roster := testRoster("A|B", "2024-01-15", "2024-01-15")
	result := e.Evaluate(context.Background(), testTask, testConfig(KindMaxTemp), roster)
	require.Equal(t, models.StatusError, result.Status)
	assert.Contains(t, result.Message, "查询区间内无数据")
	assert.Nil(t, result.Value)
}

func TestExtremumLocationCollectsTies(t *testing.T) {
	readings := []models.Reading{
		reading("A", "2024-01-15 09:00:00", 5.0, 50),
		reading("A", "2024-01-15 09:02:00", 3.0, 50),
		reading("B", "2024-01-15 09:05:00", 5.0, 50),
	}
	result := evalKind(t, KindMaxTempLocation, readings)
	require.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, "A | B", result.Value)
}

func TestExtremumTimeEarliestTieWins(t *testing.T) {
	readings := []models.Reading{
		reading("B", "2024-01-15 09:05:00", 5.0, 50),
		reading("A", "2024-01-15 09:00:00", 5.0, 50),
		reading("A", "2024-01-15 09:02:00", 3.0, 50),
	}
	result := evalKind(t, KindTempMaxTime, readings)
	require.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, "2024-01-15 09:00", result.Value)

	result = evalKind(t, KindTempMinTime, readings)
	require.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, "2024-01-15 09:02", result.Value)
}

func TestMinTempLocationSingle(t *testing.T) {
	result := evalKind(t, KindMinTempLocation, scalarReadings())
	require.Equal(t, models.StatusSuccess, result.Status)
	assert.Equal(t, "A", result.Value)
}

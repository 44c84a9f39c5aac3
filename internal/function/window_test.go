package function

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"report-function-service/internal/models"
)

func TestResolveIntervalDateOnlyExpandsToFullDay(t *testing.T) {
	roster := testRoster("A", "2024-01-15", "2024-01-15")
	cfg := testConfig(KindMaxTemp)

	start, end, err := resolveInterval(cfg, roster)
	require.Nil(t, err)
	assert.Equal(t, time.Date(2024, 1, 15, 0, 0, 0, 0, time.Local), start)
	assert.Equal(t, time.Date(2024, 1, 15, 23, 59, 59, 999e6, time.Local), end)
}

func TestResolveIntervalStartAfterEnd(t *testing.T) {
	roster := testRoster("A", "2024-01-15 12:00", "2024-01-15 08:00")
	_, _, err := resolveInterval(testConfig(KindMaxTemp), roster)
	require.NotNil(t, err)
	assert.Equal(t, ErrInvalidInterval, err.Code)
}

func TestResolveIntervalUnparseable(t *testing.T) {
	roster := testRoster("A", "garbage", "2024-01-15 08:00")
	_, _, err := resolveInterval(testConfig(KindMaxTemp), roster)
	require.NotNil(t, err)
	assert.Equal(t, ErrInvalidInterval, err.Code)
}

func TestResolveWindowNoData(t *testing.T) {
	src := &fakeSource{}
	roster := testRoster("A", "2024-01-15", "2024-01-15")
	w, err := resolveWindow(context.Background(), src, testTask, testConfig(KindMaxTemp), roster)
	require.NotNil(t, err)
	assert.Equal(t, ErrNoData, err.Code)
	require.NotNil(t, w)
	assert.Contains(t, w.queryInfo, "数据条数：0")
}

func TestResolveWindowRendersQueryInfo(t *testing.T) {
	src := &fakeSource{readings: []models.Reading{
		reading("A", "2024-01-15 09:00:00", 2.0, 50),
		reading("B", "2024-01-15 09:00:00", 6.0, 55),
	}}
	roster := testRoster("A|B", "2024-01-15", "2024-01-15")
	w, err := resolveWindow(context.Background(), src, testTask, testConfig(KindMaxTemp), roster)
	require.Nil(t, err)
	assert.Contains(t, w.queryInfo, "测点：A | B")
	assert.Contains(t, w.queryInfo, "数据条数：2")
	assert.Len(t, w.readings, 2)
}

func TestResolveWindowFiltersDayBoundary(t *testing.T) {
	src := &fakeSource{readings: []models.Reading{
		reading("A", "2024-01-15 23:59:59", 2.0, 50),
		reading("A", "2024-01-16 00:00:00", 9.0, 50),
	}}
	roster := testRoster("A", "2024-01-15", "2024-01-15")
	w, err := resolveWindow(context.Background(), src, testTask, testConfig(KindMaxTemp), roster)
	require.Nil(t, err)
	assert.Len(t, w.readings, 1)
	assert.Equal(t, at("2024-01-15 23:59:59"), w.readings[0].Timestamp)
}

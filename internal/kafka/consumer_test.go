package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestampFormats(t *testing.T) {
	want := time.Date(2024, 1, 15, 9, 30, 0, 0, time.Local)

	got, ok := parseTimestamp("2024-01-15 09:30:00")
	require.True(t, ok)
	assert.True(t, got.Equal(want))

	got, ok = parseTimestamp(float64(want.UnixMilli()))
	require.True(t, ok)
	assert.True(t, got.Equal(want))

	_, ok = parseTimestamp("not-a-time")
	assert.False(t, ok)
	_, ok = parseTimestamp(nil)
	assert.False(t, ok)
}

func TestReadingWireUnmarshal(t *testing.T) {
	payload := `{"task_id":"t1","device_id":"A","timestamp":"2024-01-15T09:30:00Z","temperature":4.5,"humidity":60}`
	var wire readingWire
	require.NoError(t, json.Unmarshal([]byte(payload), &wire))
	assert.Equal(t, "t1", wire.TaskID)
	assert.Equal(t, "A", wire.DeviceID)
	ts, ok := parseTimestamp(wire.Timestamp)
	require.True(t, ok)
	assert.Equal(t, 2024, ts.Year())
	assert.Equal(t, 4.5, wire.Temperature)
}

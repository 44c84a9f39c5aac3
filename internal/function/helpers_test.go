package function

import (
	"context"
	"time"

	"report-function-service/internal/models"
)

// fakeSource mimics the store contract: inclusive window, optional device
// filter.
type fakeSource struct {
	readings []models.Reading
	err      error
}

func (f *fakeSource) QueryReadings(_ context.Context, taskID string, start, end time.Time, locations []string) ([]models.Reading, error) {
	if f.err != nil {
		return nil, f.err
	}
	set := make(map[string]bool, len(locations))
	for _, loc := range locations {
		set[loc] = true
	}
	var out []models.Reading
	for _, r := range f.readings {
		if r.TaskID != taskID {
			continue
		}
		if r.Timestamp.Before(start) || r.Timestamp.After(end) {
			continue
		}
		if len(set) > 0 && !set[r.DeviceID] {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

const testTask = "task-1"

func at(value string) time.Time {
	t, err := time.ParseInLocation("2006-01-02 15:04:05", value, time.Local)
	if err != nil {
		panic(err)
	}
	return t
}

func reading(dev, ts string, temp, hum float64) models.Reading {
	return models.Reading{
		TaskID:      testTask,
		DeviceID:    dev,
		Timestamp:   at(ts),
		Temperature: temp,
		Humidity:    hum,
	}
}

// testRoster builds the standard roster: a location tag "L" holding devs,
// start/end datetime tags "S"/"E", and a number-typed target tag "T".
func testRoster(devs, start, end string) Roster {
	return NewRoster([]models.Tag{
		{ID: "L", Name: "测点", Type: models.TagLocation, Value: devs},
		{ID: "S", Name: "开始时间", Type: models.TagDatetime, Value: start},
		{ID: "E", Name: "结束时间", Type: models.TagDatetime, Value: end},
		{ID: "T", Name: "结果", Type: models.TagNumber, Value: nil},
	})
}

func testConfig(kind Kind) *models.FunctionConfig {
	return &models.FunctionConfig{
		TagID:          "T",
		FunctionType:   string(kind),
		LocationTagIDs: []string{"L"},
		StartTagID:     "S",
		EndTagID:       "E",
	}
}

func newTestEvaluator(readings ...models.Reading) *Evaluator {
	return NewEvaluator(&fakeSource{readings: readings}, NewDefaults())
}

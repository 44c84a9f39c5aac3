package function

import (
	"fmt"
	"sort"

	"report-function-service/internal/models"
)

func locationSet(locations []string) map[string]bool {
	set := make(map[string]bool, len(locations))
	for _, loc := range locations {
		set[loc] = true
	}
	return set
}

// matchReadings filters the fetched bag to the requested devices and sorts
// ascending by timestamp so every family scans deterministically.
func matchReadings(readings []models.Reading, locations []string) []models.Reading {
	set := locationSet(locations)
	out := make([]models.Reading, 0, len(readings))
	for _, r := range readings {
		if set[r.DeviceID] {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.Before(out[j].Timestamp)
	})
	return out
}

func readingValue(r models.Reading, humidity bool) float64 {
	if humidity {
		return r.Humidity
	}
	return r.Temperature
}

func mean(vals []float64) float64 {
	var sum float64
	for _, v := range vals {
		sum += v
	}
	return sum / float64(len(vals))
}

// perDeviceValues groups matched reading values by device id.
func perDeviceValues(readings []models.Reading, humidity bool) map[string][]float64 {
	byDev := make(map[string][]float64)
	for _, r := range readings {
		byDev[r.DeviceID] = append(byDev[r.DeviceID], readingValue(r, humidity))
	}
	return byDev
}

func sortedDevices(byDev map[string][]float64) []string {
	devs := make([]string, 0, len(byDev))
	for d := range byDev {
		devs = append(devs, d)
	}
	sort.Strings(devs)
	return devs
}

// runScalar computes max/min/avg over temperature or humidity across all
// matched readings.
func runScalar(kind Kind, spec kindSpec, w *window) (*outcome, *Error) {
	matched := matchReadings(w.readings, w.locations)
	if len(matched) == 0 {
		return nil, newError(ErrNoData, "")
	}
	vals := make([]float64, len(matched))
	for i, r := range matched {
		vals[i] = readingValue(r, spec.humidity)
	}
	var result float64
	switch kind {
	case KindMaxTemp, KindMaxHumidity:
		result = vals[0]
		for _, v := range vals[1:] {
			if v > result {
				result = v
			}
		}
	case KindMinTemp, KindMinHumidity:
		result = vals[0]
		for _, v := range vals[1:] {
			if v < result {
				result = v
			}
		}
	default:
		result = mean(vals)
	}
	lines := []string{fmt.Sprintf("参与计算数据条数：%d", len(vals))}
	return &outcome{num: &result, lines: lines}, nil
}

// runExtremum finds the global temperature extremum and reports either the
// tied device set or the earliest tied timestamp. Ties use bit-exact float
// equality, matching the downstream report behavior.
func runExtremum(kind Kind, w *window) (*outcome, *Error) {
	matched := matchReadings(w.readings, w.locations)
	if len(matched) == 0 {
		return nil, newError(ErrNoData, "")
	}
	wantMax := kind == KindMaxTempLocation || kind == KindTempMaxTime
	ext := matched[0].Temperature
	for _, r := range matched[1:] {
		if wantMax && r.Temperature > ext || !wantMax && r.Temperature < ext {
			ext = r.Temperature
		}
	}
	var tied []models.Reading
	for _, r := range matched {
		if r.Temperature == ext {
			tied = append(tied, r)
		}
	}
	lines := []string{fmt.Sprintf("极值温度：%s℃", formatNumber(ext, 1)), fmt.Sprintf("相等数据条数：%d", len(tied))}
	switch kind {
	case KindMaxTempLocation, KindMinTempLocation:
		seen := make(map[string]bool)
		var devs []string
		for _, r := range tied {
			if !seen[r.DeviceID] {
				seen[r.DeviceID] = true
				devs = append(devs, r.DeviceID)
			}
		}
		return &outcome{str: joinLocations(devs), lines: lines}, nil
	default:
		// tied is already in ascending timestamp order; the earliest wins.
		return &outcome{str: tied[0].Timestamp.Format(minuteLayout), lines: lines}, nil
	}
}

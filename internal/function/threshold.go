package function

import (
	"fmt"

	"report-function-service/internal/models"
)

// resolveThreshold picks the effective threshold: config literal first, then
// a referenced threshold tag, then the registry default for the kind.
func resolveThreshold(kind Kind, cfg *models.FunctionConfig, roster Roster, defaults Defaults) (float64, *Error) {
	if cfg.Threshold != nil {
		return *cfg.Threshold, nil
	}
	if cfg.ThresholdTagID != "" {
		return numericTagValue(cfg.ThresholdTagID, roster)
	}
	v, ok := defaults.Thresholds[kind]
	if !ok {
		return 0, newError(ErrMissingInput, "阈值")
	}
	return v, nil
}

func satisfies(value, threshold float64, upper bool) bool {
	if upper {
		return value >= threshold
	}
	return value <= threshold
}

// runThreshold covers the reach, exceed, and first-reach-time variants. The
// matched readings are scanned in ascending timestamp order.
func runThreshold(kind Kind, spec kindSpec, w *window, threshold float64) (*outcome, *Error) {
	matched := matchReadings(w.readings, w.locations)
	if len(matched) == 0 {
		return nil, newError(ErrNoData, "")
	}
	lines := []string{fmt.Sprintf("阈值：%s", formatNumber(threshold, 1))}

	switch kind {
	case KindTempFirstReachUpperTime, KindTempFirstReachLowerTime:
		for _, r := range matched {
			if satisfies(r.Temperature, threshold, spec.upper) {
				lines = append(lines, fmt.Sprintf("首次达到测点：%s（%s℃）", r.DeviceID, formatNumber(r.Temperature, 1)))
				return &outcome{str: r.Timestamp.Format(minuteLayout), lines: lines}, nil
			}
		}
		return nil, newError(ErrNoMatch, "")

	case KindTempExceedUpper, KindTempExceedLower, KindHumidityExceedUpper, KindHumidityExceedLower:
		seen := make(map[string]bool)
		var devs []string
		for _, r := range matched {
			if seen[r.DeviceID] {
				continue
			}
			if satisfies(readingValue(r, spec.humidity), threshold, spec.upper) {
				seen[r.DeviceID] = true
				devs = append(devs, r.DeviceID)
			}
		}
		if len(devs) == 0 {
			return nil, newError(ErrNoMatch, "")
		}
		lines = append(lines, fmt.Sprintf("超出测点数：%d", len(devs)))
		return &outcome{str: joinLocations(devs), lines: lines}, nil

	default: // reach: first qualifying timestamp per device, earliest wins
		first := make(map[string]models.Reading)
		var order []string
		for _, r := range matched {
			if _, ok := first[r.DeviceID]; ok {
				continue
			}
			if satisfies(readingValue(r, spec.humidity), threshold, spec.upper) {
				first[r.DeviceID] = r
				order = append(order, r.DeviceID)
			}
		}
		if len(first) == 0 {
			return nil, newError(ErrNoMatch, "")
		}
		earliest := first[order[0]].Timestamp
		for _, dev := range order[1:] {
			if first[dev].Timestamp.Before(earliest) {
				earliest = first[dev].Timestamp
			}
		}
		var devs []string
		for _, dev := range order {
			r := first[dev]
			lines = append(lines, fmt.Sprintf("%s 首次达到时间：%s", dev, r.Timestamp.Format(minuteLayout)))
			if r.Timestamp.Equal(earliest) {
				devs = append(devs, dev)
			}
		}
		lines = append(lines, fmt.Sprintf("最早达到时间：%s", earliest.Format(minuteLayout)))
		return &outcome{str: joinLocations(devs), lines: lines}, nil
	}
}

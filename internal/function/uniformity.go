package function

import (
	"fmt"
	"math"
	"sort"
)

// minuteRecord is one minute-truncated bucket of matched temperatures.
type minuteRecord struct {
	key  string
	max  float64
	min  float64
	avg  float64
	diff float64
}

// bucketByMinute groups matched temperatures into ascending minute buckets.
func bucketByMinute(w *window) []minuteRecord {
	matched := matchReadings(w.readings, w.locations)
	byKey := make(map[string][]float64)
	for _, r := range matched {
		key := r.Timestamp.Format(minuteLayout)
		byKey[key] = append(byKey[key], r.Temperature)
	}
	keys := make([]string, 0, len(byKey))
	for k := range byKey {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	records := make([]minuteRecord, 0, len(keys))
	for _, k := range keys {
		vals := byKey[k]
		rec := minuteRecord{key: k, max: vals[0], min: vals[0]}
		var sum float64
		for _, v := range vals {
			if v > rec.max {
				rec.max = v
			}
			if v < rec.min {
				rec.min = v
			}
			sum += v
		}
		rec.avg = sum / float64(len(vals))
		rec.diff = rec.max - rec.min
		records = append(records, rec)
	}
	return records
}

func runUniformity(kind Kind, w *window) (*outcome, *Error) {
	matched := matchReadings(w.readings, w.locations)
	if len(matched) == 0 {
		return nil, newError(ErrNoData, "")
	}

	switch kind {
	case KindMaxTempDiffAtSameTime, KindMaxTempDiffTimePoint:
		records := bucketByMinute(w)
		best := records[0]
		for _, rec := range records[1:] {
			// strict > keeps the first bucket on ties
			if rec.diff > best.diff {
				best = rec
			}
		}
		lines := []string{fmt.Sprintf("最大温差时刻：%s（%s℃）", best.key, formatNumber(best.diff, 1))}
		if kind == KindMaxTempDiffTimePoint {
			return &outcome{str: best.key, lines: lines}, nil
		}
		diff := best.diff
		return &outcome{num: &diff, lines: lines}, nil

	case KindTempUniformity, KindTempVariationRangeSum:
		byDev := perDeviceValues(matched, false)
		var sum float64
		var lines []string
		for _, dev := range sortedDevices(byDev) {
			vals := byDev[dev]
			lo, hi := vals[0], vals[0]
			for _, v := range vals {
				if v > hi {
					hi = v
				}
				if v < lo {
					lo = v
				}
			}
			sum += hi - lo
			lines = append(lines, fmt.Sprintf("%s 温度极差：%s℃", dev, formatNumber(hi-lo, 1)))
		}
		lines = previewLines(lines)
		if kind == KindTempVariationRangeSum {
			lines = append(lines, fmt.Sprintf("极差总和：%s", formatNumber(sum, 1)))
			return &outcome{num: &sum, lines: lines}, nil
		}
		minutes := int(w.end.Sub(w.start).Minutes())
		if minutes <= 0 {
			return nil, newError(ErrInvalidInterval, "时间区间不足一分钟")
		}
		result := math.Abs(sum / float64(minutes))
		lines = append(lines, fmt.Sprintf("极差总和：%s，区间分钟数：%d", formatNumber(sum, 1), minutes))
		return &outcome{num: &result, lines: lines}, nil

	case KindTempFluctuation:
		lo, hi := matched[0].Temperature, matched[0].Temperature
		for _, r := range matched {
			if r.Temperature > hi {
				hi = r.Temperature
			}
			if r.Temperature < lo {
				lo = r.Temperature
			}
		}
		result := (hi - lo) / 2
		lines := []string{fmt.Sprintf("最高温度：%s℃，最低温度：%s℃", formatNumber(hi, 1), formatNumber(lo, 1))}
		return &outcome{num: &result, signed: true, lines: lines}, nil

	case KindTempUniformityAverage:
		records := bucketByMinute(w)
		var sum float64
		var lines []string
		for _, rec := range records {
			sum += rec.diff
			lines = append(lines, fmt.Sprintf("%s 温差：%s℃", rec.key, formatNumber(rec.diff, 1)))
		}
		lines = previewLines(lines)
		result := sum / float64(len(records))
		lines = append(lines, fmt.Sprintf("分钟分组数：%d", len(records)))
		return &outcome{num: &result, lines: lines}, nil

	default: // tempUniformityMax / Min / Value: half-pairing over sorted buckets
		records := bucketByMinute(w)
		n := len(records)
		var maxNum, minNum float64
		for y := 0; y < (n+1)/2; y++ {
			y2 := n/2 + y + n%2
			maxNum += records[y].max
			minNum += records[y].min
			if y2 < n {
				maxNum += records[y2].max
				minNum += records[y2].min
			}
		}
		lines := []string{
			fmt.Sprintf("分钟分组数：%d", n),
			fmt.Sprintf("高温合计：%s，低温合计：%s", formatNumber(maxNum, 1), formatNumber(minNum, 1)),
		}
		switch kind {
		case KindTempUniformityMax:
			return &outcome{num: &maxNum, lines: lines}, nil
		case KindTempUniformityMin:
			return &outcome{num: &minNum, lines: lines}, nil
		default:
			result := math.Abs((maxNum - minNum) / float64(n))
			return &outcome{num: &result, lines: lines}, nil
		}
	}
}

package function

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"report-function-service/internal/models"
)

// runCenterDeviation computes abs(center value - mean matched temperature).
// The center-point tag must resolve to exactly one numeric token.
func runCenterDeviation(cfg *models.FunctionConfig, roster Roster, w *window) (*outcome, *Error) {
	tag, ok := roster[cfg.CenterTagID]
	if !ok {
		return nil, newError(ErrTagNotFound, cfg.CenterTagID)
	}
	raw := ""
	if s, ok := tag.Value.(string); ok {
		raw = s
	} else if tag.Value != nil {
		raw = fmt.Sprint(tag.Value)
	}
	tokens := strings.FieldsFunc(raw, isLocationDelimiter)
	trimmed := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if t = strings.TrimSpace(t); t != "" {
			trimmed = append(trimmed, t)
		}
	}
	if len(trimmed) > 1 {
		return nil, newError(ErrMultipleValues, tag.Name)
	}
	if len(trimmed) == 0 {
		return nil, newError(ErrInvalidValue, tag.Name)
	}
	center, err := strconv.ParseFloat(trimmed[0], 64)
	if err != nil {
		return nil, newError(ErrInvalidValue, tag.Name)
	}
	matched := matchReadings(w.readings, w.locations)
	if len(matched) == 0 {
		return nil, newError(ErrNoData, "")
	}
	var sum float64
	for _, r := range matched {
		sum += r.Temperature
	}
	avg := sum / float64(len(matched))
	result := math.Abs(center - avg)
	lines := []string{fmt.Sprintf("中心点温度：%s℃，区间平均温度：%s℃", formatNumber(center, 1), formatNumber(avg, 1))}
	return &outcome{num: &result, lines: lines}, nil
}

// resolveLimit resolves a max/min temperature bound from a tag, a config
// literal, or the defaults table, in that order.
func resolveLimit(tagID string, literal *float64, fallback float64, roster Roster) (float64, *Error) {
	if tagID != "" {
		return numericTagValue(tagID, roster)
	}
	if literal != nil {
		return *literal, nil
	}
	return fallback, nil
}

// runAvgDeviation computes (maxTemp - minTemp) - mean(per-device means).
func runAvgDeviation(cfg *models.FunctionConfig, roster Roster, defaults Defaults, w *window) (*outcome, *Error) {
	maxTemp, err := resolveLimit(cfg.MaxTempTagID, cfg.MaxTemp, defaults.MaxTemp, roster)
	if err != nil {
		return nil, err
	}
	minTemp, err := resolveLimit(cfg.MinTempTagID, cfg.MinTemp, defaults.MinTemp, roster)
	if err != nil {
		return nil, err
	}
	matched := matchReadings(w.readings, w.locations)
	if len(matched) == 0 {
		return nil, newError(ErrNoData, "")
	}
	byDev := perDeviceValues(matched, false)
	var lines []string
	var sum float64
	devs := sortedDevices(byDev)
	for _, dev := range devs {
		m := mean(byDev[dev])
		sum += m
		lines = append(lines, fmt.Sprintf("%s 平均温度：%s℃", dev, formatNumber(m, 1)))
	}
	lines = previewLines(lines)
	avgOfMeans := sum / float64(len(devs))
	result := (maxTemp - minTemp) - avgOfMeans
	lines = append(lines, fmt.Sprintf("温度上限：%s，温度下限：%s，测点均值：%s", formatNumber(maxTemp, 1), formatNumber(minTemp, 1), formatNumber(avgOfMeans, 1)))
	return &outcome{num: &result, lines: lines}, nil
}

// runPower covers powerConsumptionRate and maxPowerUsageDuration. Both skip
// the data store entirely; they derive from charge tags and the interval.
func runPower(kind Kind, cfg *models.FunctionConfig, roster Roster) (*outcome, *Error) {
	start, end, werr := resolveInterval(cfg, roster)
	if werr != nil {
		return nil, werr
	}
	startCharge, err := numericTagValue(cfg.StartPowerTagID, roster)
	if err != nil {
		return nil, err
	}
	endCharge, err := numericTagValue(cfg.EndPowerTagID, roster)
	if err != nil {
		return nil, err
	}
	minutes := end.Sub(start).Minutes()
	if minutes <= 0 {
		return nil, newError(ErrInvalidInterval, "时长必须大于零")
	}
	hours := minutes / 60
	lines := []string{
		fmt.Sprintf("时间区间：%s ~ %s", start.Format(secondLayout), end.Format(secondLayout)),
		fmt.Sprintf("起始电量：%s%%，结束电量：%s%%，时长：%s小时", formatNumber(startCharge, 1), formatNumber(endCharge, 1), formatNumber(hours, 2)),
	}
	if kind == KindPowerConsumptionRate {
		result := (startCharge - endCharge) / hours
		return &outcome{num: &result, lines: lines}, nil
	}
	power := (startCharge - endCharge) / hours
	if power == 0 || math.IsNaN(power) || math.IsInf(power, 0) {
		return nil, newError(ErrInvalidComputation, "每小时耗电量为零")
	}
	// runtime on a 90%-capacity budget
	result := 90 / power
	lines = append(lines, fmt.Sprintf("每小时耗电量：%s%%", formatNumber(power, 2)))
	return &outcome{num: &result, lines: lines}, nil
}

// runDeviceTimePoint averages one device's temperature over the minute that
// contains the referenced time point.
func runDeviceTimePoint(ctx context.Context, src ReadingSource, taskID string, cfg *models.FunctionConfig, roster Roster) (*outcome, *Error) {
	locations := DistinctLocations(cfg.LocationTagIDs, roster)
	if len(locations) == 0 {
		return nil, newError(ErrMissingInput, string(RoleLocations))
	}
	if len(locations) > 1 {
		return nil, newError(ErrMultipleValues, joinLocations(locations))
	}
	tag, ok := roster[cfg.TimeTagID]
	if !ok {
		return nil, newError(ErrTagNotFound, cfg.TimeTagID)
	}
	at, _, okParse := ParseTagDate(tag)
	if !okParse {
		return nil, newError(ErrInvalidValue, tag.Name)
	}
	minuteStart := at.Truncate(time.Minute)
	minuteEnd := minuteStart.Add(time.Minute - time.Millisecond)
	readings, err := src.QueryReadings(ctx, taskID, minuteStart, minuteEnd, locations)
	if err != nil {
		return nil, newError(ErrNoData, fmt.Sprintf("数据查询失败：%v", err))
	}
	if len(readings) == 0 {
		return nil, newError(ErrNoData, "")
	}
	var sum float64
	for _, r := range readings {
		sum += r.Temperature
	}
	result := sum / float64(len(readings))
	lines := []string{
		renderQueryInfo(locations, minuteStart, minuteEnd, len(readings)),
	}
	return &outcome{num: &result, lines: lines}, nil
}

// minuteMean fetches one 1-minute window and returns the mean of per-device
// mean temperatures, rounded to 1 decimal.
func minuteMean(ctx context.Context, src ReadingSource, taskID string, minuteStart time.Time, locations []string) (float64, int, *Error) {
	minuteEnd := minuteStart.Add(time.Minute - time.Millisecond)
	readings, err := src.QueryReadings(ctx, taskID, minuteStart, minuteEnd, locations)
	if err != nil {
		return 0, 0, newError(ErrNoData, fmt.Sprintf("数据查询失败：%v", err))
	}
	if len(readings) == 0 {
		return 0, 0, newError(ErrNoData, minuteStart.Format(minuteLayout))
	}
	byDev := perDeviceValues(readings, false)
	var sum float64
	for _, dev := range sortedDevices(byDev) {
		sum += mean(byDev[dev])
	}
	return roundTo(sum/float64(len(byDev)), 1), len(readings), nil
}

// runCoolingRate computes abs(meanA - meanB) / minutes between the minute
// windows anchored at the start and end time points.
func runCoolingRate(ctx context.Context, src ReadingSource, taskID string, cfg *models.FunctionConfig, roster Roster) (*outcome, *Error) {
	start, end, werr := resolveInterval(cfg, roster)
	if werr != nil {
		return nil, werr
	}
	locations := DistinctLocations(cfg.LocationTagIDs, roster)
	startMinute := start.Truncate(time.Minute)
	endMinute := end.Truncate(time.Minute)
	minutes := int(endMinute.Sub(startMinute).Minutes())
	if minutes <= 0 {
		return nil, newError(ErrInvalidInterval, "时长必须大于零")
	}
	meanA, hitsA, err := minuteMean(ctx, src, taskID, startMinute, locations)
	if err != nil {
		return nil, err
	}
	meanB, hitsB, err := minuteMean(ctx, src, taskID, endMinute, locations)
	if err != nil {
		return nil, err
	}
	result := math.Abs(meanA-meanB) / float64(minutes)
	lines := []string{
		fmt.Sprintf("测点：%s", joinLocations(locations)),
		fmt.Sprintf("起始分钟均温：%s℃（%d条），结束分钟均温：%s℃（%d条）", formatNumber(meanA, 1), hitsA, formatNumber(meanB, 1), hitsB),
		fmt.Sprintf("时长：%d分钟", minutes),
	}
	return &outcome{num: &result, lines: lines}, nil
}

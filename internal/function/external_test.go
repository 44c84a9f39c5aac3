package function

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"report-function-service/internal/models"
)

func powerRoster(startCharge, endCharge string) Roster {
	roster := testRoster("A", "2024-01-15 08:00", "2024-01-15 10:00")
	roster["PS"] = &models.Tag{ID: "PS", Name: "起始电量", Type: models.TagNumber, Value: startCharge}
	roster["PE"] = &models.Tag{ID: "PE", Name: "结束电量", Type: models.TagNumber, Value: endCharge}
	return roster
}

func powerConfig(kind Kind) *models.FunctionConfig {
	cfg := testConfig(kind)
	cfg.LocationTagIDs = nil
	cfg.StartPowerTagID = "PS"
	cfg.EndPowerTagID = "PE"
	return cfg
}

func TestPowerConsumptionRate(t *testing.T) {
	e := newTestEvaluator()
	result := e.Evaluate(context.Background(), testTask, powerConfig(KindPowerConsumptionRate), powerRoster("90", "60"))
	require.Equal(t, models.StatusSuccess, result.Status)
	// (90 - 60) / 2h
	assert.Equal(t, 15.0, result.Value)
	assert.Equal(t, "计算完成：15.00", result.Message)
}

func TestMaxPowerUsageDuration(t *testing.T) {
	e := newTestEvaluator()
	result := e.Evaluate(context.Background(), testTask, powerConfig(KindMaxPowerUsageDuration), powerRoster("90", "60"))
	require.Equal(t, models.StatusSuccess, result.Status)
	// 15%/h consumption, 90% budget -> 6 hours
	assert.Equal(t, 6.0, result.Value)
}

func TestMaxPowerUsageDurationZeroConsumption(t *testing.T) {
	e := newTestEvaluator()
	result := e.Evaluate(context.Background(), testTask, powerConfig(KindMaxPowerUsageDuration), powerRoster("60", "60"))
	require.Equal(t, models.StatusError, result.Status)
	assert.Contains(t, result.Message, "计算结果无效")
}

func TestPowerZeroDuration(t *testing.T) {
	roster := powerRoster("90", "60")
	roster["E"].Value = "2024-01-15 08:00"
	e := newTestEvaluator()
	result := e.Evaluate(context.Background(), testTask, powerConfig(KindPowerConsumptionRate), roster)
	require.Equal(t, models.StatusError, result.Status)
	assert.Contains(t, result.Message, "时间区间无效")
}

func TestPowerMissingChargeTag(t *testing.T) {
	cfg := powerConfig(KindPowerConsumptionRate)
	cfg.EndPowerTagID = ""
	e := newTestEvaluator()
	result := e.Evaluate(context.Background(), testTask, cfg, powerRoster("90", "60"))
	require.Equal(t, models.StatusError, result.Status)
	assert.Contains(t, result.Message, "缺少必要配置项")
	assert.Contains(t, result.Message, "电量标签")
}

func TestCenterPointTempDeviation(t *testing.T) {
	e := newTestEvaluator(
		reading("A", "2024-01-15 09:00:00", 2.0, 50),
		reading("B", "2024-01-15 09:00:00", 6.0, 50),
	)
	roster := testRoster("A|B", "2024-01-15", "2024-01-15")
	roster["C"] = &models.Tag{ID: "C", Name: "中心点", Type: models.TagText, Value: "5"}
	cfg := testConfig(KindCenterPointTempDeviation)
	cfg.CenterTagID = "C"
	result := e.Evaluate(context.Background(), testTask, cfg, roster)
	require.Equal(t, models.StatusSuccess, result.Status)
	// abs(5 - mean(2,6)) = 1.0
	assert.Equal(t, 1.0, result.Value)
}

func TestCenterPointRejectsMultipleValues(t *testing.T) {
	e := newTestEvaluator(reading("A", "2024-01-15 09:00:00", 2.0, 50))
	roster := testRoster("A", "2024-01-15", "2024-01-15")
	roster["C"] = &models.Tag{ID: "C", Name: "中心点", Type: models.TagText, Value: "5|6"}
	cfg := testConfig(KindCenterPointTempDeviation)
	cfg.CenterTagID = "C"
	result := e.Evaluate(context.Background(), testTask, cfg, roster)
	require.Equal(t, models.StatusError, result.Status)
	assert.Contains(t, result.Message, "该项仅允许单个取值")
}

func TestTempAvgDeviationDefaults(t *testing.T) {
	e := newTestEvaluator(
		reading("A", "2024-01-15 09:00:00", 2.0, 50),
		reading("A", "2024-01-15 09:01:00", 4.0, 50),
		reading("B", "2024-01-15 09:00:00", 5.0, 50),
	)
	roster := testRoster("A|B", "2024-01-15", "2024-01-15")
	result := e.Evaluate(context.Background(), testTask, testConfig(KindTempAvgDeviation), roster)
	require.Equal(t, models.StatusSuccess, result.Status)
	// (8 - 2) - mean(3, 5) = 2.0
	assert.Equal(t, 2.0, result.Value)
}

func TestTempAvgDeviationLiterals(t *testing.T) {
	e := newTestEvaluator(reading("A", "2024-01-15 09:00:00", 2.0, 50))
	roster := testRoster("A", "2024-01-15", "2024-01-15")
	cfg := testConfig(KindTempAvgDeviation)
	maxTemp, minTemp := 10.0, 4.0
	cfg.MaxTemp = &maxTemp
	cfg.MinTemp = &minTemp
	result := e.Evaluate(context.Background(), testTask, cfg, roster)
	require.Equal(t, models.StatusSuccess, result.Status)
	// (10 - 4) - 2 = 4.0
	assert.Equal(t, 4.0, result.Value)
}

func TestDeviceTimePointTemp(t *testing.T) {
	e := newTestEvaluator(
		reading("A", "2024-01-15 09:00:10", 2.0, 50),
		reading("A", "2024-01-15 09:00:40", 3.0, 50),
		reading("A", "2024-01-15 09:01:00", 9.0, 50),
	)
	roster := testRoster("A", "2024-01-15", "2024-01-15")
	roster["TP"] = &models.Tag{ID: "TP", Name: "时间点", Type: models.TagDatetime, Value: "2024-01-15 09:00:30"}
	cfg := testConfig(KindDeviceTimePointTemp)
	cfg.TimeTagID = "TP"
	result := e.Evaluate(context.Background(), testTask, cfg, roster)
	require.Equal(t, models.StatusSuccess, result.Status)
	// readings inside [09:00, 09:01): 2.0 and 3.0
	assert.Equal(t, 2.5, result.Value)
}

func TestDeviceTimePointTempRejectsMultipleDevices(t *testing.T) {
	e := newTestEvaluator(reading("A", "2024-01-15 09:00:00", 2.0, 50))
	roster := testRoster("A|B", "2024-01-15", "2024-01-15")
	roster["TP"] = &models.Tag{ID: "TP", Name: "时间点", Type: models.TagDatetime, Value: "2024-01-15 09:00"}
	cfg := testConfig(KindDeviceTimePointTemp)
	cfg.TimeTagID = "TP"
	result := e.Evaluate(context.Background(), testTask, cfg, roster)
	require.Equal(t, models.StatusError, result.Status)
	assert.Contains(t, result.Message, "该项仅允许单个取值")
}

func TestAvgCoolingRate(t *testing.T) {
	e := newTestEvaluator(
		reading("A", "2024-01-15 09:00:00", 10.0, 50),
		reading("B", "2024-01-15 09:00:30", 20.0, 50),
		reading("A", "2024-01-15 09:30:00", 5.0, 50),
		reading("B", "2024-01-15 09:30:30", 7.0, 50),
	)
	roster := testRoster("A|B", "2024-01-15 09:00", "2024-01-15 09:30")
	result := e.Evaluate(context.Background(), testTask, testConfig(KindAvgCoolingRate), roster)
	require.Equal(t, models.StatusSuccess, result.Status)
	// meanA 15.0, meanB 6.0, 30 minutes -> 0.300
	assert.Equal(t, 0.3, result.Value)
	assert.Equal(t, "计算完成：0.300", result.Message)
}

func TestAvgCoolingRateEmptyWindowFails(t *testing.T) {
	e := newTestEvaluator(reading("A", "2024-01-15 09:00:00", 10.0, 50))
	roster := testRoster("A", "2024-01-15 09:00", "2024-01-15 09:30")
	result := e.Evaluate(context.Background(), testTask, testConfig(KindAvgCoolingRate), roster)
	require.Equal(t, models.StatusError, result.Status)
	assert.Contains(t, result.Message, "查询区间内无数据")
}

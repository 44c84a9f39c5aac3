package function

import (
	"math"
	"strconv"
	"strings"

	"report-function-service/internal/models"
)

// outcome is one family's unrounded computation result. num carries numeric
// results; str carries location-set or timestamp results. signed marks
// values rendered with a ± prefix in the message.
type outcome struct {
	num    *float64
	str    string
	signed bool
	lines  []string
}

const previewMax = 10

// previewLines caps a per-device or per-bucket breakdown at ten lines.
func previewLines(lines []string) []string {
	if len(lines) <= previewMax {
		return lines
	}
	return lines[:previewMax]
}

func joinLocations(devs []string) string {
	return strings.Join(devs, " | ")
}

// roundTo rounds half away from zero. Non-finite values pass through
// unchanged rather than being rounded.
func roundTo(v float64, decimals int) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

func formatNumber(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return strconv.FormatFloat(roundTo(v, decimals), 'f', decimals, 64)
}

var errorMessages = map[ErrorCode]string{
	ErrMissingInput:       "缺少必要配置项",
	ErrTagNotFound:        "指定的标签不存在",
	ErrInvalidValue:       "标签值无法解析",
	ErrMultipleValues:     "该项仅允许单个取值",
	ErrInvalidInterval:    "时间区间无效",
	ErrNoData:             "查询区间内无数据",
	ErrNoMatch:            "无满足条件的数据",
	ErrInvalidComputation: "计算结果无效",
	ErrUnknownFunction:    "未知的函数类型",
}

// errorResult renders a failure into the result envelope. queryInfo, when
// present, still heads the diagnostic log so the operator sees what was
// queried before it failed.
func errorResult(err *Error, queryInfo string) models.FunctionResult {
	msg := errorMessages[err.Code]
	if msg == "" {
		msg = string(err.Code)
	}
	if err.Detail != "" {
		msg = msg + "：" + err.Detail
	}
	detail := queryInfo
	return models.FunctionResult{Status: models.StatusError, Message: msg, Detail: detail}
}

// successResult applies the kind's canonical rounding and renders the
// message plus the diagnostic log.
func successResult(decimals int, out *outcome, queryInfo string) models.FunctionResult {
	var value any
	var rendered string
	if out.num != nil {
		value = roundTo(*out.num, decimals)
		rendered = formatNumber(*out.num, decimals)
		if out.signed {
			rendered = "±" + rendered
		}
	} else {
		value = out.str
		rendered = out.str
	}
	var parts []string
	if queryInfo != "" {
		parts = append(parts, queryInfo)
	}
	parts = append(parts, out.lines...)
	return models.FunctionResult{
		Status:  models.StatusSuccess,
		Message: "计算完成：" + rendered,
		Value:   value,
		Detail:  strings.Join(parts, "\n"),
	}
}

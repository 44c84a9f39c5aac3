package function

import (
	"context"
	"fmt"
	"strings"
	"time"

	"report-function-service/internal/models"
)

// ReadingSource is the external data-store query contract. Timestamps are
// naive local civil time; both endpoints are inclusive. An empty location
// list means no device filter.
type ReadingSource interface {
	QueryReadings(ctx context.Context, taskID string, start, end time.Time, locations []string) ([]models.Reading, error)
}

// window is one resolved query interval plus the readings it matched.
type window struct {
	start     time.Time
	end       time.Time
	locations []string
	readings  []models.Reading
	queryInfo string
}

// resolveInterval parses the start/end tags and expands date-only endpoints
// to full-day bounds so same-day data is not lost to midnight rounding.
func resolveInterval(cfg *models.FunctionConfig, roster Roster) (start, end time.Time, err *Error) {
	startTag, ok := roster[cfg.StartTagID]
	if !ok {
		return start, end, newError(ErrTagNotFound, cfg.StartTagID)
	}
	endTag, ok := roster[cfg.EndTagID]
	if !ok {
		return start, end, newError(ErrTagNotFound, cfg.EndTagID)
	}
	start, startDateOnly, ok := ParseTagDate(startTag)
	if !ok {
		return start, end, newError(ErrInvalidInterval, startTag.Name)
	}
	end, endDateOnly, ok := ParseTagDate(endTag)
	if !ok {
		return start, end, newError(ErrInvalidInterval, endTag.Name)
	}
	if startDateOnly {
		start = time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.Local)
	}
	if endDateOnly {
		end = time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 999e6, time.Local)
	}
	if start.After(end) {
		return start, end, newError(ErrInvalidInterval, fmt.Sprintf("%s > %s", start.Format(secondLayout), end.Format(secondLayout)))
	}
	return start, end, nil
}

// resolveWindow resolves the query interval and location set, fetches the
// matching readings, and renders the shared query diagnostic block.
func resolveWindow(ctx context.Context, src ReadingSource, taskID string, cfg *models.FunctionConfig, roster Roster) (*window, *Error) {
	start, end, werr := resolveInterval(cfg, roster)
	if werr != nil {
		return nil, werr
	}
	locations := DistinctLocations(cfg.LocationTagIDs, roster)
	readings, err := src.QueryReadings(ctx, taskID, start, end, locations)
	if err != nil {
		return nil, newError(ErrNoData, fmt.Sprintf("数据查询失败：%v", err))
	}
	w := &window{
		start:     start,
		end:       end,
		locations: locations,
		readings:  readings,
		queryInfo: renderQueryInfo(locations, start, end, len(readings)),
	}
	if len(readings) == 0 {
		return w, newError(ErrNoData, "")
	}
	return w, nil
}

func renderQueryInfo(locations []string, start, end time.Time, hits int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "测点：%s\n", strings.Join(locations, " | "))
	fmt.Fprintf(&b, "时间区间：%s ~ %s\n", start.Format(secondLayout), end.Format(secondLayout))
	fmt.Fprintf(&b, "数据条数：%d", hits)
	return b.String()
}

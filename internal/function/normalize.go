package function

import (
	"strconv"
	"strings"
	"time"

	"report-function-service/internal/models"
)

// Roster is the flat tag collection the engine reads inputs from. It is
// treated as a read-only snapshot for the duration of one evaluation; only
// the tag being evaluated is ever written.
type Roster map[string]*models.Tag

// NewRoster indexes a tag slice by id.
func NewRoster(tags []models.Tag) Roster {
	r := make(Roster, len(tags))
	for i := range tags {
		r[tags[i].ID] = &tags[i]
	}
	return r
}

const (
	minuteLayout = "2006-01-02 15:04"
	secondLayout = "2006-01-02 15:04:05"
	dateLayout   = "2006-01-02"
)

var datetimeLayouts = []string{
	"2006-01-02T15:04:05.999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ParseTagDate resolves a tag's value to a local civil time. Numeric values
// are epoch milliseconds (the editor frontend serializes JS timestamps);
// YYYY-MM-DD strings are flagged date-only and resolve to local midnight;
// other strings are parsed as local datetimes with a space or T separator.
// ok is false for empty or unparseable values.
func ParseTagDate(tag *models.Tag) (t time.Time, dateOnly bool, ok bool) {
	if tag == nil || tag.Value == nil {
		return time.Time{}, false, false
	}
	switch v := tag.Value.(type) {
	case float64:
		return time.UnixMilli(int64(v)).In(time.Local), false, true
	case int64:
		return time.UnixMilli(v).In(time.Local), false, true
	case int:
		return time.UnixMilli(int64(v)).In(time.Local), false, true
	case string:
		return parseDateString(v)
	default:
		return time.Time{}, false, false
	}
}

func parseDateString(raw string) (time.Time, bool, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return time.Time{}, false, false
	}
	if isDigits(s) {
		ms, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return time.Time{}, false, false
		}
		return time.UnixMilli(ms).In(time.Local), false, true
	}
	if t, err := time.ParseInLocation(dateLayout, s, time.Local); err == nil {
		return t, true, true
	}
	// Normalize the space separator so both "2024-01-15 08:30" and
	// "2024-01-15T08:30" parse.
	s = strings.Replace(s, " ", "T", 1)
	for _, layout := range datetimeLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, false, true
		}
	}
	return time.Time{}, false, false
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return len(s) > 0
}

func isLocationDelimiter(r rune) bool {
	return r == '|' || r == ',' || r == '，'
}

// ToLocationSet normalizes a location-tag value into a de-duplicated device
// id list preserving first-seen order. Accepts a native list or a string
// delimited by "|", ASCII comma, or full-width comma.
func ToLocationSet(raw any) []string {
	var parts []string
	switch v := raw.(type) {
	case nil:
		return nil
	case []string:
		parts = v
	case []any:
		for _, item := range v {
			if s, ok := item.(string); ok {
				parts = append(parts, s)
			}
		}
	case string:
		parts = strings.FieldsFunc(v, isLocationDelimiter)
	default:
		return nil
	}
	seen := make(map[string]bool, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" || seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// DistinctLocations unions the location sets of the referenced location-type
// tags. Missing or wrong-typed tags are skipped.
func DistinctLocations(tagIDs []string, roster Roster) []string {
	seen := make(map[string]bool)
	var out []string
	for _, id := range tagIDs {
		tag, ok := roster[id]
		if !ok || tag.Type != models.TagLocation {
			continue
		}
		for _, loc := range ToLocationSet(tag.Value) {
			if !seen[loc] {
				seen[loc] = true
				out = append(out, loc)
			}
		}
	}
	return out
}

// numericTagValue parses a referenced tag's value as a float.
func numericTagValue(id string, roster Roster) (float64, *Error) {
	tag, ok := roster[id]
	if !ok {
		return 0, newError(ErrTagNotFound, id)
	}
	switch v := tag.Value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return 0, newError(ErrInvalidValue, tag.Name)
		}
		return f, nil
	default:
		return 0, newError(ErrInvalidValue, tag.Name)
	}
}

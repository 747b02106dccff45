package collections

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
)

var ErrInvalidDate = errors.New("invalid date")

// Layouts without a zone are read as UTC.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05 -07:00",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006-1-2",
}

var dateFields = map[Name][]string{
	CollectionBlogPosts: {"pubDate", "lastMaintained"},
}

// CoerceDate converts an authored date into a UTC time. Strings are read as
// ISO-8601 dates or date-times (a space may replace the "T"), numbers as
// milliseconds since the Unix epoch. Values of other types are rejected.
func CoerceDate(value any) (time.Time, error) {
	switch typed := value.(type) {
	case time.Time:
		return typed.UTC(), nil
	case string:
		text := strings.TrimSpace(typed)
		if text == "" {
			return time.Time{}, fmt.Errorf("%w: empty string", ErrInvalidDate)
		}
		for _, layout := range dateLayouts {
			if parsed, err := time.ParseInLocation(layout, text, time.UTC); err == nil {
				return parsed.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, typed)
	case float64:
		if math.IsNaN(typed) || math.IsInf(typed, 0) {
			return time.Time{}, fmt.Errorf("%w: %v", ErrInvalidDate, typed)
		}
		return time.UnixMilli(int64(math.Round(typed))).UTC(), nil
	case int64:
		return time.UnixMilli(typed).UTC(), nil
	case int:
		return time.UnixMilli(int64(typed)).UTC(), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidDate, value)
	}
}

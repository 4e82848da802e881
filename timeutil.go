package echolab

import (
	"fmt"
	"strings"
	"time"

	"github.com/lestrrat-go/strftime"
)

// NaT is the "not-a-time" sentinel used throughout the per-ping timestamp
// vectors, mirroring the float NaN sentinel used for sample data. Millisecond
// UTC timestamps are int64; math.MinInt64 is reserved rather than used as a
// legitimate epoch offset.
const NaT int64 = -1 << 63

// DefaultTimeFormat is the strftime-style layout used when no
// time_format_string is supplied, matching §6 of the specification.
const DefaultTimeFormat = "%Y-%m-%d %H:%M:%S"

// FormatMillis renders a millisecond UTC timestamp using a caller supplied
// strftime-style layout, via lestrrat-go/strftime. Used for log-friendly
// filenames and diagnostics; the engine's internal representation always
// stays millisecond UTC integers.
func FormatMillis(ms int64, layout string) (string, error) {
	if layout == "" {
		layout = DefaultTimeFormat
	}

	f, err := strftime.New(layout)
	if err != nil {
		return "", fmt.Errorf("invalid strftime layout %q: %w", layout, err)
	}

	return f.FormatString(MillisToTime(ms)), nil
}

// MillisToTime converts a millisecond UTC timestamp to a time.Time in UTC.
func MillisToTime(ms int64) time.Time {
	if ms == NaT {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}

// TimeToMillis converts a time.Time to a millisecond UTC timestamp. Go's
// time.Time always carries a location, so the "localize naive values to
// UTC" requirement in §6 (written for languages with a tz-naive datetime
// type) has no direct analog here; UnixMilli is location-independent, so
// this is a pure unit conversion.
func TimeToMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// ParseTimeInput resolves the three accepted forms of a user-facing time
// bound (§6): a string parsed against layout (strftime-style, default
// DefaultTimeFormat, interpreted as UTC), a time.Time (localized to UTC if
// its Location is unset), or an int64 millisecond timestamp. v must be one
// of string, time.Time or int64.
func ParseTimeInput(v any, layout string) (int64, error) {
	switch val := v.(type) {
	case int64:
		return val, nil
	case time.Time:
		return TimeToMillis(val), nil
	case string:
		if layout == "" {
			layout = DefaultTimeFormat
		}
		goLayout, err := strftimeToGoLayout(layout)
		if err != nil {
			return 0, err
		}
		t, err := time.ParseInLocation(goLayout, val, time.UTC)
		if err != nil {
			return 0, fmt.Errorf("parsing time %q with layout %q: %w", val, layout, err)
		}
		return TimeToMillis(t), nil
	default:
		return 0, fmt.Errorf("unsupported time input type %T", v)
	}
}

// strftimeToGoLayout translates the subset of strftime directives used by
// instrument timestamp formats into a Go reference-time layout string.
// lestrrat-go/strftime is a formatter, not a parser, so this is a small
// directive-by-directive translator rather than a call into that package;
// it draws on the same directive table strftime.New consumes.
func strftimeToGoLayout(layout string) (string, error) {
	var b strings.Builder

	for i := 0; i < len(layout); i++ {
		c := layout[i]
		if c != '%' || i == len(layout)-1 {
			b.WriteByte(c)
			continue
		}
		i++
		switch layout[i] {
		case 'Y':
			b.WriteString("2006")
		case 'y':
			b.WriteString("06")
		case 'm':
			b.WriteString("01")
		case 'd':
			b.WriteString("02")
		case 'H':
			b.WriteString("15")
		case 'M':
			b.WriteString("04")
		case 'S':
			b.WriteString("05")
		case 'f':
			b.WriteString("000000")
		case 'j':
			b.WriteString("002")
		case 'Z':
			b.WriteString("MST")
		case 'z':
			b.WriteString("-0700")
		case 'p':
			b.WriteString("PM")
		case 'I':
			b.WriteString("03")
		case 'b', 'h':
			b.WriteString("Jan")
		case 'B':
			b.WriteString("January")
		case '%':
			b.WriteByte('%')
		default:
			return "", fmt.Errorf("unsupported strftime directive %%%c", layout[i])
		}
	}

	return b.String(), nil
}

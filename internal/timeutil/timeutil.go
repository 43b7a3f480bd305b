// Package timeutil normalizes the date and clock formats used across the
// console and the hospital backend. The backend is not consistent: dates
// arrive as ISO strings, day-first strings, or numeric tuples, and clock
// times as either 24-hour values or 12-hour labels.
package timeutil

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDatePattern      = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	dayFirstPattern     = regexp.MustCompile(`^(\d{1,2})[-/](\d{1,2})[-/](\d{4})$`)
	twelveHourPattern   = regexp.MustCompile(`^\s*(\d{1,2}):(\d{2})\s*([AaPp])\.?[Mm]\.?\s*$`)
	twentyFourHourShape = regexp.MustCompile(`^(\d{1,2}):(\d{2})`)
)

// CanonicalDate converts any of the supported date representations to
// YYYY-MM-DD. Supported inputs: ISO strings (with or without a time
// component), DD-MM-YYYY and DD/MM/YYYY strings, numeric [year, month, day]
// tuples (as ints or as float64s decoded from JSON), and time.Time.
//
// Input that matches none of the known patterns is returned unchanged.
// This is a deliberate best-effort fallback: callers must not assume the
// result is a valid date unless it matches the canonical pattern.
func CanonicalDate(v any) string {
	switch d := v.(type) {
	case string:
		return canonicalDateString(d)
	case time.Time:
		return d.Format("2006-01-02")
	case []int:
		if len(d) >= 3 {
			return formatYMD(d[0], d[1], d[2])
		}
	case []float64:
		if len(d) >= 3 {
			return formatYMD(int(d[0]), int(d[1]), int(d[2]))
		}
	case []any:
		if ymd, ok := intTuple(d); ok {
			return formatYMD(ymd[0], ymd[1], ymd[2])
		}
	}
	return fmt.Sprintf("%v", v)
}

func canonicalDateString(s string) string {
	trimmed := strings.TrimSpace(s)
	if m := isoDatePattern.FindStringSubmatch(trimmed); m != nil {
		return m[1] + "-" + m[2] + "-" + m[3]
	}
	if m := dayFirstPattern.FindStringSubmatch(trimmed); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		return formatYMD(year, month, day)
	}
	return s
}

// IsCanonicalDate reports whether s already matches YYYY-MM-DD exactly.
func IsCanonicalDate(s string) bool {
	return len(s) == 10 && isoDatePattern.MatchString(s)
}

// To24Hour converts an "h:mm AM/PM" label to "HH:MM". Input that does not
// match the 12-hour pattern is truncated to its first five characters as a
// best-effort 24-hour value; "09:00:00" and "09:00" both come out as
// "09:00", but arbitrary text is passed through lossily.
func To24Hour(label string) string {
	m := twelveHourPattern.FindStringSubmatch(label)
	if m == nil {
		runes := []rune(strings.TrimSpace(label))
		if len(runes) > 5 {
			runes = runes[:5]
		}
		return string(runes)
	}
	hour, _ := strconv.Atoi(m[1])
	minute := m[2]
	meridiem := strings.ToUpper(m[3])
	if meridiem == "P" && hour != 12 {
		hour += 12
	}
	if meridiem == "A" && hour == 12 {
		hour = 0
	}
	return fmt.Sprintf("%02d:%s", hour, minute)
}

// To12Hour formats a 24-hour "HH:MM" value as an "hh:mm AM/PM" label.
// The mapping preserves ordering within a day and never rounds.
// Input that does not look like a clock value is returned unchanged.
func To12Hour(hhmm string) string {
	m := twentyFourHourShape.FindStringSubmatch(strings.TrimSpace(hhmm))
	if m == nil {
		return hhmm
	}
	hour, _ := strconv.Atoi(m[1])
	minute := m[2]
	if hour > 23 {
		return hhmm
	}
	meridiem := "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		meridiem = "PM"
	case hour > 12:
		hour -= 12
		meridiem = "PM"
	}
	return fmt.Sprintf("%02d:%s %s", hour, minute, meridiem)
}

// PadClock zero-pads a loose clock string to "HH:MM": "9:30" -> "09:30".
// Anything without an h:mm shape is returned unchanged.
func PadClock(s string) string {
	m := twentyFourHourShape.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return s
	}
	hour, _ := strconv.Atoi(m[1])
	return fmt.Sprintf("%02d:%s", hour, m[2])
}

func formatYMD(year, month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, month, day)
}

func intTuple(vals []any) ([3]int, bool) {
	var out [3]int
	if len(vals) < 3 {
		return out, false
	}
	for i := 0; i < 3; i++ {
		switch n := vals[i].(type) {
		case float64:
			out[i] = int(n)
		case int:
			out[i] = n
		default:
			return out, false
		}
	}
	return out, true
}

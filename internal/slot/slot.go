package slot

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Duration is the fixed length of every bookable slot.
const Duration = 2 * time.Hour

// Catalog is the fixed ordered sequence of daily slot labels. Each label
// marks the start of a two-hour block; the day spans 06:00-22:00.
var Catalog = []string{
	"6:00 AM",
	"8:00 AM",
	"10:00 AM",
	"12:00 PM",
	"2:00 PM",
	"4:00 PM",
	"6:00 PM",
	"8:00 PM",
}

// ErrInvalidTimeFormat is returned when a slot label or timestamp does not
// match the expected shape.
var ErrInvalidTimeFormat = errors.New("invalid time format")

var (
	labelRe = regexp.MustCompile(`^(\d{1,2}):(\d{2}) (AM|PM)$`)
	dateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	// Wall-clock extraction for the two persisted encodings:
	// "2025-08-10 14:00:00" and "2025-08-10T14:00:00Z"/"...+08:00".
	localRe = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2}) (\d{2}):(\d{2})`)
	isoRe   = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})T(\d{2}):(\d{2})`)
)

// To24Hour converts a 12-hour label like "2:00 PM" to a zero-padded
// 24-hour "HH:MM" string. 12 AM maps to 00:00 and 12 PM to 12:00.
func To24Hour(label string) (string, error) {
	m := labelRe.FindStringSubmatch(strings.TrimSpace(label))
	if m == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeFormat, label)
	}

	hour, _ := strconv.Atoi(m[1])
	if hour < 1 || hour > 12 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeFormat, label)
	}
	minute, _ := strconv.Atoi(m[2])
	if minute > 59 {
		return "", fmt.Errorf("%w: %q", ErrInvalidTimeFormat, label)
	}

	switch m[3] {
	case "AM":
		if hour == 12 {
			hour = 0
		}
	case "PM":
		if hour != 12 {
			hour += 12
		}
	}

	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// To12Hour converts a 24-hour "HH:MM" string back to a catalog-style
// 12-hour label with no leading zero on the hour.
func To12Hour(hhmm string) string {
	parts := strings.SplitN(hhmm, ":", 2)
	if len(parts) != 2 {
		return ""
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return ""
	}

	ampm := "AM"
	switch {
	case hour == 0:
		hour = 12
	case hour == 12:
		ampm = "PM"
	case hour > 12:
		hour -= 12
		ampm = "PM"
	}

	return fmt.Sprintf("%d:%s %s", hour, parts[1], ampm)
}

// Window computes the [start, end) pair for a reservation on the given
// calendar date (YYYY-MM-DD) at the given slot label, in the facility
// location. End is exactly start + 2 hours; a block starting late enough
// to cross midnight lands on the next calendar day.
func Window(date, label string, loc *time.Location) (time.Time, time.Time, error) {
	if !dateRe.MatchString(date) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: date %q", ErrInvalidTimeFormat, date)
	}

	hhmm, err := To24Hour(label)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", date+" "+hhmm, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q %q", ErrInvalidTimeFormat, date, label)
	}

	return start, start.Add(Duration), nil
}

// Label maps a persisted start timestamp back to its catalog label.
//
// The stored wall-clock hour is authoritative: both the floating
// "YYYY-MM-DD HH:MM:SS" form and the zoned ISO form are read by their
// literal hour and minute digits, never shifted through a timezone.
// Missing or unparseable input yields "".
func Label(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	var m []string
	if strings.Contains(raw, "T") {
		m = isoRe.FindStringSubmatch(raw)
	} else {
		m = localRe.FindStringSubmatch(raw)
	}
	if m == nil {
		return ""
	}

	return To12Hour(m[2] + ":" + m[3])
}

// LabelAt maps an instant's wall-clock components (in its own location)
// to a catalog-style label.
func LabelAt(t time.Time) string {
	return To12Hour(t.Format("15:04"))
}

// Date extracts the calendar date component from a persisted start
// timestamp, again without timezone shifting. Returns "" when the input
// does not carry a recognizable date.
func Date(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	var m []string
	if strings.Contains(raw, "T") {
		m = isoRe.FindStringSubmatch(raw)
	} else {
		m = localRe.FindStringSubmatch(raw)
	}
	if m == nil {
		return ""
	}
	return m[1]
}

// ParseWallClock parses an explicit start/end timestamp from a request
// body into an instant in the facility location, accepting the same two
// encodings as Label. The wall-clock digits win; any zone suffix on the
// ISO form is ignored rather than converted.
func ParseWallClock(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)

	var m []string
	if strings.Contains(raw, "T") {
		m = isoRe.FindStringSubmatch(raw)
	} else {
		m = localRe.FindStringSubmatch(raw)
	}
	if m == nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, raw)
	}

	t, err := time.ParseInLocation("2006-01-02 15:04", m[1]+" "+m[2]+":"+m[3], loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidTimeFormat, raw)
	}
	return t, nil
}

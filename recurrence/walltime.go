package recurrence

import (
	"regexp"
	"strconv"
	"time"
)

// WallClock is a set of local calendar/clock fields, interpreted in some
// zone (§4.2). Seconds default to zero when parsed from a string that
// omits them.
type WallClock struct {
	Year, Month, Day    int
	Hour, Minute, Second int
}

// ToInstant converts local wall-clock fields in a zone to a UTC instant,
// attaching the zone's normalized label so downstream consumers can recover
// it. DST gaps resolve to the instant immediately after the gap; DST folds
// resolve to the second (post-transition) occurrence.
func ToInstant(fields WallClock, zone ZoneDescriptor) TimedValue {
	var instant time.Time
	switch zone.Kind {
	case ZoneFixedOffset:
		instant = time.Date(fields.Year, time.Month(fields.Month), fields.Day,
			fields.Hour, fields.Minute, fields.Second, 0, time.UTC).
			Add(-time.Duration(zone.OffsetMinutes) * time.Minute)
	default:
		instant = toInstantInLocation(fields, zone.Location())
	}
	return TimedValue{Instant: instant, Zone: someZone(zone)}
}

// toInstantInLocation resolves wall-clock fields against an IANA (or any
// *time.Location-backed) zone, disambiguating DST gaps and folds.
//
// The technique: compute the naive instant Go's zone database would pick,
// then compare the UTC offset in effect there against the offset one day
// later. A difference means a transition falls within the intervening day,
// so we build one candidate per offset by reinterpreting the same wall
// clock under each of them and check which candidate(s) actually
// reproduce the requested fields.
func toInstantInLocation(fields WallClock, loc *time.Location) time.Time {
	t1 := time.Date(fields.Year, time.Month(fields.Month), fields.Day,
		fields.Hour, fields.Minute, fields.Second, 0, loc)

	_, off1 := t1.Zone()
	_, off2 := t1.AddDate(0, 0, 1).Zone()
	if off1 == off2 {
		return t1
	}

	naive := time.Date(fields.Year, time.Month(fields.Month), fields.Day,
		fields.Hour, fields.Minute, fields.Second, 0, time.UTC)
	t1 = naive.Add(-time.Duration(off1) * time.Second).In(loc)
	t2 := naive.Add(-time.Duration(off2) * time.Second).In(loc)

	t1Valid := wallMatches(t1, loc, fields)
	t2Valid := wallMatches(t2, loc, fields)

	switch {
	case t1Valid && t2Valid:
		// Fold: two instants share this wall time. Return the later one.
		if t2.After(t1) {
			return t2
		}
		return t1
	case t2Valid:
		return t2
	case t1Valid:
		return t1
	default:
		// Gap: neither candidate reproduces the requested wall clock.
		// Return whichever falls later — the instant immediately after
		// the gap.
		if t2.After(t1) {
			return t2
		}
		return t1
	}
}

func wallMatches(t time.Time, loc *time.Location, fields WallClock) bool {
	lt := t.In(loc)
	y, mo, d := lt.Date()
	h, mi, s := lt.Clock()
	return y == fields.Year && int(mo) == fields.Month && d == fields.Day &&
		h == fields.Hour && mi == fields.Minute && s == fields.Second
}

var (
	compactDateTimePattern  = regexp.MustCompile(`^(\d{4})(\d{2})(\d{2})T(\d{2})(\d{2})(\d{2})?Z?$`)
	extendedDateTimePattern = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})T(\d{2}):(\d{2})(?::(\d{2}))?$`)
	datePattern             = regexp.MustCompile(`^(\d{4})-?(\d{2})-?(\d{2})$`)
)

// ParseWallClock accepts both compact (YYYYMMDDTHHmmss, seconds optional)
// and extended (YYYY-MM-DDTHH:mm:ss) textual forms, plus a bare date. It
// returns ParseFailureError when the input matches none of them.
func ParseWallClock(s string) (WallClock, error) {
	if m := compactDateTimePattern.FindStringSubmatch(s); m != nil {
		return wallClockFromMatch(m), nil
	}
	if m := extendedDateTimePattern.FindStringSubmatch(s); m != nil {
		return wallClockFromMatch(m), nil
	}
	if m := datePattern.FindStringSubmatch(s); m != nil {
		return WallClock{
			Year:  atoi(m[1]),
			Month: atoi(m[2]),
			Day:   atoi(m[3]),
		}, nil
	}
	return WallClock{}, &ParseFailureError{Input: s}
}

func wallClockFromMatch(m []string) WallClock {
	return WallClock{
		Year:   atoi(m[1]),
		Month:  atoi(m[2]),
		Day:    atoi(m[3]),
		Hour:   atoi(m[4]),
		Minute: atoi(m[5]),
		Second: atoi(m[6]),
	}
}

func atoi(s string) int {
	if s == "" {
		return 0
	}
	n, _ := strconv.Atoi(s)
	return n
}

// FormatForRRule renders an instant in the given zone as the compact
// YYYYMMDDTHHmmss form, for handing anchors to a Recurrence Rule Iterator
// that expects a wall-clock reference in the event's own zone.
func FormatForRRule(instant time.Time, zone ZoneDescriptor) string {
	return instant.In(zone.Location()).Format("20060102T150405")
}

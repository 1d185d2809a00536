/*
Package recurrence expands a single iCalendar (RFC 5545) event description —
its base start/end, an optional RRULE, an EXDATE set, and a map of
RECURRENCE-ID overrides — into the concrete occurrences that fall within a
caller-supplied time window.

# Basic usage

	engine := recurrence.NewEngine()

	event := &recurrence.Event{
		UID:      "standup@example.com",
		Summary:  "Daily standup",
		DateType: recurrence.DateTypeDateTime,
		Start: recurrence.TimedValue{
			Instant: time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC),
			Zone:    mo.Some(recurrence.UTCZone()),
		},
		RRule: mo.Some[recurrence.RuleIterator](
			must(recurrence.NewRRuleIterator("FREQ=DAILY", ...)),
		),
	}

	instances, err := engine.Expand(event, recurrence.ExpansionRequest{
		From: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, 1, 7, 23, 59, 59, 0, time.UTC),
	})

# Time zones

TZID strings arrive in three shapes: IANA names, Windows display labels
("W. Europe Standard Time"), and fixed-offset labels ("UTC+05:30"). Use
Resolver.Resolve to normalize any of them to a ZoneDescriptor before handing
wall-clock fields to ToInstant.

# Parser boundary

The engine does not parse ICS text itself. EventFromComponent adapts a
*ical.Component (github.com/emersion/go-ical) into an Event, for callers
that already have a parsed component in hand. Generating ICS output,
ingesting files or HTTP requests, and a CLI front-end are all out of scope
for this package.

# Caching

Expand is a pure function of its inputs plus the process-wide zone caches.
Callers that repeatedly expand the same event over overlapping windows can
wrap an *Engine in a *CachedEngine (see cache.go) to avoid repeating the
work within a configurable TTL.
*/
package recurrence

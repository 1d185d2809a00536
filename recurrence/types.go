package recurrence

import (
	"time"

	"github.com/samber/mo"
)

// DateType declares whole-day vs. timed semantics for an event (RFC 5545
// VALUE=DATE vs VALUE=DATE-TIME).
type DateType string

const (
	DateTypeDate     DateType = "date"
	DateTypeDateTime DateType = "date-time"
)

// TimedValue carries an instant plus the metadata the engine must preserve
// through every clone (I5): the zone it was expressed in, and whether it
// denotes a whole-day date rather than a precise instant.
type TimedValue struct {
	Instant  time.Time
	Zone     mo.Option[ZoneDescriptor]
	DateOnly bool
}

// someZone is a small constructor so call sites read naturally.
func someZone(z ZoneDescriptor) mo.Option[ZoneDescriptor] { return mo.Some(z) }

// RuleIterator is the Recurrence Rule Iterator contract (§4.4): it yields
// every base instant generated by a recurrence rule whose start falls
// within [from, to] inclusive, ascending, capped by the rule's own
// COUNT/UNTIL. The engine treats returned instants as opaque base anchors.
type RuleIterator interface {
	Between(from, to time.Time) ([]time.Time, error)
}

// Event is a parsed iCalendar event, or an override event referenced from
// Recurrences (which never itself carries RRule).
type Event struct {
	UID     string
	Summary string

	Start TimedValue
	End   mo.Option[TimedValue]

	// Duration is an explicit ISO-8601-style duration (e.g. PT1H15M).
	Duration mo.Option[time.Duration]

	DateType DateType

	RRule mo.Option[RuleIterator]

	// EXDate maps a canonical date-key (§4.3, produced by KeyOf) or the full
	// UTC timestamp of an excluded instant (produced by ISOKey) to a marker.
	// EventFromComponent stores both forms for every EXDATE value.
	EXDate map[string]struct{}

	// Recurrences maps a canonical date-key to the override event that
	// replaces the base occurrence with that key (I3).
	Recurrences map[string]*Event
}

// IsRecurring reports whether the event carries an RRULE.
func (e *Event) IsRecurring() bool {
	return e.RRule.IsPresent()
}

// Instance is a single concrete occurrence produced by Expand.
type Instance struct {
	Start TimedValue
	End   TimedValue

	Summary string

	// IsFullDay is derived strictly from DateType == DateTypeDate or
	// Start.DateOnly.
	IsFullDay bool

	// IsRecurring is true iff the source event had an RRULE.
	IsRecurring bool

	// IsOverride is true iff this instance came from Recurrences[key].
	IsOverride bool

	// Event references the effective event record (base or override).
	Event *Event
}

// ExpansionOptions controls Expand's behavior (§4.5).
type ExpansionOptions struct {
	// ExcludeExdates drops instants whose key is in event.EXDate.
	ExcludeExdates bool
	// IncludeOverrides substitutes per-occurrence override events.
	IncludeOverrides bool
	// ExpandOngoing includes occurrences that started before From but
	// whose End is at or after From.
	ExpandOngoing bool
}

// DefaultExpansionOptions returns the spec's defaults: exclude EXDATEs,
// include overrides, don't expand ongoing occurrences.
func DefaultExpansionOptions() ExpansionOptions {
	return ExpansionOptions{
		ExcludeExdates:   true,
		IncludeOverrides: true,
		ExpandOngoing:    false,
	}
}

// ExpansionRequest bounds and configures a single Expand call.
type ExpansionRequest struct {
	From, To time.Time
	Options  ExpansionOptions
}

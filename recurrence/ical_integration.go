package recurrence

import (
	"strings"

	"github.com/emersion/go-ical"
	"github.com/samber/mo"
)

// recurrenceIDProp is the iCalendar property name for RECURRENCE-ID.
// go-ical doesn't export a constant for it (server/recurrence/ical_integration.go
// in the teacher repo used the same literal).
const recurrenceIDProp = "RECURRENCE-ID"

const valueDateParam = "VALUE"

// EventFromComponent adapts a single parsed *ical.Component (a VEVENT) into
// an Event, resolving its TZID strings through resolver. It does not look
// at sibling components: a VEVENT carrying RECURRENCE-ID is parsed the
// same way a master VEVENT is, leaving the caller (BuildEventGroup, for a
// whole VCALENDAR) to decide which component is the master and which are
// overrides.
func EventFromComponent(resolver *Resolver, comp *ical.Component) (*Event, error) {
	event := &Event{
		EXDate:      make(map[string]struct{}),
		Recurrences: make(map[string]*Event),
	}

	if uidProp := comp.Props.Get(ical.PropUID); uidProp != nil {
		event.UID = uidProp.Value
	}
	if summaryProp := comp.Props.Get(ical.PropSummary); summaryProp != nil {
		event.Summary = summaryProp.Value
	}

	startProp := comp.Props.Get(ical.PropDateTimeStart)
	if startProp == nil {
		return nil, &InvalidArgumentError{Message: "component has no DTSTART"}
	}
	start, err := parseTimedValue(resolver, startProp)
	if err != nil {
		return nil, err
	}
	event.Start = start
	if start.DateOnly {
		event.DateType = DateTypeDate
	} else {
		event.DateType = DateTypeDateTime
	}

	if endProp := comp.Props.Get(ical.PropDateTimeEnd); endProp != nil {
		if end, err := parseTimedValue(resolver, endProp); err == nil {
			event.End = mo.Some(end)
		}
	} else if durProp := comp.Props.Get(ical.PropDuration); durProp != nil {
		if d, err := durProp.Duration(); err == nil {
			event.Duration = mo.Some(d)
		}
	}

	if rruleProp := comp.Props.Get(ical.PropRecurrenceRule); rruleProp != nil && rruleProp.Value != "" {
		if iter, err := NewRRuleIterator(rruleProp.Value, start.Instant); err == nil {
			event.RRule = mo.Some[RuleIterator](iter)
		}
	}

	if exdateProp := comp.Props.Get(ical.PropExceptionDates); exdateProp != nil && exdateProp.Value != "" {
		for _, key := range parseDateKeyList(resolver, exdateProp) {
			event.EXDate[key] = struct{}{}
		}
	}

	return event, nil
}

// RecurrenceIDKey returns the canonical date-key (§4.3) of comp's
// RECURRENCE-ID property, or ("", false) if it has none.
func RecurrenceIDKey(resolver *Resolver, comp *ical.Component) (string, bool) {
	prop := comp.Props.Get(recurrenceIDProp)
	if prop == nil || prop.Value == "" {
		return "", false
	}
	tv, err := parseTimedValue(resolver, prop)
	if err != nil {
		return "", false
	}
	return KeyOf(tv), true
}

// BuildEventGroup assembles one Event from the VEVENT components sharing a
// single UID: the component with no RECURRENCE-ID is the master; the rest
// are parsed as override events and attached to master.Recurrences, keyed
// by their RECURRENCE-ID's canonical date-key (I3).
func BuildEventGroup(resolver *Resolver, comps []*ical.Component) (*Event, error) {
	var master *Event
	overrides := make(map[string]*ical.Component)

	for _, comp := range comps {
		if key, ok := RecurrenceIDKey(resolver, comp); ok {
			overrides[key] = comp
			continue
		}
		event, err := EventFromComponent(resolver, comp)
		if err != nil {
			return nil, err
		}
		master = event
	}

	if master == nil {
		return nil, &InvalidArgumentError{Message: "no master VEVENT (component without RECURRENCE-ID) in group"}
	}

	for key, comp := range overrides {
		override, err := EventFromComponent(resolver, comp)
		if err != nil {
			return nil, err
		}
		master.Recurrences[key] = override
	}

	return master, nil
}

// parseTimedValue builds a TimedValue from an iCalendar date/date-time
// property, handling VALUE=DATE, a "Z"-suffixed UTC instant, and a
// TZID-qualified local wall time (resolved through resolver).
func parseTimedValue(resolver *Resolver, prop *ical.Prop) (TimedValue, error) {
	if isDateOnly(prop) {
		fields, err := ParseWallClock(prop.Value)
		if err != nil {
			return TimedValue{}, err
		}
		zone := UTCZone()
		tv := ToInstant(WallClock{Year: fields.Year, Month: fields.Month, Day: fields.Day}, zone)
		tv.DateOnly = true
		tv.Zone = mo.None[ZoneDescriptor]()
		return tv, nil
	}

	if strings.HasSuffix(prop.Value, "Z") {
		fields, err := ParseWallClock(prop.Value)
		if err != nil {
			return TimedValue{}, err
		}
		return ToInstant(fields, UTCZone()), nil
	}

	fields, err := ParseWallClock(prop.Value)
	if err != nil {
		return TimedValue{}, err
	}

	tzid := prop.Params.Get("TZID")
	if tzid == "" {
		// Floating local time: no zone was given. Per §4.1 step 7, treat
		// the same way as an unresolved TZID — fall back to UTC.
		return ToInstant(fields, UTCZone()), nil
	}

	zone := resolver.Resolve(tzid)
	return ToInstant(fields, zone), nil
}

func isDateOnly(prop *ical.Prop) bool {
	return strings.EqualFold(prop.Params.Get(valueDateParam), "DATE")
}

// parseDateKeyList parses a comma-separated EXDATE (or similar) property
// value into canonical date-keys, honoring VALUE=DATE the same way
// parseTimedValue does for a single value. For each exclusion it returns
// both KeyOf's canonical key and ISOKey's full-timestamp key, so the
// dual-key lookup §4.3/§4.5 step 2.b requires is actually reachable: an
// EXDATE supplied in a different zone than the recurring event's own
// DTSTART can land on a different calendar day by KeyOf alone when a DST
// transition falls between them.
func parseDateKeyList(resolver *Resolver, prop *ical.Prop) []string {
	var keys []string
	for _, raw := range strings.Split(prop.Value, ",") {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		single := &ical.Prop{Params: prop.Params, Value: raw}
		tv, err := parseTimedValue(resolver, single)
		if err != nil {
			continue
		}
		keys = append(keys, KeyOf(tv), ISOKey(tv))
	}
	return keys
}

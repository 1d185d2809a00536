package recurrence

import "time"

// HasOccurrenceInRange reports whether event has any non-excluded
// occurrence overlapping [rangeStart, rangeEnd], without materializing the
// full Instance list. This is the existence-check fast path the teacher's
// engine offered for CalDAV time-range REPORT filters
// (server/recurrence/engine.go), generalized here to the Event/EXDate/
// RuleIterator model the rest of this package uses.
func (e *Engine) HasOccurrenceInRange(event *Event, rangeStart, rangeEnd time.Time) (bool, error) {
	instances, err := e.Expand(event, ExpansionRequest{
		From: rangeStart,
		To:   rangeEnd,
		Options: ExpansionOptions{
			ExcludeExdates:   true,
			IncludeOverrides: true,
			ExpandOngoing:    true,
		},
	})
	if err != nil {
		return false, err
	}
	return len(instances) > 0, nil
}

package recurrence

import (
	"fmt"
	"time"

	"github.com/teambition/rrule-go"
)

// RRuleIterator adapts github.com/teambition/rrule-go to the RuleIterator
// contract (§4.4).
//
// Unlike the teacher's engine, which built a rrule.Set from a plain
// "DTSTART:...Z\nRRULE:..." string (server/recurrence/engine.go), this
// iterator parses just the RRULE fields with rrule.StrToROption and sets
// Dtstart itself, keeping dtstart's original *time.Location intact. That
// matters for correctness: rrule-go recomputes each occurrence's offset
// from Dtstart's Location, so a weekly 16:00 America/Los_Angeles event
// keeps firing at 16:00 local time across a DST transition instead of
// drifting by an hour in UTC, the way collapsing to a UTC Z-suffix string
// would.
type RRuleIterator struct {
	rule *rrule.RRule
}

// NewRRuleIterator parses an RRULE value (without the "RRULE:" prefix)
// anchored at dtstart. dtstart's Location is preserved and drives DST
// disambiguation for every generated occurrence.
func NewRRuleIterator(rruleValue string, dtstart time.Time) (*RRuleIterator, error) {
	opt, err := rrule.StrToROption(rruleValue)
	if err != nil {
		return nil, fmt.Errorf("recurrence: failed to parse RRULE %q: %w", rruleValue, err)
	}
	opt.Dtstart = dtstart

	rule, err := rrule.NewRRule(*opt)
	if err != nil {
		return nil, fmt.Errorf("recurrence: invalid RRULE %q: %w", rruleValue, err)
	}
	return &RRuleIterator{rule: rule}, nil
}

// Between returns every base instant the rule generates within [from, to]
// inclusive, ascending, respecting the rule's own COUNT/UNTIL.
func (r *RRuleIterator) Between(from, to time.Time) ([]time.Time, error) {
	return r.rule.Between(from, to, true), nil
}

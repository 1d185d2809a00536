package recurrence

import (
	"log/slog"
	"sort"
	"time"
)

// Engine orchestrates the Zone Resolver, Wall-Time Converter, Date-Key
// Encoder, and Recurrence Rule Iterator to expand an Event into Instances.
type Engine struct {
	zones  *Resolver
	logger *slog.Logger
}

// Option configures an Engine constructed with NewEngine.
type Option func(*Engine)

// WithLogger sets the slog.Logger diagnostics are emitted to. A nil logger
// (the default) disables diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithResolver overrides the Zone Resolver the engine uses, e.g. to share
// one Resolver (and its caches) across several Engines.
func WithResolver(r *Resolver) Option {
	return func(e *Engine) { e.zones = r }
}

// NewEngine creates a new Expansion Engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{}
	for _, opt := range opts {
		opt(e)
	}
	if e.zones == nil {
		e.zones = NewResolver(e.logger)
	}
	return e
}

// Expand produces the concrete occurrences of event that fall within
// request's window (§4.5).
func (e *Engine) Expand(event *Event, request ExpansionRequest) ([]Instance, error) {
	if event == nil {
		return nil, &InvalidArgumentError{Message: "event must not be nil"}
	}
	// time.Time has no NaN-like invalid state, unlike the dynamically typed
	// Date this spec was distilled from; the zero value is the only stand-in
	// for "not actually a valid instant" a caller could plausibly produce.
	if request.From.IsZero() || request.To.IsZero() {
		return nil, &InvalidArgumentError{Message: "from/to must be valid instants"}
	}
	if request.From.After(request.To) {
		return nil, &RangeError{From: request.From, To: request.To}
	}

	candidates, err := e.generateCandidates(event, request)
	if err != nil {
		return nil, err
	}

	instances := make([]Instance, 0, len(candidates))
	for _, candidate := range candidates {
		candidateTV := TimedValue{
			Instant:  candidate,
			Zone:     event.Start.Zone,
			DateOnly: event.Start.DateOnly,
		}
		key := KeyOf(candidateTV)

		if request.Options.ExcludeExdates && e.isExcluded(event, key, candidateTV) {
			continue
		}

		effective := event
		isOverride := false
		var start TimedValue
		summary := event.Summary

		if request.Options.IncludeOverrides {
			if override, ok := event.Recurrences[key]; ok {
				effective = override
				isOverride = true
				start = override.Start
				summary = override.Summary
			}
		}
		if !isOverride {
			start = candidateTV
		}

		end := e.computeEnd(event, effective, start, isOverride)

		include := request.Options.ExpandOngoing &&
			!start.Instant.After(request.To) && !end.Instant.Before(request.From)
		if !request.Options.ExpandOngoing {
			include = !start.Instant.Before(request.From) && !start.Instant.After(request.To)
		}
		if !include {
			continue
		}

		instances = append(instances, Instance{
			Start:       start,
			End:         end,
			Summary:     summary,
			IsFullDay:   effective.DateType == DateTypeDate || start.DateOnly,
			IsRecurring: event.IsRecurring(),
			IsOverride:  isOverride,
			Event:       effective,
		})
	}

	sort.SliceStable(instances, func(i, j int) bool {
		return instances[i].Start.Instant.Before(instances[j].Start.Instant)
	})

	return instances, nil
}

// generateCandidates returns every base instant to consider, widening the
// window backward for recurring events so an ongoing occurrence starting
// before From can still be found (§4.5 step 1).
func (e *Engine) generateCandidates(event *Event, request ExpansionRequest) ([]time.Time, error) {
	rule, hasRule := event.RRule.Get()
	if !hasRule {
		return []time.Time{event.Start.Instant}, nil
	}

	widenBy := e.baseDuration(event)
	from := request.From.Add(-widenBy)

	return rule.Between(from, request.To)
}

// baseDuration is the widening amount for ongoing-event candidate
// generation: the event's own end-minus-start duration, or one day for
// whole-day events when no explicit duration/end exists.
func (e *Engine) baseDuration(event *Event) time.Duration {
	if d, ok := event.Duration.Get(); ok {
		return d
	}
	if end, ok := event.End.Get(); ok {
		if d := end.Instant.Sub(event.Start.Instant); d > 0 {
			return d
		}
	}
	if event.DateType == DateTypeDate || event.Start.DateOnly {
		return 24 * time.Hour
	}
	return 0
}

// isExcluded checks a candidate's date-key, and (the DST-crossing
// fallback) its full ISO-8601 UTC timestamp, against event.EXDate.
func (e *Engine) isExcluded(event *Event, key string, tv TimedValue) bool {
	if _, ok := event.EXDate[key]; ok {
		return true
	}
	_, ok := event.EXDate[ISOKey(tv)]
	return ok
}

// computeEnd derives an instance's end per §4.5 step 2.d.
func (e *Engine) computeEnd(base, effective *Event, start TimedValue, isOverride bool) TimedValue {
	if isOverride {
		if end, ok := effective.End.Get(); ok {
			return end
		}
	}
	if d, ok := base.Duration.Get(); ok {
		return TimedValue{Instant: start.Instant.Add(d), Zone: start.Zone, DateOnly: start.DateOnly}
	}
	if baseEnd, ok := base.End.Get(); ok {
		d := baseEnd.Instant.Sub(base.Start.Instant)
		return TimedValue{Instant: start.Instant.Add(d), Zone: start.Zone, DateOnly: start.DateOnly}
	}
	if start.DateOnly {
		return TimedValue{Instant: start.Instant.AddDate(0, 0, 1), Zone: start.Zone, DateOnly: start.DateOnly}
	}
	return start
}

// Command example demonstrates expanding a recurring iCalendar event with
// the recurrence package: parsing a VEVENT (with an EXDATE and one
// RECURRENCE-ID override) through go-ical, then listing every occurrence
// in a given window.
package main

import (
	"fmt"
	"log"
	"log/slog"
	"os"
	"time"

	"github.com/emersion/go-ical"
	"github.com/google/uuid"

	"github.com/cyp0633/icalrecur/recurrence"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
	resolver := recurrence.NewResolver(logger)
	engine := recurrence.NewEngine(recurrence.WithResolver(resolver), recurrence.WithLogger(logger))

	uid := uuid.New().String()
	master, override := buildWeeklyStandup(uid)

	event, err := recurrence.BuildEventGroup(resolver, []*ical.Component{master, override})
	if err != nil {
		log.Fatalf("building event group: %v", err)
	}

	instances, err := engine.Expand(event, recurrence.ExpansionRequest{
		From:    time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		To:      time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		Options: recurrence.DefaultExpansionOptions(),
	})
	if err != nil {
		log.Fatalf("expanding event: %v", err)
	}

	fmt.Printf("UID %s — %d occurrence(s) in June 2024:\n", uid, len(instances))
	for _, inst := range instances {
		tag := ""
		if inst.IsOverride {
			tag = " (rescheduled)"
		}
		fmt.Printf("  %s  %s%s\n", inst.Start.Instant.Format(time.RFC3339), inst.Summary, tag)
	}
}

// buildWeeklyStandup returns a weekly Monday 09:00 America/New_York VEVENT
// (skipping one Monday via EXDATE) plus an override that moves a different
// Monday's occurrence to the afternoon.
func buildWeeklyStandup(uid string) (master, override *ical.Component) {
	master = ical.NewComponent(ical.CompEvent)
	master.Props.SetText(ical.PropUID, uid)
	master.Props.SetText(ical.PropSummary, "Weekly standup")
	setTZID(master, ical.PropDateTimeStart, "20240603T090000", "America/New_York")
	// Stored verbatim: Props.SetText would text-escape the ';' separators.
	master.Props[ical.PropRecurrenceRule] = []ical.Prop{{
		Name:   ical.PropRecurrenceRule,
		Value:  "FREQ=WEEKLY;BYDAY=MO;COUNT=6",
		Params: ical.Params{},
	}}
	setTZID(master, ical.PropExceptionDates, "20240610T090000", "America/New_York")

	override = ical.NewComponent(ical.CompEvent)
	override.Props.SetText(ical.PropUID, uid)
	override.Props.SetText(ical.PropSummary, "Weekly standup (moved)")
	setTZID(override, "RECURRENCE-ID", "20240617T090000", "America/New_York")
	setTZID(override, ical.PropDateTimeStart, "20240617T140000", "America/New_York")

	return master, override
}

func setTZID(comp *ical.Component, name, value, tzid string) {
	comp.Props[name] = []ical.Prop{{
		Name:   name,
		Value:  value,
		Params: ical.Params{"TZID": []string{tzid}},
	}}
}

package recurrence

const dateKeyLayout = "2006-01-02"

// KeyOf produces the canonical YYYY-MM-DD key for a TimedValue (§4.3),
// the function most bug-prone in the system. In priority order:
//
//  1. If DateOnly is set, the key comes from the instant's own calendar
//     fields, with no zone conversion — date identity travels unchanged
//     across machines in any zone.
//  2. Else if the value has a resolved zone, the key is the YYYY-MM-DD of
//     the instant converted into that zone's calendar.
//  3. Else the key is the YYYY-MM-DD of the instant's UTC calendar.
func KeyOf(tv TimedValue) string {
	if tv.DateOnly {
		return tv.Instant.Format(dateKeyLayout)
	}
	if zone, ok := tv.Zone.Get(); ok && zone.Kind != ZoneUnresolved {
		return tv.Instant.In(zone.Location()).Format(dateKeyLayout)
	}
	return tv.Instant.UTC().Format(dateKeyLayout)
}

// ISOKey renders the full ISO-8601 UTC timestamp of an instant, the
// secondary lookup key §4.3 requires for correlating RRULE-generated
// instants with EXDATE/RECURRENCE-ID entries across a DST boundary.
func ISOKey(tv TimedValue) string {
	return tv.Instant.UTC().Format("2006-01-02T15:04:05.000Z")
}

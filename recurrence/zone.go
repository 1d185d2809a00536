package recurrence

import (
	"log/slog"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cyp0633/icalrecur/internal/windowszones"
)

// ZoneKind tags the variant held by a ZoneDescriptor.
type ZoneKind int

const (
	// ZoneIANA is a resolved, canonical IANA zone name (e.g. "Europe/Berlin").
	ZoneIANA ZoneKind = iota
	// ZoneFixedOffset is a fixed offset from UTC, in minutes.
	ZoneFixedOffset
	// ZoneUnresolved means the TZID couldn't be mapped; callers fall back to UTC.
	ZoneUnresolved
)

// ZoneDescriptor is the normalized form of a TZID string, produced by
// Resolver.Resolve. It is a tagged variant: exactly one of IANA or
// OffsetMinutes is meaningful, depending on Kind.
type ZoneDescriptor struct {
	Kind ZoneKind

	// IANA holds the canonical zone name when Kind == ZoneIANA.
	IANA string

	// OffsetMinutes holds signed minutes from UTC when Kind == ZoneFixedOffset.
	OffsetMinutes int

	// EtcGMTName holds the POSIX Etc/GMT±N equivalent when Kind ==
	// ZoneFixedOffset and the offset is a whole number of hours (§4.1 step
	// 7); empty otherwise.
	EtcGMTName string

	// Original holds the verbatim TZID string when Kind == ZoneUnresolved.
	Original string
}

// UTCZone returns the canonical descriptor for UTC.
func UTCZone() ZoneDescriptor {
	return ZoneDescriptor{Kind: ZoneIANA, IANA: "UTC"}
}

// Location returns the *time.Location this descriptor denotes. Unresolved
// descriptors fall back to time.UTC, per spec.
func (z ZoneDescriptor) Location() *time.Location {
	switch z.Kind {
	case ZoneIANA:
		if loc, err := time.LoadLocation(z.IANA); err == nil {
			return loc
		}
		return time.UTC
	case ZoneFixedOffset:
		if z.EtcGMTName != "" {
			if loc, err := time.LoadLocation(z.EtcGMTName); err == nil {
				return loc
			}
		}
		name := formatOffsetLabel(z.OffsetMinutes)
		return time.FixedZone(name, z.OffsetMinutes*60)
	default:
		return time.UTC
	}
}

// Label returns the normalized textual form of the zone, suitable for
// attaching to a produced instant so downstream serialization can recover
// the originating zone (§4.2).
func (z ZoneDescriptor) Label() string {
	switch z.Kind {
	case ZoneIANA:
		return z.IANA
	case ZoneFixedOffset:
		if z.EtcGMTName != "" {
			return z.EtcGMTName
		}
		return formatOffsetLabel(z.OffsetMinutes)
	default:
		return z.Original
	}
}

// Resolver normalizes heterogeneous TZID strings (IANA names, Windows
// display labels, fixed-offset labels) to a ZoneDescriptor. It is safe for
// concurrent use: the validity cache and alias table are guarded by a
// read-write lock and, per §5, never invalidate within a process lifetime.
type Resolver struct {
	mu           sync.RWMutex
	validity     map[string]bool   // IANA name -> does tzdata know it
	aliases      map[string]string // e.g. "Etc/Unknown" -> "Etc/GMT"
	windowsTable *windowszones.Table
	logger       *slog.Logger
}

// NewResolver builds a Resolver with the default alias table and the
// embedded Windows-zone database loaded.
func NewResolver(logger *slog.Logger) *Resolver {
	return &Resolver{
		validity: make(map[string]bool),
		aliases: map[string]string{
			"Etc/Unknown": "Etc/GMT",
		},
		windowsTable: windowszones.Default(),
		logger:       logger,
	}
}

// SetAlias registers an IANA-to-IANA alias. Intended to be called only at
// configuration time, before the resolver is shared across goroutines.
func (r *Resolver) SetAlias(from, to string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[from] = to
}

var (
	microsoftCustomPrefixes = []string{"Customized Time Zone", "tzone://Microsoft/"}

	// offsetLabelPattern matches an (optionally UTC/GMT-prefixed, optionally
	// parenthesized) signed offset such as "+5", "+05", "+05:30", "+0530".
	offsetLabelPattern = regexp.MustCompile(`^\(?(?:UTC|GMT)?\s*([+-])(\d{1,2})(?::?(\d{2}))?\)?$`)

	// parenOffsetPattern pulls a ±HH:MM fragment out of a "(UTC+01:00) ..." label.
	parenOffsetPattern = regexp.MustCompile(`\(?(?:UTC|GMT)?([+-]\d{2}:\d{2})\)?`)
)

// Resolve maps a TZID string to a canonical ZoneDescriptor. It is a total
// function: it never returns an error, falling back to Unresolved for
// anything it cannot map.
func (r *Resolver) Resolve(tzid string) ZoneDescriptor {
	original := tzid

	// Step 1: Microsoft custom zones carry no usable identity; substitute
	// the host's local zone.
	if tzid == "tzone://Microsoft/Custom" || hasAnyPrefix(tzid, microsoftCustomPrefixes) {
		return r.resolveHostLocal()
	}

	// Step 2: strip surrounding ASCII double quotes.
	tzid = strings.Trim(tzid, `"`)

	// Step 3: Windows display label -> IANA, when it looks like a label
	// (contains whitespace or a comma).
	if strings.ContainsAny(tzid, " ,") {
		if iana, ok := r.windowsTable.Lookup(tzid); ok {
			tzid = iana
		}
	}

	// Step 4: "(UTC+01:00) ..." style labels: pull the ±HH:MM fragment out
	// directly and discard the rest of the label.
	if strings.HasPrefix(tzid, "(") {
		if m := parenOffsetPattern.FindStringSubmatch(tzid); m != nil {
			if minutes, ok := parseOffsetFragment(m[1]); ok {
				return r.fixedOffsetResult(minutes)
			}
		}
	}

	// Step 5: try the whole value as an offset label.
	if minutes, ok := parseOffsetLabel(tzid); ok {
		return r.fixedOffsetResult(minutes)
	}

	// Step 6: validate as an IANA zone name (post Windows-mapping, if any).
	if canonical, ok := r.validateIANA(tzid); ok {
		return ZoneDescriptor{Kind: ZoneIANA, IANA: canonical}
	}

	// Step 7: give up.
	if r.logger != nil {
		r.logger.Warn("TZID unresolved, falling back to UTC", "tzid", original)
	}
	return ZoneDescriptor{Kind: ZoneUnresolved, Original: original}
}

func (r *Resolver) resolveHostLocal() ZoneDescriptor {
	if name := os.Getenv("TZ"); name != "" {
		if canonical, ok := r.validateIANA(name); ok {
			return ZoneDescriptor{Kind: ZoneIANA, IANA: canonical}
		}
	}
	if name := time.Local.String(); name != "" && name != "Local" {
		if canonical, ok := r.validateIANA(name); ok {
			return ZoneDescriptor{Kind: ZoneIANA, IANA: canonical}
		}
	}
	return UTCZone()
}

func (r *Resolver) fixedOffsetResult(minutes int) ZoneDescriptor {
	desc := ZoneDescriptor{Kind: ZoneFixedOffset, OffsetMinutes: minutes}
	if name, ok := EtcGMTName(minutes); ok {
		desc.EtcGMTName = name
	}
	return desc
}

// validateIANA checks, with memoization, whether tzdata knows the given
// name, applying any registered alias first.
func (r *Resolver) validateIANA(name string) (string, bool) {
	r.mu.RLock()
	if alias, ok := r.aliases[name]; ok {
		name = alias
	}
	if valid, cached := r.validity[name]; cached {
		r.mu.RUnlock()
		if !valid {
			return "", false
		}
		return name, true
	}
	r.mu.RUnlock()

	_, err := time.LoadLocation(name)
	valid := err == nil

	r.mu.Lock()
	r.validity[name] = valid
	r.mu.Unlock()

	if !valid {
		if r.logger != nil {
			r.logger.Warn("zone validation failed", "zone", name, "error", err)
		}
		return "", false
	}
	return name, true
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

// parseOffsetLabel parses an entire string as an offset label of the form
// (optional leading UTC/GMT, optional parens) ±H, ±HH, ±HH:MM, or ±HHMM.
func parseOffsetLabel(s string) (int, bool) {
	m := offsetLabelPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, false
	}
	sign := 1
	if m[1] == "-" {
		sign = -1
	}
	hours, err := strconv.Atoi(m[2])
	if err != nil {
		return 0, false
	}
	minutes := 0
	if m[3] != "" {
		minutes, err = strconv.Atoi(m[3])
		if err != nil {
			return 0, false
		}
	}
	if hours > 14 || (hours == 14 && minutes != 0) || minutes >= 60 {
		return 0, false
	}
	return sign * (hours*60 + minutes), true
}

// parseOffsetFragment parses a bare "±HH:MM" fragment (no UTC/GMT prefix,
// no parens — those are stripped by the caller already).
func parseOffsetFragment(s string) (int, bool) {
	return parseOffsetLabel(s)
}

func formatOffsetLabel(minutes int) string {
	sign := "+"
	if minutes < 0 {
		sign = "-"
		minutes = -minutes
	}
	return sign + pad2(minutes/60) + ":" + pad2(minutes%60)
}

func pad2(n int) string {
	s := strconv.Itoa(n)
	if len(s) < 2 {
		return "0" + s
	}
	return s
}

// EtcGMTName derives the Etc/GMT±N name for a whole-hour fixed offset. Note
// the inverted sign: POSIX Etc/GMT zones name positive-offset zones with a
// minus (Etc/GMT-5 is UTC+5).
func EtcGMTName(offsetMinutes int) (string, bool) {
	if offsetMinutes%60 != 0 {
		return "", false
	}
	hours := offsetMinutes / 60
	if hours == 0 {
		return "Etc/GMT", true
	}
	sign := "-"
	if hours < 0 {
		sign = "+"
		hours = -hours
	}
	return "Etc/GMT" + sign + strconv.Itoa(hours), true
}

// Package windowszones loads the Windows display-label -> IANA zone name
// mapping from an embedded excerpt of Unicode CLDR's windowsZones.xml,
// parsed with github.com/beevik/etree, and exposes the matching semantics
// the zone resolver needs: exact, case-insensitive/whitespace-collapsed,
// parenthetical-stripped, and comma-segment lookups.
package windowszones

import (
	_ "embed"
	"regexp"
	"strings"
	"sync"

	"github.com/beevik/etree"
)

//go:embed windows_zones.xml
var cldrXML []byte

// Table is a parsed Windows-label -> IANA-name-list mapping.
type Table struct {
	// entries maps a "other" label, verbatim as it appears in the CLDR
	// territory="001" row, to its ordered IANA candidate names.
	entries map[string][]string
	// normalized maps the case-folded, whitespace-collapsed form of a label
	// to the same candidate list, for case-insensitive lookups.
	normalized map[string][]string
}

var (
	defaultTable     *Table
	defaultTableOnce sync.Once
)

// Default returns the Table parsed from the embedded CLDR excerpt. It is
// loaded once per process and safe for concurrent read-only use thereafter.
func Default() *Table {
	defaultTableOnce.Do(func() {
		t, err := Parse(cldrXML)
		if err != nil {
			// The embedded resource is a build-time constant; a parse
			// failure here is a programming error, not a runtime one.
			panic("windowszones: failed to parse embedded windows_zones.xml: " + err.Error())
		}
		defaultTable = t
	})
	return defaultTable
}

// Parse builds a Table from CLDR windowsZones.xml content. Only
// territory="001" rows are retained, matching the "one canonical IANA name
// per Windows label" semantics the resolver needs.
func Parse(xmlData []byte) (*Table, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlData); err != nil {
		return nil, err
	}

	t := &Table{
		entries:    make(map[string][]string),
		normalized: make(map[string][]string),
	}

	for _, mapZone := range doc.FindElements("//mapTimezones/mapZone") {
		if mapZone.SelectAttrValue("territory", "") != "001" {
			continue
		}
		label := mapZone.SelectAttrValue("other", "")
		typeAttr := mapZone.SelectAttrValue("type", "")
		if label == "" || typeAttr == "" {
			continue
		}
		names := strings.Fields(typeAttr)
		if len(names) == 0 {
			continue
		}
		t.entries[label] = names
		t.normalized[normalizeLabel(label)] = names
	}

	return t, nil
}

var leadingParenthetical = regexp.MustCompile(`^\([^)]*\)\s*`)

// Lookup resolves a Windows display label (or a label embedded in a
// comma-separated composite string) to its first candidate IANA name,
// trying in order: exact match, case-insensitive/whitespace-collapsed
// match, the label with a leading "(UTC…)"/"(GMT…)" parenthetical removed,
// and each comma-separated segment of that stripped label.
func (t *Table) Lookup(label string) (string, bool) {
	if names, ok := t.entries[label]; ok {
		return names[0], true
	}
	if names, ok := t.normalized[normalizeLabel(label)]; ok {
		return names[0], true
	}

	stripped := leadingParenthetical.ReplaceAllString(label, "")
	if stripped != label {
		if names, ok := t.entries[stripped]; ok {
			return names[0], true
		}
		if names, ok := t.normalized[normalizeLabel(stripped)]; ok {
			return names[0], true
		}
	}

	for _, segment := range strings.Split(stripped, ",") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}
		if names, ok := t.entries[segment]; ok {
			return names[0], true
		}
		if names, ok := t.normalized[normalizeLabel(segment)]; ok {
			return names[0], true
		}
	}

	return "", false
}

var whitespaceRun = regexp.MustCompile(`\s+`)

func normalizeLabel(s string) string {
	return whitespaceRun.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

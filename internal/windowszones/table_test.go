package windowszones

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_LoadsEmbeddedTable(t *testing.T) {
	table := Default()
	require.NotNil(t, table)

	name, ok := table.Lookup("Pacific Standard Time")
	require.True(t, ok)
	assert.Equal(t, "America/Los_Angeles", name)
}

func TestTable_Lookup_CaseInsensitive(t *testing.T) {
	table := Default()
	name, ok := table.Lookup("pacific standard time")
	require.True(t, ok)
	assert.Equal(t, "America/Los_Angeles", name)
}

func TestTable_Lookup_WhitespaceCollapsed(t *testing.T) {
	table := Default()
	name, ok := table.Lookup("Pacific   Standard   Time")
	require.True(t, ok)
	assert.Equal(t, "America/Los_Angeles", name)
}

func TestTable_Lookup_LeadingParenthetical(t *testing.T) {
	table := Default()
	name, ok := table.Lookup("(UTC-08:00) Pacific Standard Time")
	require.True(t, ok)
	assert.Equal(t, "America/Los_Angeles", name)
}

func TestTable_Lookup_CommaSegment(t *testing.T) {
	table := Default()
	name, ok := table.Lookup("Some Prefix, Pacific Standard Time")
	require.True(t, ok)
	assert.Equal(t, "America/Los_Angeles", name)
}

func TestTable_Lookup_Unknown(t *testing.T) {
	table := Default()
	_, ok := table.Lookup("Not A Real Windows Zone")
	assert.False(t, ok)
}

func TestTable_Lookup_FirstCandidateOfMultiName(t *testing.T) {
	table := Default()
	name, ok := table.Lookup("Russia TZ 2 Standard Time")
	require.True(t, ok)
	assert.Equal(t, "Europe/Kirov", name)
}

func TestParse_IgnoresNonWorldTerritoryByDefault(t *testing.T) {
	table := Default()
	// The territory="GB" row for GMT Standard Time exists in the embedded
	// data but only the territory="001" row is indexed for lookup.
	name, ok := table.Lookup("GMT Standard Time")
	require.True(t, ok)
	assert.Equal(t, "Europe/London", name)
}

func TestParse_RejectsMalformedXML(t *testing.T) {
	_, err := Parse([]byte("<supplementalData><unclosed>"))
	assert.Error(t, err)
}

package recurrence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRRuleIterator_DailyCount(t *testing.T) {
	start := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)
	iter, err := NewRRuleIterator("FREQ=DAILY;COUNT=3", start)
	require.NoError(t, err)

	occurrences, err := iter.Between(start, start.AddDate(0, 0, 30))
	require.NoError(t, err)
	require.Len(t, occurrences, 3)
	assert.True(t, occurrences[0].Equal(start))
	assert.True(t, occurrences[1].Equal(start.AddDate(0, 0, 1)))
	assert.True(t, occurrences[2].Equal(start.AddDate(0, 0, 2)))
}

func TestNewRRuleIterator_PreservesDtstartLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	start := time.Date(2024, 3, 3, 16, 0, 0, 0, loc)

	iter, err := NewRRuleIterator("FREQ=WEEKLY;COUNT=3", start)
	require.NoError(t, err)

	occurrences, err := iter.Between(start, start.AddDate(0, 0, 21))
	require.NoError(t, err)
	require.Len(t, occurrences, 3)
	for _, occ := range occurrences {
		assert.Equal(t, 16, occ.In(loc).Hour(), "occurrence should stay at 16:00 local time")
	}
}

func TestNewRRuleIterator_RejectsInvalidRule(t *testing.T) {
	_, err := NewRRuleIterator("FREQ=NOT_A_FREQUENCY", time.Now().UTC())
	assert.Error(t, err)
}

func TestNewRRuleIterator_UntilBound(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	iter, err := NewRRuleIterator("FREQ=DAILY;UNTIL=20240103T000000Z", start)
	require.NoError(t, err)

	occurrences, err := iter.Between(start, start.AddDate(0, 1, 0))
	require.NoError(t, err)
	assert.Len(t, occurrences, 3)
}

func TestNewRRuleIterator_BetweenRespectsWindow(t *testing.T) {
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	iter, err := NewRRuleIterator("FREQ=DAILY;COUNT=30", start)
	require.NoError(t, err)

	occurrences, err := iter.Between(
		time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 12, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)
	assert.Len(t, occurrences, 3)
}

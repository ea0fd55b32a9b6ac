package query

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseWindow(t *testing.T) {
	for in, want := range map[string]Window{
		"today":      Today,
		"Yesterday":  Yesterday,
		"this-week":  ThisWeek,
		"week":       ThisWeek,
		"This Month": ThisMonth,
		"last_month": LastMonth,
	} {
		got, ok := ParseWindow(in)
		require.True(t, ok, in)
		require.Equal(t, want, got, in)
	}

	_, ok := ParseWindow("fortnight")
	require.False(t, ok)
}

func TestWindowBounds(t *testing.T) {
	now := time.Date(2024, time.March, 3, 9, 0, 0, 0, time.UTC) // a Sunday

	start, end, ok := Today.Bounds(now, time.Monday)
	require.True(t, ok)
	require.Equal(t, time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2024, time.March, 4, 0, 0, 0, 0, time.UTC), end)

	start, end, _ = Yesterday.Bounds(now, time.Monday)
	require.Equal(t, time.Date(2024, time.March, 2, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC), end)

	start, end, _ = ThisWeek.Bounds(now, time.Monday)
	require.Equal(t, time.Date(2024, time.February, 26, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, now, end)

	start, _, _ = ThisWeek.Bounds(now, time.Sunday)
	require.Equal(t, time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC), start)

	start, end, _ = LastMonth.Bounds(now, time.Monday)
	require.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC), end)

	jan := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC)
	start, end, _ = LastMonth.Bounds(jan, time.Monday)
	require.Equal(t, time.Date(2023, time.December, 1, 0, 0, 0, 0, time.UTC), start)
	require.Equal(t, time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC), end)
}

func TestWindowIsHalfOpen(t *testing.T) {
	now := time.Date(2024, time.March, 3, 9, 0, 0, 0, time.UTC)
	midnight := time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC)

	require.True(t, Today.Contains(midnight, now, time.Monday))
	require.False(t, Yesterday.Contains(midnight, now, time.Monday))
	require.True(t, Yesterday.Contains(midnight.Add(-time.Nanosecond), now, time.Monday))
}

func TestParseWeekday(t *testing.T) {
	d, ok := ParseWeekday("monday")
	require.True(t, ok)
	require.Equal(t, time.Monday, d)

	d, ok = ParseWeekday("Sun")
	require.True(t, ok)
	require.Equal(t, time.Sunday, d)

	_, ok = ParseWeekday("x")
	require.False(t, ok)
}

func TestPageRequest(t *testing.T) {
	require.Equal(t, 0, PageRequest{PageToken: "garbage!"}.Offset())
	require.Equal(t, 40, PageRequest{PageToken: EncodePageToken(40)}.Offset())
	require.Equal(t, DefaultMaxResults, PageRequest{}.Limit(0))
	require.Equal(t, 25, PageRequest{}.Limit(25))
	require.Equal(t, MaxMaxResults, PageRequest{MaxResults: 5000}.Limit(0))
	require.Empty(t, NextPageToken(0, 10, 10))
	require.Equal(t, EncodePageToken(10), NextPageToken(0, 10, 11))
}

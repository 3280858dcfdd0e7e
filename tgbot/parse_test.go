package tgbot

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseVolume(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"135", 135, true},
		{" 90 ", 90, true},
		{"abc", 0, false},
		{"0", 0, false},
		{"-5", 0, false},
		{"13.5", 0, false},
		{"", 0, false},
		{"120 ml", 0, false},
	}

	for _, tc := range tests {
		ml, err := parseVolume(tc.in)
		if tc.ok {
			require.NoError(t, err, "input %q", tc.in)
			require.Equal(t, tc.want, ml, "input %q", tc.in)
		} else {
			require.Error(t, err, "input %q", tc.in)
		}
	}
}

func TestParseFeedTimeBareRollsForward(t *testing.T) {
	now := time.Date(2026, 1, 10, 15, 0, 0, 0, time.UTC)

	// already past today, so it means tomorrow
	at, err := parseFeedTime("14:30", now, time.UTC)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 1, 11, 14, 30, 0, 0, time.UTC), at)

	// still ahead today
	at, err = parseFeedTime("16:45", now, time.UTC)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 1, 10, 16, 45, 0, 0, time.UTC), at)

	// exactly now is not "after", so tomorrow
	at, err = parseFeedTime("15:00", now, time.UTC)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 1, 11, 15, 0, 0, 0, time.UTC), at)
}

func TestParseFeedTimeAbsolute(t *testing.T) {
	now := time.Date(2026, 1, 10, 15, 0, 0, 0, time.UTC)

	// absolute date-times are taken as given even when in the past
	at, err := parseFeedTime("2026-01-09 08:15", now, time.UTC)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 1, 9, 8, 15, 0, 0, time.UTC), at)
}

func TestParseFeedTimeZoneConversion(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*3600)
	now := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC) // 15:00 local

	at, err := parseFeedTime("16:30", now, loc)
	require.NoError(t, err)
	require.Equal(t, time.Date(2026, 1, 10, 13, 30, 0, 0, time.UTC), at)
}

func TestParseFeedTimeRejectsGarbage(t *testing.T) {
	now := time.Date(2026, 1, 10, 15, 0, 0, 0, time.UTC)

	for _, in := range []string{"", "noon", "25:00", "14.30", "2026-01-10"} {
		_, err := parseFeedTime(in, now, time.UTC)
		require.Error(t, err, "input %q", in)
	}
}

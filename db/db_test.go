package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func openTest(t *testing.T) *Database {
	t.Helper()

	d, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { d.Close() })

	return d
}

var base = time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)

func TestAddAndListFeedings(t *testing.T) {
	d := openTest(t)

	_, err := d.AddFeeding(1, base.Add(-time.Hour), 120)
	require.NoError(t, err)
	_, err = d.AddFeeding(1, base.Add(-3*time.Hour), 90)
	require.NoError(t, err)
	_, err = d.AddFeeding(1, base.Add(-25*time.Hour), 150) // outside the window
	require.NoError(t, err)
	_, err = d.AddFeeding(2, base.Add(-time.Minute), 210) // another owner
	require.NoError(t, err)

	feedings, err := d.FeedingsSince(1, base.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, feedings, 2)

	require.Equal(t, base.Add(-3*time.Hour), feedings[0].At)
	require.Equal(t, 90, feedings[0].Volume)
	require.Equal(t, base.Add(-time.Hour), feedings[1].At)
	require.Equal(t, 120, feedings[1].Volume)
}

func TestAddFeedingWithoutVolume(t *testing.T) {
	d := openTest(t)

	_, err := d.AddFeeding(1, base, 0)
	require.NoError(t, err)

	feedings, err := d.FeedingsSince(1, base.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, feedings, 1)
	require.Zero(t, feedings[0].Volume)
}

func TestDeleteLastFeeding(t *testing.T) {
	d := openTest(t)

	found, err := d.DeleteLastFeeding(1)
	require.NoError(t, err)
	require.False(t, found)

	_, err = d.AddFeeding(1, base.Add(-2*time.Hour), 90)
	require.NoError(t, err)
	_, err = d.AddFeeding(1, base.Add(-time.Hour), 120)
	require.NoError(t, err)

	found, err = d.DeleteLastFeeding(1)
	require.NoError(t, err)
	require.True(t, found)

	feedings, err := d.FeedingsSince(1, base.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, feedings, 1)
	require.Equal(t, 90, feedings[0].Volume)
}

func TestDeleteLastFeedingEqualTimestamps(t *testing.T) {
	d := openTest(t)

	_, err := d.AddFeeding(1, base, 90)
	require.NoError(t, err)
	_, err = d.AddFeeding(1, base, 120)
	require.NoError(t, err)

	found, err := d.DeleteLastFeeding(1)
	require.NoError(t, err)
	require.True(t, found)

	feedings, err := d.FeedingsSince(1, base.Add(-time.Hour))
	require.NoError(t, err)
	require.Len(t, feedings, 1)
}

func TestDeleteAllFeedingsKeepsOtherOwners(t *testing.T) {
	d := openTest(t)

	_, err := d.AddFeeding(1, base.Add(-time.Hour), 90)
	require.NoError(t, err)
	_, err = d.AddFeeding(1, base.Add(-2*time.Hour), 120)
	require.NoError(t, err)
	_, err = d.AddFeeding(2, base.Add(-time.Hour), 150)
	require.NoError(t, err)

	n, err := d.DeleteAllFeedings(1)
	require.NoError(t, err)
	require.EqualValues(t, 2, n)

	feedings, err := d.FeedingsSince(1, base.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Empty(t, feedings)

	feedings, err = d.FeedingsSince(2, base.Add(-24*time.Hour))
	require.NoError(t, err)
	require.Len(t, feedings, 1)
}

package db

import (
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jmhodges/clock"
	"github.com/stretchr/testify/require"
)

func TestCreateInviteCodeShape(t *testing.T) {
	d := openTest(t)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		code, err := d.CreateInvite(1)
		require.NoError(t, err)
		require.Len(t, code, codeLen)
		for _, c := range code {
			require.True(t, strings.ContainsRune(codeAlphabet, c), "unexpected character %q", c)
		}
		require.False(t, seen[code], "duplicate code %s", code)
		seen[code] = true
	}
}

func TestClaimInvite(t *testing.T) {
	d := openTest(t)

	code, err := d.CreateInvite(100)
	require.NoError(t, err)

	ownerID, status, err := d.ClaimInvite(code, 7)
	require.NoError(t, err)
	require.Equal(t, JoinOK, status)
	require.EqualValues(t, 100, ownerID)

	// the second claim loses and the original binding survives
	_, status, err = d.ClaimInvite(code, 8)
	require.NoError(t, err)
	require.Equal(t, JoinAlreadyUsed, status)

	ownerID, ok, err := d.OwnerByInvited(7)
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 100, ownerID)

	_, ok, err = d.OwnerByInvited(8)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestClaimInviteUnknownCode(t *testing.T) {
	d := openTest(t)

	_, status, err := d.ClaimInvite("NOPE42", 7)
	require.NoError(t, err)
	require.Equal(t, JoinNotFound, status)
}

func TestConcurrentClaimsSingleWinner(t *testing.T) {
	d := openTest(t)

	code, err := d.CreateInvite(100)
	require.NoError(t, err)

	const claimers = 8
	var wg sync.WaitGroup
	results := make(chan JoinStatus, claimers)

	for i := 0; i < claimers; i++ {
		wg.Add(1)
		go func(invited int64) {
			defer wg.Done()
			_, status, err := d.ClaimInvite(code, invited)
			require.NoError(t, err)
			results <- status
		}(int64(i + 1))
	}
	wg.Wait()
	close(results)

	var wins int
	for status := range results {
		if status == JoinOK {
			wins++
		}
	}
	require.Equal(t, 1, wins)
}

func TestOwnerByInvitedLastClaimWins(t *testing.T) {
	d := openTest(t)

	fc := clock.NewFake()
	fc.Set(time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC))
	old := clk
	clk = fc
	t.Cleanup(func() { clk = old })

	codeA, err := d.CreateInvite(100)
	require.NoError(t, err)
	codeB, err := d.CreateInvite(200)
	require.NoError(t, err)

	_, status, err := d.ClaimInvite(codeA, 7)
	require.NoError(t, err)
	require.Equal(t, JoinOK, status)

	fc.Add(time.Minute)

	_, status, err = d.ClaimInvite(codeB, 7)
	require.NoError(t, err)
	require.Equal(t, JoinOK, status)

	ownerID, ok, err := d.OwnerByInvited(7)
	require.NoError(t, err)
	require.True(t, ok)
	require.EqualValues(t, 200, ownerID)
}

package services

import (
	"sync"
	"testing"
	"trio/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestJoinCreatesWaitingMatchAndEscrows(t *testing.T) {
	e := newTestEngine(t)
	seedUser(t, e, "alice", "100")

	m, seatCount, err := e.Join("alice", decimal.NewFromInt(10))
	require.NoError(t, err)
	require.Equal(t, models.MatchWaiting, m.Status)
	require.Equal(t, 1, seatCount)

	requireAmount(t, "90", balanceOf(t, e, "alice"))

	entries := ledgerOf(t, e, "alice")
	require.Len(t, entries, 1)
	require.Equal(t, models.KindBet, entries[0].Kind)
	requireAmount(t, "-10", entries[0].Amount)
}

func TestJoinReusesWaitingMatchAtSameStake(t *testing.T) {
	e := newTestEngine(t)
	seedUser(t, e, "alice", "100")
	seedUser(t, e, "bob", "100")
	seedUser(t, e, "carol", "100")

	m1, _, err := e.Join("alice", decimal.NewFromInt(10))
	require.NoError(t, err)

	m2, seatCount, err := e.Join("bob", decimal.NewFromInt(10))
	require.NoError(t, err)
	require.Equal(t, m1.ID, m2.ID)
	require.Equal(t, 2, seatCount)

	// A different stake opens a separate match.
	m3, _, err := e.Join("carol", decimal.NewFromInt(25))
	require.NoError(t, err)
	require.NotEqual(t, m1.ID, m3.ID)
}

func TestJoinRejectsDuplicateSeat(t *testing.T) {
	e := newTestEngine(t)
	seedUser(t, e, "alice", "100")

	_, _, err := e.Join("alice", decimal.NewFromInt(10))
	require.NoError(t, err)

	_, _, err = e.Join("alice", decimal.NewFromInt(10))
	require.ErrorIs(t, err, ErrAlreadyJoined)

	requireAmount(t, "90", balanceOf(t, e, "alice"))
}

func TestJoinInsufficientFundsLeavesNoTrace(t *testing.T) {
	e := newTestEngine(t)
	seedUser(t, e, "poor", "5")

	_, _, err := e.Join("poor", decimal.NewFromInt(10))
	require.ErrorIs(t, err, ErrInsufficientFunds)

	requireAmount(t, "5", balanceOf(t, e, "poor"))

	var count int64
	require.NoError(t, e.DB.Model(&models.Participant{}).Count(&count).Error)
	require.Zero(t, count)
}

func TestThirdSeatActivatesMatch(t *testing.T) {
	e := newTestEngine(t)
	seedUser(t, e, "alice", "100")
	seedUser(t, e, "bob", "100")
	seedUser(t, e, "carol", "100")

	events := e.Events.Subscribe(4)

	e.mustJoin(t, "alice", "10")
	e.mustJoin(t, "bob", "10")
	m, seatCount, err := e.Join("carol", decimal.NewFromInt(10))
	require.NoError(t, err)
	require.Equal(t, 3, seatCount)
	require.Equal(t, models.MatchActive, m.Status)

	select {
	case ev := <-events:
		require.Equal(t, EventMatchFilled, ev.Type)
		require.Equal(t, m.ID, ev.MatchID)
		require.Len(t, ev.Seats, 3)
	default:
		t.Fatal("expected a match_filled event")
	}
}

func TestConcurrentThirdSeat(t *testing.T) {
	e := newTestEngine(t)
	seedUser(t, e, "alice", "100")
	seedUser(t, e, "bob", "100")
	seedUser(t, e, "carol", "10")
	seedUser(t, e, "dave", "10")

	first := e.mustJoin(t, "alice", "10")
	e.mustJoin(t, "bob", "10")

	type outcome struct {
		match *models.Match
		seats int
		err   error
	}
	results := make([]outcome, 2)

	var wg sync.WaitGroup
	for i, code := range []string{"carol", "dave"} {
		wg.Add(1)
		go func(i int, code string) {
			defer wg.Done()
			m, n, err := e.Join(code, decimal.NewFromInt(10))
			results[i] = outcome{m, n, err}
		}(i, code)
	}
	wg.Wait()

	filled := 0
	for _, r := range results {
		switch {
		case r.err == nil && r.match.ID == first.ID:
			require.Equal(t, 3, r.seats)
			filled++
		case r.err == nil:
			// Landed in a fresh waiting match.
			require.Equal(t, models.MatchWaiting, r.match.Status)
		default:
			require.ErrorIs(t, r.err, ErrMatchFull)
		}
	}
	require.Equal(t, 1, filled, "exactly one joiner may take the third seat")

	// The original match never grew a fourth seat.
	var count int64
	require.NoError(t, e.DB.Model(&models.Participant{}).
		Where("match_id = ?", first.ID).Count(&count).Error)
	require.EqualValues(t, 3, count)
}

func TestJoinRejectsNonPositiveBet(t *testing.T) {
	e := newTestEngine(t)
	seedUser(t, e, "alice", "100")

	_, _, err := e.Join("alice", decimal.Zero)
	require.ErrorIs(t, err, ErrInvalidAmount)
}

func (e *Engine) mustJoin(t *testing.T, code, bet string) *models.Match {
	t.Helper()
	m, _, err := e.Join(code, decimal.RequireFromString(bet))
	require.NoError(t, err)
	return m
}

package services

import (
	"testing"
	"time"
	"trio/models"

	"github.com/stretchr/testify/require"
)

func TestSweepStaleRefundsOnce(t *testing.T) {
	e := newTestEngine(t)
	seedUser(t, e, "alice", "50")

	m := e.mustJoin(t, "alice", "10")
	requireAmount(t, "40", balanceOf(t, e, "alice"))

	// Not old enough yet.
	require.Zero(t, e.SweepStale())

	backdate(t, e, m.ID, e.Config.StaleTimeout+time.Minute)
	require.Equal(t, 1, e.SweepStale())

	requireAmount(t, "50", balanceOf(t, e, "alice"))

	cancelled, err := e.GetMatch(m.ID)
	require.NoError(t, err)
	require.Equal(t, models.MatchCancelled, cancelled.Status)

	// An overlapping or repeated sweep must not refund twice.
	require.Zero(t, e.SweepStale())
	requireAmount(t, "50", balanceOf(t, e, "alice"))
}

func TestSweepStaleSkipsActiveMatches(t *testing.T) {
	e := newTestEngine(t)
	seedUser(t, e, "alice", "50")
	seedUser(t, e, "bob", "50")
	seedUser(t, e, "carol", "50")

	m := fillMatch(t, e, "10", "alice", "bob", "carol")
	backdate(t, e, m.ID, e.Config.StaleTimeout+time.Minute)

	require.Zero(t, e.SweepStale())

	got, err := e.GetMatch(m.ID)
	require.NoError(t, err)
	require.Equal(t, models.MatchActive, got.Status)
}

func TestForceStartTwoSeatMatch(t *testing.T) {
	e := newTestEngine(t)
	seedUser(t, e, "alice", "50")
	seedUser(t, e, "bob", "50")

	m := e.mustJoin(t, "alice", "10")
	e.mustJoin(t, "bob", "10")

	// Inside the grace period nothing happens.
	require.Zero(t, e.SweepForceStart())

	backdate(t, e, m.ID, e.Config.TwoPlayerGrace+time.Minute)
	require.Equal(t, 1, e.SweepForceStart())

	started, err := e.GetMatch(m.ID)
	require.NoError(t, err)
	require.Equal(t, models.MatchActive, started.Status)

	// The two present players can now play a decisive two-way round.
	_, err = e.Choose(m.ID, "alice", models.ChoiceScissors)
	require.NoError(t, err)
	done, err := e.Choose(m.ID, "bob", models.ChoiceRock)
	require.NoError(t, err)

	require.Equal(t, models.MatchCompleted, done.Status)
	// Pot 20, fee 5% = 1, bob takes 19.
	requireAmount(t, "40", balanceOf(t, e, "alice"))
	requireAmount(t, "59", balanceOf(t, e, "bob"))
}

func TestForceStartIgnoresWrongSeatCounts(t *testing.T) {
	e := newTestEngine(t)
	seedUser(t, e, "alice", "50")

	m := e.mustJoin(t, "alice", "10")
	backdate(t, e, m.ID, e.Config.TwoPlayerGrace+time.Minute)

	require.Zero(t, e.SweepForceStart())

	got, err := e.GetMatch(m.ID)
	require.NoError(t, err)
	require.Equal(t, models.MatchWaiting, got.Status)
}

func TestStaleTwoSeatMatchIsCancelledNotStarted(t *testing.T) {
	// Past the stale timeout both rules match; the reaper runs the stale
	// sweep first so the match is refunded, not revived.
	e := newTestEngine(t)
	seedUser(t, e, "alice", "50")
	seedUser(t, e, "bob", "50")

	m := e.mustJoin(t, "alice", "10")
	e.mustJoin(t, "bob", "10")
	backdate(t, e, m.ID, e.Config.StaleTimeout+time.Minute)

	require.Equal(t, 1, e.SweepStale())
	require.Zero(t, e.SweepForceStart())

	got, err := e.GetMatch(m.ID)
	require.NoError(t, err)
	require.Equal(t, models.MatchCancelled, got.Status)
	requireAmount(t, "50", balanceOf(t, e, "alice"))
	requireAmount(t, "50", balanceOf(t, e, "bob"))
}

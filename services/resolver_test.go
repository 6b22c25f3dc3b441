package services

import (
	"testing"
	"trio/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func seats(choices ...string) []models.Participant {
	var parts []models.Participant
	for i, c := range choices {
		parts = append(parts, models.Participant{
			UserID:   uint(i + 1),
			UserCode: string(rune('a' + i)),
			Choice:   c,
		})
	}
	return parts
}

func TestResolveDraws(t *testing.T) {
	bet := decimal.NewFromInt(10)
	fee := decimal.NewFromInt(5)

	tests := []struct {
		name    string
		choices []string
	}{
		{"all rock", []string{models.ChoiceRock, models.ChoiceRock, models.ChoiceRock}},
		{"all paper", []string{models.ChoicePaper, models.ChoicePaper, models.ChoicePaper}},
		{"all distinct", []string{models.ChoiceRock, models.ChoicePaper, models.ChoiceScissors}},
		{"two seats same", []string{models.ChoiceScissors, models.ChoiceScissors}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Resolve(seats(tt.choices...), bet, fee)

			require.Equal(t, OutcomeDraw, s.Outcome)
			require.Empty(t, s.Winners)
			require.True(t, s.Fee.IsZero())
			require.Len(t, s.Payouts, len(tt.choices))

			total := decimal.Zero
			for _, p := range s.Payouts {
				requireAmount(t, "10", p)
				total = total.Add(p)
			}
			require.True(t, total.Equal(s.Pot), "draw refunds must return the pot")
		})
	}
}

func TestResolveSingleWinner(t *testing.T) {
	// Rock/Rock/Paper at bet 10, fee 5%: pot 30, fee 1.5, paper takes 28.5.
	s := Resolve(
		seats(models.ChoiceRock, models.ChoiceRock, models.ChoicePaper),
		decimal.NewFromInt(10), decimal.NewFromInt(5),
	)

	require.Equal(t, OutcomeWin, s.Outcome)
	require.Equal(t, []uint{3}, s.Winners)
	requireAmount(t, "30", s.Pot)
	requireAmount(t, "1.5", s.Fee)
	require.Len(t, s.Payouts, 1)
	requireAmount(t, "28.5", s.Payouts[3])
}

func TestResolveWinnerTable(t *testing.T) {
	bet := decimal.NewFromInt(10)
	fee := decimal.Zero

	tests := []struct {
		name    string
		choices []string
		winner  uint
	}{
		{"rock beats scissors", []string{models.ChoiceRock, models.ChoiceScissors, models.ChoiceScissors}, 1},
		{"paper beats rock", []string{models.ChoiceRock, models.ChoicePaper, models.ChoiceRock}, 2},
		{"scissors beats paper", []string{models.ChoicePaper, models.ChoicePaper, models.ChoiceScissors}, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Resolve(seats(tt.choices...), bet, fee)
			require.Equal(t, OutcomeWin, s.Outcome)
			require.Equal(t, []uint{tt.winner}, s.Winners)
			requireAmount(t, "30", s.Payouts[tt.winner])
		})
	}
}

func TestResolveSplitPot(t *testing.T) {
	// Paper/Paper/Rock at bet 10, fee 5%: two winners share 28.5 evenly.
	s := Resolve(
		seats(models.ChoicePaper, models.ChoicePaper, models.ChoiceRock),
		decimal.NewFromInt(10), decimal.NewFromInt(5),
	)

	require.Equal(t, OutcomeWin, s.Outcome)
	require.Equal(t, []uint{1, 2}, s.Winners)
	requireAmount(t, "14.25", s.Payouts[1])
	requireAmount(t, "14.25", s.Payouts[2])
	_, loserPaid := s.Payouts[3]
	require.False(t, loserPaid)
}

func TestResolveSplitRemainderCent(t *testing.T) {
	// Pot 0.15, no fee, two winners: 0.075 each does not exist in cents,
	// so the earliest seat takes the spare cent.
	s := Resolve(
		seats(models.ChoiceRock, models.ChoiceRock, models.ChoiceScissors),
		decimal.RequireFromString("0.05"), decimal.Zero,
	)

	require.Equal(t, OutcomeWin, s.Outcome)
	requireAmount(t, "0.08", s.Payouts[1])
	requireAmount(t, "0.07", s.Payouts[2])

	total := s.Fee
	for _, p := range s.Payouts {
		total = total.Add(p)
	}
	require.True(t, total.Equal(s.Pot), "payouts plus fee must equal the pot")
}

func TestResolveTwoSeats(t *testing.T) {
	// Force-started matches settle with the same rule set.
	s := Resolve(
		seats(models.ChoiceRock, models.ChoiceScissors),
		decimal.NewFromInt(10), decimal.NewFromInt(5),
	)

	require.Equal(t, OutcomeWin, s.Outcome)
	require.Equal(t, []uint{1}, s.Winners)
	requireAmount(t, "20", s.Pot)
	requireAmount(t, "1", s.Fee)
	requireAmount(t, "19", s.Payouts[1])
}

func TestResolveDeterministic(t *testing.T) {
	parts := seats(models.ChoiceRock, models.ChoiceRock, models.ChoicePaper)
	bet := decimal.NewFromInt(10)
	fee := decimal.NewFromInt(5)

	first := Resolve(parts, bet, fee)
	for i := 0; i < 50; i++ {
		again := Resolve(parts, bet, fee)
		require.Equal(t, first.Outcome, again.Outcome)
		require.Equal(t, first.Winners, again.Winners)
		require.True(t, first.Fee.Equal(again.Fee))
		for id, p := range first.Payouts {
			require.True(t, p.Equal(again.Payouts[id]))
		}
	}
}

package services

import (
	"trio/models"

	"github.com/shopspring/decimal"
)

const (
	OutcomeDraw = "draw"
	OutcomeWin  = "win"
)

// beats maps each choice onto the choice it defeats.
var beats = map[string]string{
	models.ChoiceRock:     models.ChoiceScissors,
	models.ChoicePaper:    models.ChoiceRock,
	models.ChoiceScissors: models.ChoicePaper,
}

// Settlement is the resolver's verdict: who gets credited what. It is a
// pure function of the seated choices, the bet and the fee percent, so
// repeated resolution of the same match always lands on the same numbers.
type Settlement struct {
	Outcome string          `json:"outcome"`
	Winners []uint          `json:"winners,omitempty"`
	Pot     decimal.Decimal `json:"pot"`
	Fee     decimal.Decimal `json:"fee"`

	// Payouts keys user ID to the amount credited back: the bet itself on
	// a draw, the (split) pot minus fee on a win, zero rows omitted.
	Payouts map[uint]decimal.Decimal `json:"payouts"`
}

// Resolve settles a fully-seated set of choices. It works for two seats
// (force-started matches) the same as for three: a round is decisive
// exactly when two distinct choice values are present, and the holders of
// the dominating value form the winner set.
func Resolve(parts []models.Participant, bet, feePercent decimal.Decimal) Settlement {
	distinct := map[string]bool{}
	for _, p := range parts {
		distinct[p.Choice] = true
	}

	seats := decimal.NewFromInt(int64(len(parts)))
	pot := bet.Mul(seats)

	if len(distinct) != 2 {
		// All the same choice, or (three seats) all pairwise different:
		// nothing dominates, everyone takes their bet back and the house
		// takes nothing.
		s := Settlement{
			Outcome: OutcomeDraw,
			Pot:     pot,
			Fee:     decimal.Zero,
			Payouts: map[uint]decimal.Decimal{},
		}
		for _, p := range parts {
			s.Payouts[p.UserID] = bet
		}
		return s
	}

	var values []string
	for v := range distinct {
		values = append(values, v)
	}
	winning := values[0]
	if beats[values[1]] == values[0] {
		winning = values[1]
	}

	var winners []uint
	for _, p := range parts {
		if p.Choice == winning {
			winners = append(winners, p.UserID)
		}
	}

	fee := pot.Mul(feePercent).Div(decimal.NewFromInt(100)).Round(2)
	total := pot.Sub(fee)

	// Even split across the winner set. Whole cents only: the division
	// remainder goes to the earliest-seated winner so the payouts plus
	// fee always reconstruct the pot exactly.
	n := decimal.NewFromInt(int64(len(winners)))
	each := total.Div(n).RoundDown(2)
	remainder := total.Sub(each.Mul(n))

	s := Settlement{
		Outcome: OutcomeWin,
		Winners: winners,
		Pot:     pot,
		Fee:     fee,
		Payouts: map[uint]decimal.Decimal{},
	}
	for i, id := range winners {
		payout := each
		if i == 0 {
			payout = payout.Add(remainder)
		}
		s.Payouts[id] = payout
	}
	return s
}

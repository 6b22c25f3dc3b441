package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const MaxSeats = 3

// Match statuses. Transitions are monotonic:
// waiting -> active -> completed, or waiting/active -> cancelled.
const (
	MatchWaiting   = "waiting"
	MatchActive    = "active"
	MatchCompleted = "completed"
	MatchCancelled = "cancelled"
)

const (
	ChoiceUnset    = ""
	ChoiceRock     = "rock"
	ChoicePaper    = "paper"
	ChoiceScissors = "scissors"
)

func ValidChoice(c string) bool {
	return c == ChoiceRock || c == ChoicePaper || c == ChoiceScissors
}

type Match struct {
	gorm.Model

	BetAmount   decimal.Decimal `gorm:"type:numeric(12,2)" json:"bet_amount"`
	Status      string          `gorm:"size:16;index" json:"status"`
	WinnerID    *uint           `gorm:"index" json:"winner_id"`
	CompletedAt *time.Time      `json:"completed_at"`

	// Settlement snapshot written by the resolver: per-seat choices,
	// outcome, payouts and fee.
	Result datatypes.JSON `gorm:"type:jsonb" json:"result"`

	Participants []Participant `gorm:"foreignKey:MatchID"`
}

// Participant is one seat in a match. A user holds at most one seat per
// match and the choice is write-once.
type Participant struct {
	gorm.Model

	MatchID  uint   `gorm:"index:idx_match_user,unique" json:"match_id"`
	UserID   uint   `gorm:"index:idx_match_user,unique" json:"user_id"`
	UserCode string `gorm:"size:32;index" json:"user_code"`
	Choice   string `gorm:"size:16;default:''" json:"choice"`
}

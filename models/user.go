package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type User struct {
	gorm.Model

	UserCode      string          `gorm:"uniqueIndex;size:32" json:"user_code"`
	Balance       decimal.Decimal `gorm:"type:numeric(12,2);default:0" json:"balance"`
	MatchesPlayed int64           `gorm:"default:0" json:"matches_played"`
	MatchesWon    int64           `gorm:"default:0" json:"matches_won"`
	IsActive      bool            `gorm:"default:true" json:"is_active"`
	Entries       []LedgerEntry   `gorm:"foreignKey:UserID"`
}

// Ledger entry kinds. Every balance mutation appends exactly one entry.
const (
	KindBet             = "bet"
	KindWin             = "win"
	KindRefund          = "refund"
	KindAdminAdjustment = "admin_adjustment"
	KindDeposit         = "deposit"
	KindWithdrawal      = "withdrawal"
)

const (
	EntryCompleted = "completed"
	EntryPending   = "pending"
	EntryFailed    = "failed"
)

// LedgerEntry rows are append-only. The only permitted update is a
// gateway-pending entry flipping to completed or failed.
type LedgerEntry struct {
	gorm.Model

	UserID        uint            `gorm:"index"`
	UserCode      string          `gorm:"size:32;index"`
	Amount        decimal.Decimal `gorm:"type:numeric(12,2)" json:"amount"`
	Kind          string          `gorm:"size:24;index" json:"kind"`
	Status        string          `gorm:"size:16;index" json:"status"`
	Reference     string          `gorm:"size:64;uniqueIndex" json:"reference"`
	BalanceBefore decimal.Decimal `gorm:"type:numeric(12,2)" json:"balance_before"`
	BalanceAfter  decimal.Decimal `gorm:"type:numeric(12,2)" json:"balance_after"`
	Note          string          `gorm:"size:255"`
}

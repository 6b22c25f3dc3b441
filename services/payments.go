package services

import (
	"errors"
	"trio/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Funds-gateway boundary. Deposits are credited only once the gateway
// reports the checkout completed; withdrawals debit optimistically and
// are compensated with a refund credit when the gateway rejects them.
// Everything keys off the gateway reference, which is unique in the
// ledger, so replayed webhooks are no-ops.

// CompleteDeposit credits a confirmed gateway deposit. Safe to call more
// than once per reference.
func (e *Engine) CompleteDeposit(userCode string, amount decimal.Decimal, ref string) (*models.User, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	user, err := e.Credit(userCode, amount, models.KindDeposit, ref, "Gateway deposit")
	if errors.Is(err, ErrDuplicateReference) {
		var u models.User
		if lerr := e.DB.Where("user_code = ?", userCode).First(&u).Error; lerr != nil {
			return nil, storageErr(lerr)
		}
		return &u, nil
	}
	return user, err
}

// Withdraw debits the amount up front and records a pending withdrawal
// entry under the gateway reference.
func (e *Engine) Withdraw(userCode string, amount decimal.Decimal, ref string) (*models.User, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	var user *models.User
	err := e.locks.withLock(userKey(userCode), func() error {
		return e.DB.Transaction(func(tx *gorm.DB) error {
			var err error
			user, err = e.debitTx(tx, userCode, amount, models.KindWithdrawal,
				ref, models.EntryPending, "Gateway withdrawal")
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// ConfirmWithdrawal marks a pending withdrawal as paid out.
func (e *Engine) ConfirmWithdrawal(ref string) error {
	return e.settleWithdrawal(ref, true)
}

// FailWithdrawal reverses a pending withdrawal: the entry flips to failed
// and the debited amount is credited back as a compensating refund.
func (e *Engine) FailWithdrawal(ref string) error {
	return e.settleWithdrawal(ref, false)
}

func (e *Engine) settleWithdrawal(ref string, confirmed bool) error {
	var entry models.LedgerEntry
	if err := e.DB.Where("reference = ? AND kind = ?", ref, models.KindWithdrawal).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrReferenceNotFound
		}
		return storageErr(err)
	}
	if entry.Status != models.EntryPending {
		// Already settled; webhook replay.
		return nil
	}

	return e.locks.withLock(userKey(entry.UserCode), func() error {
		return e.DB.Transaction(func(tx *gorm.DB) error {
			res := tx.Model(&models.LedgerEntry{}).
				Where("id = ? AND status = ?", entry.ID, models.EntryPending).
				Update("status", statusFor(confirmed))
			if res.Error != nil {
				return storageErr(res.Error)
			}
			if res.RowsAffected == 0 {
				return nil
			}
			if confirmed {
				return nil
			}
			_, err := e.creditTx(tx, entry.UserCode, entry.Amount.Neg(),
				models.KindRefund, "wdfail:"+ref, models.EntryCompleted,
				"Compensating refund for failed withdrawal")
			return err
		})
	})
}

func statusFor(confirmed bool) string {
	if confirmed {
		return models.EntryCompleted
	}
	return models.EntryFailed
}

// AdminAdjust moves a signed amount on a user's balance with a full audit
// trail. Negative adjustments respect the non-negative balance invariant.
func (e *Engine) AdminAdjust(userCode string, amount decimal.Decimal, note string) (*models.User, error) {
	if amount.Sign() == 0 {
		return nil, ErrInvalidAmount
	}
	if note == "" {
		note = "Admin adjustment"
	}

	ref := "adj:" + uuid.New().String()
	if amount.Sign() > 0 {
		return e.Credit(userCode, amount, models.KindAdminAdjustment, ref, note)
	}
	return e.Debit(userCode, amount.Neg(), models.KindAdminAdjustment, ref, note)
}

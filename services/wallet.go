package services

import (
	"errors"
	"trio/database"
	"trio/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// The wallet primitives are the only code that touches User.Balance.
// Each call row-locks the user, verifies funds (debit only), appends a
// LedgerEntry with before/after snapshots and saves the cached balance,
// all inside the caller's transaction.

func (e *Engine) debitTx(tx *gorm.DB, userCode string, amount decimal.Decimal, kind, ref, status, note string) (*models.User, error) {
	var user models.User
	if err := database.ForUpdate(tx).Where("user_code = ? AND is_active = true", userCode).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageErr(err)
	}

	if user.Balance.LessThan(amount) {
		return nil, ErrInsufficientFunds
	}

	before := user.Balance
	user.Balance = user.Balance.Sub(amount)
	if err := tx.Save(&user).Error; err != nil {
		return nil, storageErr(err)
	}

	entry := models.LedgerEntry{
		UserID:        user.ID,
		UserCode:      user.UserCode,
		Amount:        amount.Neg(),
		Kind:          kind,
		Status:        status,
		Reference:     ref,
		BalanceBefore: before,
		BalanceAfter:  user.Balance,
		Note:          note,
	}
	if err := tx.Create(&entry).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateReference
		}
		return nil, storageErr(err)
	}

	return &user, nil
}

func (e *Engine) creditTx(tx *gorm.DB, userCode string, amount decimal.Decimal, kind, ref, status, note string) (*models.User, error) {
	var user models.User
	if err := database.ForUpdate(tx).Where("user_code = ?", userCode).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, storageErr(err)
	}

	before := user.Balance
	user.Balance = user.Balance.Add(amount)
	if err := tx.Save(&user).Error; err != nil {
		return nil, storageErr(err)
	}

	entry := models.LedgerEntry{
		UserID:        user.ID,
		UserCode:      user.UserCode,
		Amount:        amount,
		Kind:          kind,
		Status:        status,
		Reference:     ref,
		BalanceBefore: before,
		BalanceAfter:  user.Balance,
		Note:          note,
	}
	if err := tx.Create(&entry).Error; err != nil {
		if isDuplicate(err) {
			return nil, ErrDuplicateReference
		}
		return nil, storageErr(err)
	}

	return &user, nil
}

// lockedDebitTx and lockedCreditTx run the wallet primitive inside an
// enclosing match transaction while holding the per-user lock. The match
// lock is always taken first, so the ordering match -> user holds.
func (e *Engine) lockedDebitTx(tx *gorm.DB, userCode string, amount decimal.Decimal, kind, ref, note string) (*models.User, error) {
	var user *models.User
	err := e.locks.withLock(userKey(userCode), func() error {
		var err error
		user, err = e.debitTx(tx, userCode, amount, kind, ref, models.EntryCompleted, note)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (e *Engine) lockedCreditTx(tx *gorm.DB, userCode string, amount decimal.Decimal, kind, ref, note string) (*models.User, error) {
	var user *models.User
	err := e.locks.withLock(userKey(userCode), func() error {
		var err error
		user, err = e.creditTx(tx, userCode, amount, kind, ref, models.EntryCompleted, note)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Debit removes amount from the user's balance as one atomic unit.
func (e *Engine) Debit(userCode string, amount decimal.Decimal, kind, ref, note string) (*models.User, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	var user *models.User
	err := e.locks.withLock(userKey(userCode), func() error {
		return e.DB.Transaction(func(tx *gorm.DB) error {
			var err error
			user, err = e.debitTx(tx, userCode, amount, kind, ref, models.EntryCompleted, note)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Credit adds amount to the user's balance as one atomic unit.
func (e *Engine) Credit(userCode string, amount decimal.Decimal, kind, ref, note string) (*models.User, error) {
	if amount.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}

	var user *models.User
	err := e.locks.withLock(userKey(userCode), func() error {
		return e.DB.Transaction(func(tx *gorm.DB) error {
			var err error
			user, err = e.creditTx(tx, userCode, amount, kind, ref, models.EntryCompleted, note)
			return err
		})
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

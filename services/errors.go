package services

import (
	"errors"

	"gorm.io/gorm"
)

// Engine errors. All are returned to the caller as structured results and
// mapped straight onto the response envelope; none is process-fatal.
var (
	ErrInsufficientFunds  = errors.New("INSUFFICIENT_FUNDS")
	ErrMatchFull          = errors.New("MATCH_FULL")
	ErrAlreadyJoined      = errors.New("ALREADY_JOINED")
	ErrMatchNotActive     = errors.New("MATCH_NOT_ACTIVE")
	ErrAlreadyChosen      = errors.New("ALREADY_CHOSEN")
	ErrMatchNotFound      = errors.New("MATCH_NOT_FOUND")
	ErrUserNotFound       = errors.New("USER_NOT_FOUND")
	ErrInvalidChoice      = errors.New("INVALID_CHOICE")
	ErrInvalidAmount      = errors.New("INVALID_AMOUNT")
	ErrBusy               = errors.New("BUSY")
	ErrStorageUnavailable = errors.New("STORAGE_UNAVAILABLE")
	ErrDuplicateReference = errors.New("DUPLICATE_REFERENCE")
	ErrReferenceNotFound  = errors.New("REFERENCE_NOT_FOUND")
)

var engineErrors = []error{
	ErrInsufficientFunds, ErrMatchFull, ErrAlreadyJoined,
	ErrMatchNotActive, ErrAlreadyChosen, ErrMatchNotFound,
	ErrUserNotFound, ErrInvalidChoice, ErrInvalidAmount,
	ErrBusy, ErrStorageUnavailable, ErrDuplicateReference,
	ErrReferenceNotFound,
}

// Code maps err onto its caller-facing code. Unrecognized errors surface
// as STORAGE_UNAVAILABLE so adapters treat them as retryable.
func Code(err error) string {
	for _, e := range engineErrors {
		if errors.Is(err, e) {
			return e.Error()
		}
	}
	return ErrStorageUnavailable.Error()
}

func isDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

func storageErr(err error) error {
	if err == nil {
		return nil
	}
	return errors.Join(ErrStorageUnavailable, err)
}

package services

import (
	"fmt"
	"trio/database"
	"trio/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func betRef(matchID uint, userCode string) string {
	return fmt.Sprintf("bet:%d:%s", matchID, userCode)
}

func refundRef(matchID uint, userCode string) string {
	return fmt.Sprintf("refund:%d:%s", matchID, userCode)
}

func winRef(matchID uint, userCode string) string {
	return fmt.Sprintf("win:%d:%s", matchID, userCode)
}

// Join seats the user in a waiting match with the same bet, creating one
// when none is open, and escrows the bet. The whole check-then-act
// sequence (duplicate seat, capacity, debit, insert, activation) runs
// under the per-match lock in a single transaction.
func (e *Engine) Join(userCode string, bet decimal.Decimal) (*models.Match, int, error) {
	if bet.Sign() <= 0 {
		return nil, 0, ErrInvalidAmount
	}

	match, err := e.findOrCreateWaiting(bet)
	if err != nil {
		return nil, 0, err
	}

	var seats int
	var filled Event
	err = e.locks.withLock(matchKey(match.ID), func() error {
		return e.DB.Transaction(func(tx *gorm.DB) error {
			var m models.Match
			if err := database.ForUpdate(tx).First(&m, match.ID).Error; err != nil {
				return storageErr(err)
			}

			var parts []models.Participant
			if err := tx.Where("match_id = ?", m.ID).Order("id ASC").
				Find(&parts).Error; err != nil {
				return storageErr(err)
			}

			for _, p := range parts {
				if p.UserCode == userCode {
					return ErrAlreadyJoined
				}
			}
			if m.Status != models.MatchWaiting || len(parts) >= models.MaxSeats {
				return ErrMatchFull
			}

			user, err := e.lockedDebitTx(tx, userCode, bet, models.KindBet,
				betRef(m.ID, userCode), fmt.Sprintf("Bet escrow for match %d", m.ID))
			if err != nil {
				return err
			}

			part := models.Participant{
				MatchID:  m.ID,
				UserID:   user.ID,
				UserCode: user.UserCode,
			}
			if err := tx.Create(&part).Error; err != nil {
				if isDuplicate(err) {
					return ErrAlreadyJoined
				}
				return storageErr(err)
			}
			parts = append(parts, part)
			seats = len(parts)

			if seats == models.MaxSeats {
				m.Status = models.MatchActive
				if err := tx.Save(&m).Error; err != nil {
					return storageErr(err)
				}
				filled = filledEvent(m, parts)
			}

			*match = m
			return nil
		})
	})
	if err != nil {
		return nil, 0, err
	}

	if filled.Type != "" {
		e.Events.Publish(filled)
	}
	return match, seats, nil
}

// findOrCreateWaiting picks the oldest joinable waiting match at this
// stake. The read runs outside the match lock; racing joiners at worst
// open one extra waiting match, they can never overfill one, because the
// seat checks repeat under the lock.
func (e *Engine) findOrCreateWaiting(bet decimal.Decimal) (*models.Match, error) {
	var candidates []models.Match
	if err := e.DB.Where("status = ? AND bet_amount = ?", models.MatchWaiting, bet).
		Order("created_at ASC").Preload("Participants").
		Find(&candidates).Error; err != nil {
		return nil, storageErr(err)
	}

	for i := range candidates {
		if len(candidates[i].Participants) < models.MaxSeats {
			return &candidates[i], nil
		}
	}

	m := models.Match{BetAmount: bet, Status: models.MatchWaiting}
	if err := e.DB.Create(&m).Error; err != nil {
		return nil, storageErr(err)
	}
	return &m, nil
}

func filledEvent(m models.Match, parts []models.Participant) Event {
	ev := Event{
		Type:      EventMatchFilled,
		MatchID:   m.ID,
		BetAmount: m.BetAmount,
		Fee:       decimal.Zero,
	}
	for _, p := range parts {
		ev.Seats = append(ev.Seats, SeatResult{
			UserID:   p.UserID,
			UserCode: p.UserCode,
		})
	}
	return ev
}

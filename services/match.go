package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
	"trio/database"
	"trio/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Choose records the user's write-once choice. When the last open seat
// chooses, the match settles synchronously inside the same lock scope and
// transaction, so a crash can never leave a half-paid match behind.
func (e *Engine) Choose(matchID uint, userCode, choice string) (*models.Match, error) {
	if !models.ValidChoice(choice) {
		return nil, ErrInvalidChoice
	}

	var match models.Match
	var completed *Event
	err := e.locks.withLock(matchKey(matchID), func() error {
		return e.DB.Transaction(func(tx *gorm.DB) error {
			if err := database.ForUpdate(tx).First(&match, matchID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrMatchNotFound
				}
				return storageErr(err)
			}
			if match.Status != models.MatchActive {
				return ErrMatchNotActive
			}

			var parts []models.Participant
			if err := tx.Where("match_id = ?", matchID).Order("id ASC").
				Find(&parts).Error; err != nil {
				return storageErr(err)
			}

			seat := -1
			for i, p := range parts {
				if p.UserCode == userCode {
					seat = i
					break
				}
			}
			if seat < 0 {
				return ErrMatchNotFound
			}
			if parts[seat].Choice != models.ChoiceUnset {
				return ErrAlreadyChosen
			}

			parts[seat].Choice = choice
			if err := tx.Save(&parts[seat]).Error; err != nil {
				return storageErr(err)
			}

			for _, p := range parts {
				if p.Choice == models.ChoiceUnset {
					return nil
				}
			}

			ev, err := e.settle(tx, &match, parts)
			if err != nil {
				return err
			}
			completed = &ev
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if completed != nil {
		e.Events.Publish(*completed)
	}
	return &match, nil
}

// settle pays out a fully-chosen match and closes it. Runs inside the
// caller's match lock and transaction.
func (e *Engine) settle(tx *gorm.DB, m *models.Match, parts []models.Participant) (Event, error) {
	verdict := Resolve(parts, m.BetAmount, e.Config.FeePercent)

	for _, p := range parts {
		payout, ok := verdict.Payouts[p.UserID]
		if !ok || payout.Sign() == 0 {
			continue
		}
		kind, ref := models.KindRefund, refundRef(m.ID, p.UserCode)
		note := fmt.Sprintf("Draw refund for match %d", m.ID)
		if verdict.Outcome == OutcomeWin {
			kind, ref = models.KindWin, winRef(m.ID, p.UserCode)
			note = fmt.Sprintf("Winnings for match %d", m.ID)
		}
		if _, err := e.lockedCreditTx(tx, p.UserCode, payout, kind, ref, note); err != nil {
			return Event{}, err
		}
	}

	now := time.Now()
	m.Status = models.MatchCompleted
	m.CompletedAt = &now
	m.WinnerID = nil
	if len(verdict.Winners) == 1 {
		id := verdict.Winners[0]
		m.WinnerID = &id
	}
	if snapshot, err := json.Marshal(verdict); err == nil {
		m.Result = datatypes.JSON(snapshot)
	}
	if err := tx.Save(m).Error; err != nil {
		return Event{}, storageErr(err)
	}

	won := map[uint]bool{}
	for _, id := range verdict.Winners {
		won[id] = true
	}
	for _, p := range parts {
		updates := map[string]any{"matches_played": gorm.Expr("matches_played + 1")}
		if won[p.UserID] {
			updates["matches_won"] = gorm.Expr("matches_won + 1")
		}
		if err := tx.Model(&models.User{}).Where("id = ?", p.UserID).
			Updates(updates).Error; err != nil {
			return Event{}, storageErr(err)
		}
	}

	ev := Event{
		Type:      EventMatchCompleted,
		MatchID:   m.ID,
		BetAmount: m.BetAmount,
		Outcome:   verdict.Outcome,
		WinnerID:  m.WinnerID,
		Fee:       verdict.Fee,
	}
	for _, p := range parts {
		ev.Seats = append(ev.Seats, SeatResult{
			UserID:   p.UserID,
			UserCode: p.UserCode,
			Choice:   p.Choice,
			Payout:   verdict.Payouts[p.UserID],
		})
	}
	return ev, nil
}

// Cancel is the admin override: a waiting or active match is torn down
// and every seat refunded unconditionally, chosen or not. It shares the
// per-match lock with Join/Choose so it can not race a live settlement.
func (e *Engine) Cancel(matchID uint) (*models.Match, error) {
	var match models.Match
	err := e.locks.withLock(matchKey(matchID), func() error {
		return e.DB.Transaction(func(tx *gorm.DB) error {
			if err := database.ForUpdate(tx).First(&match, matchID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrMatchNotFound
				}
				return storageErr(err)
			}
			if match.Status != models.MatchWaiting && match.Status != models.MatchActive {
				return ErrMatchNotActive
			}
			return e.cancelLocked(tx, &match)
		})
	})
	if err != nil {
		return nil, err
	}
	return &match, nil
}

// cancelLocked refunds every seated participant their bet and marks the
// match cancelled. Callers hold the match lock and have verified status.
func (e *Engine) cancelLocked(tx *gorm.DB, m *models.Match) error {
	var parts []models.Participant
	if err := tx.Where("match_id = ?", m.ID).Order("id ASC").
		Find(&parts).Error; err != nil {
		return storageErr(err)
	}

	for _, p := range parts {
		note := fmt.Sprintf("Refund for cancelled match %d", m.ID)
		if _, err := e.lockedCreditTx(tx, p.UserCode, m.BetAmount,
			models.KindRefund, refundRef(m.ID, p.UserCode), note); err != nil {
			return err
		}
	}

	m.Status = models.MatchCancelled
	if err := tx.Save(m).Error; err != nil {
		return storageErr(err)
	}
	return nil
}

// GetMatch loads a match with its seats for the info endpoint.
func (e *Engine) GetMatch(matchID uint) (*models.Match, error) {
	var m models.Match
	if err := e.DB.Preload("Participants").First(&m, matchID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMatchNotFound
		}
		return nil, storageErr(err)
	}
	return &m, nil
}

package services

import (
	"log"
	"time"
	"trio/database"
	"trio/models"

	"gorm.io/gorm"
)

// The reaper sweeps run on a schedule, independent of request traffic.
// Each candidate is re-checked under the same per-match lock the live
// handlers use, so a sweep overlapping itself, or racing a join or a
// choice, degrades to a no-op instead of a double refund.

// SweepStale cancels waiting matches older than the stale timeout and
// refunds every seat. One match failing is logged and skipped; the sweep
// itself keeps going.
func (e *Engine) SweepStale() int {
	cutoff := time.Now().Add(-e.Config.StaleTimeout)

	var ids []uint
	if err := e.DB.Model(&models.Match{}).
		Where("status = ? AND created_at < ?", models.MatchWaiting, cutoff).
		Pluck("id", &ids).Error; err != nil {
		log.Printf("❌ Reaper stale scan failed: %v", err)
		return 0
	}

	cancelled := 0
	for _, id := range ids {
		if err := e.expire(id); err != nil {
			log.Printf("❌ Reaper failed to cancel match %d: %v", id, err)
			continue
		}
		cancelled++
	}
	return cancelled
}

func (e *Engine) expire(matchID uint) error {
	return e.locks.withLock(matchKey(matchID), func() error {
		return e.DB.Transaction(func(tx *gorm.DB) error {
			var m models.Match
			if err := database.ForUpdate(tx).First(&m, matchID).Error; err != nil {
				return storageErr(err)
			}
			// Someone joined the third seat, or another sweep got here
			// first. Either way this match is no longer ours to cancel.
			if m.Status != models.MatchWaiting {
				return nil
			}
			return e.cancelLocked(tx, &m)
		})
	})
}

// SweepForceStart activates waiting two-seat matches that have out-waited
// the grace period but are not yet stale, so the two present players can
// play out a two-way round.
func (e *Engine) SweepForceStart() int {
	now := time.Now()
	graceCutoff := now.Add(-e.Config.TwoPlayerGrace)
	staleCutoff := now.Add(-e.Config.StaleTimeout)

	var candidates []models.Match
	if err := e.DB.
		Where("status = ? AND created_at < ? AND created_at >= ?",
			models.MatchWaiting, graceCutoff, staleCutoff).
		Preload("Participants").
		Find(&candidates).Error; err != nil {
		log.Printf("❌ Reaper force-start scan failed: %v", err)
		return 0
	}

	started := 0
	for _, m := range candidates {
		if len(m.Participants) != 2 {
			continue
		}
		ok, err := e.forceStart(m.ID)
		if err != nil {
			log.Printf("❌ Reaper failed to force-start match %d: %v", m.ID, err)
			continue
		}
		if ok {
			started++
		}
	}
	return started
}

func (e *Engine) forceStart(matchID uint) (bool, error) {
	started := false
	var filled Event
	err := e.locks.withLock(matchKey(matchID), func() error {
		return e.DB.Transaction(func(tx *gorm.DB) error {
			var m models.Match
			if err := database.ForUpdate(tx).First(&m, matchID).Error; err != nil {
				return storageErr(err)
			}
			if m.Status != models.MatchWaiting {
				return nil
			}

			var parts []models.Participant
			if err := tx.Where("match_id = ?", m.ID).Order("id ASC").
				Find(&parts).Error; err != nil {
				return storageErr(err)
			}
			if len(parts) != 2 {
				return nil
			}

			m.Status = models.MatchActive
			if err := tx.Save(&m).Error; err != nil {
				return storageErr(err)
			}
			started = true
			filled = filledEvent(m, parts)
			return nil
		})
	})
	if err != nil {
		return false, err
	}
	if started {
		e.Events.Publish(filled)
	}
	return started, nil
}

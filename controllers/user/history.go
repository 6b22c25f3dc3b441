package user

import (
	"trio/database"
	"trio/helpers"
	"trio/models"

	"github.com/gofiber/fiber/v2"
)

type HistoryRequest struct {
	Limit int `json:"limit"`
}

// LedgerHistory returns the user's balance-affecting entries, newest
// first. The ledger is the audit trail; the cached balance on the user
// row is derived from it.
func LedgerHistory(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	var req HistoryRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.Limit <= 0 || req.Limit > 200 {
		req.Limit = 50
	}

	var entries []models.LedgerEntry
	if err := database.DB.Where("user_id = ?", user.ID).
		Order("id DESC").Limit(req.Limit).
		Find(&entries).Error; err != nil {
		return helpers.JSONError(c, "FAILED_TO_FETCH_HISTORY")
	}

	return helpers.JSONSuccess(c, "History retrieved successfully", fiber.Map{
		"user_code": user.UserCode,
		"entries":   entries,
		"count":     len(entries),
	})
}

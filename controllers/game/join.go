package game

import (
	"trio/helpers"
	"trio/models"
	"trio/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type JoinRequest struct {
	BetAmount decimal.Decimal `json:"bet_amount"`
}

func JoinMatch(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	var req JoinRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	match, seats, err := Engine.Join(user.UserCode, req.BetAmount)
	if err != nil {
		return helpers.JSONError(c, services.Code(err))
	}

	return helpers.JSONSuccess(c, "Joined match", fiber.Map{
		"match_id":   match.ID,
		"bet_amount": match.BetAmount,
		"status":     match.Status,
		"seats":      seats,
	})
}

package user

import (
	"trio/helpers"
	"trio/models"

	"github.com/gofiber/fiber/v2"
)

func CheckUserBalance(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	return helpers.JSONSuccess(c, "Balance retrieved successfully", fiber.Map{
		"user_code":      user.UserCode,
		"balance":        user.Balance,
		"matches_played": user.MatchesPlayed,
		"matches_won":    user.MatchesWon,
	})
}

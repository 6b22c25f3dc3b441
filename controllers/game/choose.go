package game

import (
	"strings"
	"trio/helpers"
	"trio/models"
	"trio/services"

	"github.com/gofiber/fiber/v2"
)

type ChooseRequest struct {
	MatchID uint   `json:"match_id"`
	Choice  string `json:"choice"`
}

func SubmitChoice(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	var req ChooseRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.MatchID == 0 {
		return helpers.JSONError(c, "MATCH_ID_REQUIRED")
	}

	choice := strings.ToLower(strings.TrimSpace(req.Choice))
	match, err := Engine.Choose(req.MatchID, user.UserCode, choice)
	if err != nil {
		return helpers.JSONError(c, services.Code(err))
	}

	data := fiber.Map{
		"match_id": match.ID,
		"status":   match.Status,
	}
	if match.Status == models.MatchCompleted {
		data["result"] = match.Result
	}
	return helpers.JSONSuccess(c, "Choice accepted", data)
}

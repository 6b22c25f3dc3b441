package admin

import (
	"trio/helpers"
	"trio/services"

	"github.com/gofiber/fiber/v2"
)

// Engine is wired in by routes.Setup at startup.
var Engine *services.Engine

func Use(e *services.Engine) {
	Engine = e
}

type CancelRequest struct {
	MatchID uint `json:"match_id"`
}

func CancelMatch(c *fiber.Ctx) error {
	var req CancelRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.MatchID == 0 {
		return helpers.JSONError(c, "MATCH_ID_REQUIRED")
	}

	match, err := Engine.Cancel(req.MatchID)
	if err != nil {
		return helpers.JSONError(c, services.Code(err))
	}

	return helpers.JSONSuccess(c, "Match cancelled", fiber.Map{
		"match_id": match.ID,
		"status":   match.Status,
	})
}

package game

import (
	"trio/helpers"
	"trio/models"
	"trio/services"

	"github.com/gofiber/fiber/v2"
)

type InfoRequest struct {
	MatchID uint `json:"match_id"`
}

func MatchInfo(c *fiber.Ctx) error {
	var req InfoRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.MatchID == 0 {
		return helpers.JSONError(c, "MATCH_ID_REQUIRED")
	}

	match, err := Engine.GetMatch(req.MatchID)
	if err != nil {
		return helpers.JSONError(c, services.Code(err))
	}

	seats := make([]fiber.Map, 0, len(match.Participants))
	for _, p := range match.Participants {
		// Choices stay hidden until the match settles.
		chosen := p.Choice != ""
		seat := fiber.Map{
			"user_code": p.UserCode,
			"chosen":    chosen,
		}
		if match.Status == models.MatchCompleted || match.Status == models.MatchCancelled {
			seat["choice"] = p.Choice
		}
		seats = append(seats, seat)
	}

	data := fiber.Map{
		"match_id":     match.ID,
		"bet_amount":   match.BetAmount,
		"status":       match.Status,
		"winner_id":    match.WinnerID,
		"created_at":   match.CreatedAt,
		"completed_at": match.CompletedAt,
		"seats":        seats,
	}
	if len(match.Result) > 0 {
		data["result"] = match.Result
	}
	return helpers.JSONSuccess(c, "Match retrieved successfully", data)
}

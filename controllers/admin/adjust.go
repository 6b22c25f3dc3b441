package admin

import (
	"strings"
	"trio/helpers"
	"trio/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type AdjustRequest struct {
	UserCode string          `json:"user_code"`
	Amount   decimal.Decimal `json:"amount"`
	Note     string          `json:"note"`
}

// AdjustBalance moves a signed amount on a user's balance. Every
// adjustment lands in the ledger like any other funds movement.
func AdjustBalance(c *fiber.Ctx) error {
	var req AdjustRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}

	userCode := strings.ToLower(strings.TrimSpace(req.UserCode))
	if userCode == "" {
		return helpers.JSONError(c, "USER_CODE_REQUIRED")
	}

	user, err := Engine.AdminAdjust(userCode, req.Amount, req.Note)
	if err != nil {
		return helpers.JSONError(c, services.Code(err))
	}

	return helpers.JSONSuccess(c, "Balance adjusted successfully", fiber.Map{
		"user_code": user.UserCode,
		"balance":   user.Balance,
	})
}

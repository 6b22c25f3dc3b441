package payment

import (
	"trio/helpers"
	"trio/models"
	"trio/providers"
	"trio/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Engine is wired in by routes.Setup at startup.
var Engine *services.Engine

func Use(e *services.Engine) {
	Engine = e
}

type DepositRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// InitiateDeposit opens a hosted checkout with the gateway. No funds move
// until the gateway confirms the checkout via callback.
func InitiateDeposit(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	var req DepositRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.Amount.Sign() <= 0 {
		return helpers.JSONError(c, "INVALID_AMOUNT")
	}

	gw := providers.GetGateway("kasirpay")
	if gw == nil {
		return helpers.JSONError(c, "GATEWAY_UNAVAILABLE")
	}

	ref, err := gw.Initiate(providers.CheckoutRequest{
		UserCode: user.UserCode,
		Amount:   req.Amount.StringFixed(2),
		Kind:     models.KindDeposit,
	})
	if err != nil {
		return helpers.JSONError(c, "GATEWAY_CHECKOUT_FAILED")
	}

	return helpers.JSONSuccess(c, "Checkout created", fiber.Map{
		"reference": ref,
		"amount":    req.Amount,
	})
}

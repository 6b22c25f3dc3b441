package payment

import (
	"trio/helpers"
	"trio/models"
	"trio/providers"
	"trio/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type WithdrawRequest struct {
	Amount decimal.Decimal `json:"amount"`
}

// InitiateWithdrawal debits the user optimistically and hands the payout
// to the gateway. A failed checkout is compensated by the callback with a
// refund credit.
func InitiateWithdrawal(c *fiber.Ctx) error {
	user, ok := c.Locals("user").(models.User)
	if !ok {
		return helpers.JSONError(c, "INVALID_USER_SESSION")
	}

	var req WithdrawRequest
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
		Kind:     models.KindWithdrawal,
	})
	if err != nil {
		return helpers.JSONError(c, "GATEWAY_CHECKOUT_FAILED")
	}

	updated, err := Engine.Withdraw(user.UserCode, req.Amount, ref)
	if err != nil {
		return helpers.JSONError(c, services.Code(err))
	}

	return helpers.JSONSuccess(c, "Withdrawal initiated", fiber.Map{
		"reference": ref,
		"amount":    req.Amount,
		"balance":   updated.Balance,
	})
}

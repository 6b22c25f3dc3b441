package payment

import (
	"strings"
	"trio/helpers"
	"trio/models"
	"trio/providers"
	"trio/services"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CallbackRequest struct {
	Reference string          `json:"reference"`
	UserCode  string          `json:"user_code"`
	Amount    decimal.Decimal `json:"amount"`
	Kind      string          `json:"kind"`
}

// GatewayCallback handles the provider webhook. The webhook body is not
// trusted for the outcome: the checkout status is re-verified against the
// gateway before any funds move. Replays are no-ops thanks to the unique
// ledger reference.
func GatewayCallback(c *fiber.Ctx) error {
	var req CallbackRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.Reference == "" {
		return helpers.JSONError(c, "REFERENCE_REQUIRED")
	}

	gw := providers.GetGateway("kasirpay")
	if gw == nil {
		return helpers.JSONError(c, "GATEWAY_UNAVAILABLE")
	}

	status, err := gw.Verify(req.Reference)
	if err != nil {
		return helpers.JSONError(c, "GATEWAY_VERIFY_FAILED")
	}
	if status == providers.CheckoutPending {
		return helpers.JSONSuccess(c, "Checkout still pending", fiber.Map{
			"reference": req.Reference,
			"status":    status,
		})
	}

	switch strings.ToLower(req.Kind) {
	case models.KindDeposit:
		if status != providers.CheckoutCompleted {
			return helpers.JSONSuccess(c, "Deposit not completed, nothing credited", fiber.Map{
				"reference": req.Reference,
				"status":    status,
			})
		}
		user, err := Engine.CompleteDeposit(strings.ToLower(req.UserCode), req.Amount, req.Reference)
		if err != nil {
			return helpers.JSONError(c, services.Code(err))
		}
		return helpers.JSONSuccess(c, "Deposit credited", fiber.Map{
			"reference": req.Reference,
			"user_code": user.UserCode,
			"balance":   user.Balance,
		})

	case models.KindWithdrawal:
		if status == providers.CheckoutCompleted {
			err = Engine.ConfirmWithdrawal(req.Reference)
		} else {
			err = Engine.FailWithdrawal(req.Reference)
		}
		if err != nil {
			return helpers.JSONError(c, services.Code(err))
		}
		return helpers.JSONSuccess(c, "Withdrawal settled", fiber.Map{
			"reference": req.Reference,
			"status":    status,
		})
	}

	return helpers.JSONError(c, "UNSUPPORTED_KIND")
}

package providers

import (
	"strings"
)

const (
	CheckoutPending   = "pending"
	CheckoutCompleted = "completed"
	CheckoutFailed    = "failed"
)

type CheckoutRequest struct {
	UserCode string `json:"user_code"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
	Kind     string `json:"kind"` // deposit or withdrawal
}

// PaymentGateway is the funds-move boundary with the external payment
// provider. Initiate returns the provider's checkout reference; Verify
// reports the checkout's current state.
type PaymentGateway interface {
	Initiate(req CheckoutRequest) (string, error)
	Verify(reference string) (string, error)
}

var gateways = map[string]PaymentGateway{}

func RegisterGateway(name string, gw PaymentGateway) {
	gateways[strings.ToLower(name)] = gw
}

func GetGateway(name string) PaymentGateway {
	return gateways[strings.ToLower(name)]
}

package payments

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"
	"trio/providers"
)

// KasirPay is the hosted-checkout provider. It only ever sees references
// and amounts; balance movement stays on our side of the boundary.
type KasirPay struct {
	ApiURL string
	ApiKey string
}

func init() {
	providers.RegisterGateway("kasirpay", &KasirPay{
		ApiURL: os.Getenv("GATEWAY_URL"),
		ApiKey: os.Getenv("GATEWAY_KEY"),
	})
}

var httpClient = &http.Client{Timeout: 10 * time.Second}

func (k *KasirPay) Initiate(req providers.CheckoutRequest) (string, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return "", err
	}

	httpReq, err := http.NewRequest(http.MethodPost, k.ApiURL+"/v1/checkout", bytes.NewBuffer(body))
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Api-Key", k.ApiKey)

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway checkout returned status %d", resp.StatusCode)
	}

	var out struct {
		Reference string `json:"reference"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.Reference == "" {
		return "", fmt.Errorf("gateway checkout returned empty reference")
	}
	return out.Reference, nil
}

func (k *KasirPay) Verify(reference string) (string, error) {
	httpReq, err := http.NewRequest(http.MethodGet, k.ApiURL+"/v1/checkout/"+reference, nil)
	if err != nil {
		return "", err
	}
	httpReq.Header.Set("X-Api-Key", k.ApiKey)

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gateway verify returned status %d", resp.StatusCode)
	}

	var out struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}

	switch out.Status {
	case providers.CheckoutPending, providers.CheckoutCompleted, providers.CheckoutFailed:
		return out.Status, nil
	}
	return "", fmt.Errorf("gateway verify returned unknown status %q", out.Status)
}

package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/scanbite/qrmenu/utils"
)

// PaystackConfig holds Paystack configuration
type PaystackConfig struct {
	SecretKey   string
	BaseURL     string
	CallbackURL string
}

// PaystackService handles Paystack API interactions
type PaystackService struct {
	config     *PaystackConfig
	httpClient *http.Client
}

// NewPaystackService creates a new instance of PaystackService
func NewPaystackService(config *PaystackConfig) *PaystackService {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.paystack.co"
	}
	return &PaystackService{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// NewPaystackServiceFromEnv builds the service from PAYSTACK_* environment
// variables.
func NewPaystackServiceFromEnv() *PaystackService {
	return NewPaystackService(&PaystackConfig{
		SecretKey:   os.Getenv("PAYSTACK_SECRET_KEY"),
		CallbackURL: os.Getenv("PAYSTACK_CALLBACK_URL"),
	})
}

func (ps *PaystackService) Name() string { return "paystack" }

// ValidateConfig validates Paystack configuration
func (ps *PaystackService) ValidateConfig() error {
	if ps.config.SecretKey == "" {
		return fmt.Errorf("PAYSTACK_SECRET_KEY is not set")
	}
	return nil
}

type paystackInitResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

type paystackVerifyResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		Status          string `json:"status"`
		Amount          int64  `json:"amount"`
		Currency        string `json:"currency"`
		GatewayResponse string `json:"gateway_response"`
		PaidAt          string `json:"paid_at"`
	} `json:"data"`
}

// InitializeTransaction opens a transaction with Paystack and returns the
// authorization URL the diner is redirected to.
func (ps *PaystackService) InitializeTransaction(req InitializeRequest) (*InitializeResult, error) {
	url := fmt.Sprintf("%s/transaction/initialize", ps.config.BaseURL)

	payload := map[string]interface{}{
		"email":  req.Email,
		"amount": utils.ToMinorUnit(req.Amount),
	}
	if req.Currency != "" {
		payload["currency"] = req.Currency
	}
	if req.Reference != "" {
		payload["reference"] = req.Reference
	}
	if ps.config.CallbackURL != "" {
		payload["callback_url"] = ps.config.CallbackURL
	}
	if len(req.Metadata) > 0 {
		payload["metadata"] = req.Metadata
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, utils.NewInternal("error marshaling paystack request", err)
	}

	httpReq, err := http.NewRequest("POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, utils.NewInternal("error creating paystack request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+ps.config.SecretKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := ps.httpClient.Do(httpReq)
	if err != nil {
		return nil, utils.NewInternal("error calling payment gateway", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, utils.NewInternal("error reading paystack response", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, utils.NewInternal(fmt.Sprintf("paystack API error (status %d)", resp.StatusCode), fmt.Errorf("%s", body))
	}

	var initResp paystackInitResponse
	if err := json.Unmarshal(body, &initResp); err != nil {
		return nil, utils.NewInternal("error unmarshaling paystack response", err)
	}
	if !initResp.Status || initResp.Data.AuthorizationURL == "" || initResp.Data.Reference == "" {
		// Provider contract violation, not a user error.
		return nil, utils.NewInternal("paystack response missing authorization url or reference", nil)
	}

	return &InitializeResult{
		AuthorizationURL: initResp.Data.AuthorizationURL,
		AccessCode:       initResp.Data.AccessCode,
		Reference:        initResp.Data.Reference,
	}, nil
}

// VerifyTransaction confirms a transaction's status and settled amount.
func (ps *PaystackService) VerifyTransaction(reference string) (*VerificationResult, error) {
	url := fmt.Sprintf("%s/transaction/verify/%s", ps.config.BaseURL, reference)

	httpReq, err := http.NewRequest("GET", url, nil)
	if err != nil {
		return nil, utils.NewInternal("error creating paystack request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+ps.config.SecretKey)

	resp, err := ps.httpClient.Do(httpReq)
	if err != nil {
		return nil, utils.NewInternal("error calling payment gateway", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, utils.NewInternal("error reading paystack response", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, utils.NewNotFound(fmt.Sprintf("transaction %s not found", reference))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, utils.NewInternal(fmt.Sprintf("paystack API error (status %d)", resp.StatusCode), fmt.Errorf("%s", body))
	}

	var verifyResp paystackVerifyResponse
	if err := json.Unmarshal(body, &verifyResp); err != nil {
		return nil, utils.NewInternal("error unmarshaling paystack response", err)
	}
	if verifyResp.Data.Status == "" {
		return nil, utils.NewInternal("paystack response missing transaction status", nil)
	}

	message := verifyResp.Data.GatewayResponse
	if message == "" {
		message = verifyResp.Data.Status
	}

	result := &VerificationResult{
		Status:  mapPaystackStatus(verifyResp.Data.Status),
		Message: message,
		Amount:  utils.FromMinorUnit(verifyResp.Data.Amount),
	}
	if verifyResp.Data.PaidAt != "" {
		if t, err := time.Parse(time.RFC3339, verifyResp.Data.PaidAt); err == nil {
			result.PaidAt = &t
		}
	}
	return result, nil
}

// ValidateWebhookSignature checks the HMAC-SHA512 signature Paystack sends
// in the X-Paystack-Signature header against the raw request body.
func (ps *PaystackService) ValidateWebhookSignature(body []byte, signature string) bool {
	mac := hmac.New(sha512.New, []byte(ps.config.SecretKey))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

// mapPaystackStatus maps Paystack transaction status to the normalized set.
func mapPaystackStatus(status string) string {
	switch status {
	case "success":
		return VerificationSuccessful
	case "failed", "abandoned", "reversed":
		return VerificationFailed
	default:
		return VerificationPending
	}
}

package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/scanbite/qrmenu/utils"
)

// StripeConfig holds Stripe configuration
type StripeConfig struct {
	SecretKey string
	BaseURL   string
}

// StripeService handles Stripe API interactions through the PaymentIntents
// endpoint. Stripe's API is form-encoded, unlike Paystack's JSON.
type StripeService struct {
	config     *StripeConfig
	httpClient *http.Client
}

func NewStripeService(config *StripeConfig) *StripeService {
	if config.BaseURL == "" {
		config.BaseURL = "https://api.stripe.com"
	}
	return &StripeService{
		config: config,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func NewStripeServiceFromEnv() *StripeService {
	return NewStripeService(&StripeConfig{
		SecretKey: os.Getenv("STRIPE_SECRET_KEY"),
	})
}

func (ss *StripeService) Name() string { return "stripe" }

func (ss *StripeService) ValidateConfig() error {
	if ss.config.SecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is not set")
	}
	return nil
}

type stripePaymentIntent struct {
	ID             string `json:"id"`
	ClientSecret   string `json:"client_secret"`
	Status         string `json:"status"`
	Amount         int64  `json:"amount"`
	AmountReceived int64  `json:"amount_received"`
	Currency       string `json:"currency"`
	Created        int64  `json:"created"`
	LastError      *struct {
		Message string `json:"message"`
	} `json:"last_payment_error"`
}

// InitializeTransaction creates a PaymentIntent. The intent id doubles as
// the gateway reference; the client secret drives the payment popup.
func (ss *StripeService) InitializeTransaction(req InitializeRequest) (*InitializeResult, error) {
	endpoint := fmt.Sprintf("%s/v1/payment_intents", ss.config.BaseURL)

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(utils.ToMinorUnit(req.Amount), 10))
	currency := req.Currency
	if currency == "" {
		currency = "usd"
	}
	form.Set("currency", strings.ToLower(currency))
	if req.Email != "" {
		form.Set("receipt_email", req.Email)
	}
	for k, v := range req.Metadata {
		form.Set(fmt.Sprintf("metadata[%s]", k), fmt.Sprintf("%v", v))
	}

	httpReq, err := http.NewRequest("POST", endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, utils.NewInternal("error creating stripe request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+ss.config.SecretKey)
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := ss.httpClient.Do(httpReq)
	if err != nil {
		return nil, utils.NewInternal("error calling payment gateway", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, utils.NewInternal("error reading stripe response", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, utils.NewInternal(fmt.Sprintf("stripe API error (status %d)", resp.StatusCode), fmt.Errorf("%s", body))
	}

	var intent stripePaymentIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, utils.NewInternal("error unmarshaling stripe response", err)
	}
	if intent.ID == "" || intent.ClientSecret == "" {
		return nil, utils.NewInternal("stripe response missing intent id or client secret", nil)
	}

	return &InitializeResult{
		AccessCode: intent.ClientSecret,
		Reference:  intent.ID,
	}, nil
}

// VerifyTransaction retrieves a PaymentIntent and normalizes its status.
func (ss *StripeService) VerifyTransaction(reference string) (*VerificationResult, error) {
	endpoint := fmt.Sprintf("%s/v1/payment_intents/%s", ss.config.BaseURL, reference)

	httpReq, err := http.NewRequest("GET", endpoint, nil)
	if err != nil {
		return nil, utils.NewInternal("error creating stripe request", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+ss.config.SecretKey)

	resp, err := ss.httpClient.Do(httpReq)
	if err != nil {
		return nil, utils.NewInternal("error calling payment gateway", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, utils.NewInternal("error reading stripe response", err)
	}

	if resp.StatusCode == http.StatusNotFound {
		return nil, utils.NewNotFound(fmt.Sprintf("transaction %s not found", reference))
	}
	if resp.StatusCode != http.StatusOK {
		return nil, utils.NewInternal(fmt.Sprintf("stripe API error (status %d)", resp.StatusCode), fmt.Errorf("%s", body))
	}

	var intent stripePaymentIntent
	if err := json.Unmarshal(body, &intent); err != nil {
		return nil, utils.NewInternal("error unmarshaling stripe response", err)
	}
	if intent.Status == "" {
		return nil, utils.NewInternal("stripe response missing intent status", nil)
	}

	message := intent.Status
	if intent.LastError != nil && intent.LastError.Message != "" {
		message = intent.LastError.Message
	}

	result := &VerificationResult{
		Status:  mapStripeStatus(intent.Status),
		Message: message,
		Amount:  utils.FromMinorUnit(intent.AmountReceived),
	}
	if result.Status == VerificationSuccessful && intent.Created > 0 {
		t := time.Unix(intent.Created, 0)
		result.PaidAt = &t
	}
	return result, nil
}

// mapStripeStatus maps a PaymentIntent status to the normalized set.
func mapStripeStatus(status string) string {
	switch status {
	case "succeeded":
		return VerificationSuccessful
	case "canceled":
		return VerificationFailed
	default:
		// requires_payment_method, requires_confirmation, processing, ...
		return VerificationPending
	}
}

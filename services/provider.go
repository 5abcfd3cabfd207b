package services

import "time"

// Normalized verification statuses. Every gateway's vocabulary maps into
// this set at the adapter boundary.
const (
	VerificationSuccessful = "successful"
	VerificationFailed     = "failed"
	VerificationPending    = "pending"
)

// InitializeRequest describes a transaction to open with the gateway.
// Amount is in major currency units; each adapter converts at its boundary.
type InitializeRequest struct {
	Email     string
	Amount    float64
	Currency  string
	Reference string
	Metadata  map[string]interface{}
}

// InitializeResult carries what the client needs to complete payment.
type InitializeResult struct {
	AuthorizationURL string `json:"authorization_url,omitempty"`
	AccessCode       string `json:"access_code,omitempty"`
	Reference        string `json:"reference"`
}

// VerificationResult is the normalized outcome of a gateway verify call.
// Amount is in major currency units.
type VerificationResult struct {
	Status  string
	Message string
	Amount  float64
	PaidAt  *time.Time
}

// PaymentProvider abstracts a payment gateway. The reconciliation workflow
// is written once against this interface.
type PaymentProvider interface {
	Name() string
	InitializeTransaction(req InitializeRequest) (*InitializeResult, error)
	VerifyTransaction(reference string) (*VerificationResult, error)
}

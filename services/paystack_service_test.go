package services

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/scanbite/qrmenu/utils"
	"github.com/stretchr/testify/assert"
)

func TestPaystackServiceVerifyTransaction(t *testing.T) {
	tests := []struct {
		name           string
		mockResponse   string
		mockStatusCode int
		wantStatus     string
		wantAmount     float64
		wantErrCode    int
	}{
		{
			name:           "successful transaction",
			mockResponse:   `{"status": true, "data": {"status": "success", "amount": 2597, "currency": "NGN", "gateway_response": "Successful", "paid_at": "2025-03-01T12:00:00Z"}}`,
			mockStatusCode: http.StatusOK,
			wantStatus:     VerificationSuccessful,
			wantAmount:     25.97,
		},
		{
			name:           "failed transaction",
			mockResponse:   `{"status": true, "data": {"status": "failed", "amount": 2597}}`,
			mockStatusCode: http.StatusOK,
			wantStatus:     VerificationFailed,
			wantAmount:     25.97,
		},
		{
			name:           "abandoned maps to failed",
			mockResponse:   `{"status": true, "data": {"status": "abandoned", "amount": 1000}}`,
			mockStatusCode: http.StatusOK,
			wantStatus:     VerificationFailed,
			wantAmount:     10.00,
		},
		{
			name:           "ongoing maps to pending",
			mockResponse:   `{"status": true, "data": {"status": "ongoing", "amount": 0}}`,
			mockStatusCode: http.StatusOK,
			wantStatus:     VerificationPending,
		},
		{
			name:           "reference not found",
			mockResponse:   `{"status": false, "message": "Transaction reference not found"}`,
			mockStatusCode: http.StatusNotFound,
			wantErrCode:    404,
		},
		{
			name:           "missing status is a provider contract violation",
			mockResponse:   `{"status": true, "data": {"amount": 2597}}`,
			mockStatusCode: http.StatusOK,
			wantErrCode:    500,
		},
		{
			name:           "gateway error",
			mockResponse:   `{"status": false, "message": "server error"}`,
			mockStatusCode: http.StatusInternalServerError,
			wantErrCode:    500,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
				w.WriteHeader(tt.mockStatusCode)
				w.Write([]byte(tt.mockResponse))
			}))
			defer server.Close()

			ps := NewPaystackService(&PaystackConfig{
				SecretKey: "sk-test",
				BaseURL:   server.URL,
			})

			result, err := ps.VerifyTransaction("test-ref")
			if tt.wantErrCode != 0 {
				assert.Error(t, err)
				appErr, ok := utils.AsAppError(err)
				assert.True(t, ok)
				assert.Equal(t, tt.wantErrCode, appErr.Code)
				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantStatus, result.Status)
			assert.InDelta(t, tt.wantAmount, result.Amount, 0.001)
		})
	}
}

func TestPaystackServiceInitializeTransaction(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/transaction/initialize", r.URL.Path)

		var payload map[string]interface{}
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		// Amount travels in minor units.
		assert.EqualValues(t, 2597, payload["amount"])
		assert.Equal(t, "diner@example.com", payload["email"])

		w.Write([]byte(`{"status": true, "data": {"authorization_url": "https://checkout.paystack.com/abc", "access_code": "abc", "reference": "QRM-1"}}`))
	}))
	defer server.Close()

	ps := NewPaystackService(&PaystackConfig{SecretKey: "sk-test", BaseURL: server.URL})

	result, err := ps.InitializeTransaction(InitializeRequest{
		Email:     "diner@example.com",
		Amount:    25.97,
		Reference: "QRM-1",
	})
	assert.NoError(t, err)
	assert.Equal(t, "https://checkout.paystack.com/abc", result.AuthorizationURL)
	assert.Equal(t, "QRM-1", result.Reference)
}

func TestPaystackServiceInitializeTransactionMissingURL(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": true, "data": {}}`))
	}))
	defer server.Close()

	ps := NewPaystackService(&PaystackConfig{SecretKey: "sk-test", BaseURL: server.URL})

	_, err := ps.InitializeTransaction(InitializeRequest{Email: "diner@example.com", Amount: 10})
	assert.Error(t, err)
	appErr, ok := utils.AsAppError(err)
	assert.True(t, ok)
	assert.Equal(t, 500, appErr.Code)
}

func TestPaystackServiceValidateWebhookSignature(t *testing.T) {
	ps := NewPaystackService(&PaystackConfig{SecretKey: "sk-test"})

	body := []byte(`{"event":"charge.success","data":{"reference":"QRM-1"}}`)

	mac := hmac.New(sha512.New, []byte("sk-test"))
	mac.Write(body)
	valid := hex.EncodeToString(mac.Sum(nil))

	assert.True(t, ps.ValidateWebhookSignature(body, valid))
	assert.False(t, ps.ValidateWebhookSignature(body, "deadbeef"))
	assert.False(t, ps.ValidateWebhookSignature([]byte(`tampered`), valid))
}

func TestPaystackServiceValidateConfig(t *testing.T) {
	assert.Error(t, NewPaystackService(&PaystackConfig{}).ValidateConfig())
	assert.NoError(t, NewPaystackService(&PaystackConfig{SecretKey: "sk"}).ValidateConfig())
}

package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/scanbite/qrmenu/live"
	"github.com/scanbite/qrmenu/services"
	"github.com/scanbite/qrmenu/utils"
)

type PaymentController struct {
	DB       *gorm.DB
	Payments *services.PaymentService
	Orders   *services.OrderService
	Paystack *services.PaystackService
}

func NewPaymentController(db *gorm.DB, payments *services.PaymentService, orders *services.OrderService, paystack *services.PaystackService) *PaymentController {
	return &PaymentController{
		DB:       db,
		Payments: payments,
		Orders:   orders,
		Paystack: paystack,
	}
}

// InitializePayment quotes the order at current menu prices and opens a
// gateway transaction for that amount. The menu id and line items travel in
// the gateway metadata so the webhook can reconcile without client help.
func (pc *PaymentController) InitializePayment(c *gin.Context) {
	type reqBody struct {
		Email    string               `json:"email" binding:"required,email"`
		MenuID   uint                 `json:"menu_id" binding:"required"`
		Currency string               `json:"currency"`
		Items    []services.OrderLine `json:"items" binding:"required"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	total, err := pc.Orders.QuoteTotal(body.MenuID, body.Items)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	reference := fmt.Sprintf("QRM-%s", uuid.New().String())

	result, err := pc.Orders.Provider().InitializeTransaction(services.InitializeRequest{
		Email:     body.Email,
		Amount:    total,
		Currency:  body.Currency,
		Reference: reference,
		Metadata: map[string]interface{}{
			"menu_id": body.MenuID,
			"items":   body.Items,
		},
	})
	if err != nil {
		if _, ok := utils.AsAppError(err); !ok {
			utils.ErrorLogger.Printf("Unexpected error initializing payment: %v", err)
		}
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Transaction initialized", gin.H{
		"authorization_url": result.AuthorizationURL,
		"access_code":       result.AccessCode,
		"reference":         result.Reference,
		"amount":            total,
	})
}

// GetPayments -> admin listing
func (pc *PaymentController) GetPayments(c *gin.Context) {
	payments, err := pc.Payments.ListPayments()
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of payments", payments)
}

// UpdatePaymentStatus lets the console correct a payment record; the linked
// order is kept in step inside the same transaction.
func (pc *PaymentController) UpdatePaymentStatus(c *gin.Context) {
	idStr := c.Param("payment_id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid payment id"))
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	payment, err := pc.Payments.UpdatePaymentStatus(uint(id), body.Status)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	live.BroadcastPaymentUpdate(*payment)

	utils.RespondJSON(c, http.StatusOK, "Payment updated", payment)
}

type paystackWebhookEvent struct {
	Event string `json:"event"`
	Data  struct {
		Reference string `json:"reference"`
		Metadata  struct {
			MenuID uint                 `json:"menu_id"`
			Items  []services.OrderLine `json:"items"`
		} `json:"metadata"`
	} `json:"data"`
}

// HandlePaystackWebhook processes gateway deliveries. The HMAC signature
// must match the raw body before anything is trusted; reconciliation then
// runs exactly as it does for the client mutation, so webhook redelivery is
// naturally idempotent.
func (pc *PaymentController) HandlePaystackWebhook(c *gin.Context) {
	rawBody, err := io.ReadAll(c.Request.Body)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("error reading webhook body"))
		return
	}

	signature := c.GetHeader("X-Paystack-Signature")
	if signature == "" || !pc.Paystack.ValidateWebhookSignature(rawBody, signature) {
		utils.ErrorLogger.Printf("Rejected webhook with missing or invalid signature from %s", c.ClientIP())
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid webhook signature"))
		return
	}

	var event paystackWebhookEvent
	if err := json.Unmarshal(rawBody, &event); err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid webhook payload"))
		return
	}

	if event.Event != "charge.success" {
		// Acknowledge everything else so the gateway stops redelivering.
		utils.RespondJSON(c, http.StatusOK, "Event ignored", nil)
		return
	}

	order, err := pc.Orders.CreateOrderFromPayment(
		event.Data.Reference,
		event.Data.Metadata.MenuID,
		event.Data.Metadata.Items,
	)
	if err != nil {
		if _, ok := utils.AsAppError(err); !ok {
			utils.ErrorLogger.Printf("Unexpected error reconciling webhook reference %s: %v", event.Data.Reference, err)
		}
		utils.RespondAppError(c, err)
		return
	}

	live.BroadcastOrderConfirmed(*order)

	utils.RespondJSON(c, http.StatusOK, "Order confirmed", gin.H{
		"order_id":  order.ID,
		"reference": event.Data.Reference,
	})
}

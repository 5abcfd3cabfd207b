package controllers_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/scanbite/qrmenu/models"
	"github.com/scanbite/qrmenu/services"
)

func paidVerification(amount float64) *services.VerificationResult {
	paidAt := time.Now()
	return &services.VerificationResult{
		Status: services.VerificationSuccessful,
		Amount: amount,
		PaidAt: &paidAt,
	}
}

func TestCreateOrderFromPaymentEndpoint(t *testing.T) {
	r, db := setupTestRouter(t, &stubProvider{result: paidVerification(27.25)})
	menu := seedTestMenu(t, db)

	// Polling before the payment lands says not found.
	w := doJSON(t, r, http.MethodGet, "/orders/by-reference/QRM-flow-1", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	body := map[string]interface{}{
		"reference": "QRM-flow-1",
		"menu_id":   menu.ID,
		"items": []map[string]interface{}{
			{"menu_item_id": menu.Items[0].ID, "quantity": 2},
			{"menu_item_id": menu.Items[1].ID, "quantity": 1},
		},
	}
	w = doJSON(t, r, http.MethodPost, "/orders/from-payment", "", body)
	assert.Equal(t, http.StatusCreated, w.Code)

	var order models.Order
	env := decodeData(t, w, &order)
	assert.Equal(t, "Order confirmed", env.Message)
	assert.Equal(t, models.OrderStatusConfirmed, order.Status)
	assert.InDelta(t, 27.25, order.TotalAmount, 0.001)
	assert.Len(t, order.OrderItems, 2)

	// Polling after reconciliation returns the same order.
	w = doJSON(t, r, http.MethodGet, "/orders/by-reference/QRM-flow-1", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var polled models.Order
	decodeData(t, w, &polled)
	assert.Equal(t, order.ID, polled.ID)
	assert.NotNil(t, polled.Payment)
	assert.Equal(t, models.PaymentStatusSuccessful, polled.Payment.Status)
}

func TestCreateOrderFromPaymentEndpointFailedPayment(t *testing.T) {
	r, db := setupTestRouter(t, &stubProvider{result: &services.VerificationResult{
		Status:  services.VerificationFailed,
		Message: "Declined",
	}})
	menu := seedTestMenu(t, db)

	body := map[string]interface{}{
		"reference": "QRM-declined",
		"menu_id":   menu.ID,
		"items": []map[string]interface{}{
			{"menu_item_id": menu.Items[0].ID, "quantity": 1},
		},
	}
	w := doJSON(t, r, http.MethodPost, "/orders/from-payment", "", body)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	db.Model(&models.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestUpdateOrderStatusEndpoint(t *testing.T) {
	r, db := setupTestRouter(t, &stubProvider{result: paidVerification(12.50)})
	admin := seedTestAdmin(t, db)
	token := adminToken(t, admin)
	menu := seedTestMenu(t, db)

	body := map[string]interface{}{
		"reference": "QRM-status",
		"menu_id":   menu.ID,
		"items": []map[string]interface{}{
			{"menu_item_id": menu.Items[0].ID, "quantity": 1},
		},
	}
	w := doJSON(t, r, http.MethodPost, "/orders/from-payment", "", body)
	assert.Equal(t, http.StatusCreated, w.Code)
	var order models.Order
	decodeData(t, w, &order)

	w = doJSON(t, r, http.MethodPatch, "/admin/orders/"+itoa(order.ID)+"/status", token,
		map[string]string{"status": models.OrderStatusCompleted})
	assert.Equal(t, http.StatusOK, w.Code)

	// Completed orders cannot move back.
	w = doJSON(t, r, http.MethodPatch, "/admin/orders/"+itoa(order.ID)+"/status", token,
		map[string]string{"status": models.OrderStatusConfirmed})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAllOrdersRequiresAuth(t *testing.T) {
	r, _ := setupTestRouter(t, &stubProvider{})

	w := doJSON(t, r, http.MethodGet, "/admin/orders", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

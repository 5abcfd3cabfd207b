package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/scanbite/qrmenu/live"
	"github.com/scanbite/qrmenu/models"
	"github.com/scanbite/qrmenu/services"
	"github.com/scanbite/qrmenu/utils"
)

type OrderController struct {
	DB     *gorm.DB
	Orders *services.OrderService
}

func NewOrderController(db *gorm.DB, orders *services.OrderService) *OrderController {
	return &OrderController{DB: db, Orders: orders}
}

// GetAllOrders -> list orders with items and payments
func (oc *OrderController) GetAllOrders(c *gin.Context) {
	var orders []models.Order
	err := oc.DB.
		Preload("OrderItems").
		Preload("OrderItems.MenuItem").
		Preload("Payment").
		Order("created_at DESC").
		Find(&orders).Error
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "List of orders", orders)
}

// CreateOrderFromPayment runs the reconciliation workflow: verify the
// gateway reference, recheck the total, write order + payment atomically.
func (oc *OrderController) CreateOrderFromPayment(c *gin.Context) {
	type reqBody struct {
		Reference string               `json:"reference" binding:"required"`
		MenuID    uint                 `json:"menu_id" binding:"required"`
		Items     []services.OrderLine `json:"items" binding:"required"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.CreateOrderFromPayment(body.Reference, body.MenuID, body.Items)
	if err != nil {
		if _, ok := utils.AsAppError(err); !ok {
			utils.ErrorLogger.Printf("Unexpected error reconciling reference %s: %v", body.Reference, err)
		}
		utils.RespondAppError(c, err)
		return
	}

	live.BroadcastOrderConfirmed(*order)

	utils.RespondJSON(c, http.StatusCreated, "Order confirmed", order)
}

// GetOrderByReference is the poll target diners hit while waiting for their
// payment to settle. Pure read.
func (oc *OrderController) GetOrderByReference(c *gin.Context) {
	reference := c.Param("reference")

	order, err := oc.Orders.GetOrderByReference(reference)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// GetOrderByID -> detail of one order
func (oc *OrderController) GetOrderByID(c *gin.Context) {
	idStr := c.Param("order_id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	order, err := oc.Orders.GetOrderByID(uint(id))
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Order detail", order)
}

// UpdateOrderStatus applies a forward-only status change (confirm, complete
// or cancel).
func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	idStr := c.Param("order_id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid order id"))
		return
	}

	var body struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	order, err := oc.Orders.UpdateOrderStatus(uint(id), body.Status)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}

	live.BroadcastOrderUpdate(*order)

	utils.RespondJSON(c, http.StatusOK, "Order updated", order)
}

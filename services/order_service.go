package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/scanbite/qrmenu/models"
	"github.com/scanbite/qrmenu/utils"
	"gorm.io/gorm"
)

// AmountTolerance is the largest difference allowed between the recomputed
// order total and the amount the gateway reports as settled.
const AmountTolerance = 0.01

// reconcileTxTimeout bounds the reconciliation transaction under contention.
const reconcileTxTimeout = 20 * time.Second

// OrderLine is one requested (menu item, quantity) pair.
type OrderLine struct {
	MenuItemID uint `json:"menu_item_id" binding:"required"`
	Quantity   int  `json:"quantity" binding:"required"`
}

// OrderService runs the order-from-payment reconciliation workflow against
// whichever gateway the provider wraps.
type OrderService struct {
	db       *gorm.DB
	provider PaymentProvider
}

func NewOrderService(db *gorm.DB, provider PaymentProvider) *OrderService {
	return &OrderService{db: db, provider: provider}
}

// Provider exposes the gateway adapter this service reconciles against.
func (s *OrderService) Provider() PaymentProvider {
	return s.provider
}

// CreateOrderFromPayment verifies a gateway reference, recomputes the order
// total from current menu prices and, when both agree within tolerance,
// creates the order and its payment in one transaction. A reference that
// already has a payment returns the existing order unchanged.
func (s *OrderService) CreateOrderFromPayment(reference string, menuID uint, lines []OrderLine) (*models.Order, error) {
	if len(lines) == 0 {
		return nil, utils.NewBadRequest("order must contain at least one item")
	}

	verification, err := s.provider.VerifyTransaction(reference)
	if err != nil {
		if _, ok := utils.AsAppError(err); ok {
			return nil, err
		}
		utils.ErrorLogger.Printf("verification failed for reference %s: %v", reference, err)
		return nil, utils.NewInternal("payment verification failed", err)
	}
	if verification.Status != VerificationSuccessful {
		return nil, utils.NewBadRequest(fmt.Sprintf("payment not successful: gateway reported %s", verification.Status))
	}

	// Idempotency guard: a gateway reference settles at most one order.
	var existing models.Payment
	err = s.db.Where("reference = ?", reference).First(&existing).Error
	if err == nil {
		return s.loadOrder(existing.OrderID)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, utils.NewInternal("failed to check existing payment", err)
	}

	menu, orderItems, total, err := s.priceLines(menuID, lines)
	if err != nil {
		return nil, err
	}

	if math.Abs(total-verification.Amount) > AmountTolerance {
		// Integrity failure between gateway and menu pricing. Deliberately
		// not surfaced as a user-correctable error.
		utils.ErrorLogger.Printf("CRITICAL: amount mismatch for reference %s: order total %.2f, gateway settled %.2f",
			reference, total, verification.Amount)
		return nil, utils.NewInternal("payment amount does not match order total", nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), reconcileTxTimeout)
	defer cancel()

	var orderID uint
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		order := models.Order{
			MenuID:      menu.ID,
			Status:      models.OrderStatusConfirmed,
			TotalAmount: total,
			OrderItems:  orderItems,
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		payment := models.Payment{
			OrderID:   order.ID,
			Amount:    verification.Amount,
			Status:    models.PaymentStatusSuccessful,
			Reference: reference,
			Provider:  s.provider.Name(),
			PaidAt:    verification.PaidAt,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		// A concurrent attempt may have won the unique-reference race.
		var winner models.Payment
		if lookupErr := s.db.Where("reference = ?", reference).First(&winner).Error; lookupErr == nil {
			return s.loadOrder(winner.OrderID)
		}
		utils.ErrorLogger.Printf("reconciliation transaction failed for reference %s: %v", reference, err)
		return nil, utils.NewInternal("failed to create order", err)
	}

	return s.loadOrder(orderID)
}

// QuoteTotal recomputes what an order would cost at current menu prices.
// Used when initializing a gateway transaction, with the same validation
// rules reconciliation applies.
func (s *OrderService) QuoteTotal(menuID uint, lines []OrderLine) (float64, error) {
	if len(lines) == 0 {
		return 0, utils.NewBadRequest("order must contain at least one item")
	}
	_, _, total, err := s.priceLines(menuID, lines)
	return total, err
}

// priceLines resolves each requested line against the menu and returns the
// captured order items and the running total.
func (s *OrderService) priceLines(menuID uint, lines []OrderLine) (*models.Menu, []models.OrderItem, float64, error) {
	var menu models.Menu
	if err := s.db.Preload("Items").First(&menu, menuID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, 0, utils.NewNotFound("menu not found")
		}
		return nil, nil, 0, utils.NewInternal("failed to load menu", err)
	}

	itemsByID := make(map[uint]models.MenuItem, len(menu.Items))
	for _, item := range menu.Items {
		itemsByID[item.ID] = item
	}

	var total float64
	orderItems := make([]models.OrderItem, 0, len(lines))
	for _, line := range lines {
		item, ok := itemsByID[line.MenuItemID]
		if !ok {
			return nil, nil, 0, utils.NewBadRequest(fmt.Sprintf("menu item %d is not part of this menu", line.MenuItemID))
		}
		if !item.Available {
			return nil, nil, 0, utils.NewBadRequest(fmt.Sprintf("menu item %q is not available", item.Name))
		}
		if line.Quantity <= 0 {
			return nil, nil, 0, utils.NewBadRequest(fmt.Sprintf("quantity for %q must be positive", item.Name))
		}

		total += float64(line.Quantity) * item.Price
		orderItems = append(orderItems, models.OrderItem{
			MenuItemID: item.ID,
			Quantity:   line.Quantity,
			Price:      item.Price,
		})
	}

	return &menu, orderItems, total, nil
}

// GetOrderByReference returns the order linked to a gateway reference. Pure
// read: polling this never creates anything.
func (s *OrderService) GetOrderByReference(reference string) (*models.Order, error) {
	var payment models.Payment
	if err := s.db.Where("reference = ?", reference).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFound("no order found for this payment reference")
		}
		return nil, utils.NewInternal("failed to look up payment", err)
	}
	return s.loadOrder(payment.OrderID)
}

func (s *OrderService) GetOrderByID(id uint) (*models.Order, error) {
	return s.loadOrder(id)
}

// UpdateOrderStatus applies an admin-driven status change, enforcing the
// forward-only state machine.
func (s *OrderService) UpdateOrderStatus(orderID uint, next string) (*models.Order, error) {
	switch next {
	case models.OrderStatusConfirmed, models.OrderStatusCompleted, models.OrderStatusCancelled:
	default:
		return nil, utils.NewBadRequest(fmt.Sprintf("unknown order status %q", next))
	}

	var order models.Order
	if err := s.db.First(&order, orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFound("order not found")
		}
		return nil, utils.NewInternal("failed to load order", err)
	}

	if !order.ValidTransition(next) {
		return nil, utils.NewBadRequest(fmt.Sprintf("cannot move order from %s to %s", order.Status, next))
	}

	order.Status = next
	if err := s.db.Save(&order).Error; err != nil {
		return nil, utils.NewInternal("failed to update order status", err)
	}
	return s.loadOrder(order.ID)
}

func (s *OrderService) loadOrder(id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.
		Preload("Menu").
		Preload("OrderItems").
		Preload("OrderItems.MenuItem").
		Preload("Payment").
		First(&order, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFound("order not found")
		}
		return nil, utils.NewInternal("failed to load order", err)
	}
	return &order, nil
}

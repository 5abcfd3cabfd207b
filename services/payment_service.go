package services

import (
	"errors"
	"fmt"

	"github.com/scanbite/qrmenu/models"
	"github.com/scanbite/qrmenu/utils"
	"gorm.io/gorm"
)

// PaymentService handles payment reads and admin-driven status changes.
type PaymentService struct {
	db *gorm.DB
}

func NewPaymentService(db *gorm.DB) *PaymentService {
	return &PaymentService{db: db}
}

func (s *PaymentService) ListPayments() ([]models.Payment, error) {
	var payments []models.Payment
	if err := s.db.Order("created_at DESC").Find(&payments).Error; err != nil {
		return nil, utils.NewInternal("failed to list payments", err)
	}
	return payments, nil
}

func (s *PaymentService) GetPaymentByReference(reference string) (*models.Payment, error) {
	var payment models.Payment
	if err := s.db.Where("reference = ?", reference).First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFound("payment not found")
		}
		return nil, utils.NewInternal("failed to load payment", err)
	}
	return &payment, nil
}

// UpdatePaymentStatus changes a payment's status and keeps the order in
// step, inside one transaction: a payment marked failed cancels a pending
// order, a payment marked successful confirms it.
func (s *PaymentService) UpdatePaymentStatus(paymentID uint, status string) (*models.Payment, error) {
	switch status {
	case models.PaymentStatusPending, models.PaymentStatusSuccessful, models.PaymentStatusFailed:
	default:
		return nil, utils.NewBadRequest(fmt.Sprintf("unknown payment status %q", status))
	}

	var payment models.Payment
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&payment, paymentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return utils.NewNotFound("payment not found")
			}
			return fmt.Errorf("failed to find payment: %w", err)
		}

		payment.Status = status
		if err := tx.Save(&payment).Error; err != nil {
			return fmt.Errorf("failed to update payment status: %w", err)
		}

		var order models.Order
		if err := tx.First(&order, payment.OrderID).Error; err != nil {
			return fmt.Errorf("failed to find order: %w", err)
		}

		var next string
		switch status {
		case models.PaymentStatusSuccessful:
			next = models.OrderStatusConfirmed
		case models.PaymentStatusFailed:
			next = models.OrderStatusCancelled
		}
		if next != "" && order.Status != next && order.ValidTransition(next) {
			order.Status = next
			if err := tx.Save(&order).Error; err != nil {
				return fmt.Errorf("failed to update order status: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		if _, ok := utils.AsAppError(err); ok {
			return nil, err
		}
		return nil, utils.NewInternal("failed to update payment", err)
	}

	return &payment, nil
}

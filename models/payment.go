package models

import (
	"time"
)

// Payment status
const (
	PaymentStatusPending    = "pending"
	PaymentStatusSuccessful = "successful"
	PaymentStatusFailed     = "failed"
)

// Payment represents the gateway transaction settled against an order.
// Reference is the gateway-assigned identifier; its unique index is the
// idempotency backstop for concurrent reconciliation attempts.
type Payment struct {
	ID        uint       `json:"id" gorm:"primaryKey"`
	OrderID   uint       `json:"order_id" gorm:"uniqueIndex;not null"`
	Order     Order      `json:"-" gorm:"foreignKey:OrderID"`
	Amount    float64    `json:"amount" gorm:"type:decimal(10,2);not null"`
	Status    string     `json:"status" gorm:"type:varchar(20);not null;default:'pending'"`
	Reference string     `json:"reference" gorm:"type:varchar(100);uniqueIndex;not null"`
	Provider  string     `json:"provider" gorm:"type:varchar(20)"`
	PaidAt    *time.Time `json:"paid_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

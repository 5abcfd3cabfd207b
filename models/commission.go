package models

import "time"

// DefaultCommissionID is the fixed primary key of the singleton commission row.
const DefaultCommissionID = "default-commission"

// Commission holds the platform's percentage cut of each payment, used for
// reporting only.
type Commission struct {
	ID         string    `gorm:"primaryKey;type:varchar(50)" json:"id"`
	Percentage float64   `gorm:"not null;default:0" json:"percentage"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

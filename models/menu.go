package models

import "time"

type Menu struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	Name       string     `gorm:"type:varchar(255);not null" json:"name"`
	ScanCode   string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"scan_code"`
	QRImageURL *string    `gorm:"type:varchar(255)" json:"qr_image_url,omitempty"`
	Items      []MenuItem `gorm:"foreignKey:MenuID" json:"items"`
	CreatedAt  time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"not null" json:"updated_at"`
}

package services

import (
	"errors"
	"math"

	"github.com/scanbite/qrmenu/models"
	"github.com/scanbite/qrmenu/utils"
	"gorm.io/gorm"
)

// DashboardService aggregates payment and commission figures for the
// super-admin console.
type DashboardService struct {
	db *gorm.DB
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db}
}

type DashboardMetrics struct {
	TotalPayments   int64   `json:"total_payments"`
	TotalRevenue    float64 `json:"total_revenue"`
	TotalCommission float64 `json:"total_commission"`
	TotalOrders     int64   `json:"total_orders"`
	TotalMenus      int64   `json:"total_menus"`
	CommissionRate  float64 `json:"commission_rate"`
}

// Metrics computes the dashboard aggregates. Only successful payments count
// toward revenue and commission.
func (s *DashboardService) Metrics() (*DashboardMetrics, error) {
	var m DashboardMetrics

	if err := s.db.Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusSuccessful).
		Count(&m.TotalPayments).Error; err != nil {
		return nil, utils.NewInternal("failed to count payments", err)
	}

	if err := s.db.Model(&models.Payment{}).
		Where("status = ?", models.PaymentStatusSuccessful).
		Select("COALESCE(SUM(amount), 0)").
		Row().Scan(&m.TotalRevenue); err != nil {
		return nil, utils.NewInternal("failed to sum payments", err)
	}

	if err := s.db.Model(&models.Order{}).Count(&m.TotalOrders).Error; err != nil {
		return nil, utils.NewInternal("failed to count orders", err)
	}
	if err := s.db.Model(&models.Menu{}).Count(&m.TotalMenus).Error; err != nil {
		return nil, utils.NewInternal("failed to count menus", err)
	}

	commission, err := s.Commission()
	if err != nil {
		return nil, err
	}
	m.CommissionRate = commission.Percentage
	m.TotalCommission = math.Round(m.TotalRevenue*commission.Percentage*100) / 100

	return &m, nil
}

// Commission returns the singleton commission row, creating it at zero if
// seeding never ran.
func (s *DashboardService) Commission() (*models.Commission, error) {
	var commission models.Commission
	err := s.db.First(&commission, "id = ?", models.DefaultCommissionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		commission = models.Commission{ID: models.DefaultCommissionID, Percentage: 0}
		if err := s.db.Create(&commission).Error; err != nil {
			return nil, utils.NewInternal("failed to create commission row", err)
		}
		return &commission, nil
	}
	if err != nil {
		return nil, utils.NewInternal("failed to load commission", err)
	}
	return &commission, nil
}

// UpdateCommission validates and writes the platform percentage.
func (s *DashboardService) UpdateCommission(percentage float64) (*models.Commission, error) {
	if percentage < 0 || percentage > 1 {
		return nil, utils.NewBadRequest("commission percentage must be between 0 and 1")
	}

	commission, err := s.Commission()
	if err != nil {
		return nil, err
	}

	commission.Percentage = percentage
	if err := s.db.Save(commission).Error; err != nil {
		return nil, utils.NewInternal("failed to update commission", err)
	}
	return commission, nil
}

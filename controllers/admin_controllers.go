package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/scanbite/qrmenu/models"
	"github.com/scanbite/qrmenu/services"
	"github.com/scanbite/qrmenu/utils"
)

type AdminController struct {
	DB        *gorm.DB
	Dashboard *services.DashboardService
}

func NewAdminController(db *gorm.DB, dashboard *services.DashboardService) *AdminController {
	return &AdminController{DB: db, Dashboard: dashboard}
}

// Login -> return JWT for the super-admin console
func (ac *AdminController) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var admin models.Admin
	if err := ac.DB.Where("email = ?", input.Email).First(&admin).Error; err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(input.Password)); err != nil {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("invalid credentials"))
		return
	}

	token, err := utils.GenerateToken(admin.ID, admin.Email, admin.Role)
	if err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("Admin login: %s", admin.Email)

	utils.RespondJSON(c, http.StatusOK, "Login successful", gin.H{
		"token": token,
		"role":  admin.Role,
	})
}

// GetDashboardMetrics aggregates payment counts, revenue and commission.
func (ac *AdminController) GetDashboardMetrics(c *gin.Context) {
	metrics, err := ac.Dashboard.Metrics()
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard metrics", metrics)
}

// GetCommission
func (ac *AdminController) GetCommission(c *gin.Context) {
	commission, err := ac.Dashboard.Commission()
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Commission detail", commission)
}

// UpdateCommission validates and writes the platform percentage.
func (ac *AdminController) UpdateCommission(c *gin.Context) {
	var body struct {
		Percentage *float64 `json:"percentage" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	commission, err := ac.Dashboard.UpdateCommission(*body.Percentage)
	if err != nil {
		utils.RespondAppError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Commission updated", commission)
}

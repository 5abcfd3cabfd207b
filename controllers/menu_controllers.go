package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/scanbite/qrmenu/models"
	"github.com/scanbite/qrmenu/utils"
	qrcode "github.com/skip2/go-qrcode"
	"gorm.io/gorm"
)

type MenuController struct {
	DB *gorm.DB
}

func NewMenuController(db *gorm.DB) *MenuController {
	return &MenuController{DB: db}
}

// GetAllMenus
func (mc *MenuController) GetAllMenus(c *gin.Context) {
	var menus []models.Menu

	if err := mc.DB.Preload("Items").Find(&menus).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of menus", menus)
}

// CreateMenu creates a menu with its items, assigns a scan code and renders
// the QR image diners scan.
func (mc *MenuController) CreateMenu(c *gin.Context) {
	type itemReq struct {
		Name        string  `json:"name" binding:"required"`
		Description string  `json:"description"`
		Price       float64 `json:"price" binding:"required"`
	}
	type reqBody struct {
		Name  string    `json:"name" binding:"required"`
		Items []itemReq `json:"items" binding:"required,min=1,dive"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	for _, item := range body.Items {
		if item.Price <= 0 {
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("price for %q must be positive", item.Name))
			return
		}
	}

	scanCode := strings.ReplaceAll(uuid.New().String(), "-", "")[:12]

	menu := models.Menu{
		Name:     body.Name,
		ScanCode: scanCode,
	}
	for _, item := range body.Items {
		menu.Items = append(menu.Items, models.MenuItem{
			Name:        item.Name,
			Description: item.Description,
			Price:       item.Price,
			Available:   true,
		})
	}

	if err := mc.DB.Create(&menu).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	// QR rendering failure is logged, not fatal; the scan code itself is
	// already usable.
	if imageURL, err := renderMenuQR(scanCode); err != nil {
		utils.ErrorLogger.Printf("Error rendering QR image for menu %d: %v", menu.ID, err)
	} else {
		menu.QRImageURL = &imageURL
		if err := mc.DB.Save(&menu).Error; err != nil {
			utils.ErrorLogger.Printf("Error saving QR image url for menu %d: %v", menu.ID, err)
		}
	}

	utils.RespondJSON(c, http.StatusCreated, "Menu created", menu)
}

// renderMenuQR writes the scan URL as a PNG and returns the public URL.
func renderMenuQR(scanCode string) (string, error) {
	baseURL := os.Getenv("APP_BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}
	uploadDir := os.Getenv("QR_UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "public/uploads/menu_qr"
	}

	if err := os.MkdirAll(uploadDir, 0755); err != nil {
		return "", err
	}

	scanURL := fmt.Sprintf("%s/scan/%s", baseURL, scanCode)
	filename := scanCode + ".png"
	if err := qrcode.WriteFile(scanURL, qrcode.Medium, 256, filepath.Join(uploadDir, filename)); err != nil {
		return "", err
	}

	return fmt.Sprintf("%s/uploads/menu_qr/%s", baseURL, filename), nil
}

// GetMenuByID
func (mc *MenuController) GetMenuByID(c *gin.Context) {
	idStr := c.Param("menu_id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid menu id"))
		return
	}

	var menu models.Menu
	if err := mc.DB.Preload("Items").First(&menu, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu detail", menu)
}

// GetMenuByScanCode resolves a scanned code to the menu with its available
// items only. This is the diner-facing read.
func (mc *MenuController) GetMenuByScanCode(c *gin.Context) {
	code := c.Param("code")

	var menu models.Menu
	err := mc.DB.
		Preload("Items", "available = ?", true).
		Where("scan_code = ?", code).
		First(&menu).Error
	if err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu not found"))
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Menu detail", menu)
}

// UpdateMenu renames a menu and/or adjusts its items (price, availability).
func (mc *MenuController) UpdateMenu(c *gin.Context) {
	idStr := c.Param("menu_id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid menu id"))
		return
	}

	var menu models.Menu
	if err := mc.DB.Preload("Items").First(&menu, id).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, errors.New("menu not found"))
		return
	}

	type itemUpdate struct {
		ID        uint     `json:"id" binding:"required"`
		Name      *string  `json:"name"`
		Price     *float64 `json:"price"`
		Available *bool    `json:"available"`
	}
	type reqBody struct {
		Name  *string      `json:"name"`
		Items []itemUpdate `json:"items"`
	}

	var body reqBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	tx := mc.DB.Begin()

	if body.Name != nil {
		menu.Name = *body.Name
		if err := tx.Save(&menu).Error; err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	for _, upd := range body.Items {
		var item models.MenuItem
		if err := tx.Where("id = ? AND menu_id = ?", upd.ID, menu.ID).First(&item).Error; err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("menu item %d is not part of this menu", upd.ID))
			return
		}

		if upd.Name != nil {
			item.Name = *upd.Name
		}
		if upd.Price != nil {
			if *upd.Price <= 0 {
				tx.Rollback()
				utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("price for %q must be positive", item.Name))
				return
			}
			item.Price = *upd.Price
		}
		if upd.Available != nil {
			item.Available = *upd.Available
		}

		if err := tx.Save(&item).Error; err != nil {
			tx.Rollback()
			utils.RespondError(c, http.StatusInternalServerError, err)
			return
		}
	}

	tx.Commit()

	if err := mc.DB.Preload("Items").First(&menu, menu.ID).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu updated", menu)
}

// DeleteMenu
func (mc *MenuController) DeleteMenu(c *gin.Context) {
	idStr := c.Param("menu_id")
	id, err := strconv.Atoi(idStr)
	if err != nil {
		utils.RespondError(c, http.StatusBadRequest, errors.New("invalid menu id"))
		return
	}

	if err := mc.DB.Delete(&models.Menu{}, id).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Menu deleted", gin.H{"menu_id": id})
}

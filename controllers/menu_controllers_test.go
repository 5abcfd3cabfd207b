package controllers_test

import (
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scanbite/qrmenu/models"
)

func TestCreateMenu(t *testing.T) {
	r, db := setupTestRouter(t, &stubProvider{})
	admin := seedTestAdmin(t, db)
	token := adminToken(t, admin)

	body := map[string]interface{}{
		"name": "Breakfast",
		"items": []map[string]interface{}{
			{"name": "Akara", "description": "Bean fritters", "price": 4.50},
			{"name": "Pap", "price": 2.00},
		},
	}

	w := doJSON(t, r, http.MethodPost, "/admin/menus", token, body)
	assert.Equal(t, http.StatusCreated, w.Code)

	var menu models.Menu
	decodeData(t, w, &menu)
	assert.NotZero(t, menu.ID)
	assert.Equal(t, "Breakfast", menu.Name)
	assert.Len(t, menu.ScanCode, 12)
	assert.Len(t, menu.Items, 2)
	assert.True(t, menu.Items[0].Available)

	// The scan QR image is rendered alongside the record.
	if assert.NotNil(t, menu.QRImageURL) {
		path := filepath.Join(os.Getenv("QR_UPLOAD_DIR"), menu.ScanCode+".png")
		_, err := os.Stat(path)
		assert.NoError(t, err)
	}
}

func TestCreateMenuValidation(t *testing.T) {
	r, db := setupTestRouter(t, &stubProvider{})
	admin := seedTestAdmin(t, db)
	token := adminToken(t, admin)

	tests := []struct {
		name string
		body map[string]interface{}
	}{
		{"missing name", map[string]interface{}{
			"items": []map[string]interface{}{{"name": "Akara", "price": 4.50}},
		}},
		{"empty items", map[string]interface{}{
			"name": "Breakfast", "items": []map[string]interface{}{},
		}},
		{"non-positive price", map[string]interface{}{
			"name": "Breakfast",
			"items": []map[string]interface{}{
				{"name": "Akara", "price": -1.0},
			},
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, http.MethodPost, "/admin/menus", token, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestScanReturnsOnlyAvailableItems(t *testing.T) {
	r, db := setupTestRouter(t, &stubProvider{})
	menu := seedTestMenu(t, db)

	w := doJSON(t, r, http.MethodGet, "/scan/"+menu.ScanCode, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var got models.Menu
	decodeData(t, w, &got)
	assert.Equal(t, menu.ID, got.ID)
	assert.Len(t, got.Items, 2)
	for _, item := range got.Items {
		assert.True(t, item.Available)
	}
}

func TestScanUnknownCode(t *testing.T) {
	r, _ := setupTestRouter(t, &stubProvider{})

	w := doJSON(t, r, http.MethodGet, "/scan/no-such-code", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateMenu(t *testing.T) {
	r, db := setupTestRouter(t, &stubProvider{})
	admin := seedTestAdmin(t, db)
	token := adminToken(t, admin)
	menu := seedTestMenu(t, db)

	newPrice := 13.75
	available := false
	body := map[string]interface{}{
		"name": "Dinner v2",
		"items": []map[string]interface{}{
			{"id": menu.Items[0].ID, "price": newPrice, "available": available},
		},
	}

	w := doJSON(t, r, http.MethodPatch, "/admin/menus/"+itoa(menu.ID), token, body)
	assert.Equal(t, http.StatusOK, w.Code)

	var updated models.Menu
	assert.NoError(t, db.Preload("Items").First(&updated, menu.ID).Error)
	assert.Equal(t, "Dinner v2", updated.Name)
	for _, item := range updated.Items {
		if item.ID == menu.Items[0].ID {
			assert.InDelta(t, newPrice, item.Price, 0.001)
			assert.False(t, item.Available)
		}
	}
}

func TestDeleteMenu(t *testing.T) {
	r, db := setupTestRouter(t, &stubProvider{})
	admin := seedTestAdmin(t, db)
	token := adminToken(t, admin)
	menu := seedTestMenu(t, db)

	w := doJSON(t, r, http.MethodDelete, "/admin/menus/"+itoa(menu.ID), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var count int64
	db.Model(&models.Menu{}).Where("id = ?", menu.ID).Count(&count)
	assert.Zero(t, count)
}

package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/scanbite/qrmenu/models"
	"github.com/scanbite/qrmenu/router"
	"github.com/scanbite/qrmenu/services"
	"github.com/scanbite/qrmenu/utils"
)

const testWebhookSecret = "sk_test_webhook_secret"

// stubProvider answers every verification with a fixed result.
type stubProvider struct {
	result *services.VerificationResult
	err    error
}

func (p *stubProvider) Name() string { return "stub" }

func (p *stubProvider) InitializeTransaction(req services.InitializeRequest) (*services.InitializeResult, error) {
	return &services.InitializeResult{
		AuthorizationURL: "https://checkout.example.com/" + req.Reference,
		AccessCode:       "AC_" + req.Reference,
		Reference:        req.Reference,
	}, nil
}

func (p *stubProvider) VerifyTransaction(reference string) (*services.VerificationResult, error) {
	return p.result, p.err
}

func setupTestDB(t *testing.T) *gorm.DB {
	utils.InitLogger()
	gin.SetMode(gin.TestMode)
	t.Setenv("QR_UPLOAD_DIR", t.TempDir())

	dsn := fmt.Sprintf("file:ctrl_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}
	err = db.AutoMigrate(
		&models.Admin{},
		&models.Menu{},
		&models.MenuItem{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.Commission{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return db
}

// setupTestRouter wires the full route surface against an in-memory
// database and a stub gateway.
func setupTestRouter(t *testing.T, provider services.PaymentProvider) (*gin.Engine, *gorm.DB) {
	db := setupTestDB(t)
	paystack := services.NewPaystackService(&services.PaystackConfig{SecretKey: testWebhookSecret})
	return router.SetupRouter(db, provider, paystack), db
}

func seedTestAdmin(t *testing.T, db *gorm.DB) models.Admin {
	hash, err := bcrypt.GenerateFromPassword([]byte("sup3r-secret"), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	admin := models.Admin{
		Email:    "admin@scanbite.test",
		Password: string(hash),
		Role:     models.RoleSuperAdmin,
	}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("failed to seed admin: %v", err)
	}
	return admin
}

func seedTestMenu(t *testing.T, db *gorm.DB) models.Menu {
	menu := models.Menu{
		Name:     "Dinner",
		ScanCode: "dinner-" + t.Name(),
		Items: []models.MenuItem{
			{Name: "Suya Skewers", Price: 12.50, Available: true},
			{Name: "Chin Chin", Price: 2.25, Available: true},
			{Name: "Off The Card", Price: 9.00, Available: false},
		},
	}
	if err := db.Create(&menu).Error; err != nil {
		t.Fatalf("failed to seed menu: %v", err)
	}
	return menu
}

func itoa(id uint) string {
	return fmt.Sprintf("%d", id)
}

func adminToken(t *testing.T, admin models.Admin) string {
	token, err := utils.GenerateToken(admin.ID, admin.Email, admin.Role)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

type envelope struct {
	StatusCode int             `json:"status_code"`
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) envelope {
	var env envelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("failed to decode response %q: %v", w.Body.String(), err)
	}
	return env
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out interface{}) envelope {
	env := decodeEnvelope(t, w)
	assert.NoError(t, json.Unmarshal(env.Data, out))
	return env
}

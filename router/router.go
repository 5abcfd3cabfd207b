package router

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/scanbite/qrmenu/controllers"
	"github.com/scanbite/qrmenu/middlewares"
	"github.com/scanbite/qrmenu/services"
	"github.com/scanbite/qrmenu/utils"
)

// SetupRouter wires every route. The payment provider is injected so tests
// can run the full surface against a stub gateway.
func SetupRouter(db *gorm.DB, provider services.PaymentProvider, paystack *services.PaystackService) *gin.Engine {
	r := gin.Default()

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	// 50 requests per second per IP across the whole surface
	r.Use(middlewares.NewRateLimiter(50, 1).RateLimit())

	// Serve generated QR images
	workDir, _ := os.Getwd()
	r.Static("/uploads", filepath.Join(workDir, "public", "uploads"))

	orderService := services.NewOrderService(db, provider)
	paymentService := services.NewPaymentService(db)
	dashboardService := services.NewDashboardService(db)

	menuCtrl := controllers.NewMenuController(db)
	orderCtrl := controllers.NewOrderController(db, orderService)
	paymentCtrl := controllers.NewPaymentController(db, paymentService, orderService, paystack)
	adminCtrl := controllers.NewAdminController(db, dashboardService)

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	r.GET("/health", func(c *gin.Context) {
		utils.RespondJSON(c, http.StatusOK, "ok", gin.H{"healthy": true})
	})

	// Diner surface: scan, pay, poll
	r.GET("/scan/:code", menuCtrl.GetMenuByScanCode)
	r.GET("/menus/:menu_id", menuCtrl.GetMenuByID)
	r.POST("/payments/initialize", paymentCtrl.InitializePayment)
	r.POST("/orders/from-payment", orderCtrl.CreateOrderFromPayment)
	r.GET("/orders/by-reference/:reference", orderCtrl.GetOrderByReference)

	// Gateway callback (signature-checked inside the handler)
	r.POST("/payments/webhook/paystack", paymentCtrl.HandlePaystackWebhook)

	// Console login, strictly rate limited
	login := r.Group("/")
	login.Use(middlewares.NewStrictRateLimiter())
	{
		login.POST("/admin/login", adminCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      SUPER-ADMIN ROUTES
	// ----------------------------------------------------------------
	auth := r.Group("/admin")
	auth.Use(middlewares.AuthMiddleware())
	auth.Use(middlewares.RequireSuperAdmin())

	// MENUS
	auth.GET("/menus", menuCtrl.GetAllMenus)
	auth.POST("/menus", menuCtrl.CreateMenu)
	auth.PATCH("/menus/:menu_id", menuCtrl.UpdateMenu)
	auth.DELETE("/menus/:menu_id", menuCtrl.DeleteMenu)

	// ORDERS
	auth.GET("/orders", orderCtrl.GetAllOrders)
	auth.GET("/orders/:order_id", orderCtrl.GetOrderByID)
	auth.PATCH("/orders/:order_id/status", orderCtrl.UpdateOrderStatus)

	// PAYMENTS
	auth.GET("/payments", paymentCtrl.GetPayments)
	auth.PATCH("/payments/:payment_id/status", paymentCtrl.UpdatePaymentStatus)

	// COMMISSION & DASHBOARD
	auth.GET("/commission", adminCtrl.GetCommission)
	auth.PATCH("/commission", adminCtrl.UpdateCommission)
	auth.GET("/dashboard", adminCtrl.GetDashboardMetrics)

	// Live event stream for the console
	auth.GET("/events", controllers.EventsHandler)

	return r
}

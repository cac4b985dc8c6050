package handler

import (
	"net/http"

	"billing-core/internal/adapter/http/middleware"
	"billing-core/internal/core/ports"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// RouterDeps holds all dependencies needed to set up routes.
type RouterDeps struct {
	AuthSvc    ports.AuthService
	AccountSvc ports.AccountService
	BillingSvc ports.BillingService
	RateSvc    ports.RateService
	InvoiceEng ports.InvoiceEngine
	TxEng      ports.TransactionEngine
	AttemptEng ports.AttemptEngine
	WebhookSvc ports.WebhookIngestor
	Hostname   string
	Logger     zerolog.Logger
}

// SetupRouter initialises the Gin engine with all routes and middleware.
func SetupRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(middleware.Recovery(deps.Logger))
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(middleware.MaxBodySize(1 << 20))
	r.Use(middleware.BasicAuth(deps.AuthSvc, deps.Logger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	authHandler := NewAuthHandler(deps.AccountSvc)
	billingHandler := NewBillingHandler(deps.BillingSvc, deps.RateSvc)
	paymentHandler := NewPaymentHandler(deps.BillingSvc, deps.InvoiceEng, deps.TxEng, deps.AttemptEng, deps.WebhookSvc, deps.Hostname)

	// Public.
	r.POST("/register", authHandler.Register)
	r.GET("/currencies", billingHandler.Currencies)
	r.GET("/rates/:from_id", billingHandler.Rates)

	// Payment flow; POST /pay accepts both anonymous external payments and
	// merchant wallet transfers, so auth is optional there.
	r.GET("/pay/:token", paymentHandler.PaymentInfo)
	r.POST("/pay/:token", paymentHandler.Pay)
	r.GET("/attempt/:token", paymentHandler.PaymentSystems)
	r.POST("/attempt/:token", paymentHandler.CreateAttempt)
	r.POST("/visa/:payment_system_id", paymentHandler.VisaWebhook)

	// Authenticated management surface.
	user := r.Group("", middleware.RequireUser())
	{
		user.GET("/wallets", billingHandler.Wallets)
		user.GET("/invoices", billingHandler.Invoices)
	}

	merchant := r.Group("", middleware.RequireMerchant())
	{
		merchant.POST("/wallet", billingHandler.CreateWallet)
		merchant.POST("/invoice", billingHandler.CreateInvoice)
	}

	staff := r.Group("", middleware.RequireStaff())
	{
		staff.POST("/register/staff", authHandler.RegisterStaff)
		staff.POST("/refund/:transaction_token", paymentHandler.Refund)
	}

	return r
}

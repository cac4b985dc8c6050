package handler

import (
	"strconv"

	"billing-core/internal/adapter/http/dto"
	"billing-core/internal/adapter/http/middleware"
	"billing-core/internal/core/ports"
	"billing-core/pkg/apperror"
	"billing-core/pkg/response"

	"github.com/gin-gonic/gin"
)

const (
	defaultPageLimit = 50
	maxPageLimit     = 500
)

// BillingHandler handles currency, wallet and invoice management endpoints.
type BillingHandler struct {
	billingSvc ports.BillingService
	rateSvc    ports.RateService
}

// NewBillingHandler creates a new BillingHandler.
func NewBillingHandler(billingSvc ports.BillingService, rateSvc ports.RateService) *BillingHandler {
	return &BillingHandler{billingSvc: billingSvc, rateSvc: rateSvc}
}

// Currencies handles GET /currencies.
func (h *BillingHandler) Currencies(c *gin.Context) {
	currencies, err := h.billingSvc.Currencies(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.CurrenciesResponse{Currencies: currencies})
}

// Rates handles GET /rates/{from_id}: the cheapest rate converting every
// reachable currency into from_id.
func (h *BillingHandler) Rates(c *gin.Context) {
	fromID, err := strconv.ParseInt(c.Param("from_id"), 10, 64)
	if err != nil {
		response.ValidationError(c, []string{"path", "from_id"}, "must be an integer")
		return
	}

	rates, err := h.rateSvc.RatesFrom(c.Request.Context(), fromID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.RatesResponse{Rates: rates})
}

// CreateWallet handles POST /wallet. Merchant only.
func (h *BillingHandler) CreateWallet(c *gin.Context) {
	principal, _ := middleware.Principal(c)

	var req dto.CreateWalletRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	wallet, err := h.billingSvc.CreateWallet(c.Request.Context(), principal.ID, req.CurrencyID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, wallet)
}

// Wallets handles GET /wallets. Staff sees every wallet.
func (h *BillingHandler) Wallets(c *gin.Context) {
	principal, _ := middleware.Principal(c)

	wallets, err := h.billingSvc.Wallets(c.Request.Context(), principal)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, wallets)
}

// CreateInvoice handles POST /invoice. Merchant only.
func (h *BillingHandler) CreateInvoice(c *gin.Context) {
	principal, _ := middleware.Principal(c)

	var req dto.CreateInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	invoice, err := h.billingSvc.CreateInvoice(c.Request.Context(), principal.ID, req.Amount, req.ToWalletID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, invoice)
}

// Invoices handles GET /invoices with offset/limit pagination.
func (h *BillingHandler) Invoices(c *gin.Context) {
	principal, _ := middleware.Principal(c)

	offset, err := parseQueryInt(c, "offset", 0)
	if err != nil {
		response.ValidationError(c, []string{"query", "offset"}, "must be a non-negative integer")
		return
	}
	limit, err := parseQueryInt(c, "limit", defaultPageLimit)
	if err != nil || limit > maxPageLimit {
		response.ValidationError(c, []string{"query", "limit"}, "must be a non-negative integer")
		return
	}

	page, err := h.billingSvc.Invoices(c.Request.Context(), principal, offset, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, page)
}

func parseQueryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, apperror.Validation(name + " must be a non-negative integer")
	}
	return v, nil
}

package handler

import (
	"fmt"
	"io"
	"strconv"

	"billing-core/internal/adapter/http/dto"
	"billing-core/internal/adapter/http/middleware"
	"billing-core/internal/core/domain"
	"billing-core/internal/core/ports"
	"billing-core/pkg/apperror"
	"billing-core/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentHandler handles the payer-facing payment flow: invoice payment,
// attempts, refunds and the payment-system webhook.
type PaymentHandler struct {
	billingSvc ports.BillingService
	invoiceEng ports.InvoiceEngine
	txEng      ports.TransactionEngine
	attemptEng ports.AttemptEngine
	webhookSvc ports.WebhookIngestor
	hostname   string
}

// NewPaymentHandler creates a new PaymentHandler.
func NewPaymentHandler(
	billingSvc ports.BillingService,
	invoiceEng ports.InvoiceEngine,
	txEng ports.TransactionEngine,
	attemptEng ports.AttemptEngine,
	webhookSvc ports.WebhookIngestor,
	hostname string,
) *PaymentHandler {
	return &PaymentHandler{
		billingSvc: billingSvc,
		invoiceEng: invoiceEng,
		txEng:      txEng,
		attemptEng: attemptEng,
		webhookSvc: webhookSvc,
		hostname:   hostname,
	}
}

// PaymentInfo handles GET /pay/{token}.
func (h *PaymentHandler) PaymentInfo(c *gin.Context) {
	invoice, ok := h.invoiceByToken(c)
	if !ok {
		return
	}

	info, err := h.invoiceEng.PaymentInfo(c.Request.Context(), invoice.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, info)
}

// Pay handles POST /pay/{token}. A from_wallet_id selects an internal
// transfer from the authenticated merchant's wallet; a currency_id creates an
// external transaction to be settled through a payment system.
func (h *PaymentHandler) Pay(c *gin.Context) {
	invoice, ok := h.invoiceByToken(c)
	if !ok {
		return
	}

	var req dto.PayRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	switch {
	case req.FromWalletID != nil:
		principal, authed := middleware.Principal(c)
		if !authed || principal.Kind != domain.PrincipalMerchant {
			response.Error(c, apperror.Unauthorized())
			return
		}
		tx, err := h.invoiceEng.PayWithWallet(c.Request.Context(), ports.PayWithWalletRequest{
			InvoiceID:       invoice.ID,
			MerchantID:      principal.ID,
			WalletID:        *req.FromWalletID,
			Amount:          req.Amount,
			EffectiveAmount: req.EffectiveAmount,
		})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, dto.InternalPaymentResponse{
			Token:  tx.Token.String(),
			Status: string(tx.Status),
		})

	case req.CurrencyID != nil:
		tx, err := h.invoiceEng.CreateTransaction(c.Request.Context(), ports.CreateTransactionRequest{
			InvoiceID:       invoice.ID,
			CurrencyID:      *req.CurrencyID,
			Amount:          req.Amount,
			EffectiveAmount: req.EffectiveAmount,
		})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, dto.ExternalPaymentResponse{
			Token:      tx.Token.String(),
			AttemptURL: fmt.Sprintf("http://%s/attempt/%s", h.hostname, tx.Token),
		})

	default:
		response.Error(c, apperror.Underspecified())
	}
}

// PaymentSystems handles GET /attempt/{token}: the payment systems available
// for the transaction.
func (h *PaymentHandler) PaymentSystems(c *gin.Context) {
	tx, ok := h.transactionByToken(c)
	if !ok {
		return
	}

	systems, err := h.txEng.PaymentSystems(c.Request.Context(), tx.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, systems)
}

// CreateAttempt handles POST /attempt/{token}: opens an attempt on the chosen
// payment system and returns the external checkout URL.
func (h *PaymentHandler) CreateAttempt(c *gin.Context) {
	tx, ok := h.transactionByToken(c)
	if !ok {
		return
	}

	var req dto.CreateAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.Validation(err.Error()))
		return
	}

	attempt, err := h.txEng.CreateAttempt(c.Request.Context(), tx.ID, req.PaymentSystemID)
	if err != nil {
		response.Error(c, err)
		return
	}

	instruction, err := h.attemptEng.Send(c.Request.Context(), attempt.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, instruction)
}

// Refund handles POST /refund/{transaction_token}. Staff only.
func (h *PaymentHandler) Refund(c *gin.Context) {
	token, err := uuid.Parse(c.Param("transaction_token"))
	if err != nil {
		response.ValidationError(c, []string{"path", "transaction_token"}, "must be a UUID")
		return
	}

	tx, err := h.billingSvc.TransactionByToken(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}

	refunded, err := h.txEng.Refund(c.Request.Context(), tx.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, dto.RefundResponse{Status: string(refunded.Status)})
}

// VisaWebhook handles POST /visa/{payment_system_id}. The body is the raw
// Fernet ciphertext; every failure surfaces as a 500 fault because the
// caller is the payment system, not a user.
func (h *PaymentHandler) VisaWebhook(c *gin.Context) {
	systemID, err := strconv.ParseInt(c.Param("payment_system_id"), 10, 64)
	if err != nil {
		response.Fault(c, apperror.Validation("payment_system_id must be an integer"))
		return
	}

	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		response.Fault(c, apperror.Internal(err))
		return
	}

	if err := h.webhookSvc.ProcessVisa(c.Request.Context(), systemID, body); err != nil {
		response.Fault(c, err)
		return
	}
	response.OK(c, gin.H{})
}

func (h *PaymentHandler) invoiceByToken(c *gin.Context) (*domain.Invoice, bool) {
	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		response.ValidationError(c, []string{"path", "token"}, "must be a UUID")
		return nil, false
	}
	invoice, err := h.billingSvc.InvoiceByToken(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return invoice, true
}

func (h *PaymentHandler) transactionByToken(c *gin.Context) (*domain.Transaction, bool) {
	token, err := uuid.Parse(c.Param("token"))
	if err != nil {
		response.ValidationError(c, []string{"path", "token"}, "must be a UUID")
		return nil, false
	}
	tx, err := h.billingSvc.TransactionByToken(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	return tx, true
}

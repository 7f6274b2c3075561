package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"gradepay/internal/domain"
	"gradepay/internal/middleware"
	"gradepay/internal/repository"
	"gradepay/internal/service"
	"gradepay/pkg/paystack"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WalletHandler struct {
	wallets  *service.WalletService
	settings *repository.SettingRepository
	paystack *paystack.Client
}

func NewWalletHandler(wallets *service.WalletService, settings *repository.SettingRepository, ps *paystack.Client) *WalletHandler {
	return &WalletHandler{wallets: wallets, settings: settings, paystack: ps}
}

// Summary returns the current user's wallet balance and running totals.
func (h *WalletHandler) Summary(c *gin.Context) {
	userID := middleware.GetUserID(c)
	sum, err := h.wallets.Summary(userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "wallet not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "wallet error"})
		return
	}
	c.JSON(http.StatusOK, sum)
}

// History returns the current user's paginated ledger entries.
func (h *WalletHandler) History(c *gin.Context) {
	userID := middleware.GetUserID(c)
	f := repository.LedgerFilters{
		Type:    c.Query("type"),
		Purpose: c.Query("purpose"),
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if from := c.Query("date_from"); from != "" {
		if t, err := time.Parse("2006-01-02", from); err == nil {
			f.DateFrom = &t
		}
	}
	if to := c.Query("date_to"); to != "" {
		if t, err := time.Parse("2006-01-02", to); err == nil {
			end := t.Add(24 * time.Hour)
			f.DateTo = &end
		}
	}
	entries, total, err := h.wallets.History(userID, f)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "wallet not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "history error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"entries": entries,
		"total":   total,
		"page":    f.Page,
		"limit":   f.Limit,
	})
}

// Fund verifies a collector reference with Paystack and credits the wallet
// once. A replayed reference returns 409.
func (h *WalletHandler) Fund(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Reference string `json:"reference" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	v, err := h.paystack.VerifyTransaction(c.Request.Context(), req.Reference)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": "verification failed"})
		return
	}
	if !v.Success() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "transaction not successful"})
		return
	}
	entry, err := h.wallets.Fund(userID, v.Amount, v.Reference)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry, "amount": v.Amount})
}

// SubmissionPaid is the inbound payment-completed event from the assessment
// platform: debit the student, split commission to lecturer and partner.
func (h *WalletHandler) SubmissionPaid(c *gin.Context) {
	var req struct {
		StudentID  uint            `json:"student_id" binding:"required"`
		LecturerID uint            `json:"lecturer_id" binding:"required"`
		SourceType string          `json:"source_type" binding:"required"`
		SourceID   string          `json:"source_id" binding:"required"`
		Amount     decimal.Decimal `json:"amount"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	amount := req.Amount
	if amount.Cmp(decimal.Zero) <= 0 {
		amount = h.submissionCost(req.SourceType)
	}
	entry, err := h.wallets.ChargeSubmission(req.StudentID, service.SubmissionPaidEvent{
		SourceType:   req.SourceType,
		SourceID:     req.SourceID,
		SourceAmount: amount,
		LecturerID:   req.LecturerID,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// ChargeAI debits the AI-assisted grading fee from the current user.
func (h *WalletHandler) ChargeAI(c *gin.Context) {
	userID := middleware.GetUserID(c)
	var req struct {
		Amount    decimal.Decimal `json:"amount" binding:"required"`
		Reference string          `json:"reference" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entry, err := h.wallets.ChargeAIAssignment(userID, req.Amount, req.Reference)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entry": entry})
}

// submissionCost falls back to the configured per-type fee when the event
// carries no amount.
func (h *WalletHandler) submissionCost(sourceType string) decimal.Decimal {
	key := domain.SettingDefaultSubmissionCost
	fallback := decimal.NewFromInt(200)
	if sourceType == domain.SourceTypeTestSubmission {
		key = domain.SettingTestSubmissionCost
		fallback = decimal.NewFromInt(50)
	}
	val, err := h.settings.Get(key)
	if err != nil || val == "" {
		return fallback
	}
	d, err := decimal.NewFromString(val)
	if err != nil {
		return fallback
	}
	return d
}

package handler

import (
	"net/http"
	"strconv"

	"gradepay/internal/middleware"
	"gradepay/internal/repository"
	"gradepay/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type WithdrawalHandler struct {
	withdrawals *service.WithdrawalService
}

func NewWithdrawalHandler(withdrawals *service.WithdrawalService) *WithdrawalHandler {
	return &WithdrawalHandler{withdrawals: withdrawals}
}

// Create files a withdrawal request. Lecturer or partner only; bank details
// fall back to the partner's saved profile.
func (h *WithdrawalHandler) Create(c *gin.Context) {
	userID := middleware.GetUserID(c)
	role, _ := c.Get("role")
	var req struct {
		Amount        decimal.Decimal `json:"amount" binding:"required"`
		BankName      string          `json:"bank_name"`
		AccountNumber string          `json:"account_number"`
		AccountName   string          `json:"account_name"`
		RequestNotes  string          `json:"request_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	roleStr, _ := role.(string)
	w, err := h.withdrawals.Create(service.CreateWithdrawalInput{
		RequesterID:   userID,
		RequesterRole: roleStr,
		Amount:        req.Amount,
		BankName:      req.BankName,
		AccountNumber: req.AccountNumber,
		AccountName:   req.AccountName,
		RequestNotes:  req.RequestNotes,
	})
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"withdrawal": w})
}

// ListMine returns the current user's withdrawal requests.
func (h *WithdrawalHandler) ListMine(c *gin.Context) {
	userID := middleware.GetUserID(c)
	f := repository.WithdrawalFilters{
		RequesterID: userID,
		Status:      c.Query("status"),
	}
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	list, total, err := h.withdrawals.List(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": list, "total": total, "page": f.Page, "limit": f.Limit})
}

// Get returns one of the current user's withdrawal requests.
func (h *WithdrawalHandler) Get(c *gin.Context) {
	userID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	w, err := h.withdrawals.Get(uint(id))
	if err != nil {
		writeServiceError(c, err)
		return
	}
	if w.RequesterID != userID {
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawal": w})
}

// Stats returns the current user's per-status withdrawal totals.
func (h *WithdrawalHandler) Stats(c *gin.Context) {
	userID := middleware.GetUserID(c)
	stats, err := h.withdrawals.Stats(userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

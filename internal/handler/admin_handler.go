package handler

import (
	"net/http"
	"strconv"
	"time"

	"gradepay/internal/domain"
	"gradepay/internal/logger"
	"gradepay/internal/middleware"
	"gradepay/internal/models"
	"gradepay/internal/repository"
	"gradepay/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// AdminHandler is the review surface: withdrawal decisions, settings, partner
// and referral administration. Every transition is logged with the acting
// admin's id.
type AdminHandler struct {
	withdrawals *service.WithdrawalService
	settings    *repository.SettingRepository
	partners    *repository.PartnerRepository
	referrals   *repository.ReferralRepository
	users       *repository.UserRepository
}

func NewAdminHandler(
	withdrawals *service.WithdrawalService,
	settings *repository.SettingRepository,
	partners *repository.PartnerRepository,
	referrals *repository.ReferralRepository,
	users *repository.UserRepository,
) *AdminHandler {
	return &AdminHandler{
		withdrawals: withdrawals,
		settings:    settings,
		partners:    partners,
		referrals:   referrals,
		users:       users,
	}
}

// ListWithdrawals returns all withdrawal requests, filterable by requester,
// status and date range.
func (h *AdminHandler) ListWithdrawals(c *gin.Context) {
	f := repository.WithdrawalFilters{Status: c.Query("status")}
	if v := c.Query("requester_id"); v != "" {
		id, _ := strconv.ParseUint(v, 10, 32)
		f.RequesterID = uint(id)
	}
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
	f.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	f.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	list, total, err := h.withdrawals.List(f)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawals": list, "total": total, "page": f.Page, "limit": f.Limit})
}

func (h *AdminHandler) ApproveWithdrawal(c *gin.Context) {
	adminID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		ReviewNotes string `json:"review_notes"`
	}
	_ = c.ShouldBindJSON(&req)
	w, err := h.withdrawals.Approve(uint(id), adminID, req.ReviewNotes)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawal": w})
}

func (h *AdminHandler) RejectWithdrawal(c *gin.Context) {
	adminID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		RejectionReason string `json:"rejection_reason" binding:"required"`
		ReviewNotes     string `json:"review_notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "rejection reason is required"})
		return
	}
	w, err := h.withdrawals.Reject(uint(id), adminID, req.RejectionReason, req.ReviewNotes)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawal": w})
}

func (h *AdminHandler) MarkWithdrawalPaid(c *gin.Context) {
	adminID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		PaymentReference string `json:"payment_reference" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "payment reference is required"})
		return
	}
	w, err := h.withdrawals.MarkPaid(uint(id), adminID, req.PaymentReference)
	if err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"withdrawal": w})
}

// WithdrawalStats returns the platform-wide per-status rollup.
func (h *AdminHandler) WithdrawalStats(c *gin.Context) {
	stats, err := h.withdrawals.Stats(0)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "stats error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats})
}

func (h *AdminHandler) GetSettings(c *gin.Context) {
	settings, err := h.settings.GetAll()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "settings error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"settings": settings})
}

func (h *AdminHandler) UpdateSetting(c *gin.Context) {
	adminID := middleware.GetUserID(c)
	var req struct {
		Key   string `json:"key" binding:"required"`
		Value string `json:"value" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.settings.Set(req.Key, req.Value); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "setting update failed"})
		return
	}
	logger.Info("setting updated key=%s value=%s admin=%d", req.Key, req.Value, adminID)
	c.JSON(http.StatusOK, gin.H{"key": req.Key, "value": req.Value})
}

// CreatePartner creates a partner profile for an existing PARTNER user.
func (h *AdminHandler) CreatePartner(c *gin.Context) {
	var req struct {
		UserID         uint            `json:"user_id" binding:"required"`
		PartnerCode    string          `json:"partner_code" binding:"required"`
		BusinessName   string          `json:"business_name"`
		CommissionRate decimal.Decimal `json:"commission_rate"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user, err := h.users.GetByID(req.UserID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	if user.Role != domain.RolePartner {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user is not a partner"})
		return
	}
	rate := req.CommissionRate
	if rate.Cmp(decimal.Zero) <= 0 {
		rate = decimal.NewFromInt(15)
		if val, err := h.settings.Get(domain.SettingDefaultPartnerRate); err == nil && val != "" {
			if d, err := decimal.NewFromString(val); err == nil && d.Cmp(decimal.Zero) > 0 {
				rate = d
			}
		}
	}
	p := &models.Partner{
		UserID:         req.UserID,
		PartnerCode:    req.PartnerCode,
		BusinessName:   req.BusinessName,
		CommissionRate: rate,
		Status:         domain.PartnerStatusActive,
	}
	if err := h.partners.Create(p); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"partner": p})
}

// UpdatePartnerRate changes a partner's commission rate. Existing commission
// records keep their snapshotted rate.
func (h *AdminHandler) UpdatePartnerRate(c *gin.Context) {
	adminID := middleware.GetUserID(c)
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var req struct {
		CommissionRate decimal.Decimal `json:"commission_rate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.CommissionRate.Cmp(decimal.Zero) < 0 || req.CommissionRate.Cmp(decimal.NewFromInt(100)) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "commission rate must be between 0 and 100"})
		return
	}
	if err := h.partners.UpdateRate(uint(id), req.CommissionRate); err != nil {
		writeServiceError(c, err)
		return
	}
	logger.Info("partner rate updated partner=%d rate=%s admin=%d", id, req.CommissionRate, adminID)
	c.JSON(http.StatusOK, gin.H{"id": id, "commission_rate": req.CommissionRate})
}

// CreateReferral links a lecturer to a partner. One active referral per
// lecturer; a duplicate returns 409.
func (h *AdminHandler) CreateReferral(c *gin.Context) {
	var req struct {
		PartnerID  uint `json:"partner_id" binding:"required"`
		LecturerID uint `json:"lecturer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if _, err := h.partners.GetByID(req.PartnerID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "partner not found"})
		return
	}
	lecturer, err := h.users.GetByID(req.LecturerID)
	if err != nil || lecturer.Role != domain.RoleLecturer {
		c.JSON(http.StatusBadRequest, gin.H{"error": "lecturer not found"})
		return
	}
	ref := &models.Referral{
		PartnerID:  req.PartnerID,
		LecturerID: req.LecturerID,
		Status:     domain.ReferralStatusActive,
	}
	if err := h.referrals.Create(ref); err != nil {
		writeServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"referral": ref})
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"gradepay/internal/domain"
	"gradepay/internal/middleware"
	"gradepay/internal/repository"

	"github.com/gin-gonic/gin"
)

// PartnerHandler serves a partner's own referrals and commission earnings.
type PartnerHandler struct {
	partners    *repository.PartnerRepository
	referrals   *repository.ReferralRepository
	commissions *repository.CommissionRepository
}

func NewPartnerHandler(partners *repository.PartnerRepository, referrals *repository.ReferralRepository, commissions *repository.CommissionRepository) *PartnerHandler {
	return &PartnerHandler{partners: partners, referrals: referrals, commissions: commissions}
}

// Referrals lists the partner's referred lecturers with cached aggregates.
func (h *PartnerHandler) Referrals(c *gin.Context) {
	userID := middleware.GetUserID(c)
	p, err := h.partners.GetByUserID(userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "partner profile not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "partner error"})
		return
	}
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	list, total, err := h.referrals.ListByPartner(p.ID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "referral error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"referrals": list, "total": total, "page": page, "limit": limit})
}

// Earnings lists the partner's commission records.
func (h *PartnerHandler) Earnings(c *gin.Context) {
	userID := middleware.GetUserID(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	list, total, err := h.commissions.ListByBeneficiary(userID, page, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "earnings error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"earnings": list, "total": total, "page": page, "limit": limit})
}

package repository

import (
	"errors"

	"gradepay/internal/domain"
	"gradepay/internal/models"

	"gorm.io/gorm"
)

type ReferralRepository struct {
	db *gorm.DB
}

func NewReferralRepository(db *gorm.DB) *ReferralRepository {
	return &ReferralRepository{db: db}
}

func (r *ReferralRepository) Create(ref *models.Referral) error {
	err := r.db.Create(ref).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateOperation
	}
	return err
}

// GetActiveByLecturer resolves the standing referral for a lecturer, if any.
// Only an active referral with an active partner earns commission.
func (r *ReferralRepository) GetActiveByLecturer(lecturerID uint) (*models.Referral, error) {
	var ref models.Referral
	err := r.db.Preload("Partner").
		Where("lecturer_id = ? AND status = ?", lecturerID, domain.ReferralStatusActive).
		First(&ref).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &ref, nil
}

func (r *ReferralRepository) ListByPartner(partnerID uint, page, limit int) ([]models.Referral, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	q := r.db.Model(&models.Referral{}).Where("partner_id = ?", partnerID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.Referral
	err := q.Preload("Lecturer").Order("created_at DESC").
		Limit(limit).Offset((page - 1) * limit).Find(&list).Error
	return list, total, err
}

// UpdateAggregates writes the cached rollup columns recomputed from commission
// records.
func (r *ReferralRepository) UpdateAggregates(agg ReferralAggregate) error {
	return r.db.Model(&models.Referral{}).Where("id = ?", agg.ReferralID).
		Updates(map[string]interface{}{
			"total_submissions": agg.TotalSubmissions,
			"total_revenue":     agg.TotalRevenue,
			"partner_earnings":  agg.PartnerEarnings,
		}).Error
}

func (r *ReferralRepository) SetStatus(id uint, status string) error {
	res := r.db.Model(&models.Referral{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

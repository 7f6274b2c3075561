package repository

import (
	"errors"

	"gradepay/internal/domain"
	"gradepay/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PartnerRepository struct {
	db *gorm.DB
}

func NewPartnerRepository(db *gorm.DB) *PartnerRepository {
	return &PartnerRepository{db: db}
}

func (r *PartnerRepository) Create(p *models.Partner) error {
	err := r.db.Create(p).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrDuplicateOperation
	}
	return err
}

func (r *PartnerRepository) GetByID(id uint) (*models.Partner, error) {
	var p models.Partner
	err := r.db.First(&p, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PartnerRepository) GetByUserID(userID uint) (*models.Partner, error) {
	var p models.Partner
	err := r.db.Where("user_id = ?", userID).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdateRate changes the live commission rate. Historical commission records
// keep the rate snapshotted at calculation time.
func (r *PartnerRepository) UpdateRate(id uint, rate decimal.Decimal) error {
	res := r.db.Model(&models.Partner{}).Where("id = ?", id).Update("commission_rate", rate)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *PartnerRepository) SetStatus(id uint, status string) error {
	res := r.db.Model(&models.Partner{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

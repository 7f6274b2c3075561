package repository

import (
	"errors"
	"fmt"

	"gradepay/internal/domain"
	"gradepay/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CommissionRepository struct {
	db      *gorm.DB
	wallets *WalletRepository
}

func NewCommissionRepository(db *gorm.DB, wallets *WalletRepository) *CommissionRepository {
	return &CommissionRepository{db: db, wallets: wallets}
}

// ApplySplit inserts the commission records and credits each beneficiary's
// wallet in one transaction. The composite unique index on
// (source_type, source_id, beneficiary_id) turns a replayed payment event into
// domain.ErrDuplicateOperation and rolls the whole unit back, so a retried
// webhook can never double-credit.
func (r *CommissionRepository) ApplySplit(records []*models.CommissionRecord) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		for _, rec := range records {
			if err := tx.Create(rec).Error; err != nil {
				if errors.Is(err, gorm.ErrDuplicatedKey) {
					return domain.ErrDuplicateOperation
				}
				return err
			}
			// Role-qualified so two shares landing in one wallet (a
			// self-referred beneficiary) keep distinct references.
			ref := fmt.Sprintf("%s:%s:%s", rec.SourceType, rec.SourceID, rec.BeneficiaryRole)
			if _, err := r.wallets.CreditTx(tx, rec.BeneficiaryID, rec.Amount, domain.PurposeCommission, ref); err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *CommissionRepository) ListByBeneficiary(beneficiaryID uint, page, limit int) ([]models.CommissionRecord, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	q := r.db.Model(&models.CommissionRecord{}).Where("beneficiary_id = ?", beneficiaryID)
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var records []models.CommissionRecord
	err := q.Order("created_at DESC").Limit(limit).Offset((page - 1) * limit).Find(&records).Error
	return records, total, err
}

// ReferralAggregate is one referral's rollup over its partner commission records.
type ReferralAggregate struct {
	ReferralID       uint
	TotalSubmissions int64
	TotalRevenue     decimal.Decimal
	PartnerEarnings  decimal.Decimal
}

// AggregateByReferral recomputes per-referral totals from the commission
// records. The referral rows only cache these values.
func (r *CommissionRepository) AggregateByReferral() ([]ReferralAggregate, error) {
	var rows []ReferralAggregate
	err := r.db.Model(&models.CommissionRecord{}).
		Select("referral_id, COUNT(*) AS total_submissions, SUM(source_amount) AS total_revenue, SUM(amount) AS partner_earnings").
		Where("beneficiary_role = ? AND referral_id IS NOT NULL", domain.BeneficiaryPartner).
		Group("referral_id").
		Scan(&rows).Error
	return rows, err
}

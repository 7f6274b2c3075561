package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CommissionRecord is one beneficiary's share of a paid submission. The
// composite unique index rejects a replayed payment event for the same
// beneficiary, which is what makes commission processing idempotent.
// CommissionRate is snapshotted at calculation time; later rate changes must
// not alter historical records.
type CommissionRecord struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	SourceType      string          `gorm:"size:30;not null;uniqueIndex:idx_commission_source" json:"source_type"`
	SourceID        string          `gorm:"size:64;not null;uniqueIndex:idx_commission_source" json:"source_id"`
	BeneficiaryID   uint            `gorm:"not null;uniqueIndex:idx_commission_source;index" json:"beneficiary_id"`
	BeneficiaryRole string          `gorm:"size:20;not null" json:"beneficiary_role"` // lecturer | partner
	ReferralID      *uint           `gorm:"index" json:"referral_id"`
	SourceAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"source_amount"`
	CommissionRate  decimal.Decimal `gorm:"type:decimal(5,2);not null" json:"commission_rate"` // percent, snapshotted
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status          string          `gorm:"size:20;not null;default:'pending';index" json:"status"`
	CreatedAt       time.Time       `gorm:"index" json:"created_at"`

	Beneficiary User `gorm:"foreignKey:BeneficiaryID" json:"-"`
}

func (CommissionRecord) TableName() string { return "commission_records" }

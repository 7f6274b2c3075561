package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Referral links a partner to a lecturer they referred. The aggregate columns
// are a cache recomputed from commission records by a scheduled job; they are
// never the source of truth.
type Referral struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	PartnerID          uint            `gorm:"not null;index" json:"partner_id"`
	LecturerID         uint            `gorm:"uniqueIndex;not null" json:"lecturer_id"` // a lecturer is referred at most once
	Status             string          `gorm:"size:20;not null;default:'active';index" json:"status"`
	TotalSubmissions   int64           `gorm:"not null;default:0" json:"total_submissions"`
	TotalRevenue       decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_revenue"`
	PartnerEarnings    decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"partner_earnings"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`

	Partner  Partner `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
	Lecturer User    `gorm:"foreignKey:LecturerID" json:"lecturer,omitempty"`
}

func (Referral) TableName() string { return "referrals" }

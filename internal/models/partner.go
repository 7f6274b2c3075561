package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Partner is the referring-partner profile. CommissionRate is the live rate
// applied to future splits; historical records keep their own snapshot.
type Partner struct {
	ID             uint            `gorm:"primaryKey" json:"id"`
	UserID         uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	PartnerCode    string          `gorm:"uniqueIndex;size:20;not null" json:"partner_code"`
	BusinessName   string          `gorm:"size:150" json:"business_name"`
	CommissionRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:15" json:"commission_rate"` // percent of the non-platform pool
	Status         string          `gorm:"size:20;not null;default:'active';index" json:"status"`
	BankName       string          `gorm:"size:100" json:"bank_name"`
	AccountNumber  string          `gorm:"size:20" json:"account_number"`
	AccountName    string          `gorm:"size:150" json:"account_name"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
	DeletedAt      gorm.DeletedAt  `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Partner) TableName() string { return "partners" }

package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Wallet holds one balance record per user. Balance is mutated only through
// repository.WalletRepository, which appends a ledger entry in the same
// transaction; the running totals are reporting-only and never derive balance.
type Wallet struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	UserID      uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance     decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"balance"`
	TotalFunded decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_funded"`
	TotalSpent  decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_spent"`
	TotalEarned decimal.Decimal `gorm:"type:decimal(12,2);not null;default:0" json:"total_earned"`
	Currency    string          `gorm:"size:3;default:'NGN'" json:"currency"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	DeletedAt   gorm.DeletedAt  `gorm:"index" json:"-"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Wallet) TableName() string { return "wallets" }

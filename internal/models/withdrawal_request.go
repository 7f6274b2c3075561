package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// WithdrawalRequest moves pending -> approved -> paid, or pending -> rejected.
// Requests are never deleted; review and payment fields are immutable once set.
type WithdrawalRequest struct {
	ID               uint            `gorm:"primaryKey" json:"id"`
	RequesterID      uint            `gorm:"not null;index" json:"requester_id"`
	RequesterRole    string          `gorm:"size:20;not null" json:"requester_role"` // LECTURER | PARTNER
	Amount           decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	BankName         string          `gorm:"size:100;not null" json:"bank_name"`
	AccountNumber    string          `gorm:"size:20;not null" json:"account_number"`
	AccountName      string          `gorm:"size:150;not null" json:"account_name"`
	Status           string          `gorm:"size:20;not null;default:'pending';index" json:"status"`
	RequestNotes     string          `gorm:"type:text" json:"request_notes"`
	ReviewNotes      string          `gorm:"type:text" json:"review_notes"`
	RejectionReason  string          `gorm:"type:text" json:"rejection_reason"`
	PaymentReference string          `gorm:"size:128" json:"payment_reference"`
	RequestedAt      time.Time       `gorm:"index" json:"requested_at"`
	ReviewedAt       *time.Time      `json:"reviewed_at"`
	ReviewedBy       *uint           `json:"reviewed_by"`
	PaidAt           *time.Time      `json:"paid_at"`
	PaidBy           *uint           `json:"paid_by"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	Requester User `gorm:"foreignKey:RequesterID" json:"-"`
}

func (WithdrawalRequest) TableName() string { return "withdrawal_requests" }

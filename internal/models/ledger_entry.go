package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// LedgerEntry is an immutable record of one balance mutation. Entries are only
// inserted inside the wallet transaction that applies the mutation and are
// never updated or deleted; corrections are new offsetting entries.
//
// Reference is unique per wallet: a replayed funding or payment event fails
// the insert inside the mutating transaction, so the balance write rolls back
// with it and nothing is applied twice.
type LedgerEntry struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	WalletID      uint            `gorm:"not null;index;uniqueIndex:idx_wallet_reference" json:"wallet_id"`
	Type          string          `gorm:"size:10;not null;index" json:"type"` // credit | debit
	Purpose       string          `gorm:"size:30;not null;index" json:"purpose"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	BalanceBefore decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"balance_before"`
	BalanceAfter  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"balance_after"`
	Status        string          `gorm:"size:20;not null;default:'completed'" json:"status"`
	Reference     string          `gorm:"size:128;index;uniqueIndex:idx_wallet_reference" json:"reference"` // submission id, withdrawal id, funding reference
	CreatedAt     time.Time       `gorm:"index" json:"created_at"`

	Wallet Wallet `gorm:"foreignKey:WalletID" json:"-"`
}

func (LedgerEntry) TableName() string { return "ledger_entries" }

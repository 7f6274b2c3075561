package repository

import (
	"errors"
	"fmt"
	"time"

	"gradepay/internal/domain"
	"gradepay/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// WalletRepository owns every balance mutation. A credit or debit runs inside
// one transaction: lock the wallet row, re-read the balance, write the new
// balance and the ledger entry together. Balances are never written from a
// snapshot read outside the lock.
type WalletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) *WalletRepository {
	return &WalletRepository{db: db}
}

func (r *WalletRepository) GetByUserID(userID uint) (*models.Wallet, error) {
	var w models.Wallet
	err := r.db.Where("user_id = ?", userID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Create makes the signup-time wallet with balance 0.
func (r *WalletRepository) Create(userID uint) (*models.Wallet, error) {
	w := &models.Wallet{UserID: userID, Balance: decimal.Zero, Currency: "NGN"}
	if err := r.db.Create(w).Error; err != nil {
		return nil, err
	}
	return w, nil
}

func (r *WalletRepository) GetOrCreate(userID uint) (*models.Wallet, error) {
	w, err := r.GetByUserID(userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	return r.Create(userID)
}

// Credit adds amount to the user's wallet and appends the matching ledger entry.
func (r *WalletRepository) Credit(userID uint, amount decimal.Decimal, purpose, reference string) (*models.LedgerEntry, error) {
	var entry *models.LedgerEntry
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		entry, txErr = r.CreditTx(tx, userID, amount, purpose, reference)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Debit removes amount from the user's wallet, failing with
// domain.ErrInsufficientFunds when amount exceeds the locked balance.
func (r *WalletRepository) Debit(userID uint, amount decimal.Decimal, purpose, reference string) (*models.LedgerEntry, error) {
	var entry *models.LedgerEntry
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var txErr error
		entry, txErr = r.DebitTx(tx, userID, amount, purpose, reference)
		return txErr
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// CreditTx applies a credit inside an existing transaction so callers can bind
// the wallet mutation to their own writes (commission records, withdrawal
// status) in a single atomic unit.
func (r *WalletRepository) CreditTx(tx *gorm.DB, userID uint, amount decimal.Decimal, purpose, reference string) (*models.LedgerEntry, error) {
	return applyEntry(tx, userID, amount, domain.EntryTypeCredit, purpose, reference)
}

// DebitTx applies a debit inside an existing transaction.
func (r *WalletRepository) DebitTx(tx *gorm.DB, userID uint, amount decimal.Decimal, purpose, reference string) (*models.LedgerEntry, error) {
	return applyEntry(tx, userID, amount, domain.EntryTypeDebit, purpose, reference)
}

func applyEntry(tx *gorm.DB, userID uint, amount decimal.Decimal, entryType, purpose, reference string) (*models.LedgerEntry, error) {
	if amount.Cmp(decimal.Zero) <= 0 {
		return nil, domain.NewValidationError("amount must be greater than 0")
	}

	var w models.Wallet
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).First(&w).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	before := w.Balance
	var after decimal.Decimal
	switch entryType {
	case domain.EntryTypeCredit:
		after = before.Add(amount)
	case domain.EntryTypeDebit:
		if amount.Cmp(before) > 0 {
			return nil, domain.ErrInsufficientFunds
		}
		after = before.Sub(amount)
	default:
		return nil, fmt.Errorf("unknown entry type %q", entryType)
	}

	updates := map[string]interface{}{"balance": after, "updated_at": time.Now()}
	switch {
	case entryType == domain.EntryTypeCredit && purpose == domain.PurposeFunding:
		updates["total_funded"] = w.TotalFunded.Add(amount)
	case entryType == domain.EntryTypeCredit:
		updates["total_earned"] = w.TotalEarned.Add(amount)
	case purpose == domain.PurposePayment || purpose == domain.PurposeAIAssignment:
		updates["total_spent"] = w.TotalSpent.Add(amount)
	}
	if err := tx.Model(&w).Updates(updates).Error; err != nil {
		return nil, err
	}

	entry := &models.LedgerEntry{
		WalletID:      w.ID,
		Type:          entryType,
		Purpose:       purpose,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Status:        domain.EntryStatusCompleted,
		Reference:     reference,
	}
	if err := tx.Create(entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicateOperation
		}
		return nil, err
	}
	return entry, nil
}

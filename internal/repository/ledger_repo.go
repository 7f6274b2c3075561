package repository

import (
	"errors"
	"time"

	"gradepay/internal/domain"
	"gradepay/internal/models"

	"gorm.io/gorm"
)

type LedgerRepository struct {
	db *gorm.DB
}

func NewLedgerRepository(db *gorm.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// LedgerFilters narrows and pages a wallet's history.
type LedgerFilters struct {
	Type     string
	Purpose  string
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	Limit    int
}

// History returns a wallet's ledger entries newest first, with the total count
// for pagination.
func (r *LedgerRepository) History(walletID uint, f LedgerFilters) ([]models.LedgerEntry, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	q := r.db.Model(&models.LedgerEntry{}).Where("wallet_id = ?", walletID)
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Purpose != "" {
		q = q.Where("purpose = ?", f.Purpose)
	}
	if f.DateFrom != nil {
		q = q.Where("created_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("created_at <= ?", *f.DateTo)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.LedgerEntry
	err := q.Order("created_at DESC, id DESC").
		Limit(f.Limit).Offset((f.Page - 1) * f.Limit).
		Find(&entries).Error
	return entries, total, err
}

// GetByReference fetches the entry carrying the given reference. Used to
// return the original debit when a replayed event completes its split.
func (r *LedgerRepository) GetByReference(reference string) (*models.LedgerEntry, error) {
	var e models.LedgerEntry
	err := r.db.Where("reference = ?", reference).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

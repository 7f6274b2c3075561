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

type WithdrawalRepository struct {
	db      *gorm.DB
	wallets *WalletRepository
}

func NewWithdrawalRepository(db *gorm.DB, wallets *WalletRepository) *WithdrawalRepository {
	return &WithdrawalRepository{db: db, wallets: wallets}
}

func (r *WithdrawalRepository) Create(w *models.WithdrawalRequest) error {
	return r.db.Create(w).Error
}

func (r *WithdrawalRepository) GetByID(id uint) (*models.WithdrawalRequest, error) {
	var w models.WithdrawalRequest
	err := r.db.First(&w, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// WithdrawalFilters narrows and pages withdrawal listings.
type WithdrawalFilters struct {
	RequesterID uint
	Status      string
	DateFrom    *time.Time
	DateTo      *time.Time
	Page        int
	Limit       int
}

func (r *WithdrawalRepository) List(f WithdrawalFilters) ([]models.WithdrawalRequest, int64, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	q := r.db.Model(&models.WithdrawalRequest{})
	if f.RequesterID != 0 {
		q = q.Where("requester_id = ?", f.RequesterID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.DateFrom != nil {
		q = q.Where("requested_at >= ?", *f.DateFrom)
	}
	if f.DateTo != nil {
		q = q.Where("requested_at <= ?", *f.DateTo)
	}
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var list []models.WithdrawalRequest
	err := q.Order("requested_at DESC").Limit(f.Limit).Offset((f.Page - 1) * f.Limit).Find(&list).Error
	return list, total, err
}

// Approve moves pending -> approved. The guarded update makes concurrent
// reviews race safely: whoever loses sees zero rows and gets
// domain.ErrInvalidStateTransition.
func (r *WithdrawalRepository) Approve(id, adminID uint, reviewNotes string) (*models.WithdrawalRequest, error) {
	return r.review(id, adminID, domain.WithdrawalStatusApproved, reviewNotes, "")
}

// Reject moves pending -> rejected. No funds move; none were ever reserved.
func (r *WithdrawalRepository) Reject(id, adminID uint, rejectionReason, reviewNotes string) (*models.WithdrawalRequest, error) {
	return r.review(id, adminID, domain.WithdrawalStatusRejected, reviewNotes, rejectionReason)
}

func (r *WithdrawalRepository) review(id, adminID uint, newStatus, reviewNotes, rejectionReason string) (*models.WithdrawalRequest, error) {
	if _, err := r.GetByID(id); err != nil {
		return nil, err
	}
	now := time.Now()
	updates := map[string]interface{}{
		"status":       newStatus,
		"review_notes": reviewNotes,
		"reviewed_at":  now,
		"reviewed_by":  adminID,
	}
	if rejectionReason != "" {
		updates["rejection_reason"] = rejectionReason
	}
	res := r.db.Model(&models.WithdrawalRequest{}).
		Where("id = ? AND status = ?", id, domain.WithdrawalStatusPending).
		Updates(updates)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, domain.ErrInvalidStateTransition
	}
	return r.GetByID(id)
}

// MarkPaid moves approved -> paid and performs the payout debit. Everything
// happens in one transaction: the request row is locked first (so concurrent
// MarkPaid calls serialize and the loser sees a non-approved status), then the
// wallet is debited with a fresh balance check, then the status flips. An
// insufficient balance rolls the whole unit back and the request stays
// approved for a later admin decision.
func (r *WithdrawalRepository) MarkPaid(id, adminID uint, paymentReference string) (*models.WithdrawalRequest, error) {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var w models.WithdrawalRequest
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&w, id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		if err != nil {
			return err
		}
		if w.Status != domain.WithdrawalStatusApproved {
			return domain.ErrInvalidStateTransition
		}

		ref := fmt.Sprintf("withdrawal:%d", w.ID)
		if _, err := r.wallets.DebitTx(tx, w.RequesterID, w.Amount, domain.PurposeWithdrawal, ref); err != nil {
			return err
		}

		now := time.Now()
		res := tx.Model(&models.WithdrawalRequest{}).
			Where("id = ? AND status = ?", id, domain.WithdrawalStatusApproved).
			Updates(map[string]interface{}{
				"status":            domain.WithdrawalStatusPaid,
				"payment_reference": paymentReference,
				"paid_at":           now,
				"paid_by":           adminID,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrInvalidStateTransition
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return r.GetByID(id)
}

// StatusStat is the per-status amount/count rollup for the admin dashboard.
type StatusStat struct {
	Status string
	Total  decimal.Decimal
	Count  int64
}

func (r *WithdrawalRepository) StatsByStatus(requesterID uint) ([]StatusStat, error) {
	q := r.db.Model(&models.WithdrawalRequest{}).
		Select("status, SUM(amount) AS total, COUNT(*) AS count").
		Group("status")
	if requesterID != 0 {
		q = q.Where("requester_id = ?", requesterID)
	}
	var stats []StatusStat
	err := q.Scan(&stats).Error
	return stats, err
}

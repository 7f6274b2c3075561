package service

import (
	"gradepay/internal/models"
	"gradepay/internal/repository"

	"github.com/shopspring/decimal"
)

// Store interfaces consumed by the services. The gorm repositories satisfy
// them in production; tests substitute in-memory fakes. Each mutating call is
// an atomic unit on the implementation side (see repository package).

type WalletStore interface {
	GetByUserID(userID uint) (*models.Wallet, error)
	GetOrCreate(userID uint) (*models.Wallet, error)
	Credit(userID uint, amount decimal.Decimal, purpose, reference string) (*models.LedgerEntry, error)
	Debit(userID uint, amount decimal.Decimal, purpose, reference string) (*models.LedgerEntry, error)
}

type LedgerStore interface {
	History(walletID uint, f repository.LedgerFilters) ([]models.LedgerEntry, int64, error)
	GetByReference(reference string) (*models.LedgerEntry, error)
}

type CommissionStore interface {
	ApplySplit(records []*models.CommissionRecord) error
}

type ReferralStore interface {
	GetActiveByLecturer(lecturerID uint) (*models.Referral, error)
}

type WithdrawalStore interface {
	Create(w *models.WithdrawalRequest) error
	GetByID(id uint) (*models.WithdrawalRequest, error)
	List(f repository.WithdrawalFilters) ([]models.WithdrawalRequest, int64, error)
	Approve(id, adminID uint, reviewNotes string) (*models.WithdrawalRequest, error)
	Reject(id, adminID uint, rejectionReason, reviewNotes string) (*models.WithdrawalRequest, error)
	MarkPaid(id, adminID uint, paymentReference string) (*models.WithdrawalRequest, error)
	StatsByStatus(requesterID uint) ([]repository.StatusStat, error)
}

type PartnerStore interface {
	GetByUserID(userID uint) (*models.Partner, error)
}

type SettingStore interface {
	Get(key string) (string, error)
}

// Notifier is the side-effect hook fired on commission credits and withdrawal
// transitions. Implementations must not block the caller.
type Notifier interface {
	Notify(userID uint, notifType, title, body string, data map[string]interface{})
	NotifyAdmins(notifType string, data map[string]interface{})
}

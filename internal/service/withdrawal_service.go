package service

import (
	"errors"
	"fmt"
	"regexp"
	"time"

	"gradepay/internal/domain"
	"gradepay/internal/logger"
	"gradepay/internal/metrics"
	"gradepay/internal/models"
	"gradepay/internal/repository"

	"github.com/shopspring/decimal"
)

var accountNumberRe = regexp.MustCompile(`^\d{10}$`)

// WithdrawalService governs the request lifecycle:
// pending -> approved -> paid, or pending -> rejected. Creation never reserves
// funds; the balance is validated again inside the MarkPaid atomic unit.
type WithdrawalService struct {
	withdrawals WithdrawalStore
	wallets     WalletStore
	partners    PartnerStore
	settings    SettingStore
	notifier    Notifier
}

func NewWithdrawalService(withdrawals WithdrawalStore, wallets WalletStore, partners PartnerStore, settings SettingStore, notifier Notifier) *WithdrawalService {
	return &WithdrawalService{
		withdrawals: withdrawals,
		wallets:     wallets,
		partners:    partners,
		settings:    settings,
		notifier:    notifier,
	}
}

// CreateWithdrawalInput carries the requester's amount and bank details.
// Partners may omit bank details to fall back to their saved profile.
type CreateWithdrawalInput struct {
	RequesterID   uint
	RequesterRole string
	Amount        decimal.Decimal
	BankName      string
	AccountNumber string
	AccountName   string
	RequestNotes  string
}

func (s *WithdrawalService) Create(in CreateWithdrawalInput) (*models.WithdrawalRequest, error) {
	if in.RequesterRole != domain.RoleLecturer && in.RequesterRole != domain.RolePartner {
		return nil, domain.NewValidationError("only lecturers and partners can request withdrawals")
	}
	if in.Amount.Cmp(decimal.Zero) <= 0 {
		return nil, domain.NewValidationError("amount must be greater than 0")
	}

	min := s.settingDecimal(domain.SettingMinimumWithdrawal, decimal.NewFromInt(1000))
	if in.Amount.Cmp(min) < 0 {
		return nil, domain.NewValidationError(fmt.Sprintf("minimum withdrawal amount is ₦%s", min))
	}

	if in.RequesterRole == domain.RolePartner && (in.BankName == "" || in.AccountNumber == "" || in.AccountName == "") {
		p, err := s.partners.GetByUserID(in.RequesterID)
		if err != nil && !errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		if p != nil {
			if in.BankName == "" {
				in.BankName = p.BankName
			}
			if in.AccountNumber == "" {
				in.AccountNumber = p.AccountNumber
			}
			if in.AccountName == "" {
				in.AccountName = p.AccountName
			}
		}
	}
	if in.BankName == "" || in.AccountNumber == "" || in.AccountName == "" {
		return nil, domain.NewValidationError("bank details are required")
	}
	if !accountNumberRe.MatchString(in.AccountNumber) {
		return nil, domain.NewValidationError("account number must be 10 digits")
	}

	// Live balance, not a cached field. Creation does not reserve funds, so
	// pending requests may exceed the balance in aggregate; MarkPaid is the
	// enforcement point.
	w, err := s.wallets.GetByUserID(in.RequesterID)
	if err != nil {
		return nil, err
	}
	if in.Amount.Cmp(w.Balance) > 0 {
		return nil, domain.NewValidationError(fmt.Sprintf("insufficient balance, available: ₦%s", w.Balance))
	}

	req := &models.WithdrawalRequest{
		RequesterID:   in.RequesterID,
		RequesterRole: in.RequesterRole,
		Amount:        in.Amount,
		BankName:      in.BankName,
		AccountNumber: in.AccountNumber,
		AccountName:   in.AccountName,
		RequestNotes:  in.RequestNotes,
		Status:        domain.WithdrawalStatusPending,
		RequestedAt:   time.Now(),
	}
	if err := s.withdrawals.Create(req); err != nil {
		return nil, err
	}
	metrics.WithdrawalTransitions.WithLabelValues(domain.WithdrawalStatusPending).Inc()
	logger.Info("withdrawal requested id=%d user=%d amount=%s", req.ID, req.RequesterID, req.Amount)
	s.notifier.NotifyAdmins("withdrawal_requested", map[string]interface{}{
		"request_id": req.ID, "requester_id": req.RequesterID, "amount": req.Amount,
	})
	return req, nil
}

// Approve is a pure status change recording the reviewing admin.
func (s *WithdrawalService) Approve(requestID, adminID uint, reviewNotes string) (*models.WithdrawalRequest, error) {
	req, err := s.withdrawals.Approve(requestID, adminID, reviewNotes)
	if err != nil {
		return nil, err
	}
	metrics.WithdrawalTransitions.WithLabelValues(domain.WithdrawalStatusApproved).Inc()
	logger.Info("withdrawal approved id=%d admin=%d", requestID, adminID)
	s.notifier.Notify(req.RequesterID, "withdrawal_approved", "Withdrawal approved",
		fmt.Sprintf("Your withdrawal of ₦%s was approved", req.Amount),
		map[string]interface{}{"request_id": req.ID})
	return req, nil
}

// Reject requires a non-empty reason. No funds move; none were ever reserved.
func (s *WithdrawalService) Reject(requestID, adminID uint, rejectionReason, reviewNotes string) (*models.WithdrawalRequest, error) {
	if rejectionReason == "" {
		return nil, domain.NewValidationError("rejection reason is required")
	}
	req, err := s.withdrawals.Reject(requestID, adminID, rejectionReason, reviewNotes)
	if err != nil {
		return nil, err
	}
	metrics.WithdrawalTransitions.WithLabelValues(domain.WithdrawalStatusRejected).Inc()
	logger.Info("withdrawal rejected id=%d admin=%d reason=%q", requestID, adminID, rejectionReason)
	s.notifier.Notify(req.RequesterID, "withdrawal_rejected", "Withdrawal rejected",
		fmt.Sprintf("Your withdrawal of ₦%s was rejected: %s", req.Amount, rejectionReason),
		map[string]interface{}{"request_id": req.ID})
	return req, nil
}

// MarkPaid records the manual transfer. The store performs balance re-check,
// wallet debit, ledger append and the status flip as one atomic unit; on an
// insufficient balance the request stays approved for a fresh admin decision.
func (s *WithdrawalService) MarkPaid(requestID, adminID uint, paymentReference string) (*models.WithdrawalRequest, error) {
	if paymentReference == "" {
		return nil, domain.NewValidationError("payment reference is required")
	}
	req, err := s.withdrawals.MarkPaid(requestID, adminID, paymentReference)
	if err != nil {
		return nil, err
	}
	metrics.WithdrawalTransitions.WithLabelValues(domain.WithdrawalStatusPaid).Inc()
	metrics.LedgerEntries.WithLabelValues(domain.EntryTypeDebit, domain.PurposeWithdrawal).Inc()
	logger.Info("withdrawal paid id=%d admin=%d ref=%s", requestID, adminID, paymentReference)
	s.notifier.Notify(req.RequesterID, "withdrawal_paid", "Withdrawal paid",
		fmt.Sprintf("Your withdrawal of ₦%s was paid (ref %s)", req.Amount, paymentReference),
		map[string]interface{}{"request_id": req.ID, "payment_reference": paymentReference})
	return req, nil
}

func (s *WithdrawalService) Get(requestID uint) (*models.WithdrawalRequest, error) {
	return s.withdrawals.GetByID(requestID)
}

func (s *WithdrawalService) List(f repository.WithdrawalFilters) ([]models.WithdrawalRequest, int64, error) {
	return s.withdrawals.List(f)
}

func (s *WithdrawalService) Stats(requesterID uint) ([]repository.StatusStat, error) {
	return s.withdrawals.StatsByStatus(requesterID)
}

func (s *WithdrawalService) settingDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	val, err := s.settings.Get(key)
	if err != nil || val == "" {
		return fallback
	}
	d, err := decimal.NewFromString(val)
	if err != nil {
		return fallback
	}
	return d
}

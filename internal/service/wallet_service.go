package service

import (
	"errors"
	"fmt"

	"gradepay/internal/domain"
	"gradepay/internal/logger"
	"gradepay/internal/metrics"
	"gradepay/internal/models"
	"gradepay/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletService is the caller-facing surface over the wallet store and ledger:
// funding events, submission charges, summaries and history.
type WalletService struct {
	wallets     WalletStore
	ledger      LedgerStore
	commissions *CommissionService
	notifier    Notifier
}

func NewWalletService(wallets WalletStore, ledger LedgerStore, commissions *CommissionService, notifier Notifier) *WalletService {
	return &WalletService{wallets: wallets, ledger: ledger, commissions: commissions, notifier: notifier}
}

// Fund credits a wallet once per external funding event. The funding
// reference keys the ledger's per-wallet unique index, so a replayed event
// fails the insert inside the credit transaction and surfaces
// ErrDuplicateOperation without a separate read-then-write window.
func (s *WalletService) Fund(userID uint, amount decimal.Decimal, fundingReference string) (*models.LedgerEntry, error) {
	if fundingReference == "" {
		return nil, domain.NewValidationError("funding reference is required")
	}
	if amount.Cmp(decimal.Zero) <= 0 {
		return nil, domain.NewValidationError("amount must be greater than 0")
	}
	ref := "funding:" + fundingReference
	if _, err := s.wallets.GetOrCreate(userID); err != nil {
		return nil, err
	}
	entry, err := s.wallets.Credit(userID, amount, domain.PurposeFunding, ref)
	if err != nil {
		return nil, err
	}
	metrics.LedgerEntries.WithLabelValues(domain.EntryTypeCredit, domain.PurposeFunding).Inc()
	metrics.FundingEvents.Inc()
	logger.Info("wallet funded user=%d amount=%s ref=%s", userID, amount, fundingReference)
	s.notifier.Notify(userID, "wallet_funded", "Wallet funded",
		fmt.Sprintf("₦%s was added to your wallet", amount),
		map[string]interface{}{"amount": amount, "reference": fundingReference})
	return entry, nil
}

// ChargeSubmission debits the student for a submission fee and runs the
// commission engine for the lecturer (and referring partner, if any). The
// debit reference is unique per wallet, so a replayed event cannot debit
// twice; when the debit already committed, the retry instead completes a
// split that may have failed after the original debit.
func (s *WalletService) ChargeSubmission(studentID uint, ev SubmissionPaidEvent) (*models.LedgerEntry, error) {
	debitRef := fmt.Sprintf("payment:%s:%s", ev.SourceType, ev.SourceID)

	entry, err := s.wallets.Debit(studentID, ev.SourceAmount, domain.PurposePayment, debitRef)
	if errors.Is(err, domain.ErrDuplicateOperation) {
		return s.completeSubmissionSplit(ev, debitRef)
	}
	if err != nil {
		return nil, err
	}
	metrics.LedgerEntries.WithLabelValues(domain.EntryTypeDebit, domain.PurposePayment).Inc()

	if _, err := s.commissions.ProcessSubmissionPaid(ev); err != nil {
		// The debit stands; a caller retry replays the debit, which routes
		// into completeSubmissionSplit and applies the missing split.
		logger.Error("commission split failed after student debit source=%s:%s: %v", ev.SourceType, ev.SourceID, err)
		return entry, err
	}

	s.notifier.Notify(studentID, "payment_deducted", "Payment deducted",
		fmt.Sprintf("₦%s deducted for %s", ev.SourceAmount, ev.SourceType),
		map[string]interface{}{"amount": ev.SourceAmount, "source_id": ev.SourceID})
	return entry, nil
}

// completeSubmissionSplit handles a submission event whose debit already
// committed. If the commission split is missing (it failed after the original
// debit), the retry applies it now and the event completes; if the split is
// also in place, the event is a pure replay.
func (s *WalletService) completeSubmissionSplit(ev SubmissionPaidEvent, debitRef string) (*models.LedgerEntry, error) {
	if _, err := s.commissions.ProcessSubmissionPaid(ev); err != nil {
		if errors.Is(err, domain.ErrDuplicateOperation) {
			return nil, domain.ErrDuplicateOperation
		}
		return nil, err
	}
	logger.Info("commission split completed on retry source=%s:%s", ev.SourceType, ev.SourceID)
	return s.ledger.GetByReference(debitRef)
}

// ChargeAIAssignment debits the AI-assisted grading fee. A reference is
// generated when the caller has none of its own.
func (s *WalletService) ChargeAIAssignment(userID uint, amount decimal.Decimal, reference string) (*models.LedgerEntry, error) {
	if amount.Cmp(decimal.Zero) <= 0 {
		return nil, domain.NewValidationError("amount must be greater than 0")
	}
	if reference == "" {
		reference = "ai:" + uuid.New().String()
	}
	entry, err := s.wallets.Debit(userID, amount, domain.PurposeAIAssignment, reference)
	if err != nil {
		return nil, err
	}
	metrics.LedgerEntries.WithLabelValues(domain.EntryTypeDebit, domain.PurposeAIAssignment).Inc()
	return entry, nil
}

// WalletSummary is the outbound reporting view of one wallet.
type WalletSummary struct {
	Balance     decimal.Decimal `json:"balance"`
	TotalFunded decimal.Decimal `json:"total_funded"`
	TotalSpent  decimal.Decimal `json:"total_spent"`
	TotalEarned decimal.Decimal `json:"total_earned"`
	Currency    string          `json:"currency"`
}

func (s *WalletService) Summary(userID uint) (*WalletSummary, error) {
	w, err := s.wallets.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	return &WalletSummary{
		Balance:     w.Balance,
		TotalFunded: w.TotalFunded,
		TotalSpent:  w.TotalSpent,
		TotalEarned: w.TotalEarned,
		Currency:    w.Currency,
	}, nil
}

func (s *WalletService) History(userID uint, f repository.LedgerFilters) ([]models.LedgerEntry, int64, error) {
	w, err := s.wallets.GetByUserID(userID)
	if err != nil {
		return nil, 0, err
	}
	return s.ledger.History(w.ID, f)
}

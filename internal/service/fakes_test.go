package service

import (
	"fmt"
	"sync"
	"time"

	"gradepay/internal/domain"
	"gradepay/internal/models"
	"gradepay/internal/repository"

	"github.com/shopspring/decimal"
)

// memStore is a mutex-guarded in-memory implementation of the store
// interfaces with the same atomicity and idempotency semantics as the gorm
// repositories.
type memStore struct {
	mu          sync.Mutex
	wallets     map[uint]*models.Wallet // by user id
	entries     []models.LedgerEntry
	commissions []models.CommissionRecord
	withdrawals map[uint]*models.WithdrawalRequest
	referrals   map[uint]*models.Referral // by lecturer id
	partners    map[uint]*models.Partner  // by user id
	settings    map[string]string
	nextID      uint
}

func newMemStore() *memStore {
	return &memStore{
		wallets:     make(map[uint]*models.Wallet),
		withdrawals: make(map[uint]*models.WithdrawalRequest),
		referrals:   make(map[uint]*models.Referral),
		partners:    make(map[uint]*models.Partner),
		settings:    make(map[string]string),
		nextID:      1,
	}
}

func (m *memStore) id() uint {
	id := m.nextID
	m.nextID++
	return id
}

func (m *memStore) GetByUserID(userID uint) (*models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.wallets[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (m *memStore) GetOrCreate(userID uint) (*models.Wallet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *m.walletLocked(userID)
	return &cp, nil
}

func (m *memStore) walletLocked(userID uint) *models.Wallet {
	w, ok := m.wallets[userID]
	if !ok {
		w = &models.Wallet{ID: m.id(), UserID: userID, Currency: "NGN"}
		m.wallets[userID] = w
	}
	return w
}

func (m *memStore) Credit(userID uint, amount decimal.Decimal, purpose, reference string) (*models.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applyLocked(userID, amount, domain.EntryTypeCredit, purpose, reference)
}

func (m *memStore) Debit(userID uint, amount decimal.Decimal, purpose, reference string) (*models.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.applyLocked(userID, amount, domain.EntryTypeDebit, purpose, reference)
}

func (m *memStore) applyLocked(userID uint, amount decimal.Decimal, entryType, purpose, reference string) (*models.LedgerEntry, error) {
	if amount.Cmp(decimal.Zero) <= 0 {
		return nil, domain.NewValidationError("amount must be greater than 0")
	}
	w, ok := m.wallets[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if reference != "" {
		for _, e := range m.entries {
			if e.WalletID == w.ID && e.Reference == reference {
				return nil, domain.ErrDuplicateOperation
			}
		}
	}
	before := w.Balance
	var after decimal.Decimal
	if entryType == domain.EntryTypeCredit {
		after = before.Add(amount)
	} else {
		if amount.Cmp(before) > 0 {
			return nil, domain.ErrInsufficientFunds
		}
		after = before.Sub(amount)
	}
	w.Balance = after
	switch {
	case entryType == domain.EntryTypeCredit && purpose == domain.PurposeFunding:
		w.TotalFunded = w.TotalFunded.Add(amount)
	case entryType == domain.EntryTypeCredit:
		w.TotalEarned = w.TotalEarned.Add(amount)
	case purpose == domain.PurposePayment || purpose == domain.PurposeAIAssignment:
		w.TotalSpent = w.TotalSpent.Add(amount)
	}
	entry := models.LedgerEntry{
		ID:            m.id(),
		WalletID:      w.ID,
		Type:          entryType,
		Purpose:       purpose,
		Amount:        amount,
		BalanceBefore: before,
		BalanceAfter:  after,
		Status:        domain.EntryStatusCompleted,
		Reference:     reference,
		CreatedAt:     time.Now(),
	}
	m.entries = append(m.entries, entry)
	return &entry, nil
}

func (m *memStore) History(walletID uint, f repository.LedgerFilters) ([]models.LedgerEntry, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.LedgerEntry
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if e.WalletID != walletID {
			continue
		}
		if f.Type != "" && e.Type != f.Type {
			continue
		}
		if f.Purpose != "" && e.Purpose != f.Purpose {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (m *memStore) GetByReference(reference string) (*models.LedgerEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.entries {
		if e.Reference == reference {
			cp := e
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

// ApplySplit mirrors the repository: all records and credits succeed or none
// do, and a replayed (source, beneficiary) aborts everything.
func (m *memStore) ApplySplit(records []*models.CommissionRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range records {
		for _, existing := range m.commissions {
			if existing.SourceType == rec.SourceType && existing.SourceID == rec.SourceID && existing.BeneficiaryID == rec.BeneficiaryID {
				return domain.ErrDuplicateOperation
			}
		}
	}
	applied := len(m.entries)
	for _, rec := range records {
		if _, ok := m.wallets[rec.BeneficiaryID]; !ok {
			m.walletLocked(rec.BeneficiaryID)
		}
		ref := fmt.Sprintf("%s:%s:%s", rec.SourceType, rec.SourceID, rec.BeneficiaryRole)
		if _, err := m.applyLocked(rec.BeneficiaryID, rec.Amount, domain.EntryTypeCredit, domain.PurposeCommission, ref); err != nil {
			m.entries = m.entries[:applied]
			return err
		}
		rec.ID = m.id()
		m.commissions = append(m.commissions, *rec)
	}
	return nil
}

func (m *memStore) GetActiveByLecturer(lecturerID uint) (*models.Referral, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ref, ok := m.referrals[lecturerID]
	if !ok || ref.Status != domain.ReferralStatusActive {
		return nil, domain.ErrNotFound
	}
	cp := *ref
	return &cp, nil
}

func (m *memStore) Create(w *models.WithdrawalRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w.ID = m.id()
	cp := *w
	m.withdrawals[w.ID] = &cp
	return nil
}

func (m *memStore) GetByID(id uint) (*models.WithdrawalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.withdrawals[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *w
	return &cp, nil
}

func (m *memStore) List(f repository.WithdrawalFilters) ([]models.WithdrawalRequest, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []models.WithdrawalRequest
	for _, w := range m.withdrawals {
		if f.RequesterID != 0 && w.RequesterID != f.RequesterID {
			continue
		}
		if f.Status != "" && w.Status != f.Status {
			continue
		}
		out = append(out, *w)
	}
	return out, int64(len(out)), nil
}

func (m *memStore) Approve(id, adminID uint, reviewNotes string) (*models.WithdrawalRequest, error) {
	return m.review(id, adminID, domain.WithdrawalStatusApproved, reviewNotes, "")
}

func (m *memStore) Reject(id, adminID uint, rejectionReason, reviewNotes string) (*models.WithdrawalRequest, error) {
	return m.review(id, adminID, domain.WithdrawalStatusRejected, reviewNotes, rejectionReason)
}

func (m *memStore) review(id, adminID uint, newStatus, reviewNotes, rejectionReason string) (*models.WithdrawalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.withdrawals[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if w.Status != domain.WithdrawalStatusPending {
		return nil, domain.ErrInvalidStateTransition
	}
	now := time.Now()
	w.Status = newStatus
	w.ReviewedAt = &now
	w.ReviewedBy = &adminID
	w.ReviewNotes = reviewNotes
	w.RejectionReason = rejectionReason
	cp := *w
	return &cp, nil
}

func (m *memStore) MarkPaid(id, adminID uint, paymentReference string) (*models.WithdrawalRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w, ok := m.withdrawals[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if w.Status != domain.WithdrawalStatusApproved {
		return nil, domain.ErrInvalidStateTransition
	}
	ref := fmt.Sprintf("withdrawal:%d", w.ID)
	if _, err := m.applyLocked(w.RequesterID, w.Amount, domain.EntryTypeDebit, domain.PurposeWithdrawal, ref); err != nil {
		return nil, err
	}
	now := time.Now()
	w.Status = domain.WithdrawalStatusPaid
	w.PaidAt = &now
	w.PaidBy = &adminID
	w.PaymentReference = paymentReference
	cp := *w
	return &cp, nil
}

func (m *memStore) StatsByStatus(requesterID uint) ([]repository.StatusStat, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	byStatus := make(map[string]*repository.StatusStat)
	for _, w := range m.withdrawals {
		if requesterID != 0 && w.RequesterID != requesterID {
			continue
		}
		s, ok := byStatus[w.Status]
		if !ok {
			s = &repository.StatusStat{Status: w.Status}
			byStatus[w.Status] = s
		}
		s.Total = s.Total.Add(w.Amount)
		s.Count++
	}
	var out []repository.StatusStat
	for _, s := range byStatus {
		out = append(out, *s)
	}
	return out, nil
}

func (m *memStore) GetPartnerByUserID(userID uint) (*models.Partner, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.partners[userID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

// partnerStore adapts memStore to the PartnerStore interface, whose
// GetByUserID collides with the wallet method.
type partnerStore struct{ m *memStore }

func (p partnerStore) GetByUserID(userID uint) (*models.Partner, error) {
	return p.m.GetPartnerByUserID(userID)
}

func (m *memStore) Get(key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.settings[key], nil
}

func (m *memStore) setWallet(userID uint, balance string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	w := m.walletLocked(userID)
	w.Balance = mustDecimal(balance)
}

func (m *memStore) addPartner(userID uint, rate, status string) *models.Partner {
	m.mu.Lock()
	defer m.mu.Unlock()
	p := &models.Partner{
		ID:             m.id(),
		UserID:         userID,
		PartnerCode:    fmt.Sprintf("P%03d", userID),
		CommissionRate: mustDecimal(rate),
		Status:         status,
	}
	m.partners[userID] = p
	return p
}

func (m *memStore) addReferral(partner *models.Partner, lecturerID uint, status string) *models.Referral {
	m.mu.Lock()
	defer m.mu.Unlock()
	ref := &models.Referral{
		ID:         m.id(),
		PartnerID:  partner.ID,
		LecturerID: lecturerID,
		Status:     status,
		Partner:    *partner,
	}
	m.referrals[lecturerID] = ref
	return ref
}

func mustDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

// nullNotifier records emitted notifications for assertions.
type nullNotifier struct {
	mu    sync.Mutex
	types []string
	users []uint
}

func (n *nullNotifier) Notify(userID uint, notifType, title, body string, data map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.types = append(n.types, notifType)
	n.users = append(n.users, userID)
}

func (n *nullNotifier) NotifyAdmins(notifType string, data map[string]interface{}) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.types = append(n.types, notifType)
}

func (n *nullNotifier) count(notifType string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	c := 0
	for _, t := range n.types {
		if t == notifType {
			c++
		}
	}
	return c
}

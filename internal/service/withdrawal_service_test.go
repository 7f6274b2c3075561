package service

import (
	"errors"
	"sync"
	"testing"

	"gradepay/internal/domain"
	"gradepay/internal/models"
)

func newWithdrawalFixture() (*memStore, *nullNotifier, *WithdrawalService) {
	m := newMemStore()
	n := &nullNotifier{}
	svc := NewWithdrawalService(m, m, partnerStore{m}, m, n)
	return m, n, svc
}

func validInput(userID uint) CreateWithdrawalInput {
	return CreateWithdrawalInput{
		RequesterID:   userID,
		RequesterRole: domain.RoleLecturer,
		Amount:        mustDecimal("5000"),
		BankName:      "GTBank",
		AccountNumber: "0123456789",
		AccountName:   "A Lecturer",
	}
}

func TestCreateWithdrawalValidation(t *testing.T) {
	m, _, svc := newWithdrawalFixture()
	m.setWallet(1, "10000")

	in := validInput(1)
	in.RequesterRole = domain.RoleStudent
	if _, err := svc.Create(in); !domain.IsValidation(err) {
		t.Errorf("student role: err = %v, want validation error", err)
	}

	in = validInput(1)
	in.Amount = mustDecimal("500") // below the 1000 minimum
	if _, err := svc.Create(in); !domain.IsValidation(err) {
		t.Errorf("below minimum: err = %v, want validation error", err)
	}

	in = validInput(1)
	in.AccountNumber = "12345"
	if _, err := svc.Create(in); !domain.IsValidation(err) {
		t.Errorf("short account number: err = %v, want validation error", err)
	}

	in = validInput(1)
	in.Amount = mustDecimal("20000") // above balance
	if _, err := svc.Create(in); !domain.IsValidation(err) {
		t.Errorf("above balance: err = %v, want validation error", err)
	}
}

func TestCreateWithdrawalPartnerBankFallback(t *testing.T) {
	m, _, svc := newWithdrawalFixture()
	m.setWallet(20, "10000")
	p := m.addPartner(20, "15", domain.PartnerStatusActive)
	m.mu.Lock()
	p.BankName = "Zenith"
	p.AccountNumber = "9876543210"
	p.AccountName = "Partner Ltd"
	m.mu.Unlock()

	w, err := svc.Create(CreateWithdrawalInput{
		RequesterID:   20,
		RequesterRole: domain.RolePartner,
		Amount:        mustDecimal("2000"),
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if w.BankName != "Zenith" || w.AccountNumber != "9876543210" || w.AccountName != "Partner Ltd" {
		t.Errorf("bank details not taken from profile: %s / %s / %s", w.BankName, w.AccountNumber, w.AccountName)
	}
}

func TestWithdrawalLifecyclePaid(t *testing.T) {
	m, n, svc := newWithdrawalFixture()
	m.setWallet(1, "10000")

	w, err := svc.Create(validInput(1))
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if w.Status != domain.WithdrawalStatusPending {
		t.Fatalf("status = %s, want pending", w.Status)
	}
	// Creation reserves nothing.
	wallet, _ := m.GetByUserID(1)
	if !wallet.Balance.Equal(mustDecimal("10000")) {
		t.Errorf("balance after create = %s, want 10000", wallet.Balance)
	}

	w, err = svc.Approve(w.ID, 99, "checks out")
	if err != nil {
		t.Fatalf("Approve: %v", err)
	}
	if w.Status != domain.WithdrawalStatusApproved || w.ReviewedBy == nil || *w.ReviewedBy != 99 {
		t.Errorf("approved = %+v", w)
	}

	w, err = svc.MarkPaid(w.ID, 99, "TRF-123")
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if w.Status != domain.WithdrawalStatusPaid || w.PaymentReference != "TRF-123" || w.PaidBy == nil {
		t.Errorf("paid = %+v", w)
	}
	wallet, _ = m.GetByUserID(1)
	if !wallet.Balance.Equal(mustDecimal("5000")) {
		t.Errorf("balance after paid = %s, want 5000", wallet.Balance)
	}
	if got := n.count("withdrawal_approved"); got != 1 {
		t.Errorf("withdrawal_approved notifications = %d, want 1", got)
	}
	if got := n.count("withdrawal_paid"); got != 1 {
		t.Errorf("withdrawal_paid notifications = %d, want 1", got)
	}
}

func TestWithdrawalReject(t *testing.T) {
	m, _, svc := newWithdrawalFixture()
	m.setWallet(1, "10000")
	w, err := svc.Create(validInput(1))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Reject(w.ID, 99, "", ""); !domain.IsValidation(err) {
		t.Errorf("empty reason: err = %v, want validation error", err)
	}

	w, err = svc.Reject(w.ID, 99, "name mismatch", "")
	if err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if w.Status != domain.WithdrawalStatusRejected || w.RejectionReason != "name mismatch" {
		t.Errorf("rejected = %+v", w)
	}
	wallet, _ := m.GetByUserID(1)
	if !wallet.Balance.Equal(mustDecimal("10000")) {
		t.Errorf("balance after reject = %s, want 10000", wallet.Balance)
	}

	// Terminal: no further transitions.
	if _, err := svc.Approve(w.ID, 99, ""); !errors.Is(err, domain.ErrInvalidStateTransition) {
		t.Errorf("approve rejected: err = %v, want ErrInvalidStateTransition", err)
	}
	if _, err := svc.MarkPaid(w.ID, 99, "TRF-1"); !errors.Is(err, domain.ErrInvalidStateTransition) {
		t.Errorf("pay rejected: err = %v, want ErrInvalidStateTransition", err)
	}
}

func TestMarkPaidRequiresApproved(t *testing.T) {
	m, _, svc := newWithdrawalFixture()
	m.setWallet(1, "10000")
	w, err := svc.Create(validInput(1))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.MarkPaid(w.ID, 99, "TRF-2"); !errors.Is(err, domain.ErrInvalidStateTransition) {
		t.Errorf("pay pending: err = %v, want ErrInvalidStateTransition", err)
	}
}

// The balance may drop between approval and payout; the shortfall rolls the
// payment back and the request stays approved.
func TestMarkPaidInsufficientFundsStaysApproved(t *testing.T) {
	m, _, svc := newWithdrawalFixture()
	m.setWallet(1, "10000")
	w, err := svc.Create(validInput(1))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Approve(w.ID, 99, ""); err != nil {
		t.Fatal(err)
	}
	m.setWallet(1, "100")

	if _, err := svc.MarkPaid(w.ID, 99, "TRF-3"); !errors.Is(err, domain.ErrInsufficientFunds) {
		t.Fatalf("err = %v, want ErrInsufficientFunds", err)
	}
	got, _ := svc.Get(w.ID)
	if got.Status != domain.WithdrawalStatusApproved {
		t.Errorf("status = %s, want approved", got.Status)
	}
	wallet, _ := m.GetByUserID(1)
	if !wallet.Balance.Equal(mustDecimal("100")) {
		t.Errorf("balance = %s, want 100", wallet.Balance)
	}
}

// Two admins racing to pay the same request: exactly one debit happens.
func TestMarkPaidConcurrentSingleWinner(t *testing.T) {
	m, _, svc := newWithdrawalFixture()
	m.setWallet(1, "10000")
	w, err := svc.Create(validInput(1))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Approve(w.ID, 99, ""); err != nil {
		t.Fatal(err)
	}

	const racers = 8
	var wg sync.WaitGroup
	errs := make([]error, racers)
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = svc.MarkPaid(w.ID, uint(100+i), "TRF-RACE")
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		} else if !errors.Is(err, domain.ErrInvalidStateTransition) {
			t.Errorf("loser err = %v, want ErrInvalidStateTransition", err)
		}
	}
	if wins != 1 {
		t.Fatalf("winners = %d, want exactly 1", wins)
	}
	wallet, _ := m.GetByUserID(1)
	if !wallet.Balance.Equal(mustDecimal("5000")) {
		t.Errorf("balance = %s, want 5000 (debited once)", wallet.Balance)
	}
}

func TestWithdrawalStats(t *testing.T) {
	m, _, svc := newWithdrawalFixture()
	m.setWallet(1, "100000")

	var reqs []*models.WithdrawalRequest
	for i := 0; i < 3; i++ {
		w, err := svc.Create(validInput(1))
		if err != nil {
			t.Fatal(err)
		}
		reqs = append(reqs, w)
	}
	if _, err := svc.Approve(reqs[0].ID, 99, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.MarkPaid(reqs[0].ID, 99, "TRF-S"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Reject(reqs[1].ID, 99, "bad details", ""); err != nil {
		t.Fatal(err)
	}

	stats, err := svc.Stats(1)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	byStatus := make(map[string]int64)
	for _, s := range stats {
		byStatus[s.Status] = s.Count
	}
	if byStatus[domain.WithdrawalStatusPaid] != 1 || byStatus[domain.WithdrawalStatusRejected] != 1 || byStatus[domain.WithdrawalStatusPending] != 1 {
		t.Errorf("stats = %v", byStatus)
	}
}

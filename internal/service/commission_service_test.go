package service

import (
	"errors"
	"testing"

	"gradepay/internal/domain"

	"github.com/shopspring/decimal"
)

func newCommissionFixture() (*memStore, *nullNotifier, *CommissionService) {
	m := newMemStore()
	n := &nullNotifier{}
	svc := NewCommissionService(m, m, m, n)
	return m, n, svc
}

func TestProcessSubmissionPaidNoPartner(t *testing.T) {
	m, _, svc := newCommissionFixture()
	m.setWallet(10, "0") // lecturer

	split, err := svc.ProcessSubmissionPaid(SubmissionPaidEvent{
		SourceType:   domain.SourceTypeAssignmentSubmission,
		SourceID:     "sub-1",
		SourceAmount: mustDecimal("200"),
		LecturerID:   10,
	})
	if err != nil {
		t.Fatalf("ProcessSubmissionPaid: %v", err)
	}
	if !split.LecturerAmount.Equal(mustDecimal("100")) {
		t.Errorf("lecturer amount = %s, want 100", split.LecturerAmount)
	}
	w, _ := m.GetByUserID(10)
	if !w.Balance.Equal(mustDecimal("100")) {
		t.Errorf("lecturer balance = %s, want 100", w.Balance)
	}
	if len(m.commissions) != 1 {
		t.Fatalf("commission records = %d, want 1", len(m.commissions))
	}
	if !m.commissions[0].CommissionRate.Equal(mustDecimal("100")) {
		t.Errorf("lecturer rate snapshot = %s, want 100", m.commissions[0].CommissionRate)
	}
}

func TestProcessSubmissionPaidWithPartner(t *testing.T) {
	m, n, svc := newCommissionFixture()
	m.setWallet(10, "0") // lecturer
	m.setWallet(20, "0") // partner user
	p := m.addPartner(20, "15", domain.PartnerStatusActive)
	m.addReferral(p, 10, domain.ReferralStatusActive)

	split, err := svc.ProcessSubmissionPaid(SubmissionPaidEvent{
		SourceType:   domain.SourceTypeAssignmentSubmission,
		SourceID:     "sub-2",
		SourceAmount: mustDecimal("200"),
		LecturerID:   10,
	})
	if err != nil {
		t.Fatalf("ProcessSubmissionPaid: %v", err)
	}
	if !split.PlatformAmount.Equal(mustDecimal("100")) || !split.LecturerAmount.Equal(mustDecimal("85")) || !split.PartnerAmount.Equal(mustDecimal("15")) {
		t.Errorf("split = platform %s / lecturer %s / partner %s, want 100/85/15",
			split.PlatformAmount, split.LecturerAmount, split.PartnerAmount)
	}
	lw, _ := m.GetByUserID(10)
	pw, _ := m.GetByUserID(20)
	if !lw.Balance.Equal(mustDecimal("85")) || !pw.Balance.Equal(mustDecimal("15")) {
		t.Errorf("balances = %s / %s, want 85 / 15", lw.Balance, pw.Balance)
	}
	if len(m.commissions) != 2 {
		t.Fatalf("commission records = %d, want 2", len(m.commissions))
	}
	if got := n.count("commission_earned"); got != 2 {
		t.Errorf("commission_earned notifications = %d, want 2", got)
	}
}

func TestProcessSubmissionPaidIdempotent(t *testing.T) {
	m, _, svc := newCommissionFixture()
	m.setWallet(10, "0")

	ev := SubmissionPaidEvent{
		SourceType:   domain.SourceTypeTestSubmission,
		SourceID:     "test-9",
		SourceAmount: mustDecimal("50"),
		LecturerID:   10,
	}
	if _, err := svc.ProcessSubmissionPaid(ev); err != nil {
		t.Fatalf("first ProcessSubmissionPaid: %v", err)
	}
	if _, err := svc.ProcessSubmissionPaid(ev); !errors.Is(err, domain.ErrDuplicateOperation) {
		t.Fatalf("replay err = %v, want ErrDuplicateOperation", err)
	}
	w, _ := m.GetByUserID(10)
	if !w.Balance.Equal(mustDecimal("25")) {
		t.Errorf("balance after replay = %s, want 25 (credited once)", w.Balance)
	}
	if len(m.commissions) != 1 {
		t.Errorf("commission records = %d, want 1", len(m.commissions))
	}
}

// A later rate change must not touch amounts recorded under the old rate.
func TestCommissionRateSnapshot(t *testing.T) {
	m, _, svc := newCommissionFixture()
	m.setWallet(10, "0")
	m.setWallet(20, "0")
	p := m.addPartner(20, "15", domain.PartnerStatusActive)
	ref := m.addReferral(p, 10, domain.ReferralStatusActive)

	if _, err := svc.ProcessSubmissionPaid(SubmissionPaidEvent{
		SourceType: domain.SourceTypeAssignmentSubmission, SourceID: "s1",
		SourceAmount: mustDecimal("200"), LecturerID: 10,
	}); err != nil {
		t.Fatal(err)
	}

	// Rate change applies only to future events.
	m.mu.Lock()
	p.CommissionRate = mustDecimal("20")
	ref.Partner = *p
	m.mu.Unlock()

	if _, err := svc.ProcessSubmissionPaid(SubmissionPaidEvent{
		SourceType: domain.SourceTypeAssignmentSubmission, SourceID: "s2",
		SourceAmount: mustDecimal("200"), LecturerID: 10,
	}); err != nil {
		t.Fatal(err)
	}

	var rates []string
	for _, rec := range m.commissions {
		if rec.BeneficiaryRole == domain.BeneficiaryPartner {
			rates = append(rates, rec.CommissionRate.String())
		}
	}
	if len(rates) != 2 || rates[0] != "15" || rates[1] != "20" {
		t.Errorf("partner rate snapshots = %v, want [15 20]", rates)
	}
}

func TestProcessSubmissionPaidInactivePartner(t *testing.T) {
	m, _, svc := newCommissionFixture()
	m.setWallet(10, "0")
	m.setWallet(20, "0")
	p := m.addPartner(20, "15", domain.PartnerStatusSuspended)
	m.addReferral(p, 10, domain.ReferralStatusActive)

	split, err := svc.ProcessSubmissionPaid(SubmissionPaidEvent{
		SourceType: domain.SourceTypeAssignmentSubmission, SourceID: "s3",
		SourceAmount: mustDecimal("200"), LecturerID: 10,
	})
	if err != nil {
		t.Fatal(err)
	}
	if split.HasPartner || !split.PartnerAmount.IsZero() {
		t.Errorf("suspended partner got a share: %s", split.PartnerAmount)
	}
	if !split.LecturerAmount.Equal(mustDecimal("100")) {
		t.Errorf("lecturer amount = %s, want 100", split.LecturerAmount)
	}
}

func TestProcessSubmissionPaidValidation(t *testing.T) {
	_, _, svc := newCommissionFixture()
	cases := []SubmissionPaidEvent{
		{SourceType: "bogus", SourceID: "x", SourceAmount: mustDecimal("10"), LecturerID: 1},
		{SourceType: domain.SourceTypeAssignmentSubmission, SourceID: "", SourceAmount: mustDecimal("10"), LecturerID: 1},
		{SourceType: domain.SourceTypeAssignmentSubmission, SourceID: "x", SourceAmount: decimal.Zero, LecturerID: 1},
		{SourceType: domain.SourceTypeAssignmentSubmission, SourceID: "x", SourceAmount: mustDecimal("-5"), LecturerID: 1},
	}
	for i, ev := range cases {
		if _, err := svc.ProcessSubmissionPaid(ev); !domain.IsValidation(err) {
			t.Errorf("case %d: err = %v, want validation error", i, err)
		}
	}
}

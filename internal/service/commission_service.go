package service

import (
	"errors"
	"fmt"

	"gradepay/internal/commission"
	"gradepay/internal/domain"
	"gradepay/internal/logger"
	"gradepay/internal/metrics"
	"gradepay/internal/models"

	"github.com/shopspring/decimal"
)

// CommissionService turns one paid submission event into wallet credits and
// commission records. Processing is idempotent per (sourceType, sourceId):
// the store rejects a replay and nothing is credited twice.
type CommissionService struct {
	commissions CommissionStore
	referrals   ReferralStore
	settings    SettingStore
	notifier    Notifier
}

func NewCommissionService(commissions CommissionStore, referrals ReferralStore, settings SettingStore, notifier Notifier) *CommissionService {
	return &CommissionService{
		commissions: commissions,
		referrals:   referrals,
		settings:    settings,
		notifier:    notifier,
	}
}

// SubmissionPaidEvent is the inbound payment-completed event.
type SubmissionPaidEvent struct {
	SourceType   string
	SourceID     string
	SourceAmount decimal.Decimal
	LecturerID   uint
}

// ProcessSubmissionPaid computes the split, snapshots the partner's current
// rate, and applies all credits and records in one atomic unit. The platform
// share is implicit retained revenue and is not credited anywhere.
func (s *CommissionService) ProcessSubmissionPaid(ev SubmissionPaidEvent) (*commission.Split, error) {
	if ev.SourceType != domain.SourceTypeAssignmentSubmission && ev.SourceType != domain.SourceTypeTestSubmission {
		return nil, domain.NewValidationError("unknown source type")
	}
	if ev.SourceID == "" {
		return nil, domain.NewValidationError("source id is required")
	}
	if ev.SourceAmount.Cmp(decimal.Zero) <= 0 {
		return nil, domain.NewValidationError("source amount must be greater than 0")
	}

	platformPct := s.settingDecimal(domain.SettingPlatformCommissionPercent, decimal.NewFromInt(50))

	var (
		referralID  *uint
		partnerUser uint
		partnerRate decimal.Decimal
		hasPartner  bool
	)
	ref, err := s.referrals.GetActiveByLecturer(ev.LecturerID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("resolve referral: %w", err)
	}
	if err == nil && ref.Partner.Status == domain.PartnerStatusActive {
		hasPartner = true
		referralID = &ref.ID
		partnerUser = ref.Partner.UserID
		partnerRate = ref.Partner.CommissionRate
	}

	split := commission.Calculate(ev.SourceAmount, platformPct, partnerRate, hasPartner)

	records := []*models.CommissionRecord{{
		SourceType:      ev.SourceType,
		SourceID:        ev.SourceID,
		BeneficiaryID:   ev.LecturerID,
		BeneficiaryRole: domain.BeneficiaryLecturer,
		ReferralID:      referralID,
		SourceAmount:    ev.SourceAmount,
		CommissionRate:  split.LecturerRate(),
		Amount:          split.LecturerAmount,
		Status:          domain.CommissionStatusPending,
	}}
	if hasPartner {
		records = append(records, &models.CommissionRecord{
			SourceType:      ev.SourceType,
			SourceID:        ev.SourceID,
			BeneficiaryID:   partnerUser,
			BeneficiaryRole: domain.BeneficiaryPartner,
			ReferralID:      referralID,
			SourceAmount:    ev.SourceAmount,
			CommissionRate:  split.PartnerRate,
			Amount:          split.PartnerAmount,
			Status:          domain.CommissionStatusPending,
		})
	}

	if err := s.commissions.ApplySplit(records); err != nil {
		return nil, err
	}

	metrics.CommissionRecords.Add(float64(len(records)))
	logger.Info("commission split applied source=%s:%s lecturer=%s partner=%s platform=%s",
		ev.SourceType, ev.SourceID, split.LecturerAmount, split.PartnerAmount, split.PlatformAmount)

	s.notifier.Notify(ev.LecturerID, "commission_earned", "Payment received",
		fmt.Sprintf("You received ₦%s from a submission", split.LecturerAmount),
		map[string]interface{}{"amount": split.LecturerAmount, "source_id": ev.SourceID})
	if hasPartner {
		s.notifier.Notify(partnerUser, "commission_earned", "Commission earned",
			fmt.Sprintf("You earned ₦%s commission", split.PartnerAmount),
			map[string]interface{}{"amount": split.PartnerAmount, "source_id": ev.SourceID, "commission_rate": split.PartnerRate})
	}

	return &split, nil
}

func (s *CommissionService) settingDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
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

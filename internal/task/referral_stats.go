package task

import (
	"gradepay/internal/logger"
	"gradepay/internal/repository"
)

// RefreshReferralStats recomputes the cached per-referral rollups from the
// commission records and writes them back to the referral rows.
func RefreshReferralStats(commissions *repository.CommissionRepository, referrals *repository.ReferralRepository) func() {
	return func() {
		aggs, err := commissions.AggregateByReferral()
		if err != nil {
			logger.Error("referral stats aggregate: %v", err)
			return
		}
		updated := 0
		for _, agg := range aggs {
			if err := referrals.UpdateAggregates(agg); err != nil {
				logger.Error("referral stats update referral=%d: %v", agg.ReferralID, err)
				continue
			}
			updated++
		}
		if updated > 0 {
			logger.Info("referral stats refreshed referrals=%d", updated)
		}
	}
}

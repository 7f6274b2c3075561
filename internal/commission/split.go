// Package commission computes the multi-party revenue split for a paid
// submission.
//
// The split is platform-first: the platform takes its configured percentage of
// the source amount, then the partner's rate applies to the remaining pool,
// and the lecturer takes whatever is left of the pool. Rounding is
// half-up at each step; because the lecturer share is a remainder rather than
// a third rounding, platform + partner + lecturer always equals the source
// amount exactly.
package commission

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Split is one submission fee broken into its shares. PlatformAmount is
// retained revenue, derived and never credited to a wallet.
type Split struct {
	SourceAmount   decimal.Decimal
	PlatformAmount decimal.Decimal
	LecturerAmount decimal.Decimal
	PartnerAmount  decimal.Decimal
	PartnerRate    decimal.Decimal // percent of the non-platform pool; zero without a referral
	HasPartner     bool
}

// Calculate splits sourceAmount. platformPercent and partnerRate are
// percentages (e.g. 50, 15). partnerRate is ignored unless hasPartner.
func Calculate(sourceAmount, platformPercent, partnerRate decimal.Decimal, hasPartner bool) Split {
	platform := sourceAmount.Mul(platformPercent).Div(hundred).Round(2)
	pool := sourceAmount.Sub(platform)

	partner := decimal.Zero
	rate := decimal.Zero
	if hasPartner {
		rate = partnerRate
		partner = pool.Mul(partnerRate).Div(hundred).Round(2)
	}
	lecturer := pool.Sub(partner)

	return Split{
		SourceAmount:   sourceAmount,
		PlatformAmount: platform,
		LecturerAmount: lecturer,
		PartnerAmount:  partner,
		PartnerRate:    rate,
		HasPartner:     hasPartner,
	}
}

// LecturerRate is the lecturer's effective percentage of the non-platform
// pool, snapshotted into the lecturer's commission record.
func (s Split) LecturerRate() decimal.Decimal {
	if s.HasPartner {
		return hundred.Sub(s.PartnerRate)
	}
	return hundred
}

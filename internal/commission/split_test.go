package commission

import (
	"testing"

	"github.com/shopspring/decimal"
)

func d(s string) decimal.Decimal {
	v, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return v
}

func TestCalculateWithoutPartner(t *testing.T) {
	s := Calculate(d("200"), d("50"), decimal.Zero, false)
	if !s.PlatformAmount.Equal(d("100")) {
		t.Errorf("platform = %s, want 100", s.PlatformAmount)
	}
	if !s.LecturerAmount.Equal(d("100")) {
		t.Errorf("lecturer = %s, want 100", s.LecturerAmount)
	}
	if !s.PartnerAmount.IsZero() {
		t.Errorf("partner = %s, want 0", s.PartnerAmount)
	}
	if !s.LecturerRate().Equal(d("100")) {
		t.Errorf("lecturer rate = %s, want 100", s.LecturerRate())
	}
}

func TestCalculateWithPartner(t *testing.T) {
	s := Calculate(d("200"), d("50"), d("15"), true)
	if !s.PlatformAmount.Equal(d("100")) {
		t.Errorf("platform = %s, want 100", s.PlatformAmount)
	}
	if !s.PartnerAmount.Equal(d("15")) {
		t.Errorf("partner = %s, want 15", s.PartnerAmount)
	}
	if !s.LecturerAmount.Equal(d("85")) {
		t.Errorf("lecturer = %s, want 85", s.LecturerAmount)
	}
	if !s.LecturerRate().Equal(d("85")) {
		t.Errorf("lecturer rate = %s, want 85", s.LecturerRate())
	}
}

func TestCalculateRounding(t *testing.T) {
	// 33.33 at 50% platform: platform rounds half-up to 16.67, the pool is
	// 16.66, partner 15% rounds to 2.50, lecturer takes the rest.
	s := Calculate(d("33.33"), d("50"), d("15"), true)
	if !s.PlatformAmount.Equal(d("16.67")) {
		t.Errorf("platform = %s, want 16.67", s.PlatformAmount)
	}
	if !s.PartnerAmount.Equal(d("2.50")) {
		t.Errorf("partner = %s, want 2.50", s.PartnerAmount)
	}
	if !s.LecturerAmount.Equal(d("14.16")) {
		t.Errorf("lecturer = %s, want 14.16", s.LecturerAmount)
	}
}

func TestCalculateSharesAlwaysSumToSource(t *testing.T) {
	amounts := []string{"0.01", "0.03", "1", "49.99", "99.97", "200", "333.33", "1234.56"}
	platforms := []string{"30", "50", "62.5"}
	rates := []string{"0", "10", "15", "33.33", "100"}
	for _, a := range amounts {
		for _, p := range platforms {
			for _, r := range rates {
				s := Calculate(d(a), d(p), d(r), true)
				sum := s.PlatformAmount.Add(s.PartnerAmount).Add(s.LecturerAmount)
				if !sum.Equal(d(a)) {
					t.Errorf("amount=%s platform=%s rate=%s: shares sum to %s", a, p, r, sum)
				}
			}
		}
	}
}

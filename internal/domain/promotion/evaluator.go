// Package promotion decides the price a booking is created with.
//
// The quota counter passed to Evaluate is advisory when read outside a
// transaction; the booking use case re-reads it under the procedure lock
// right before inserting.
package promotion

import (
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

// PricingMode is either automatic (catalogue + promotion) or a manual
// amount set by staff, which skips promotion logic entirely.
type PricingMode struct {
	manual *decimal.Decimal
}

func Automatic() PricingMode {
	return PricingMode{}
}

func ManualOverride(amount decimal.Decimal) PricingMode {
	return PricingMode{manual: &amount}
}

func (m PricingMode) Manual() (decimal.Decimal, bool) {
	if m.manual == nil {
		return decimal.Zero, false
	}
	return *m.manual, true
}

type Quote struct {
	Price   decimal.Decimal `json:"price"`
	IsPromo bool            `json:"is_promo"`
}

// InWindow reports whether date (YYYY-MM-DD) is inside the inclusive
// promotion window. Missing bounds are unbounded.
func InWindow(p *models.Procedure, date string) bool {
	if !p.HasPromotion() {
		return false
	}
	if p.PromoStartDate != nil && *p.PromoStartDate != "" && date < *p.PromoStartDate {
		return false
	}
	if p.PromoEndDate != nil && *p.PromoEndDate != "" && date > *p.PromoEndDate {
		return false
	}
	return true
}

// HasQuota reports whether the promotion is limited.
func HasQuota(p *models.Procedure) bool {
	return p.PromoSlots != nil
}

// Remaining returns the unused quota; ok is false for unlimited promotions.
func Remaining(p *models.Procedure, used int64) (remaining int64, ok bool) {
	if !HasQuota(p) {
		return 0, false
	}
	left := int64(*p.PromoSlots) - used
	if left < 0 {
		left = 0
	}
	return left, true
}

// CountFrom is the lower bound for the quota counter: bookings whose
// appointment date is on or after the promotion start, whenever they were
// made. "" counts every booking.
func CountFrom(p *models.Procedure) string {
	if p.PromoStartDate == nil {
		return ""
	}
	return *p.PromoStartDate
}

// Evaluate prices a booking of p on date, given how many non-cancelled
// bookings already consumed the quota.
func Evaluate(p *models.Procedure, date string, used int64, mode PricingMode) Quote {
	if amount, ok := mode.Manual(); ok {
		return Quote{Price: amount}
	}

	regular := Quote{Price: p.Price}
	if !InWindow(p, date) {
		return regular
	}
	if HasQuota(p) && used >= int64(*p.PromoSlots) {
		return regular
	}

	return Quote{Price: p.PromoPrice.Decimal, IsPromo: true}
}

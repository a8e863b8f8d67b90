package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PromoType string

const (
	PromoDiscount PromoType = "discount"
	PromoGift     PromoType = "gift"
	PromoCombo    PromoType = "combo"
)

func (t PromoType) Valid() bool {
	switch t {
	case PromoDiscount, PromoGift, PromoCombo:
		return true
	}
	return false
}

// Procedure is a service of the catalogue. The engine only reads duration,
// price and the promotion sub-record.
type Procedure struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name            string          `gorm:"size:100;not null" json:"name"`
	Description     string          `gorm:"size:255" json:"description"`
	DurationMinutes int             `gorm:"not null" json:"duration_minutes"`
	Price           decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
	Active          bool            `gorm:"default:true" json:"active"`

	PromoPrice     decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"promo_price"`
	PromoStartDate *string             `gorm:"size:10" json:"promo_start_date"`
	PromoEndDate   *string             `gorm:"size:10" json:"promo_end_date"`
	PromoSlots     *int                `json:"promo_slots"`
	PromoType      PromoType           `gorm:"size:20" json:"promo_type,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Procedure) HasPromotion() bool {
	return p.PromoPrice.Valid
}

package promotion

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/agenda-engine/internal/models"
)

func strPtr(s string) *string { return &s }
func intPtr(n int) *int       { return &n }

func promoProcedure() *models.Procedure {
	return &models.Procedure{
		ID:              1,
		Name:            "Limpeza de pele",
		DurationMinutes: 60,
		Price:           decimal.RequireFromString("150.00"),
		PromoPrice:      decimal.NewNullDecimal(decimal.RequireFromString("99.90")),
		PromoStartDate:  strPtr("2026-10-01"),
		PromoEndDate:    strPtr("2026-10-31"),
		PromoType:       models.PromoDiscount,
	}
}

func TestEvaluate_WindowBoundaries(t *testing.T) {
	p := promoProcedure()

	tests := []struct {
		date    string
		isPromo bool
	}{
		{"2026-09-30", false},
		{"2026-10-01", true},
		{"2026-10-15", true},
		{"2026-10-31", true},
		{"2026-11-01", false},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			q := Evaluate(p, tt.date, 0, Automatic())
			assert.Equal(t, tt.isPromo, q.IsPromo)
			if tt.isPromo {
				assert.True(t, q.Price.Equal(decimal.RequireFromString("99.90")))
			} else {
				assert.True(t, q.Price.Equal(decimal.RequireFromString("150.00")))
			}
		})
	}
}

func TestEvaluate_UnboundedWindow(t *testing.T) {
	p := promoProcedure()
	p.PromoStartDate = nil
	p.PromoEndDate = nil

	assert.True(t, Evaluate(p, "2001-01-01", 0, Automatic()).IsPromo)
	assert.True(t, Evaluate(p, "2099-12-31", 0, Automatic()).IsPromo)
}

func TestEvaluate_Quota(t *testing.T) {
	p := promoProcedure()
	p.PromoSlots = intPtr(2)

	assert.True(t, Evaluate(p, "2026-10-10", 0, Automatic()).IsPromo)
	assert.True(t, Evaluate(p, "2026-10-10", 1, Automatic()).IsPromo)
	assert.False(t, Evaluate(p, "2026-10-10", 2, Automatic()).IsPromo)
	assert.False(t, Evaluate(p, "2026-10-10", 5, Automatic()).IsPromo)
}

func TestEvaluate_ManualOverrideSkipsPromotion(t *testing.T) {
	p := promoProcedure()

	q := Evaluate(p, "2026-10-10", 0, ManualOverride(decimal.RequireFromString("10")))
	assert.False(t, q.IsPromo)
	assert.True(t, q.Price.Equal(decimal.NewFromInt(10)))
}

func TestEvaluate_NoPromotion(t *testing.T) {
	p := promoProcedure()
	p.PromoPrice = decimal.NullDecimal{}

	q := Evaluate(p, "2026-10-10", 0, Automatic())
	assert.False(t, q.IsPromo)
	assert.True(t, q.Price.Equal(p.Price))
}

func TestRemaining(t *testing.T) {
	p := promoProcedure()

	_, ok := Remaining(p, 3)
	assert.False(t, ok)

	p.PromoSlots = intPtr(2)
	left, ok := Remaining(p, 1)
	require.True(t, ok)
	assert.EqualValues(t, 1, left)

	left, _ = Remaining(p, 7)
	assert.EqualValues(t, 0, left)
}

func TestCountFrom(t *testing.T) {
	p := promoProcedure()
	assert.Equal(t, "2026-10-01", CountFrom(p))

	p.PromoStartDate = nil
	assert.Empty(t, CountFrom(p))
}

// Package pricing computes effective product prices from retail prices
// and time-windowed sales. It is called twice per product lifetime: once
// on the catalog read path for display, and once authoritatively inside
// the order transaction against a fresh Sale read.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Houssam-Chakir/motoshop-backend/internal/domain"
)

// EffectivePrice returns the price a unit of the product sells for at
// the given time. Without an applicable sale the retail price is
// returned unchanged. Monetary results are rounded to 2 decimal places
// after the discount computation.
func EffectivePrice(retailPrice float64, sale *domain.Sale, now time.Time) float64 {
	return round2(effective(retailPrice, sale, now))
}

// LineTotal returns the total for quantity units. The unrounded unit
// price is multiplied out first and rounded once at the end, so rounding
// error does not compound across the quantity.
func LineTotal(retailPrice float64, sale *domain.Sale, quantity int, now time.Time) float64 {
	unit := effective(retailPrice, sale, now)
	return round2(unit.Mul(decimal.NewFromInt(int64(quantity))))
}

func effective(retailPrice float64, sale *domain.Sale, now time.Time) decimal.Decimal {
	price := decimal.NewFromFloat(retailPrice)
	if !sale.AppliesAt(now) {
		return price
	}

	switch sale.DiscountType {
	case domain.DiscountPercentage:
		factor := decimal.NewFromInt(100).Sub(decimal.NewFromFloat(sale.DiscountValue))
		price = price.Mul(factor).Div(decimal.NewFromInt(100))
	case domain.DiscountFixed:
		price = price.Sub(decimal.NewFromFloat(sale.DiscountValue))
		if price.IsNegative() {
			price = decimal.Zero
		}
	}
	return price
}

func round2(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

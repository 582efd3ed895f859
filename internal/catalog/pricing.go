// Package catalog holds the pure projections over a product list: discounted
// pricing and the storefront search predicates. Nothing here performs I/O.
package catalog

import (
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/oksasatya/crateyy/internal/domain/entity"
)

var hundred = decimal.NewFromInt(100)

// EffectiveDiscount clamps the stored discount into [0, 100]. Stored values are
// not validated, so the clamp is what keeps final prices non-negative.
func EffectiveDiscount(d entity.Percent) int {
	switch {
	case d < 0:
		return 0
	case d > 100:
		return 100
	}
	return int(d)
}

// FinalPrice is price × (1 − discount/100) rounded to 2 decimals.
func FinalPrice(price entity.Price, discount entity.Percent) decimal.Decimal {
	d := EffectiveDiscount(discount)
	if d == 0 {
		return price.Decimal.Round(2)
	}
	factor := hundred.Sub(decimal.NewFromInt(int64(d))).Div(hundred)
	final := price.Decimal.Mul(factor).Round(2)
	if final.IsNegative() {
		return decimal.Zero
	}
	return final
}

// PriceTag is what a product card shows next to the image.
type PriceTag struct {
	Original string // always 2 decimals
	Final    string // always 2 decimals
	Discount int
	// Strike is set when the original price is shown struck through.
	Strike bool
	Badge  string // "-20%" or empty
}

func Tag(p entity.Product) PriceTag {
	d := EffectiveDiscount(p.Discount)
	t := PriceTag{
		Original: p.Price.Decimal.StringFixed(2),
		Final:    FinalPrice(p.Price, p.Discount).StringFixed(2),
		Discount: d,
	}
	if d > 0 {
		t.Strike = true
		t.Badge = "-" + strconv.Itoa(d) + "%"
	}
	return t
}

package pricing

import (
	"strings"

	"github.com/barrelhousehq/barrelhouse-backend/pkg/db/models"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

var oneHundred = decimal.NewFromInt(100)

// Engine computes promotion-adjusted unit prices.
type Engine struct{}

// NewEngine builds a pricing engine.
func NewEngine() Engine {
	return Engine{}
}

// EffectiveUnitPrice applies every matching promotion to the item's base
// price, in slice order. Percentage promotions scale the running price,
// fixed promotions subtract from it. Matching is an exact, case-sensitive
// compare against the promotion's comma-separated item-name list.
//
// There is no floor at zero: stacked fixed discounts can drive the price
// negative, and no rounding happens between applications.
func (Engine) EffectiveUnitPrice(item models.Item, promotions []models.Promotion) decimal.Decimal {
	price := item.Price
	for _, promo := range promotions {
		if !appliesTo(promo, item.Name) {
			continue
		}
		switch promo.Type {
		case enums.PromotionTypePercentage:
			price = price.Mul(decimal.NewFromInt(1).Sub(promo.Value.Div(oneHundred)))
		case enums.PromotionTypeFixed:
			price = price.Sub(promo.Value)
		}
	}
	return price
}

func appliesTo(promo models.Promotion, itemName string) bool {
	for _, candidate := range strings.Split(promo.ApplicableItems, ",") {
		if strings.TrimSpace(candidate) == itemName {
			return true
		}
	}
	return false
}

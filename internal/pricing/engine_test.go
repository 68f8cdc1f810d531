package pricing

import (
	"testing"
	"time"

	"github.com/barrelhousehq/barrelhouse-backend/pkg/db/models"
	"github.com/barrelhousehq/barrelhouse-backend/pkg/enums"
	"github.com/shopspring/decimal"
)

func promo(t enums.PromotionType, value string, items string) models.Promotion {
	return models.Promotion{
		Name:            "test promo",
		Type:            t,
		Value:           decimal.RequireFromString(value),
		StartDate:       time.Now().Add(-time.Hour),
		EndDate:         time.Now().Add(time.Hour),
		ApplicableItems: items,
	}
}

func TestEffectiveUnitPriceNoPromotions(t *testing.T) {
	engine := NewEngine()
	item := models.Item{Name: "Old Fashioned Rye", Price: decimal.RequireFromString("24.99")}

	got := engine.EffectiveUnitPrice(item, nil)
	if !got.Equal(item.Price) {
		t.Fatalf("expected base price %s, got %s", item.Price, got)
	}
}

func TestEffectiveUnitPricePercentage(t *testing.T) {
	engine := NewEngine()
	item := models.Item{Name: "House Cabernet", Price: decimal.RequireFromString("20.00")}

	got := engine.EffectiveUnitPrice(item, []models.Promotion{
		promo(enums.PromotionTypePercentage, "10", "House Cabernet"),
	})
	if want := decimal.RequireFromString("18.00"); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestEffectiveUnitPriceStackedFixedGoesNegative(t *testing.T) {
	// Two $5 fixed discounts on a $7 item land at -$3. The engine does not
	// floor at zero; this asserts the observed behavior rather than fixing it.
	engine := NewEngine()
	item := models.Item{Name: "Single Can Lager", Price: decimal.RequireFromString("7.00")}

	got := engine.EffectiveUnitPrice(item, []models.Promotion{
		promo(enums.PromotionTypeFixed, "5", "Single Can Lager"),
		promo(enums.PromotionTypeFixed, "5", "Single Can Lager"),
	})
	if want := decimal.RequireFromString("-3.00"); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestEffectiveUnitPriceSequentialStacking(t *testing.T) {
	// 10% then $2 off a $20 item: (20 * 0.9) - 2 = 16, applied in slice order
	// with no intermediate rounding.
	engine := NewEngine()
	item := models.Item{Name: "Botanical Gin", Price: decimal.RequireFromString("20.00")}

	got := engine.EffectiveUnitPrice(item, []models.Promotion{
		promo(enums.PromotionTypePercentage, "10", "Botanical Gin"),
		promo(enums.PromotionTypeFixed, "2", "Botanical Gin"),
	})
	if want := decimal.RequireFromString("16.00"); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestEffectiveUnitPriceMatchingIsExactAndCaseSensitive(t *testing.T) {
	engine := NewEngine()
	item := models.Item{Name: "house cabernet", Price: decimal.RequireFromString("20.00")}

	got := engine.EffectiveUnitPrice(item, []models.Promotion{
		promo(enums.PromotionTypePercentage, "10", "House Cabernet, Botanical Gin"),
	})
	if !got.Equal(item.Price) {
		t.Fatalf("case-mismatched name should not discount: got %s", got)
	}
}

func TestEffectiveUnitPriceTrimsListEntries(t *testing.T) {
	engine := NewEngine()
	item := models.Item{Name: "Botanical Gin", Price: decimal.RequireFromString("20.00")}

	got := engine.EffectiveUnitPrice(item, []models.Promotion{
		promo(enums.PromotionTypeFixed, "2", "House Cabernet ,  Botanical Gin "),
	})
	if want := decimal.RequireFromString("18.00"); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

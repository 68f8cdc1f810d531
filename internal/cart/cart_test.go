package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

func TestCartTotal(t *testing.T) {
	c := &Cart{}
	a := uuid.New()
	b := uuid.New()

	c.Add(a, "Amber Ale", decimal.RequireFromString("10"))
	c.SetQuantity(a, 2)
	c.Add(b, "Bar Snacks", decimal.RequireFromString("5"))
	c.SetQuantity(b, 3)

	if want := decimal.RequireFromString("35"); !c.Total().Equal(want) {
		t.Fatalf("expected total %s, got %s", want, c.Total())
	}
}

func TestCartAddIncrementsAndReprices(t *testing.T) {
	c := &Cart{}
	id := uuid.New()

	c.Add(id, "House Cabernet", decimal.RequireFromString("20.00"))
	// Second scan arrives after a promotion activates; the line is repriced.
	c.Add(id, "House Cabernet", decimal.RequireFromString("18.00"))

	lines := c.Lines()
	if len(lines) != 1 {
		t.Fatalf("expected a single line, got %d", len(lines))
	}
	if lines[0].Quantity != 2 {
		t.Fatalf("expected quantity 2, got %d", lines[0].Quantity)
	}
	if want := decimal.RequireFromString("18.00"); !lines[0].UnitPrice.Equal(want) {
		t.Fatalf("expected refreshed price %s, got %s", want, lines[0].UnitPrice)
	}
}

func TestSetQuantityZeroEqualsRemove(t *testing.T) {
	a := uuid.New()
	b := uuid.New()

	build := func() *Cart {
		c := &Cart{}
		c.Add(a, "Amber Ale", decimal.RequireFromString("4.50"))
		c.Add(b, "Botanical Gin", decimal.RequireFromString("20.00"))
		return c
	}

	viaSet := build()
	viaSet.SetQuantity(a, 0)

	viaRemove := build()
	viaRemove.Remove(a)

	setLines, removeLines := viaSet.Lines(), viaRemove.Lines()
	if len(setLines) != len(removeLines) {
		t.Fatalf("line counts differ: %d vs %d", len(setLines), len(removeLines))
	}
	for i := range setLines {
		got, want := setLines[i], removeLines[i]
		// Decimals carry pointer internals, so compare value by value.
		if got.ItemID != want.ItemID || got.Name != want.Name ||
			got.Quantity != want.Quantity || !got.UnitPrice.Equal(want.UnitPrice) {
			t.Fatalf("line %d differs: %+v vs %+v", i, got, want)
		}
	}
	if !viaSet.Total().Equal(viaRemove.Total()) {
		t.Fatalf("totals differ: %s vs %s", viaSet.Total(), viaRemove.Total())
	}
}

func TestSetQuantityLeavesPriceUntouched(t *testing.T) {
	c := &Cart{}
	id := uuid.New()
	c.Add(id, "Old Fashioned Rye", decimal.RequireFromString("24.99"))

	c.SetQuantity(id, 6)

	lines := c.Lines()
	if lines[0].Quantity != 6 {
		t.Fatalf("expected quantity 6, got %d", lines[0].Quantity)
	}
	if want := decimal.RequireFromString("24.99"); !lines[0].UnitPrice.Equal(want) {
		t.Fatalf("price should be unchanged, got %s", lines[0].UnitPrice)
	}
}

func TestRemoveUnknownItemIsNoop(t *testing.T) {
	c := &Cart{}
	c.Add(uuid.New(), "Amber Ale", decimal.RequireFromString("4.50"))

	c.Remove(uuid.New())

	if len(c.Lines()) != 1 {
		t.Fatal("removing an unknown item should not alter the cart")
	}
}

package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Line is one entry in the active cart. Identity is the item id.
type Line struct {
	ItemID    uuid.UUID       `json:"item_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// Cart holds the working set of lines for the sale in progress. It is owned
// by a single register session; operations are synchronous and never touch
// the database.
type Cart struct {
	lines []Line
}

// Add puts one unit of the item into the cart. An existing line for the same
// item id gets its quantity incremented by 1 and its unit price refreshed to
// the supplied promotion-adjusted price; otherwise a new line with quantity 1
// is appended.
func (c *Cart) Add(itemID uuid.UUID, name string, unitPrice decimal.Decimal) {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines[i].Quantity++
			c.lines[i].UnitPrice = unitPrice
			return
		}
	}
	c.lines = append(c.lines, Line{
		ItemID:    itemID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  1,
	})
}

// Remove deletes the line for the item id entirely.
func (c *Cart) Remove(itemID uuid.UUID) {
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetQuantity replaces the line's quantity, leaving its price unchanged.
// Quantity zero removes the line.
func (c *Cart) SetQuantity(itemID uuid.UUID, quantity int) {
	if quantity == 0 {
		c.Remove(itemID)
		return
	}
	for i := range c.lines {
		if c.lines[i].ItemID == itemID {
			c.lines[i].Quantity = quantity
			return
		}
	}
}

// Total sums price * quantity over every line. No rounding is applied here;
// presentation rounds to two places.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}
	return total
}

// Lines returns a copy of the cart contents.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.lines) == 0
}

// FromLines rebuilds a cart from persisted lines.
func FromLines(lines []Line) *Cart {
	c := &Cart{lines: make([]Line, len(lines))}
	copy(c.lines, lines)
	return c
}

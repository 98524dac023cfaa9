// Package cart holds the in-progress sale for one session: an ordered set of
// lines accumulated before checkout. Every stock check reads the ledger at
// call time — never a quantity captured earlier — because stock can move
// under the session via the subscription.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"stockpos/internal/ledger"
	"stockpos/internal/model"
)

// Cart is owned by the active session and discarded on checkout completion
// or cancellation.
type Cart struct {
	mu     sync.Mutex
	ledger *ledger.Ledger
	lines  []model.Line
}

func New(l *ledger.Ledger) *Cart {
	return &Cart{ledger: l}
}

// Add puts one unit of the product in the cart. If the product is already a
// line, the quantity is incremented only while it stays within the ledger's
// current stock.
func (c *Cart) Add(productID string) error {
	p, ok := c.ledger.Get(productID)
	if !ok {
		return &NotFoundError{ProductID: productID}
	}
	if p.Quantity == 0 {
		return &OutOfStockError{ProductID: p.ID, Name: p.Name}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for i, line := range c.lines {
		if line.ProductID != productID {
			continue
		}
		if line.Quantity+1 > p.Quantity {
			return &InsufficientStockError{
				ProductID: p.ID, Name: p.Name,
				Requested: line.Quantity + 1, Available: p.Quantity,
			}
		}
		c.lines[i] = model.NewLine(p.ID, p.Name, p.Price, line.Quantity+1)
		return nil
	}

	c.lines = append(c.lines, model.NewLine(p.ID, p.Name, p.Price, 1))
	return nil
}

// Remove drops the line unconditionally. Removing an absent line is a no-op.
func (c *Cart) Remove(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, line := range c.lines {
		if line.ProductID == productID {
			c.lines = append(c.lines[:i], c.lines[i+1:]...)
			return
		}
	}
}

// SetQuantity sets a line to n units, re-validated against the ledger.
// n < 1 is equivalent to Remove.
func (c *Cart) SetQuantity(productID string, n int) error {
	if n < 1 {
		c.Remove(productID)
		return nil
	}

	p, ok := c.ledger.Get(productID)
	if !ok {
		return &NotFoundError{ProductID: productID}
	}
	if n > p.Quantity {
		return &InsufficientStockError{
			ProductID: p.ID, Name: p.Name,
			Requested: n, Available: p.Quantity,
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	for i, line := range c.lines {
		if line.ProductID == productID {
			c.lines[i] = model.NewLine(p.ID, p.Name, p.Price, n)
			return nil
		}
	}
	return &NotFoundError{ProductID: productID}
}

// Total sums the line totals, recomputed on demand. Each line total is
// already rounded to 2 decimals; the sum is rounded again.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	total := decimal.Zero
	for _, line := range c.lines {
		total = total.Add(line.LineTotal)
	}
	return total.Round(2)
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []model.Line {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]model.Line(nil), c.lines...)
}

// Len reports the number of lines.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.lines)
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lines = nil
}

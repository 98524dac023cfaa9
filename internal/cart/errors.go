package cart

import "fmt"

// NotFoundError: the referenced product is not in the ledger (it may have
// been deleted by an administrator since the UI rendered it).
type NotFoundError struct {
	ProductID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("product %s not found", e.ProductID)
}

// OutOfStockError: the product has zero stock and cannot enter the cart.
type OutOfStockError struct {
	ProductID string
	Name      string
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("%s is out of stock", e.Name)
}

// InsufficientStockError: the requested quantity exceeds the ledger's
// current stock. Available carries the amount the UI should display.
type InsufficientStockError struct {
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: requested %d, available %d",
		e.Name, e.Requested, e.Available)
}

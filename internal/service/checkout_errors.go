package service

import (
	"errors"
	"fmt"

	"stockpos/internal/model"
)

// ErrEmptyCart rejects a checkout with nothing in it.
var ErrEmptyCart = errors.New("cart is empty")

// ErrUnauthorized rejects an operation that requires an administrator
// identity when none is present.
var ErrUnauthorized = errors.New("administrator identity required")

// ProductNotFoundError: a cart line references a product that is no longer
// in the ledger. Detected during validation — nothing has been written.
type ProductNotFoundError struct {
	Line      int
	ProductID string
	Name      string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("line %d: product %s (%s) not found", e.Line+1, e.Name, e.ProductID)
}

// InsufficientStockError: a cart line requests more than the ledger holds.
// Detected during validation — nothing has been written.
type InsufficientStockError struct {
	Line      int
	ProductID string
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("line %d: insufficient stock for %s: requested %d, available %d",
		e.Line+1, e.Name, e.Requested, e.Available)
}

// CommitError: an external write failed mid-checkout. Lines before Line are
// fully committed and stay committed — no compensating rollback is
// attempted; the operator reconciles manually using the line identity.
type CommitError struct {
	Line      int
	ProductID string
	Name      string
	Committed []model.Line
	Cause     error
}

func (e *CommitError) Error() string {
	return fmt.Sprintf("commit failed at line %d (%s): %v — %d earlier line(s) remain committed",
		e.Line+1, e.Name, e.Cause, len(e.Committed))
}

func (e *CommitError) Unwrap() error { return e.Cause }

package model

import (
	"time"

	"github.com/shopspring/decimal"

	"stockpos/internal/store"
)

// Checkout actor modes. Unauthenticated sessions sell under the cashier
// sentinel; administrators sell under their own identity.
const (
	ModeAdmin   = "admin"
	ModeCashier = "cashier"

	CashierActor = "cashier"
)

// Sale is one committed product line of a checkout. Write-once: created at
// commit time, immutable thereafter.
type Sale struct {
	ID          string
	InvoiceID   string
	ProductID   string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
	Total       decimal.Decimal // UnitPrice × Quantity, rounded to 2 decimals
	Date        time.Time
	Actor       string
	Mode        string
}

// NewSale builds the sale record for one cart line. Total is recomputed
// here, never copied from the cart, so the persisted value is always
// price × quantity rounded half-up.
func NewSale(saleID, invoiceID string, line Line, at time.Time, actor, mode string) Sale {
	return Sale{
		ID:          saleID,
		InvoiceID:   invoiceID,
		ProductID:   line.ProductID,
		ProductName: line.Name,
		Quantity:    line.Quantity,
		UnitPrice:   line.UnitPrice,
		Total:       line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))).Round(2),
		Date:        at,
		Actor:       actor,
		Mode:        mode,
	}
}

// SaleFromDocument decodes a persisted sale (dashboard reads).
func SaleFromDocument(doc store.Document) (Sale, error) {
	total, ok := wireDecimal(doc.Fields, "total")
	if !ok {
		return Sale{}, fieldErr("total", "missing or unparseable")
	}
	qty, ok := wireInt(doc.Fields, "quantity")
	if !ok || qty < 1 {
		return Sale{}, fieldErr("quantity", "missing or < 1")
	}
	unitPrice, ok := wireDecimal(doc.Fields, "unitPrice")
	if !ok {
		return Sale{}, fieldErr("unitPrice", "missing or unparseable")
	}

	productID, _ := wireString(doc.Fields, "productId")
	productName, _ := wireString(doc.Fields, "productName")
	invoiceID, _ := wireString(doc.Fields, "invoiceId")
	actor, _ := wireString(doc.Fields, "actor")
	mode, _ := wireString(doc.Fields, "mode")

	return Sale{
		ID:          doc.ID,
		InvoiceID:   invoiceID,
		ProductID:   productID,
		ProductName: productName,
		Quantity:    qty,
		UnitPrice:   unitPrice,
		Total:       total,
		Date:        wireTime(doc.Fields, "date"),
		Actor:       actor,
		Mode:        mode,
	}, nil
}

func (s Sale) Fields() map[string]any {
	return map[string]any{
		"invoiceId":   s.InvoiceID,
		"productId":   s.ProductID,
		"productName": s.ProductName,
		"quantity":    s.Quantity,
		"unitPrice":   s.UnitPrice.StringFixed(2),
		"total":       s.Total.StringFixed(2),
		"date":        s.Date.UTC().Format(time.RFC3339Nano),
		"actor":       s.Actor,
		"mode":        s.Mode,
		"createdAt":   store.ServerTimestamp(),
	}
}

package model

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"stockpos/internal/store"
)

// Line is one product+quantity entry within a cart or invoice.
// LineTotal = UnitPrice × Quantity, rounded half-up to 2 decimals.
type Line struct {
	ProductID string
	Name      string
	UnitPrice decimal.Decimal
	Quantity  int
	LineTotal decimal.Decimal
}

// NewLine computes the line total from price and quantity.
func NewLine(productID, name string, unitPrice decimal.Decimal, quantity int) Line {
	return Line{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  quantity,
		LineTotal: unitPrice.Mul(decimal.NewFromInt(int64(quantity))).Round(2),
	}
}

// Invoice aggregates the committed lines of one checkout. Write-once,
// created after all sales for the checkout have been committed.
type Invoice struct {
	ID            string
	TransactionID string
	Items         []Line // ordered, snapshotted at checkout
	Total         decimal.Decimal
	Date          time.Time
	InvoiceNumber string // derived display code
	Actor         string
	Mode          string
}

// NewInvoice snapshots the committed lines. Total is the sum of line totals,
// rounded again to 2 decimals.
func NewInvoice(invoiceID, transactionID string, items []Line, at time.Time, actor, mode string) Invoice {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.LineTotal)
	}
	return Invoice{
		ID:            invoiceID,
		TransactionID: transactionID,
		Items:         append([]Line(nil), items...),
		Total:         total.Round(2),
		Date:          at,
		InvoiceNumber: "FAC-" + lastSix(at.UnixMilli()),
		Actor:         actor,
		Mode:          mode,
	}
}

// lastSix keeps the trailing six digits of a millisecond timestamp — short
// enough to read aloud, distinct enough within a business day.
func lastSix(ms int64) string {
	s := strconv.FormatInt(ms, 10)
	if len(s) <= 6 {
		return s
	}
	return s[len(s)-6:]
}

func (inv Invoice) Fields() map[string]any {
	items := make([]any, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, map[string]any{
			"productId": it.ProductID,
			"name":      it.Name,
			"unitPrice": it.UnitPrice.StringFixed(2),
			"quantity":  it.Quantity,
			"lineTotal": it.LineTotal.StringFixed(2),
		})
	}
	return map[string]any{
		"transactionId": inv.TransactionID,
		"items":         items,
		"total":         inv.Total.StringFixed(2),
		"date":          inv.Date.UTC().Format(time.RFC3339Nano),
		"invoiceNumber": inv.InvoiceNumber,
		"actor":         inv.Actor,
		"mode":          inv.Mode,
		"createdAt":     store.ServerTimestamp(),
	}
}

// InvoiceFromDocument decodes a persisted invoice (PDF export reads).
func InvoiceFromDocument(doc store.Document) (Invoice, error) {
	total, ok := wireDecimal(doc.Fields, "total")
	if !ok {
		return Invoice{}, fieldErr("total", "missing or unparseable")
	}
	rawItems, ok := doc.Fields["items"].([]any)
	if !ok {
		return Invoice{}, fieldErr("items", "missing")
	}

	items := make([]Line, 0, len(rawItems))
	for _, raw := range rawItems {
		m, ok := raw.(map[string]any)
		if !ok {
			return Invoice{}, fieldErr("items", "malformed entry")
		}
		unitPrice, ok := wireDecimal(m, "unitPrice")
		if !ok {
			return Invoice{}, fieldErr("items.unitPrice", "missing or unparseable")
		}
		qty, ok := wireInt(m, "quantity")
		if !ok || qty < 1 {
			return Invoice{}, fieldErr("items.quantity", "missing or < 1")
		}
		lineTotal, ok := wireDecimal(m, "lineTotal")
		if !ok {
			lineTotal = unitPrice.Mul(decimal.NewFromInt(int64(qty))).Round(2)
		}
		productID, _ := wireString(m, "productId")
		name, _ := wireString(m, "name")
		items = append(items, Line{
			ProductID: productID,
			Name:      name,
			UnitPrice: unitPrice,
			Quantity:  qty,
			LineTotal: lineTotal,
		})
	}

	transactionID, _ := wireString(doc.Fields, "transactionId")
	invoiceNumber, _ := wireString(doc.Fields, "invoiceNumber")
	actor, _ := wireString(doc.Fields, "actor")
	mode, _ := wireString(doc.Fields, "mode")

	return Invoice{
		ID:            doc.ID,
		TransactionID: transactionID,
		Items:         items,
		Total:         total,
		Date:          wireTime(doc.Fields, "date"),
		InvoiceNumber: invoiceNumber,
		Actor:         actor,
		Mode:          mode,
	}, nil
}

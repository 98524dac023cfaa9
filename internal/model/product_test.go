package model

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpos/internal/store"
)

func TestNewProductValidation(t *testing.T) {
	price := decimal.NewFromInt(10)

	_, err := NewProduct("PROD-1", "", "Cables", "", "", 5, price, 2)
	var fe *FieldError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "name", fe.Field)

	_, err = NewProduct("PROD-1", "USB Cable", "", "", "", 5, price, 2)
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "category", fe.Field)

	_, err = NewProduct("PROD-1", "USB Cable", "Cables", "", "", -1, price, 2)
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "quantity", fe.Field)

	_, err = NewProduct("PROD-1", "USB Cable", "Cables", "", "", 5, decimal.Zero, 2)
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "price", fe.Field)

	_, err = NewProduct("PROD-1", "USB Cable", "Cables", "", "", 5, price, -1)
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "minStock", fe.Field)
}

func TestNewProductRoundsPrice(t *testing.T) {
	p, err := NewProduct("PROD-1", "USB Cable", "Cables", "", "", 5, decimal.NewFromFloat(19.999), 2)
	require.NoError(t, err)
	assert.Equal(t, "20.00", p.Price.StringFixed(2))

	p, err = NewProduct("PROD-2", "HDMI Cable", "Cables", "", "", 5, decimal.NewFromFloat(12.345), 2)
	require.NoError(t, err)
	// half-up
	assert.Equal(t, "12.35", p.Price.StringFixed(2))
}

func TestNewProductTrimsStrings(t *testing.T) {
	p, err := NewProduct("PROD-1", "  USB Cable ", " Cables ", " Acme ", " desc ", 5, decimal.NewFromInt(10), 2)
	require.NoError(t, err)
	assert.Equal(t, "USB Cable", p.Name)
	assert.Equal(t, "Cables", p.Category)
	assert.Equal(t, "Acme", p.Supplier)
	assert.Equal(t, "desc", p.Description)
}

func TestProductFromDocument(t *testing.T) {
	doc := store.Document{ID: "PROD-1", Fields: map[string]any{
		"name":     "USB Cable",
		"category": "Cables",
		"quantity": float64(7), // json numbers decode as float64
		"price":    "19.99",
		"minStock": float64(3),
	}}
	p, err := ProductFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, "PROD-1", p.ID)
	assert.Equal(t, 7, p.Quantity)
	assert.Equal(t, "19.99", p.Price.StringFixed(2))
	assert.Equal(t, 3, p.MinStock)
}

func TestProductFromDocumentRejectsMalformed(t *testing.T) {
	cases := []struct {
		name   string
		fields map[string]any
	}{
		{"missing name", map[string]any{"quantity": float64(1), "price": "10.00"}},
		{"missing quantity", map[string]any{"name": "X", "price": "10.00"}},
		{"negative quantity", map[string]any{"name": "X", "quantity": float64(-1), "price": "10.00"}},
		{"missing price", map[string]any{"name": "X", "quantity": float64(1)}},
		{"zero price", map[string]any{"name": "X", "quantity": float64(1), "price": "0"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ProductFromDocument(store.Document{ID: "PROD-1", Fields: tc.fields})
			assert.Error(t, err)
		})
	}
}

func TestNewLineComputesTotal(t *testing.T) {
	l := NewLine("PROD-1", "USB Cable", decimal.NewFromFloat(19.99), 3)
	assert.Equal(t, "59.97", l.LineTotal.StringFixed(2))
}

func TestNewInvoiceTotalsAndNumber(t *testing.T) {
	lines := []Line{
		NewLine("PROD-1", "USB Cable", decimal.NewFromFloat(19.99), 3),
		NewLine("PROD-2", "HDMI Cable", decimal.NewFromFloat(5.50), 2),
	}
	at := time.UnixMilli(1735689600123)
	inv := NewInvoice("INV-1", "TXN-1", lines, at, "cashier", ModeCashier)
	assert.Equal(t, "70.97", inv.Total.StringFixed(2))
	assert.Equal(t, "FAC-600123", inv.InvoiceNumber)
	assert.Len(t, inv.Items, 2)
}

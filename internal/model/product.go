package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"stockpos/internal/store"
)

// Product is one catalog entry. Quantity is current stock and is never
// negative; any write that would drive it below zero must be rejected
// before it is issued.
type Product struct {
	ID          string
	Name        string
	Category    string
	Supplier    string
	Description string
	Quantity    int
	Price       decimal.Decimal // unit price, 2 decimals, > 0
	MinStock    int             // reorder threshold
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewProduct validates and normalizes input for a product create or edit.
// Price is rounded half-up to 2 decimals on the way in, so every later
// display and total works from the same representation.
func NewProduct(id, name, category, supplier, description string, quantity int, price decimal.Decimal, minStock int) (Product, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Product{}, fieldErr("name", "required")
	}
	if strings.TrimSpace(category) == "" {
		return Product{}, fieldErr("category", "required")
	}
	if quantity < 0 {
		return Product{}, fieldErr("quantity", "must be >= 0")
	}
	if !price.IsPositive() {
		return Product{}, fieldErr("price", "must be > 0")
	}
	if minStock < 0 {
		return Product{}, fieldErr("minStock", "must be >= 0")
	}
	return Product{
		ID:          id,
		Name:        name,
		Category:    strings.TrimSpace(category),
		Supplier:    strings.TrimSpace(supplier),
		Description: strings.TrimSpace(description),
		Quantity:    quantity,
		Price:       price.Round(2),
		MinStock:    minStock,
	}, nil
}

// ProductFromDocument decodes a store document into a Product, rejecting
// documents missing required fields rather than trusting the wire shape.
func ProductFromDocument(doc store.Document) (Product, error) {
	name, ok := wireString(doc.Fields, "name")
	if !ok || name == "" {
		return Product{}, fieldErr("name", "missing")
	}
	qty, ok := wireInt(doc.Fields, "quantity")
	if !ok {
		return Product{}, fieldErr("quantity", "missing or not an integer")
	}
	if qty < 0 {
		return Product{}, fieldErr("quantity", "negative")
	}
	price, ok := wireDecimal(doc.Fields, "price")
	if !ok {
		return Product{}, fieldErr("price", "missing or unparseable")
	}
	if !price.IsPositive() {
		return Product{}, fieldErr("price", "not positive")
	}

	category, _ := wireString(doc.Fields, "category")
	supplier, _ := wireString(doc.Fields, "supplier")
	description, _ := wireString(doc.Fields, "description")
	minStock, ok := wireInt(doc.Fields, "minStock")
	if !ok || minStock < 0 {
		minStock = 0
	}

	return Product{
		ID:          doc.ID,
		Name:        name,
		Category:    category,
		Supplier:    supplier,
		Description: description,
		Quantity:    qty,
		Price:       price.Round(2),
		MinStock:    minStock,
		CreatedAt:   wireTime(doc.Fields, "createdAt"),
		UpdatedAt:   wireTime(doc.Fields, "updatedAt"),
	}, nil
}

// Fields returns the document representation for a full write. Price travels
// as a fixed-point string so no reader ever sees binary-float drift.
func (p Product) Fields() map[string]any {
	return map[string]any{
		"name":        p.Name,
		"category":    p.Category,
		"supplier":    p.Supplier,
		"description": p.Description,
		"quantity":    p.Quantity,
		"price":       p.Price.StringFixed(2),
		"minStock":    p.MinStock,
		"createdAt":   store.ServerTimestamp(),
		"updatedAt":   store.ServerTimestamp(),
	}
}

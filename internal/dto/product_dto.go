package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"stockpos/internal/model"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type CreateProductRequest struct {
	Name        string          `json:"name"        validate:"required,min=2,max=120"`
	Category    string          `json:"category"    validate:"required"`
	Supplier    string          `json:"supplier"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"    validate:"min=0"`
	Price       decimal.Decimal `json:"price"       validate:"required,gt=0"`
	MinStock    int             `json:"min_stock"   validate:"min=0"`
}

// UpdateProductRequest is a full edit: the admin form always submits every
// field, so partial patches are not supported.
type UpdateProductRequest struct {
	Name        string          `json:"name"        validate:"required,min=2,max=120"`
	Category    string          `json:"category"    validate:"required"`
	Supplier    string          `json:"supplier"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"    validate:"min=0"`
	Price       decimal.Decimal `json:"price"       validate:"required,gt=0"`
	MinStock    int             `json:"min_stock"   validate:"min=0"`
}

type RestockRequest struct {
	Amount int `json:"amount" validate:"required,min=1"`
}

type QuickSaleRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type ProductResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Category    string          `json:"category"`
	Supplier    string          `json:"supplier"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	MinStock    int             `json:"min_stock"`
	OutOfStock  bool            `json:"out_of_stock"`
	LowStock    bool            `json:"low_stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type ProductListResponse struct {
	Data  []ProductResponse `json:"data"`
	Total int               `json:"total"`
}

func FromProduct(p model.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Category:    p.Category,
		Supplier:    p.Supplier,
		Description: p.Description,
		Quantity:    p.Quantity,
		Price:       p.Price,
		MinStock:    p.MinStock,
		OutOfStock:  p.Quantity == 0,
		LowStock:    p.Quantity > 0 && p.Quantity <= p.MinStock,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func FromProducts(products []model.Product) ProductListResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = FromProduct(p)
	}
	return ProductListResponse{Data: out, Total: len(out)}
}

package dto

import (
	"github.com/shopspring/decimal"

	"stockpos/internal/model"
)

// ─── Request DTOs ────────────────────────────────────────────────────────────

type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
}

type SetQuantityRequest struct {
	// Quantity < 1 removes the line.
	Quantity int `json:"quantity"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type CartLineResponse struct {
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	LineTotal decimal.Decimal `json:"line_total"`
}

type CartResponse struct {
	SessionID string             `json:"session_id"`
	Lines     []CartLineResponse `json:"lines"`
	Total     decimal.Decimal    `json:"total"`
	Count     int                `json:"count"`
}

func FromCart(sessionID string, lines []model.Line, total decimal.Decimal) CartResponse {
	out := make([]CartLineResponse, len(lines))
	count := 0
	for i, l := range lines {
		out[i] = CartLineResponse{
			ProductID: l.ProductID,
			Name:      l.Name,
			UnitPrice: l.UnitPrice,
			Quantity:  l.Quantity,
			LineTotal: l.LineTotal,
		}
		count += l.Quantity
	}
	return CartResponse{SessionID: sessionID, Lines: out, Total: total, Count: count}
}

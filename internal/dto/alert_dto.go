package dto

import (
	"stockpos/internal/alert"
	"stockpos/internal/model"
)

type AlertProduct struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Supplier string `json:"supplier"`
	Quantity int    `json:"quantity"`
	MinStock int    `json:"min_stock"`
}

type AlertsResponse struct {
	OutOfStock    []AlertProduct `json:"out_of_stock"`
	LowStock      []AlertProduct `json:"low_stock"`
	CriticalCount int            `json:"critical_count"`
}

func FromReport(r alert.Report) AlertsResponse {
	return AlertsResponse{
		OutOfStock:    alertProducts(r.OutOfStock),
		LowStock:      alertProducts(r.LowStock),
		CriticalCount: r.CriticalCount(),
	}
}

func alertProducts(products []model.Product) []AlertProduct {
	out := make([]AlertProduct, len(products))
	for i, p := range products {
		out[i] = AlertProduct{
			ID:       p.ID,
			Name:     p.Name,
			Category: p.Category,
			Supplier: p.Supplier,
			Quantity: p.Quantity,
			MinStock: p.MinStock,
		}
	}
	return out
}

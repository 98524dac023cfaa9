package dto

import (
	"github.com/shopspring/decimal"

	"stockpos/internal/service"
)

type DashboardResponse struct {
	TotalProducts  int             `json:"total_products"`
	TotalUnits     int             `json:"total_units"`
	Categories     int             `json:"categories"`
	InventoryValue decimal.Decimal `json:"inventory_value"`
	OutOfStock     int             `json:"out_of_stock"`
	LowStock       int             `json:"low_stock"`
	TotalSales     int             `json:"total_sales"`
	Revenue        decimal.Decimal `json:"revenue"`
	SalesToday     int             `json:"sales_today"`
	RevenueToday   decimal.Decimal `json:"revenue_today"`
	RecentSales    []SaleResponse  `json:"recent_sales"`
}

func FromStats(s service.Stats) DashboardResponse {
	recent := make([]SaleResponse, len(s.RecentSales))
	for i, sale := range s.RecentSales {
		recent[i] = SaleResponse{
			ID:          sale.ID,
			InvoiceID:   sale.InvoiceID,
			ProductID:   sale.ProductID,
			ProductName: sale.ProductName,
			Quantity:    sale.Quantity,
			UnitPrice:   sale.UnitPrice,
			Total:       sale.Total,
			Date:        sale.Date,
			Actor:       sale.Actor,
			Mode:        sale.Mode,
		}
	}
	return DashboardResponse{
		TotalProducts:  s.TotalProducts,
		TotalUnits:     s.TotalUnits,
		Categories:     s.Categories,
		InventoryValue: s.InventoryValue,
		OutOfStock:     s.OutOfStock,
		LowStock:       s.LowStock,
		TotalSales:     s.TotalSales,
		Revenue:        s.Revenue,
		SalesToday:     s.SalesToday,
		RevenueToday:   s.RevenueToday,
		RecentSales:    recent,
	}
}

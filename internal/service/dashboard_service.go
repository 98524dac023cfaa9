package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"stockpos/internal/alert"
	"stockpos/internal/ledger"
	"stockpos/internal/model"
	"stockpos/internal/store"
)

// Stats is the admin dashboard snapshot: catalog totals from the ledger and
// sales totals aggregated from the sales collection.
type Stats struct {
	TotalProducts  int
	TotalUnits     int
	Categories     int
	InventoryValue decimal.Decimal // Σ price × quantity over the catalog
	OutOfStock     int
	LowStock       int

	TotalSales   int
	Revenue      decimal.Decimal
	RevenueToday decimal.Decimal
	SalesToday   int
	RecentSales  []model.Sale // newest first, capped
}

const recentSalesLimit = 10

// DashboardService aggregates catalog and sales figures for the admin view.
type DashboardService interface {
	Stats(ctx context.Context) (Stats, error)
}

type dashboardService struct {
	st     store.Store
	ledger *ledger.Ledger
	now    func() time.Time
}

func NewDashboardService(st store.Store, l *ledger.Ledger) DashboardService {
	return &dashboardService{st: st, ledger: l, now: time.Now}
}

func (s *dashboardService) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{
		InventoryValue: decimal.Zero,
		Revenue:        decimal.Zero,
		RevenueToday:   decimal.Zero,
	}

	products := s.ledger.Current()
	report := alert.Evaluate(products)
	stats.TotalProducts = len(products)
	stats.OutOfStock = len(report.OutOfStock)
	stats.LowStock = len(report.LowStock)
	categories := make(map[string]struct{})
	for _, p := range products {
		stats.TotalUnits += p.Quantity
		stats.InventoryValue = stats.InventoryValue.Add(
			p.Price.Mul(decimal.NewFromInt(int64(p.Quantity))))
		if p.Category != "" {
			categories[p.Category] = struct{}{}
		}
	}
	stats.Categories = len(categories)
	stats.InventoryValue = stats.InventoryValue.Round(2)

	snap, err := s.st.Read(ctx, store.Sales)
	if err != nil {
		return Stats{}, fmt.Errorf("dashboard: read sales: %w", err)
	}

	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	sales := make([]model.Sale, 0, len(snap))
	for _, doc := range snap {
		sale, err := model.SaleFromDocument(doc)
		if err != nil {
			// Malformed historical record: skip it rather than blanking the
			// whole dashboard.
			log.Warn().Err(err).Str("doc_id", doc.ID).Msg("dashboard: skipping malformed sale")
			continue
		}
		sales = append(sales, sale)
		stats.TotalSales++
		stats.Revenue = stats.Revenue.Add(sale.Total)
		if !sale.Date.Before(dayStart) {
			stats.SalesToday++
			stats.RevenueToday = stats.RevenueToday.Add(sale.Total)
		}
	}
	stats.Revenue = stats.Revenue.Round(2)
	stats.RevenueToday = stats.RevenueToday.Round(2)

	sort.Slice(sales, func(i, j int) bool { return sales[i].Date.After(sales[j].Date) })
	if len(sales) > recentSalesLimit {
		sales = sales[:recentSalesLimit]
	}
	stats.RecentSales = sales

	return stats, nil
}

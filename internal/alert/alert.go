// Package alert derives restocking alerts from the current product set and
// decides when the external alert email should fire.
package alert

import (
	"sort"
	"sync"

	"github.com/rs/zerolog/log"

	"stockpos/internal/model"
)

// Severity classifies how urgent a product's stock situation is.
type Severity string

const (
	SeverityOut Severity = "out_of_stock" // quantity == 0
	SeverityLow Severity = "low_stock"    // 0 < quantity <= minStock
)

// Report is the pure derivation over one product snapshot.
type Report struct {
	OutOfStock []model.Product
	LowStock   []model.Product
}

// Evaluate classifies every product. Results are sorted by name so the
// report is stable across evaluations of the same snapshot.
func Evaluate(products map[string]model.Product) Report {
	var r Report
	for _, p := range products {
		switch {
		case p.Quantity == 0:
			r.OutOfStock = append(r.OutOfStock, p)
		case p.Quantity <= p.MinStock:
			r.LowStock = append(r.LowStock, p)
		}
	}
	sort.Slice(r.OutOfStock, func(i, j int) bool { return r.OutOfStock[i].Name < r.OutOfStock[j].Name })
	sort.Slice(r.LowStock, func(i, j int) bool { return r.LowStock[i].Name < r.LowStock[j].Name })
	return r
}

// CriticalCount is the badge number the UI shows.
func (r Report) CriticalCount() int {
	return len(r.OutOfStock) + len(r.LowStock)
}

// severities indexes a report by product id.
func (r Report) severities() map[string]Severity {
	m := make(map[string]Severity, len(r.OutOfStock)+len(r.LowStock))
	for _, p := range r.OutOfStock {
		m[p.ID] = SeverityOut
	}
	for _, p := range r.LowStock {
		m[p.ID] = SeverityLow
	}
	return m
}

// Transition is one product entering an alert severity.
type Transition struct {
	Product  model.Product
	Severity Severity
}

// Diff returns the products that transitioned into an alert severity between
// two consecutive reports. A product already low that drops to zero counts
// as a transition (low → out); staying at the same severity does not.
func Diff(prev, curr Report) []Transition {
	before := prev.severities()
	var out []Transition
	for _, p := range curr.OutOfStock {
		if before[p.ID] != SeverityOut {
			out = append(out, Transition{Product: p, Severity: SeverityOut})
		}
	}
	for _, p := range curr.LowStock {
		if before[p.ID] != SeverityLow {
			out = append(out, Transition{Product: p, Severity: SeverityLow})
		}
	}
	return out
}

// Sender dispatches the low-stock alert email for one product. Best-effort:
// implementations must never block the snapshot path.
type Sender interface {
	SendLowStockAlert(p model.Product) error
}

// Monitor re-evaluates alerts on every ledger snapshot and fires the email
// collaborator once per transition — edge-triggered, not level-triggered, so
// a product sitting below its threshold does not re-alert every snapshot.
type Monitor struct {
	mu     sync.Mutex
	prev   Report
	primed bool
	sender Sender
}

func NewMonitor(sender Sender) *Monitor {
	return &Monitor{sender: sender}
}

// Observe is registered as a ledger watcher.
func (m *Monitor) Observe(products map[string]model.Product) {
	curr := Evaluate(products)

	m.mu.Lock()
	prev, primed := m.prev, m.primed
	m.prev, m.primed = curr, true
	m.mu.Unlock()

	if !primed {
		// First snapshot after startup: establish baseline without firing,
		// otherwise every restart re-alerts the whole backlog.
		return
	}

	for _, tr := range Diff(prev, curr) {
		if err := m.sender.SendLowStockAlert(tr.Product); err != nil {
			log.Error().Err(err).Str("product_id", tr.Product.ID).
				Str("severity", string(tr.Severity)).
				Msg("alert: low-stock email dispatch failed")
		}
	}
}

// Current returns the latest computed report.
func (m *Monitor) Current() Report {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.prev
}

package alert

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpos/internal/model"
)

func product(id, name string, quantity, minStock int) model.Product {
	return model.Product{
		ID: id, Name: name, Category: "Cables",
		Quantity: quantity, Price: decimal.NewFromInt(10), MinStock: minStock,
	}
}

func asMap(products ...model.Product) map[string]model.Product {
	m := make(map[string]model.Product, len(products))
	for _, p := range products {
		m[p.ID] = p
	}
	return m
}

func TestEvaluateClassifies(t *testing.T) {
	r := Evaluate(asMap(
		product("PROD-1", "USB Cable", 0, 5),
		product("PROD-2", "HDMI Cable", 3, 5), // at/below threshold
		product("PROD-3", "Mouse", 5, 5),      // boundary counts as low
		product("PROD-4", "Keyboard", 6, 5),   // healthy
		product("PROD-5", "Headphones", 1, 0), // threshold 0, stock 1: healthy
	))

	require.Len(t, r.OutOfStock, 1)
	assert.Equal(t, "PROD-1", r.OutOfStock[0].ID)

	require.Len(t, r.LowStock, 2)
	// sorted by name
	assert.Equal(t, "HDMI Cable", r.LowStock[0].Name)
	assert.Equal(t, "Mouse", r.LowStock[1].Name)

	assert.Equal(t, 3, r.CriticalCount())
}

func TestDiffReportsOnlyTransitions(t *testing.T) {
	prev := Evaluate(asMap(
		product("PROD-1", "USB Cable", 3, 5), // already low
		product("PROD-2", "HDMI Cable", 9, 5),
	))
	curr := Evaluate(asMap(
		product("PROD-1", "USB Cable", 3, 5),  // still low, no transition
		product("PROD-2", "HDMI Cable", 4, 5), // newly low
	))

	trs := Diff(prev, curr)
	require.Len(t, trs, 1)
	assert.Equal(t, "PROD-2", trs[0].Product.ID)
	assert.Equal(t, SeverityLow, trs[0].Severity)
}

func TestDiffLowToOutCounts(t *testing.T) {
	prev := Evaluate(asMap(product("PROD-1", "USB Cable", 2, 5)))
	curr := Evaluate(asMap(product("PROD-1", "USB Cable", 0, 5)))

	trs := Diff(prev, curr)
	require.Len(t, trs, 1)
	assert.Equal(t, SeverityOut, trs[0].Severity)
}

// recordingSender captures alert dispatches.
type recordingSender struct{ sent []string }

func (s *recordingSender) SendLowStockAlert(p model.Product) error {
	s.sent = append(s.sent, p.ID)
	return nil
}

func TestMonitorBaselineDoesNotFire(t *testing.T) {
	sender := &recordingSender{}
	m := NewMonitor(sender)

	// First snapshot after startup carries an existing backlog: baseline only.
	m.Observe(asMap(product("PROD-1", "USB Cable", 0, 5)))
	assert.Empty(t, sender.sent)

	// A real transition afterwards fires exactly once.
	m.Observe(asMap(
		product("PROD-1", "USB Cable", 0, 5),
		product("PROD-2", "HDMI Cable", 1, 5),
	))
	assert.Equal(t, []string{"PROD-2"}, sender.sent)

	// Unchanged severity does not re-fire.
	m.Observe(asMap(
		product("PROD-1", "USB Cable", 0, 5),
		product("PROD-2", "HDMI Cable", 1, 5),
	))
	assert.Equal(t, []string{"PROD-2"}, sender.sent)
}

func TestMonitorCurrent(t *testing.T) {
	m := NewMonitor(&recordingSender{})
	m.Observe(asMap(product("PROD-1", "USB Cable", 0, 5)))

	r := m.Current()
	assert.Equal(t, 1, r.CriticalCount())
}

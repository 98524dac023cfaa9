package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockpos/internal/cart"
	"stockpos/internal/ledger"
	"stockpos/internal/model"
	"stockpos/internal/notify"
	"stockpos/internal/store"
)

// ── Stubs ─────────────────────────────────────────────────────────────────────

// recordingNotifier captures toasts for assertion.
type recordingNotifier struct {
	messages []string
	kinds    []notify.Kind
}

func (n *recordingNotifier) Notify(message string, kind notify.Kind) {
	n.messages = append(n.messages, message)
	n.kinds = append(n.kinds, kind)
}

var _ notify.Notifier = (*recordingNotifier)(nil)

// recordingDispatcher captures enqueued jobs.
type recordingDispatcher struct {
	restocks []string
	invoices []model.Invoice
	err      error
}

func (d *recordingDispatcher) EnqueueRestockConfirmation(_ context.Context, p model.Product, _ int) error {
	d.restocks = append(d.restocks, p.ID)
	return d.err
}

func (d *recordingDispatcher) EnqueueInvoiceExport(_ context.Context, inv model.Invoice) error {
	d.invoices = append(d.invoices, inv)
	return d.err
}

var _ Dispatcher = (*recordingDispatcher)(nil)

// failingStore wraps a Store and fails selected writes.
type failingStore struct {
	store.Store
	failCreateIn string // collection whose CreateOrReplace fails
	failUpdateID string // document id whose Update fails
}

func (s *failingStore) CreateOrReplace(ctx context.Context, collection, id string, fields map[string]any) error {
	if collection == s.failCreateIn {
		return errors.New("write refused")
	}
	return s.Store.CreateOrReplace(ctx, collection, id, fields)
}

func (s *failingStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	if id == s.failUpdateID {
		return errors.New("write refused")
	}
	return s.Store.Update(ctx, collection, id, fields)
}

// ── Helpers ───────────────────────────────────────────────────────────────────

func seedProduct(t *testing.T, st store.Store, id, name string, quantity int, price string) {
	t.Helper()
	require.NoError(t, st.CreateOrReplace(context.Background(), store.Products, id, map[string]any{
		"name":     name,
		"category": "Cables",
		"quantity": quantity,
		"price":    price,
		"minStock": 2,
	}))
}

func syncLedger(t *testing.T, st store.Store, l *ledger.Ledger) {
	t.Helper()
	snap, err := st.Read(context.Background(), store.Products)
	require.NoError(t, err)
	l.Apply(snap)
}

func storedQuantity(t *testing.T, st store.Store, productID string) int {
	t.Helper()
	snap, err := st.Read(context.Background(), store.Products)
	require.NoError(t, err)
	for _, doc := range snap {
		if doc.ID == productID {
			p, err := model.ProductFromDocument(doc)
			require.NoError(t, err)
			return p.Quantity
		}
	}
	t.Fatalf("product %s not in store", productID)
	return 0
}

func countDocs(t *testing.T, st store.Store, collection string) int {
	t.Helper()
	snap, err := st.Read(context.Background(), collection)
	require.NoError(t, err)
	return len(snap)
}

type fixture struct {
	st         *store.MemoryStore
	ledger     *ledger.Ledger
	notifier   *recordingNotifier
	dispatcher *recordingDispatcher
	svc        CheckoutService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		st:         store.NewMemoryStore(),
		ledger:     ledger.New(),
		notifier:   &recordingNotifier{},
		dispatcher: &recordingDispatcher{},
	}
	f.svc = NewCheckoutService(f.st, f.ledger, f.notifier, f.dispatcher, decimal.NewFromInt(20000))
	return f
}

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestCheckoutHappyPath(t *testing.T) {
	f := newFixture(t)
	seedProduct(t, f.st, "PROD-1", "USB Cable", 5, "19.99")
	seedProduct(t, f.st, "PROD-2", "HDMI Cable", 4, "5.50")
	syncLedger(t, f.st, f.ledger)

	c := cart.New(f.ledger)
	require.NoError(t, c.Add("PROD-1"))
	require.NoError(t, c.SetQuantity("PROD-1", 3))
	require.NoError(t, c.Add("PROD-2"))

	res, err := f.svc.Checkout(context.Background(), c, "admin@example.com", model.ModeAdmin)
	require.NoError(t, err)

	// 3×19.99 + 1×5.50
	assert.Equal(t, "65.47", res.Invoice.Total.StringFixed(2))
	assert.Len(t, res.Sales, 2)
	assert.False(t, res.Bulk)
	assert.Empty(t, res.Warning)
	for _, s := range res.Sales {
		assert.Equal(t, res.Invoice.ID, s.InvoiceID)
		assert.Equal(t, "admin@example.com", s.Actor)
	}

	assert.Equal(t, 2, storedQuantity(t, f.st, "PROD-1"))
	assert.Equal(t, 3, storedQuantity(t, f.st, "PROD-2"))
	assert.Equal(t, 2, countDocs(t, f.st, store.Sales))
	assert.Equal(t, 1, countDocs(t, f.st, store.Invoices))

	assert.Equal(t, 0, c.Len(), "cart must be cleared on success")
	require.Len(t, f.dispatcher.invoices, 1)
	assert.Equal(t, res.Invoice.ID, f.dispatcher.invoices[0].ID)
}

func TestCheckoutEmptyCart(t *testing.T) {
	f := newFixture(t)
	c := cart.New(f.ledger)
	_, err := f.svc.Checkout(context.Background(), c, model.CashierActor, model.ModeCashier)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestCheckoutRejectsBeforeAnyWrite(t *testing.T) {
	f := newFixture(t)
	seedProduct(t, f.st, "PROD-1", "USB Cable", 5, "19.99")
	seedProduct(t, f.st, "PROD-2", "HDMI Cable", 5, "5.50")
	syncLedger(t, f.st, f.ledger)

	c := cart.New(f.ledger)
	require.NoError(t, c.Add("PROD-1"))
	require.NoError(t, c.Add("PROD-2"))
	require.NoError(t, c.SetQuantity("PROD-2", 4))

	// Stock for the second line collapses after it entered the cart.
	require.NoError(t, f.st.Update(context.Background(), store.Products, "PROD-2", map[string]any{"quantity": 1}))
	syncLedger(t, f.st, f.ledger)

	_, err := f.svc.Checkout(context.Background(), c, model.CashierActor, model.ModeCashier)
	var short *InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 1, short.Line)
	assert.Equal(t, 4, short.Requested)
	assert.Equal(t, 1, short.Available)

	// All-or-nothing: the passing first line must not have been committed.
	assert.Equal(t, 0, countDocs(t, f.st, store.Sales))
	assert.Equal(t, 5, storedQuantity(t, f.st, "PROD-1"))
	assert.Equal(t, 2, c.Len(), "cart survives a rejected checkout")
}

func TestCheckoutRejectsVanishedProduct(t *testing.T) {
	f := newFixture(t)
	seedProduct(t, f.st, "PROD-1", "USB Cable", 5, "19.99")
	syncLedger(t, f.st, f.ledger)

	c := cart.New(f.ledger)
	require.NoError(t, c.Add("PROD-1"))

	require.NoError(t, f.st.Delete(context.Background(), store.Products, "PROD-1"))
	syncLedger(t, f.st, f.ledger)

	_, err := f.svc.Checkout(context.Background(), c, model.CashierActor, model.ModeCashier)
	var nf *ProductNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "PROD-1", nf.ProductID)
	assert.Equal(t, 1, c.Len())
}

func TestSequentialSalesCannotOversell(t *testing.T) {
	f := newFixture(t)
	seedProduct(t, f.st, "PROD-1", "USB Cable", 3, "19.99")
	syncLedger(t, f.st, f.ledger)

	// Two sessions each put 2 units in their cart while stock is 3.
	c1 := cart.New(f.ledger)
	require.NoError(t, c1.Add("PROD-1"))
	require.NoError(t, c1.SetQuantity("PROD-1", 2))
	c2 := cart.New(f.ledger)
	require.NoError(t, c2.Add("PROD-1"))
	require.NoError(t, c2.SetQuantity("PROD-1", 2))

	_, err := f.svc.Checkout(context.Background(), c1, model.CashierActor, model.ModeCashier)
	require.NoError(t, err)
	assert.Equal(t, 1, storedQuantity(t, f.st, "PROD-1"))

	// The decrement flows back through the snapshot before the second
	// checkout validates.
	syncLedger(t, f.st, f.ledger)

	_, err = f.svc.Checkout(context.Background(), c2, model.CashierActor, model.ModeCashier)
	var short *InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, 2, short.Requested)
	assert.Equal(t, 1, short.Available)
	assert.Equal(t, 1, storedQuantity(t, f.st, "PROD-1"))
}

func TestQuickSale(t *testing.T) {
	f := newFixture(t)
	seedProduct(t, f.st, "PROD-1", "USB Cable", 5, "19.99")
	syncLedger(t, f.st, f.ledger)

	res, err := f.svc.QuickSale(context.Background(), "PROD-1", 2, model.CashierActor, model.ModeCashier)
	require.NoError(t, err)
	assert.Equal(t, "39.98", res.Invoice.Total.StringFixed(2))
	assert.Equal(t, 3, storedQuantity(t, f.st, "PROD-1"))

	_, err = f.svc.QuickSale(context.Background(), "PROD-1", 0, model.CashierActor, model.ModeCashier)
	var fe *model.FieldError
	assert.ErrorAs(t, err, &fe)

	_, err = f.svc.QuickSale(context.Background(), "PROD-404", 1, model.CashierActor, model.ModeCashier)
	var nf *ProductNotFoundError
	assert.ErrorAs(t, err, &nf)
}

func TestCheckoutBulkSale(t *testing.T) {
	f := newFixture(t)
	seedProduct(t, f.st, "PROD-1", "Workstation", 5, "15000.00")
	syncLedger(t, f.st, f.ledger)

	c := cart.New(f.ledger)
	require.NoError(t, c.Add("PROD-1"))
	require.NoError(t, c.SetQuantity("PROD-1", 2))

	res, err := f.svc.Checkout(context.Background(), c, "admin@example.com", model.ModeAdmin)
	require.NoError(t, err)
	assert.True(t, res.Bulk)

	require.NotEmpty(t, f.notifier.messages)
	assert.True(t, strings.Contains(f.notifier.messages[len(f.notifier.messages)-1], "BULK"))
}

func TestCheckoutInvoicePersistFailureIsWarning(t *testing.T) {
	mem := store.NewMemoryStore()
	st := &failingStore{Store: mem, failCreateIn: store.Invoices}
	ldg := ledger.New()
	notifier := &recordingNotifier{}
	svc := NewCheckoutService(st, ldg, notifier, &recordingDispatcher{}, decimal.NewFromInt(20000))

	seedProduct(t, st, "PROD-1", "USB Cable", 5, "19.99")
	syncLedger(t, st, ldg)

	c := cart.New(ldg)
	require.NoError(t, c.Add("PROD-1"))

	res, err := svc.Checkout(context.Background(), c, model.CashierActor, model.ModeCashier)
	require.NoError(t, err, "invoice loss must not fail the checkout")
	assert.NotEmpty(t, res.Warning)
	assert.Equal(t, 4, storedQuantity(t, st, "PROD-1"))
	assert.Equal(t, 1, countDocs(t, st, store.Sales))
	assert.Equal(t, 0, countDocs(t, st, store.Invoices))
}

func TestCheckoutCommitFailureReportsPartial(t *testing.T) {
	mem := store.NewMemoryStore()
	st := &failingStore{Store: mem, failUpdateID: "PROD-2"}
	ldg := ledger.New()
	svc := NewCheckoutService(st, ldg, &recordingNotifier{}, &recordingDispatcher{}, decimal.NewFromInt(20000))

	seedProduct(t, st, "PROD-1", "USB Cable", 5, "19.99")
	seedProduct(t, st, "PROD-2", "HDMI Cable", 5, "5.50")
	syncLedger(t, st, ldg)

	c := cart.New(ldg)
	require.NoError(t, c.Add("PROD-1"))
	require.NoError(t, c.Add("PROD-2"))

	_, err := svc.Checkout(context.Background(), c, model.CashierActor, model.ModeCashier)
	var commit *CommitError
	require.ErrorAs(t, err, &commit)
	assert.Equal(t, 1, commit.Line)
	assert.Equal(t, "PROD-2", commit.ProductID)
	require.Len(t, commit.Committed, 1)
	assert.Equal(t, "PROD-1", commit.Committed[0].ProductID)

	// No rollback: the first line's decrement stays.
	assert.Equal(t, 4, storedQuantity(t, st, "PROD-1"))
	assert.Equal(t, 5, storedQuantity(t, st, "PROD-2"))
	assert.Equal(t, 2, c.Len(), "cart is preserved for reconciliation")
}

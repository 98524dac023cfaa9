package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"stockpos/internal/cart"
	"stockpos/internal/id"
	"stockpos/internal/ledger"
	"stockpos/internal/model"
	"stockpos/internal/notify"
	"stockpos/internal/store"
)

// Phase names the checkout state machine's states. A checkout moves
// Idle → Validating → Committing → Finalizing → Idle on success, or exits
// at Rejected (validation failed, zero side effects) / PartiallyCommitted
// (a mid-sequence write failed, earlier lines stay committed).
type Phase string

const (
	PhaseIdle               Phase = "idle"
	PhaseValidating         Phase = "validating"
	PhaseCommitting         Phase = "committing"
	PhaseFinalizing         Phase = "finalizing"
	PhaseRejected           Phase = "rejected"
	PhasePartiallyCommitted Phase = "partially_committed"
)

// Result reports a successful checkout. Warning is set when the invoice
// could not be persisted — the sales are the authoritative record, so that
// failure does not fail the checkout.
type Result struct {
	Invoice model.Invoice
	Sales   []model.Sale
	Bulk    bool
	Warning string
}

// Dispatcher is the slice of the async job surface checkout and restock
// depend on. nil disables dispatch (unit test mode).
type Dispatcher interface {
	EnqueueRestockConfirmation(ctx context.Context, p model.Product, added int) error
	EnqueueInvoiceExport(ctx context.Context, inv model.Invoice) error
}

// CheckoutService converts a cart into committed sales, product quantity
// decrements and an invoice.
type CheckoutService interface {
	Checkout(ctx context.Context, c *cart.Cart, actor, mode string) (*Result, error)
	QuickSale(ctx context.Context, productID string, quantity int, actor, mode string) (*Result, error)
}

type checkoutService struct {
	st            store.Store
	ledger        *ledger.Ledger
	notifier      notify.Notifier
	dispatcher    Dispatcher
	bulkThreshold decimal.Decimal
}

func NewCheckoutService(st store.Store, l *ledger.Ledger, notifier notify.Notifier, dispatcher Dispatcher, bulkThreshold decimal.Decimal) CheckoutService {
	return &checkoutService{
		st:            st,
		ledger:        l,
		notifier:      notifier,
		dispatcher:    dispatcher,
		bulkThreshold: bulkThreshold,
	}
}

// Checkout runs the full state machine over the session's cart and clears
// it on success.
func (s *checkoutService) Checkout(ctx context.Context, c *cart.Cart, actor, mode string) (*Result, error) {
	res, err := s.process(ctx, c.Lines(), actor, mode)
	if err != nil {
		return nil, err
	}
	c.Clear()
	return res, nil
}

// QuickSale sells n units of one product without a session cart ("mark as
// sold" on the product card). Same state machine, single line.
func (s *checkoutService) QuickSale(ctx context.Context, productID string, quantity int, actor, mode string) (*Result, error) {
	if quantity < 1 {
		return nil, &model.FieldError{Field: "quantity", Reason: "must be >= 1"}
	}
	p, ok := s.ledger.Get(productID)
	if !ok {
		return nil, &ProductNotFoundError{Line: 0, ProductID: productID}
	}
	line := model.NewLine(p.ID, p.Name, p.Price, quantity)
	return s.process(ctx, []model.Line{line}, actor, mode)
}

func (s *checkoutService) process(ctx context.Context, lines []model.Line, actor, mode string) (*Result, error) {
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	// ── Validating ───────────────────────────────────────────────────────────
	// Full pre-check over all lines before any mutation: an all-or-nothing
	// admission gate. This — not transactional atomicity, which the store
	// does not offer — is what protects against oversell.
	logPhase(PhaseValidating, len(lines))
	available := make([]model.Product, len(lines))
	for i, line := range lines {
		p, ok := s.ledger.Get(line.ProductID)
		if !ok {
			logPhase(PhaseRejected, len(lines))
			return nil, &ProductNotFoundError{Line: i, ProductID: line.ProductID, Name: line.Name}
		}
		if p.Quantity < line.Quantity {
			logPhase(PhaseRejected, len(lines))
			return nil, &InsufficientStockError{
				Line: i, ProductID: p.ID, Name: p.Name,
				Requested: line.Quantity, Available: p.Quantity,
			}
		}
		available[i] = p
	}

	// ── Committing ───────────────────────────────────────────────────────────
	// Per-line, strictly sequential: each line is its own unit of two writes
	// (sale record, then stock decrement). A later failure leaves earlier
	// lines committed and names the line that broke.
	logPhase(PhaseCommitting, len(lines))
	invoiceID := id.New(id.Invoice)
	transactionID := id.New(id.Transaction)
	now := time.Now()

	var committed []model.Line
	sales := make([]model.Sale, 0, len(lines))
	for i, line := range lines {
		sale := model.NewSale(id.New(id.Sale), invoiceID, line, now, actor, mode)
		if err := s.st.CreateOrReplace(ctx, store.Sales, sale.ID, sale.Fields()); err != nil {
			logPhase(PhasePartiallyCommitted, len(committed))
			return nil, &CommitError{Line: i, ProductID: line.ProductID, Name: line.Name, Committed: committed, Cause: err}
		}

		newQty := available[i].Quantity - line.Quantity
		err := s.st.Update(ctx, store.Products, line.ProductID, map[string]any{
			"quantity":  newQty,
			"updatedAt": store.ServerTimestamp(),
		})
		if err != nil {
			logPhase(PhasePartiallyCommitted, len(committed))
			return nil, &CommitError{Line: i, ProductID: line.ProductID, Name: line.Name, Committed: committed, Cause: err}
		}

		committed = append(committed, line)
		sales = append(sales, sale)
	}

	// ── Finalizing ───────────────────────────────────────────────────────────
	logPhase(PhaseFinalizing, len(committed))
	inv := model.NewInvoice(invoiceID, transactionID, committed, now, actor, mode)

	res := &Result{Invoice: inv, Sales: sales}
	if err := s.st.CreateOrReplace(ctx, store.Invoices, inv.ID, inv.Fields()); err != nil {
		// The sales are the authoritative record; losing the invoice is a
		// warning, not a checkout failure.
		log.Warn().Err(err).Str("invoice_id", inv.ID).Msg("checkout: invoice persist failed")
		res.Warning = "invoice could not be saved"
		s.notifier.Notify("Sale completed, but the invoice could not be saved", notify.Error)
	}

	if inv.Total.GreaterThan(s.bulkThreshold) {
		res.Bulk = true
		s.notifier.Notify(
			fmt.Sprintf("BULK SALE! Total: $%s — invoice %s", inv.Total.StringFixed(2), inv.ID),
			notify.Success,
		)
	} else {
		s.notifier.Notify(fmt.Sprintf("Sale completed — total $%s", inv.Total.StringFixed(2)), notify.Success)
	}

	// Terminal, non-blocking side effect: hand the invoice to the export
	// worker. Checkout already succeeded; only log a dispatch failure.
	if s.dispatcher != nil {
		if err := s.dispatcher.EnqueueInvoiceExport(ctx, inv); err != nil {
			log.Error().Err(err).Str("invoice_id", inv.ID).Msg("checkout: invoice export dispatch failed")
		}
	}

	logPhase(PhaseIdle, 0)
	return res, nil
}

func logPhase(p Phase, lines int) {
	log.Debug().Str("phase", string(p)).Int("lines", lines).Msg("checkout")
}

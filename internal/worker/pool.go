package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"stockpos/internal/model"
)

const (
	QueueAlerts   = "jobs:alerts"
	QueueInvoices = "jobs:invoices"
)

// Job is the generic envelope for all async tasks.
type Job struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Job types.
const (
	JobLowStock      = "low_stock_alert"
	JobRestock       = "restock_confirmation"
	JobInvoiceExport = "invoice_export"
)

// ── Payloads ──────────────────────────────────────────────────────────────────

// ProductPayload carries the product fields the email templates need.
type ProductPayload struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Category  string `json:"category"`
	Supplier  string `json:"supplier"`
	Quantity  int    `json:"quantity"`
	MinStock  int    `json:"min_stock"`
	// Added is only set for restock confirmations.
	Added int `json:"added,omitempty"`
}

func (p ProductPayload) product() model.Product {
	return model.Product{
		ID:       p.ProductID,
		Name:     p.Name,
		Category: p.Category,
		Supplier: p.Supplier,
		Quantity: p.Quantity,
		MinStock: p.MinStock,
	}
}

// InvoicePayload is the full finalized invoice, carried in the job so the
// export worker needs no store round-trip.
type InvoicePayload struct {
	ID            string        `json:"id"`
	TransactionID string        `json:"transaction_id"`
	Items         []InvoiceLine `json:"items"`
	Total         string        `json:"total"`
	Date          time.Time     `json:"date"`
	InvoiceNumber string        `json:"invoice_number"`
	Actor         string        `json:"actor"`
	Mode          string        `json:"mode"`
}

type InvoiceLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

// NewInvoicePayload snapshots a model.Invoice for the queue.
func NewInvoicePayload(inv model.Invoice) InvoicePayload {
	items := make([]InvoiceLine, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, InvoiceLine{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: it.UnitPrice.StringFixed(2),
			Quantity:  it.Quantity,
			LineTotal: it.LineTotal.StringFixed(2),
		})
	}
	return InvoicePayload{
		ID:            inv.ID,
		TransactionID: inv.TransactionID,
		Items:         items,
		Total:         inv.Total.StringFixed(2),
		Date:          inv.Date,
		InvoiceNumber: inv.InvoiceNumber,
		Actor:         inv.Actor,
		Mode:          inv.Mode,
	}
}

func (p InvoicePayload) invoice() model.Invoice {
	items := make([]model.Line, 0, len(p.Items))
	for _, it := range p.Items {
		unit, _ := decimal.NewFromString(it.UnitPrice)
		lineTotal, _ := decimal.NewFromString(it.LineTotal)
		items = append(items, model.Line{
			ProductID: it.ProductID,
			Name:      it.Name,
			UnitPrice: unit,
			Quantity:  it.Quantity,
			LineTotal: lineTotal,
		})
	}
	total, _ := decimal.NewFromString(p.Total)
	return model.Invoice{
		ID:            p.ID,
		TransactionID: p.TransactionID,
		Items:         items,
		Total:         total,
		Date:          p.Date,
		InvoiceNumber: p.InvoiceNumber,
		Actor:         p.Actor,
		Mode:          p.Mode,
	}
}

// ── Dispatcher ────────────────────────────────────────────────────────────────

// Dispatcher enqueues async jobs into Redis lists.
// The worker pool dequeues them via BRPOP.
type Dispatcher struct {
	rdb *redis.Client
}

func NewDispatcher(rdb *redis.Client) *Dispatcher {
	return &Dispatcher{rdb: rdb}
}

// SendLowStockAlert enqueues a low-stock alert email. Satisfies the alert
// monitor's Sender contract: enqueue only, the SMTP send happens on a worker.
func (d *Dispatcher) SendLowStockAlert(p model.Product) error {
	return d.enqueue(context.Background(), QueueAlerts, JobLowStock, ProductPayload{
		ProductID: p.ID, Name: p.Name, Category: p.Category, Supplier: p.Supplier,
		Quantity: p.Quantity, MinStock: p.MinStock,
	})
}

// EnqueueRestockConfirmation pushes a restock confirmation email job.
func (d *Dispatcher) EnqueueRestockConfirmation(ctx context.Context, p model.Product, added int) error {
	return d.enqueue(ctx, QueueAlerts, JobRestock, ProductPayload{
		ProductID: p.ID, Name: p.Name, Category: p.Category, Supplier: p.Supplier,
		Quantity: p.Quantity, MinStock: p.MinStock, Added: added,
	})
}

// EnqueueInvoiceExport pushes a PDF export job for a finalized invoice.
func (d *Dispatcher) EnqueueInvoiceExport(ctx context.Context, inv model.Invoice) error {
	return d.enqueue(ctx, QueueInvoices, JobInvoiceExport, NewInvoicePayload(inv))
}

func (d *Dispatcher) enqueue(ctx context.Context, queue, jobType string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	job := Job{Type: jobType, Payload: data}
	encoded, err := json.Marshal(job)
	if err != nil {
		return err
	}
	return d.rdb.LPush(ctx, queue, encoded).Err()
}

// ── Pool ──────────────────────────────────────────────────────────────────────

// Handlers holds the per-job-type processors, wired at the composition root.
type Handlers struct {
	Email   *EmailWorker
	Invoice *InvoiceWorker
}

// StartPool launches numWorkers goroutines consuming both queues.
// Each goroutine blocks on BRPOP — zero CPU when idle.
func StartPool(ctx context.Context, rdb *redis.Client, handlers *Handlers, numWorkers int) {
	for i := 0; i < numWorkers; i++ {
		go runWorker(ctx, rdb, handlers, i)
	}
	log.Info().Msgf("worker pool started with %d workers", numWorkers)
}

func runWorker(ctx context.Context, rdb *redis.Client, handlers *Handlers, id int) {
	queues := []string{QueueAlerts, QueueInvoices}
	for {
		select {
		case <-ctx.Done():
			log.Info().Msgf("worker %d shutting down", id)
			return
		default:
			// Blocking pop — waits up to 5s then loops to check ctx
			result, err := rdb.BRPop(ctx, 5*time.Second, queues...).Result()
			if err != nil {
				continue // timeout or context cancelled
			}
			if len(result) < 2 {
				continue
			}
			processJob(ctx, rdb, handlers, result[0], result[1])
		}
	}
}

func processJob(ctx context.Context, rdb *redis.Client, handlers *Handlers, queue, raw string) {
	var job Job
	if err := json.Unmarshal([]byte(raw), &job); err != nil {
		log.Error().Str("queue", queue).Err(err).Msg("failed to unmarshal job")
		return
	}

	var err error
	switch job.Type {
	case JobLowStock, JobRestock:
		err = handlers.Email.Process(ctx, job.Type, job.Payload)
	case JobInvoiceExport:
		err = handlers.Invoice.Process(ctx, job.Payload)
	default:
		log.Warn().Str("type", job.Type).Str("queue", queue).Msg("unknown job type dropped")
		return
	}

	if err != nil {
		// No automatic retry — failed jobs go to the DLQ for manual inspection.
		SendToDLQ(ctx, rdb, queue, job.Type, job.Payload, err.Error(), 1)
	}
}

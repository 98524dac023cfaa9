package worker

// invoice_worker.go
// Renders finalized invoices to printable PDFs from QueueInvoices. The job
// carries the invoice verbatim; failure here never affects the checkout that
// produced it.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"stockpos/internal/infra"
)

// InvoiceWorker renders invoice PDFs.
type InvoiceWorker struct {
	storagePath string
}

func NewInvoiceWorker(storagePath string) *InvoiceWorker {
	return &InvoiceWorker{storagePath: storagePath}
}

// Process renders the invoice in the payload.
func (w *InvoiceWorker) Process(_ context.Context, raw json.RawMessage) error {
	var payload InvoicePayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("invoice_worker: invalid payload: %w", err)
	}

	inv := payload.invoice()
	path, err := infra.GenerateInvoicePDF(&inv, w.storagePath)
	if err != nil {
		log.Error().Err(err).Str("invoice_id", inv.ID).Msg("invoice_worker: render failed")
		return err
	}

	log.Info().Str("invoice_id", inv.ID).Str("path", path).Msg("invoice_worker: PDF rendered")
	return nil
}

package worker

// email_worker.go
// Processes alert email jobs from QueueAlerts: low-stock alerts fired by the
// alert monitor and restock confirmations fired by the restock operation.
// Sends run through the SMTP circuit breaker so a dead relay fast-fails.

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"

	"stockpos/internal/infra"
)

// EmailWorker processes email jobs from QueueAlerts.
type EmailWorker struct {
	mailer *infra.Mailer
	cb     *infra.CircuitBreaker
}

// NewEmailWorker creates an EmailWorker with the provided SMTP mailer.
func NewEmailWorker(mailer *infra.Mailer, cb *infra.CircuitBreaker) *EmailWorker {
	return &EmailWorker{mailer: mailer, cb: cb}
}

// Process sends the email for one job. Returning an error moves the job to
// the DLQ; it is never surfaced to the user and never retried automatically.
func (w *EmailWorker) Process(_ context.Context, jobType string, raw json.RawMessage) error {
	var payload ProductPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("email_worker: invalid payload: %w", err)
	}

	var err error
	switch jobType {
	case JobLowStock:
		err = w.cb.Execute(func() error {
			return w.mailer.SendLowStockAlert(payload.product())
		})
	case JobRestock:
		err = w.cb.Execute(func() error {
			return w.mailer.SendRestockConfirmation(payload.product(), payload.Added)
		})
	default:
		return fmt.Errorf("email_worker: unknown job type %q", jobType)
	}

	if err != nil {
		log.Error().Err(err).Str("type", jobType).Str("product_id", payload.ProductID).
			Msg("email_worker: send failed")
		return err
	}
	log.Info().Str("type", jobType).Str("product_id", payload.ProductID).
		Msg("email_worker: email sent")
	return nil
}

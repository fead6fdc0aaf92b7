package payment

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

type Repository interface {
	SavePayment(ctx context.Context, p *Payment) error
	UpdatePaymentStatus(ctx context.Context, orderRef uuid.UUID, status string) error

	// SaveWebhook records one delivery. A redelivery of the same event bumps
	// its attempt counter and reports whether it was already processed.
	SaveWebhook(
		ctx context.Context,
		provider string,
		eventID string,
		orderRef string,
		payload json.RawMessage,
		signatureValid bool,
	) (webhookID int64, alreadyProcessed bool, err error)

	MarkWebhookProcessed(ctx context.Context, webhookID int64) error
	MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) SavePayment(ctx context.Context, p *Payment) error {
	const q = `
	INSERT INTO payments (
		order_id,
		order_guid,
		provider,
		invoice_id,
		checkout_url,
		amount,
		currency,
		status
	)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING id, created_at, updated_at;
	`

	err := r.db.QueryRowContext(ctx, q,
		p.OrderID,
		p.OrderReference,
		ProviderSwissBitcoinPay,
		p.InvoiceID,
		p.CheckoutURL,
		p.Amount,
		p.Currency,
		p.Status,
	).Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

func (r *repository) UpdatePaymentStatus(ctx context.Context, orderRef uuid.UUID, status string) error {
	const q = `
	UPDATE payments
	SET status = $1, updated_at = now()
	WHERE order_guid = $2 AND provider = $3;
	`

	if _, err := r.db.ExecContext(ctx, q, status, orderRef, ProviderSwissBitcoinPay); err != nil {
		return fmt.Errorf("update payment status: %w", err)
	}
	return nil
}

func (r *repository) SaveWebhook(
	ctx context.Context,
	provider string,
	eventID string,
	orderRef string,
	payload json.RawMessage,
	signatureValid bool,
) (int64, bool, error) {

	const q = `
	INSERT INTO payment_webhooks (
		provider,
		event_id,
		order_ref,
		signature_valid,
		payload
	)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (provider, event_id)
	DO UPDATE SET attempts = payment_webhooks.attempts + 1
	RETURNING id, processed_at IS NOT NULL;
	`

	var (
		id        int64
		processed bool
	)
	err := r.db.QueryRowContext(ctx, q,
		provider,
		eventID,
		orderRef,
		signatureValid,
		[]byte(payload),
	).Scan(&id, &processed)
	if err != nil {
		return 0, false, fmt.Errorf("save webhook: %w", err)
	}

	return id, processed, nil
}

func (r *repository) MarkWebhookProcessed(ctx context.Context, webhookID int64) error {
	const q = `
	UPDATE payment_webhooks
	SET processed_at = now(), process_error = NULL
	WHERE id = $1;
	`

	_, err := r.db.ExecContext(ctx, q, webhookID)
	return err
}

func (r *repository) MarkWebhookFailed(ctx context.Context, webhookID int64, reason string) error {
	const q = `
	UPDATE payment_webhooks
	SET process_error = $2
	WHERE id = $1;
	`

	_, err := r.db.ExecContext(ctx, q, webhookID, reason)
	return err
}

package payment

import (
	"context"

	"sbp-gateway/internal/settings"
)

type Gateway interface {
	// CreateInvoice registers req with the processor and returns the invoice
	// whose CheckoutURL the buyer must be redirected to.
	CreateInvoice(ctx context.Context, cfg settings.Settings, req InvoiceRequest) (*Invoice, error)
}

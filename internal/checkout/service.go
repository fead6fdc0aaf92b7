package checkout

import (
	"context"
	"errors"
	"fmt"

	"sbp-gateway/internal/logger"
	"sbp-gateway/internal/metrics"
	"sbp-gateway/internal/order"
	"sbp-gateway/internal/payment"
	"sbp-gateway/internal/settings"
	"sbp-gateway/internal/utils"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const (
	completedPath = "checkout/completed"
	webhookPath   = "WebHookSwissBitcoinPay/Process"
)

type Service interface {
	// Checkout creates a SwissBitcoinPay invoice for a pending order owned by
	// customerID and returns the URL the buyer must be redirected to.
	Checkout(ctx context.Context, orderRef uuid.UUID, customerID int64) (string, error)

	// QuoteFee returns the handling fee the host adds to an order of total
	// placed in storeID. The fee is part of the order total at checkout.
	QuoteFee(ctx context.Context, storeID int64, total decimal.Decimal) (decimal.Decimal, error)
}

type service struct {
	orders   order.Service
	settings settings.Repository
	gateway  payment.Gateway
	payments payment.Repository
	metrics  *metrics.Registry
}

func NewService(
	orders order.Service,
	settingsRepo settings.Repository,
	gateway payment.Gateway,
	payments payment.Repository,
	reg *metrics.Registry,
) Service {
	return &service{
		orders:   orders,
		settings: settingsRepo,
		gateway:  gateway,
		payments: payments,
		metrics:  reg,
	}
}

func (s *service) Checkout(ctx context.Context, orderRef uuid.UUID, customerID int64) (string, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("order_ref", orderRef.String()),
		zap.Int64("customer_id", customerID),
	)

	o, err := s.orders.GetByReference(ctx, orderRef)
	if err != nil {
		return "", err
	}
	if o.CustomerID != customerID {
		log.Warn("checkout attempted for another customer's order")
		return "", order.ErrUnauthorized
	}
	if o.PaymentStatus != order.PaymentStatusPending {
		return "", fmt.Errorf("%w: status %s", ErrOrderNotPending, o.PaymentStatus)
	}

	store, err := s.settings.GetStore(ctx, o.StoreID)
	if err != nil {
		return "", fmt.Errorf("load store %d: %w", o.StoreID, err)
	}
	cfg, err := s.settings.LoadSettings(ctx, o.StoreID)
	if err != nil {
		return "", fmt.Errorf("load settings for store %d: %w", o.StoreID, err)
	}
	if err := cfg.CheckInvoicing(); err != nil {
		return "", err
	}

	// The host already added the handling fee to the order total.
	amount := o.Total

	req := payment.InvoiceRequest{
		CurrencyCode:   o.Currency,
		Amount:         amount,
		BuyerEmail:     o.CustomerEmail,
		BuyerName:      o.CustomerName,
		OrderReference: o.Reference,
		StoreID:        o.StoreID,
		CustomerID:     o.CustomerID,
		Description:    "From " + store.Name,
		RedirectURL:    utils.JoinURL(store.URL, completedPath),
		LocaleCode:     store.Locale(),
		WebhookURL:     utils.JoinURL(store.URL, webhookPath),
	}

	inv, err := s.gateway.CreateInvoice(ctx, *cfg, req)
	if err != nil {
		s.metrics.Inc(metrics.InvoicesFailed)
		log.Error("failed to create invoice", zap.Error(err))
		return "", fmt.Errorf("create invoice: %w", err)
	}
	s.metrics.Inc(metrics.InvoicesCreated)

	p := &payment.Payment{
		OrderID:        o.ID,
		OrderReference: o.Reference,
		InvoiceID:      inv.ID,
		CheckoutURL:    inv.CheckoutURL,
		Amount:         amount,
		Currency:       o.Currency,
		Status:         payment.StatusPending,
	}
	if err := s.payments.SavePayment(ctx, p); err != nil {
		// The webhook reconciles the order without this record.
		log.Error("failed to save payment record", zap.Error(err), zap.String("invoice_id", inv.ID))
	}

	log.Info("checkout redirect issued",
		zap.String("invoice_id", inv.ID),
		zap.String("amount", amount.StringFixed(2)),
	)
	return inv.CheckoutURL, nil
}

func (s *service) QuoteFee(ctx context.Context, storeID int64, total decimal.Decimal) (decimal.Decimal, error) {
	cfg, err := s.settings.LoadSettings(ctx, storeID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("load settings for store %d: %w", storeID, err)
	}
	return cfg.AdditionalFeeFor(total), nil
}

// IsRemoteFailure reports whether err came from the payment processor.
func IsRemoteFailure(err error) bool {
	var remote *payment.RemoteServiceError
	return errors.As(err, &remote)
}

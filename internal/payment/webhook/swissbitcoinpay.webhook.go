package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"sbp-gateway/internal/logger"
	"sbp-gateway/internal/metrics"
	"sbp-gateway/internal/order"
	"sbp-gateway/internal/payment"
	"sbp-gateway/internal/settings"

	"go.uber.org/zap"
)

const (
	maxBodyBytes   = 64 << 10
	defaultTimeout = 10 * time.Second
)

type Handler struct {
	OrderSvc    order.Service
	Settings    settings.Repository
	PaymentRepo payment.Repository
	Metrics     *metrics.Registry
	Timeout     time.Duration
}

func NewWebhookHandler(
	orderSvc order.Service,
	settingsRepo settings.Repository,
	paymentRepo payment.Repository,
	reg *metrics.Registry,
	timeout time.Duration,
) *Handler {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Handler{
		OrderSvc:    orderSvc,
		Settings:    settingsRepo,
		PaymentRepo: paymentRepo,
		Metrics:     reg,
		Timeout:     timeout,
	}
}

// PaymentWebhookHandler processes a SwissBitcoinPay callback. It answers 200
// once the delivery is reconciled (or is a replay), 422 for payloads that can
// never succeed and 400 for anything the processor should retry.
func (h *Handler) PaymentWebhookHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromCtx(ctx)
	timer := metrics.StartTimer()
	h.Metrics.Inc(metrics.WebhooksReceived)

	sig := r.Header.Get(payment.SignatureHeader)
	if sig == "" {
		h.reject(w, log, &AuthenticationError{Reason: "missing " + payment.SignatureHeader + " header"})
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		h.reject(w, log, &MalformedPayloadError{Reason: "unreadable body", Err: err})
		return
	}

	ev, err := ParseEvent(body)
	if err != nil {
		h.reject(w, log, err)
		return
	}

	ctx = logger.WithFields(ctx,
		zap.Int64("store_id", ev.StoreID),
		zap.String("order_ref", ev.OrderReference.String()),
	)
	log = logger.FromCtx(ctx)

	cfg, err := h.Settings.LoadSettings(ctx, ev.StoreID)
	if err != nil {
		if errors.Is(err, settings.ErrSettingsNotFound) {
			h.reject(w, log, &AuthenticationError{Reason: "no settings for store"})
			return
		}
		log.Error("failed to load settings", zap.Error(err))
		h.Metrics.Inc(metrics.WebhooksFailed)
		http.Error(w, "temporarily unavailable", http.StatusBadRequest)
		return
	}
	if !cfg.CanVerifyWebhooks() {
		h.reject(w, log, &AuthenticationError{Reason: "api secret not configured"})
		return
	}
	if !payment.VerifySignature(body, sig, cfg.APISecret) {
		h.reject(w, log, &AuthenticationError{Reason: "signature mismatch"})
		return
	}

	webhookID, processed, err := h.PaymentRepo.SaveWebhook(ctx,
		payment.ProviderSwissBitcoinPay,
		ev.Digest,
		ev.OrderReference.String(),
		json.RawMessage(body),
		true,
	)
	if err != nil {
		// The delivery log is audit only; reconciliation stays idempotent without it.
		log.Warn("failed to record webhook delivery", zap.Error(err))
	}
	if processed {
		log.Info("duplicate webhook delivery ignored", zap.Int64("webhook_id", webhookID))
		h.Metrics.Inc(metrics.WebhooksDuplicate)
		writeOK(w)
		return
	}

	applyCtx, cancel := context.WithTimeout(ctx, h.Timeout)
	defer cancel()

	tr, err := h.OrderSvc.ApplyPaymentEvent(applyCtx, ev.OrderReference, ev.PaymentEvent())
	if err != nil {
		h.markFailed(ctx, log, webhookID, err)
		if errors.Is(err, order.ErrOrderNotFound) {
			h.Metrics.Inc(metrics.WebhooksOrderNotFound)
			http.Error(w, "order not found", http.StatusUnprocessableEntity)
			return
		}
		log.Error("webhook processing failed", zap.Error(err))
		h.Metrics.Inc(metrics.WebhooksFailed)
		http.Error(w, "processing failed", http.StatusBadRequest)
		return
	}

	if webhookID != 0 {
		if err := h.PaymentRepo.MarkWebhookProcessed(ctx, webhookID); err != nil {
			log.Warn("failed to mark webhook processed", zap.Error(err))
		}
	}

	if tr.Applied {
		h.Metrics.Inc(metrics.WebhooksProcessed)
		if status, ok := paymentRecordStatus(tr.To); ok {
			if err := h.PaymentRepo.UpdatePaymentStatus(ctx, ev.OrderReference, status); err != nil {
				log.Warn("failed to update payment record", zap.Error(err))
			}
		}
	} else {
		h.Metrics.Inc(metrics.WebhooksNoop)
	}

	log.Info("webhook handled",
		zap.Bool("applied", tr.Applied),
		zap.Stringer("status", tr.To),
		zap.Duration("duration", timer.Duration()),
	)
	writeOK(w)
}

func (h *Handler) reject(w http.ResponseWriter, log *zap.Logger, err error) {
	var authErr *AuthenticationError
	if errors.As(err, &authErr) {
		log.Error("webhook rejected", zap.Error(err))
		h.Metrics.Inc(metrics.WebhooksRejectedAuth)
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	}

	log.Warn("webhook rejected", zap.Error(err))
	h.Metrics.Inc(metrics.WebhooksRejectedPayload)
	http.Error(w, "invalid payload", http.StatusUnprocessableEntity)
}

func (h *Handler) markFailed(ctx context.Context, log *zap.Logger, webhookID int64, cause error) {
	if webhookID == 0 {
		return
	}
	if err := h.PaymentRepo.MarkWebhookFailed(ctx, webhookID, cause.Error()); err != nil {
		log.Warn("failed to mark webhook failed", zap.Error(err))
	}
}

func paymentRecordStatus(s order.PaymentStatus) (string, bool) {
	switch s {
	case order.PaymentStatusPaid:
		return payment.StatusPaid, true
	case order.PaymentStatusVoided:
		return payment.StatusVoided, true
	}
	return "", false
}

func writeOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

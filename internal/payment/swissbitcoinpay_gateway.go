package payment

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"sbp-gateway/internal/logger"
	"sbp-gateway/internal/settings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxResponseBody = 1 << 20

type swissBitcoinPayGateway struct {
	httpClient *http.Client
	validate   *validator.Validate
}

func NewSwissBitcoinPayGateway(timeout time.Duration) Gateway {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &swissBitcoinPayGateway{
		httpClient: &http.Client{Timeout: timeout},
		validate:   validator.New(),
	}
}

func (g *swissBitcoinPayGateway) CreateInvoice(
	ctx context.Context,
	cfg settings.Settings,
	req InvoiceRequest,
) (*Invoice, error) {

	log := logger.FromCtx(ctx).With(
		zap.String("order_ref", req.OrderReference.String()),
		zap.Int64("store_id", req.StoreID),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("currency", req.CurrencyCode),
	)

	if err := g.validateRequest(req); err != nil {
		log.Warn("invoice request rejected", zap.Error(err))
		return nil, err
	}
	if err := cfg.CheckInvoicing(); err != nil {
		return nil, err
	}

	body, err := json.Marshal(swissBitcoinPayCheckout{
		Title:         "Order " + req.OrderReference.String(),
		Description:   EncodeDescription(req.Description, req.OrderReference, req.StoreID),
		Amount:        jsonAmount(req.Amount),
		Unit:          strings.ToUpper(req.CurrencyCode),
		OnChain:       cfg.AcceptOnChain,
		Email:         req.BuyerEmail,
		EmailLanguage: req.LocaleCode,
		Redirect:      req.RedirectURL,
		Webhook:       swissBitcoinPayWebhook{URL: req.WebhookURL},
		Extra: swissBitcoinPayExtra{
			CustomNote: req.BuyerName,
			CustomerID: req.CustomerID,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("marshal checkout request: %w", err)
	}

	endpoint := strings.TrimRight(cfg.APIURL, "/") + "/checkout"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &RemoteServiceError{Err: err}
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("api-key", cfg.APIKey)

	log.Info("sending checkout request to SwissBitcoinPay")

	resp, err := g.httpClient.Do(httpReq)
	if err != nil {
		log.Error("SwissBitcoinPay request failed", zap.Error(err))
		return nil, &RemoteServiceError{Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBody))
	if err != nil {
		log.Error("failed to read SwissBitcoinPay response", zap.Error(err))
		return nil, &RemoteServiceError{StatusCode: resp.StatusCode, Err: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		log.Error("SwissBitcoinPay returned non-success status",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("response", respBody),
		)
		return nil, &RemoteServiceError{
			StatusCode: resp.StatusCode,
			Body:       string(respBody),
			Err:        errors.New(http.StatusText(resp.StatusCode)),
		}
	}

	var out swissBitcoinPayCheckoutResponse
	if err := json.Unmarshal(respBody, &out); err != nil {
		log.Error("failed to decode SwissBitcoinPay response", zap.Error(err))
		return nil, &RemoteServiceError{Err: fmt.Errorf("decode response: %w", err)}
	}
	if out.CheckoutURL == "" {
		log.Error("SwissBitcoinPay response has no checkout url", zap.ByteString("response", respBody))
		return nil, &RemoteServiceError{Err: errors.New("response without checkoutUrl")}
	}

	log.Info("SwissBitcoinPay invoice created", zap.String("invoice_id", out.ID))

	return &Invoice{ID: out.ID, CheckoutURL: out.CheckoutURL}, nil
}

func (g *swissBitcoinPayGateway) validateRequest(req InvoiceRequest) error {
	if err := g.validate.Struct(req); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInvoiceRequest, err)
	}
	if !req.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", ErrInvalidInvoiceRequest)
	}
	if req.OrderReference == uuid.Nil {
		return fmt.Errorf("%w: missing order reference", ErrInvalidInvoiceRequest)
	}
	return nil
}

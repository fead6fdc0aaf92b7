package payment

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const ProviderSwissBitcoinPay = "SWISSBITCOINPAY"

const (
	StatusPending = "PENDING"
	StatusPaid    = "PAID"
	StatusVoided  = "VOIDED"
)

// InvoiceRequest is what checkout asks the processor to bill. It is not
// modified after CreateInvoice is called.
type InvoiceRequest struct {
	CurrencyCode   string          `validate:"required,len=3"`
	Amount         decimal.Decimal `validate:"-"`
	BuyerEmail     string          `validate:"omitempty,email"`
	BuyerName      string
	OrderReference uuid.UUID `validate:"-"`
	StoreID        int64     `validate:"gt=0"`
	CustomerID     int64     `validate:"gte=0"`
	Description    string    `validate:"required"`
	RedirectURL    string    `validate:"required,url"`
	LocaleCode     string    `validate:"required"`
	WebhookURL     string    `validate:"required,url"`
}

// Invoice is the processor-side checkout created for an InvoiceRequest.
type Invoice struct {
	ID          string
	CheckoutURL string
}

// Payment records an invoice issued for an order.
type Payment struct {
	ID             int64
	OrderID        int64
	OrderReference uuid.UUID
	InvoiceID      string
	CheckoutURL    string
	Amount         decimal.Decimal
	Currency       string
	Status         string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// swissBitcoinPayCheckout is the body of POST {apiUrl}/checkout.
type swissBitcoinPayCheckout struct {
	Title         string                 `json:"title"`
	Description   string                 `json:"description"`
	Amount        jsonAmount             `json:"amount"`
	Unit          string                 `json:"unit"`
	OnChain       bool                   `json:"onChain"`
	Email         string                 `json:"email,omitempty"`
	EmailLanguage string                 `json:"emailLanguage"`
	Redirect      string                 `json:"redirect"`
	Webhook       swissBitcoinPayWebhook `json:"webhook"`
	Extra         swissBitcoinPayExtra   `json:"extra"`
}

type swissBitcoinPayWebhook struct {
	URL string `json:"url"`
}

type swissBitcoinPayExtra struct {
	CustomNote string `json:"customNote,omitempty"`
	CustomerID int64  `json:"customerId"`
}

type swissBitcoinPayCheckoutResponse struct {
	ID          string `json:"id"`
	CheckoutURL string `json:"checkoutUrl"`
}

// jsonAmount encodes a decimal as a bare JSON number with two decimals.
type jsonAmount decimal.Decimal

func (a jsonAmount) MarshalJSON() ([]byte, error) {
	return []byte(decimal.Decimal(a).StringFixed(2)), nil
}

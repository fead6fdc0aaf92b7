package webhook

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"sbp-gateway/internal/order"
	"sbp-gateway/internal/payment"

	"github.com/google/uuid"
)

// payload is the subset of the SwissBitcoinPay callback body the service reads.
type payload struct {
	ID          string  `json:"id"`
	Description *string `json:"description"`
	IsPaid      *bool   `json:"isPaid"`
	IsExpired   *bool   `json:"isExpired"`
}

// Event is a parsed, not yet authenticated, webhook delivery.
type Event struct {
	// InvoiceID is the processor's id for the checkout, when present.
	InvoiceID      string
	OrderReference uuid.UUID
	StoreID        int64
	IsPaid         bool
	IsExpired      bool
	// Digest is the hex SHA-256 of the raw body and identifies the delivery.
	Digest string
}

func (e Event) PaymentEvent() order.PaymentEvent {
	return order.PaymentEvent{IsPaid: e.IsPaid, IsExpired: e.IsExpired}
}

// ParseEvent decodes body into an Event. Every failure is a *MalformedPayloadError.
func ParseEvent(body []byte) (Event, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return Event{}, &MalformedPayloadError{Reason: "empty body"}
	}

	var p payload
	if err := json.Unmarshal(body, &p); err != nil {
		return Event{}, &MalformedPayloadError{Reason: "invalid JSON", Err: err}
	}
	switch {
	case p.Description == nil:
		return Event{}, &MalformedPayloadError{Reason: "missing description"}
	case p.IsPaid == nil:
		return Event{}, &MalformedPayloadError{Reason: "missing isPaid"}
	case p.IsExpired == nil:
		return Event{}, &MalformedPayloadError{Reason: "missing isExpired"}
	}

	ref, storeID, err := payment.ParseDescription(*p.Description)
	if err != nil {
		return Event{}, &MalformedPayloadError{Reason: "invalid description", Err: err}
	}

	sum := sha256.Sum256(body)
	return Event{
		InvoiceID:      p.ID,
		OrderReference: ref,
		StoreID:        storeID,
		IsPaid:         *p.IsPaid,
		IsExpired:      *p.IsExpired,
		Digest:         hex.EncodeToString(sum[:]),
	}, nil
}

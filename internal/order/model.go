package order

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentStatus mirrors the host platform's payment status ids.
type PaymentStatus int

const (
	PaymentStatusPending           PaymentStatus = 10
	PaymentStatusAuthorized        PaymentStatus = 20
	PaymentStatusPaid              PaymentStatus = 30
	PaymentStatusPartiallyRefunded PaymentStatus = 35
	PaymentStatusRefunded          PaymentStatus = 40
	PaymentStatusVoided            PaymentStatus = 50
)

func (s PaymentStatus) String() string {
	switch s {
	case PaymentStatusPending:
		return "Pending"
	case PaymentStatusAuthorized:
		return "Authorized"
	case PaymentStatusPaid:
		return "Paid"
	case PaymentStatusPartiallyRefunded:
		return "PartiallyRefunded"
	case PaymentStatusRefunded:
		return "Refunded"
	case PaymentStatusVoided:
		return "Voided"
	default:
		return "Unknown"
	}
}

type Order struct {
	ID            int64
	Reference     uuid.UUID
	StoreID       int64
	CustomerID    int64
	CustomerEmail string
	CustomerName  string
	Currency      string
	Total         decimal.Decimal
	PaymentStatus PaymentStatus
}

// Note is an append-only entry in an order's history.
type Note struct {
	OrderID           int64
	Text              string
	DisplayToCustomer bool
	CreatedAt         time.Time
}

// PaymentEvent carries the flags a processor callback reports for an order.
type PaymentEvent struct {
	IsPaid    bool
	IsExpired bool
}

// Transition describes the outcome of applying a PaymentEvent.
type Transition struct {
	OrderID int64
	From    PaymentStatus
	To      PaymentStatus
	Applied bool
}

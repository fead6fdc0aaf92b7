package payment

import (
	"errors"
	"fmt"
)

var ErrInvalidInvoiceRequest = errors.New("invalid invoice request")

// RemoteServiceError reports a failed call to the payment processor.
// StatusCode is zero when no HTTP response was received.
type RemoteServiceError struct {
	StatusCode int
	Body       string
	Err        error
}

func (e *RemoteServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("swissbitcoinpay: unexpected status %d: %s", e.StatusCode, e.Body)
	}
	return fmt.Sprintf("swissbitcoinpay: %v", e.Err)
}

func (e *RemoteServiceError) Unwrap() error {
	return e.Err
}

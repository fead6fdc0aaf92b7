package order

import (
	"errors"
	"fmt"
)

var (
	ErrOrderNotFound = errors.New("order not found")
	ErrUnauthorized  = errors.New("unauthorized")

	// ErrOrderRowVanished is returned when a status update matches no row.
	ErrOrderRowVanished = errors.New("order row vanished")
)

// PersistenceError wraps an Order Store failure that happened after the
// transition decision. The processor is expected to retry the delivery.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("order store %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

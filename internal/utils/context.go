package utils

import "context"

type ctxKey string

const (
	customerIDKey      ctxKey = "customer_id"
	internalRequestKey ctxKey = "internal_request"
)

// SetCustomerContext stores the authenticated customer (called by middleware).
func SetCustomerContext(ctx context.Context, customerID int64) context.Context {
	return context.WithValue(ctx, customerIDKey, customerID)
}

// GetCustomerIDFromContext retrieves the customer id safely
func GetCustomerIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(customerIDKey).(int64)
	return id, ok
}

func WithInternalRequest(ctx context.Context) context.Context {
	return context.WithValue(ctx, internalRequestKey, true)
}

func IsInternalRequest(ctx context.Context) bool {
	v, _ := ctx.Value(internalRequestKey).(bool)
	return v
}

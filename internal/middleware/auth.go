package middleware

import (
	"net/http"

	"sbp-gateway/internal/auth"
	"sbp-gateway/internal/logger"
	"sbp-gateway/internal/utils"

	"go.uber.org/zap"
)

// CustomerAuth rejects requests without a valid customer token and stores the
// customer id in the request context.
func CustomerAuth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			customerID, err := auth.ParseCustomerToken(auth.ExtractAccessToken(r), secret)
			if err != nil {
				logger.FromCtx(r.Context()).Warn("customer authentication failed", zap.Error(err))
				utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			ctx := utils.SetCustomerContext(r.Context(), customerID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

package checkout

import (
	"errors"
	"net/http"
	"strconv"

	"sbp-gateway/internal/logger"
	"sbp-gateway/internal/order"
	"sbp-gateway/internal/settings"
	"sbp-gateway/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type Handler struct {
	svc Service
}

func NewHandler(svc Service) *Handler {
	return &Handler{svc: svc}
}

// Checkout serves POST /checkout/{orderRef} and redirects the buyer to the
// processor's payment page.
func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	customerID, ok := utils.GetCustomerIDFromContext(ctx)
	if !ok {
		utils.WriteJSONError(w, "unauthorized", http.StatusUnauthorized)
		return
	}

	ref, err := uuid.Parse(chi.URLParam(r, "orderRef"))
	if err != nil {
		utils.WriteJSONError(w, "invalid order reference", http.StatusBadRequest)
		return
	}

	redirectURL, err := h.svc.Checkout(ctx, ref, customerID)
	if err != nil {
		status, msg := statusFor(err)
		if status >= http.StatusInternalServerError {
			logger.FromCtx(ctx).Error("checkout failed", zap.Error(err), zap.String("order_ref", ref.String()))
		}
		utils.WriteJSONError(w, msg, status)
		return
	}

	http.Redirect(w, r, redirectURL, http.StatusSeeOther)
}

type feeQuoteResponse struct {
	StoreID int64  `json:"store_id"`
	Total   string `json:"total"`
	Fee     string `json:"fee"`
}

// FeeQuote serves GET /stores/{storeID}/payment-fee?total=<amount> so the
// host can add the handling fee to the order total before checkout.
func (h *Handler) FeeQuote(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	storeID, err := strconv.ParseInt(chi.URLParam(r, "storeID"), 10, 64)
	if err != nil || storeID <= 0 {
		utils.WriteJSONError(w, "invalid store id", http.StatusBadRequest)
		return
	}
	total, err := decimal.NewFromString(r.URL.Query().Get("total"))
	if err != nil || total.IsNegative() {
		utils.WriteJSONError(w, "invalid total", http.StatusBadRequest)
		return
	}

	fee, err := h.svc.QuoteFee(ctx, storeID, total)
	if err != nil {
		if errors.Is(err, settings.ErrSettingsNotFound) {
			utils.WriteJSONError(w, "store not configured", http.StatusNotFound)
			return
		}
		logger.FromCtx(ctx).Error("fee quote failed", zap.Error(err), zap.Int64("store_id", storeID))
		utils.WriteJSONError(w, "fee quote failed", http.StatusInternalServerError)
		return
	}

	utils.WriteJSON(w, http.StatusOK, feeQuoteResponse{
		StoreID: storeID,
		Total:   total.StringFixed(2),
		Fee:     fee.StringFixed(2),
	})
}

func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, order.ErrOrderNotFound), errors.Is(err, order.ErrUnauthorized):
		// Orders of other customers are reported as missing.
		return http.StatusNotFound, "order not found"
	case errors.Is(err, ErrOrderNotPending):
		return http.StatusConflict, "order is not awaiting payment"
	case IsRemoteFailure(err):
		return http.StatusBadGateway, "payment provider unavailable"
	default:
		return http.StatusInternalServerError, "checkout failed"
	}
}

package checkout

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"sbp-gateway/internal/order"
	"sbp-gateway/internal/payment"
	"sbp-gateway/internal/settings"
	"sbp-gateway/internal/utils"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func newTestRouter(svc Service, customerID int64) http.Handler {
	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if customerID != 0 {
				req = req.WithContext(utils.SetCustomerContext(req.Context(), customerID))
			}
			next.ServeHTTP(w, req)
		})
	})
	r.Post("/checkout/{orderRef}", NewHandler(svc).Checkout)
	return r
}

func TestHandler_Checkout(t *testing.T) {
	t.Run("Redirects", func(t *testing.T) {
		svc := new(MockService)
		svc.On("Checkout", mock.Anything, ref, int64(77)).Return("https://pay.example/inv-1", nil)

		w := httptest.NewRecorder()
		newTestRouter(svc, 77).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/checkout/"+ref.String(), nil))

		assert.Equal(t, http.StatusSeeOther, w.Code)
		assert.Equal(t, "https://pay.example/inv-1", w.Header().Get("Location"))
	})

	t.Run("NoCustomer", func(t *testing.T) {
		svc := new(MockService)

		w := httptest.NewRecorder()
		newTestRouter(svc, 0).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/checkout/"+ref.String(), nil))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		svc.AssertNotCalled(t, "Checkout", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("BadReference", func(t *testing.T) {
		svc := new(MockService)

		w := httptest.NewRecorder()
		newTestRouter(svc, 77).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/checkout/not-a-uuid", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	errorCases := []struct {
		name string
		err  error
		want int
	}{
		{"NotFound", order.ErrOrderNotFound, http.StatusNotFound},
		{"OtherCustomer", order.ErrUnauthorized, http.StatusNotFound},
		{"NotPending", fmt.Errorf("%w: status Paid", ErrOrderNotPending), http.StatusConflict},
		{"Remote", fmt.Errorf("create invoice: %w", &payment.RemoteServiceError{StatusCode: 500}), http.StatusBadGateway},
		{"Other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := new(MockService)
			svc.On("Checkout", mock.Anything, ref, int64(77)).Return("", tc.err)

			w := httptest.NewRecorder()
			newTestRouter(svc, 77).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/checkout/"+ref.String(), nil))

			assert.Equal(t, tc.want, w.Code)
			assert.Empty(t, w.Header().Get("Location"))
		})
	}
}

func TestHandler_FeeQuote(t *testing.T) {
	serve := func(svc Service, target string) *httptest.ResponseRecorder {
		r := chi.NewRouter()
		r.Get("/stores/{storeID}/payment-fee", NewHandler(svc).FeeQuote)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
		return w
	}

	t.Run("Quotes", func(t *testing.T) {
		svc := new(MockService)
		svc.On("QuoteFee", mock.Anything, int64(2), mock.MatchedBy(func(d decimal.Decimal) bool {
			return d.Equal(decimal.RequireFromString("100"))
		})).Return(decimal.RequireFromString("1.5"), nil)

		w := serve(svc, "/stores/2/payment-fee?total=100")

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"store_id":2,"total":"100.00","fee":"1.50"}`, w.Body.String())
	})

	badRequests := []string{
		"/stores/abc/payment-fee?total=10",
		"/stores/0/payment-fee?total=10",
		"/stores/2/payment-fee",
		"/stores/2/payment-fee?total=ten",
		"/stores/2/payment-fee?total=-1",
	}
	for _, target := range badRequests {
		t.Run("BadRequest "+target, func(t *testing.T) {
			svc := new(MockService)

			w := serve(svc, target)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			svc.AssertNotCalled(t, "QuoteFee", mock.Anything, mock.Anything, mock.Anything)
		})
	}

	t.Run("UnknownStore", func(t *testing.T) {
		svc := new(MockService)
		svc.On("QuoteFee", mock.Anything, int64(9), mock.Anything).
			Return(decimal.Zero, fmt.Errorf("load settings for store 9: %w", settings.ErrSettingsNotFound))

		w := serve(svc, "/stores/9/payment-fee?total=10")

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Failure", func(t *testing.T) {
		svc := new(MockService)
		svc.On("QuoteFee", mock.Anything, int64(2), mock.Anything).Return(decimal.Zero, errors.New("db down"))

		w := serve(svc, "/stores/2/payment-fee?total=10")

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}

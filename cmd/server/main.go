package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sbp-gateway/internal/checkout"
	"sbp-gateway/internal/config"
	"sbp-gateway/internal/db"
	"sbp-gateway/internal/logger"
	"sbp-gateway/internal/metrics"
	"sbp-gateway/internal/middleware"
	"sbp-gateway/internal/order"
	"sbp-gateway/internal/payment"
	"sbp-gateway/internal/payment/webhook"
	"sbp-gateway/internal/settings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

const (
	webhookPath       = "/webhook/swissbitcoinpay"
	legacyWebhookPath = "/WebHookSwissBitcoinPay/Process"
	shutdownTimeout   = 10 * time.Second
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = startServer
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return startServerFunc(ctx, ":"+cfg.AppPort, newServer(ctx, cfg, database))
}

type routes struct {
	webhook  http.HandlerFunc
	checkout http.HandlerFunc
	feeQuote http.HandlerFunc
	metrics  http.Handler

	limiter         *middleware.RateLimiter
	checkoutLimiter *middleware.RateLimiter
	// internalOnly restricts /metrics and the fee quote to X-Service-Auth callers.
	internalOnly bool
	jwtSecret    string
}

func newServer(ctx context.Context, cfg *config.Config, database *sql.DB) http.Handler {
	reg := metrics.Default()

	orderSvc := order.NewService(order.NewRepository(database))
	settingsRepo := settings.NewRepository(database)
	paymentRepo := payment.NewRepository(database)
	gateway := payment.NewSwissBitcoinPayGateway(cfg.SBPHTTPTimeout)

	webhookHandler := webhook.NewWebhookHandler(orderSvc, settingsRepo, paymentRepo, reg, cfg.WebhookTimeout)
	checkoutHandler := checkout.NewHandler(
		checkout.NewService(orderSvc, settingsRepo, gateway, paymentRepo, reg),
	)

	// Processor deliveries come from a handful of IPs and must not see 429.
	limiter := middleware.NewRateLimiter(cfg.InternalSecretKey, webhookPath, legacyWebhookPath)
	checkoutLimiter := middleware.NewStrictRateLimiter(cfg.InternalSecretKey)
	go limiter.Cleanup(ctx)
	go checkoutLimiter.Cleanup(ctx)

	return setupRouter(routes{
		webhook:         webhookHandler.PaymentWebhookHandler,
		checkout:        checkoutHandler.Checkout,
		feeQuote:        checkoutHandler.FeeQuote,
		metrics:         reg.Handler(),
		limiter:         limiter,
		checkoutLimiter: checkoutLimiter,
		internalOnly:    cfg.InternalSecretKey != "",
		jwtSecret:       cfg.JWTSecret,
	})
}

func setupRouter(rt routes) http.Handler {
	r := chi.NewRouter()

	r.Use(logger.RequestIDMiddleware)
	r.Use(logger.LoggingMiddleware)
	r.Use(chimw.Recoverer)
	if rt.limiter != nil {
		r.Use(rt.limiter.Middleware)
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	r.Post(webhookPath, rt.webhook)
	r.Post(legacyWebhookPath, rt.webhook)

	r.Group(func(r chi.Router) {
		if rt.internalOnly {
			r.Use(middleware.RequireInternal)
		}
		r.Method(http.MethodGet, "/metrics", rt.metrics)
		r.Get("/stores/{storeID}/payment-fee", rt.feeQuote)
	})

	r.Group(func(r chi.Router) {
		r.Use(middleware.CustomerAuth(rt.jwtSecret))
		if rt.checkoutLimiter != nil {
			r.Use(rt.checkoutLimiter.Middleware)
		}
		r.Post("/checkout/{orderRef}", rt.checkout)
	})

	return r
}

func startServer(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.L().Info("server running", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.L().Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.L().Info("server stopped")
	return nil
}

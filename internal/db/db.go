package db

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	"sbp-gateway/internal/config"
	"sbp-gateway/internal/logger"

	"github.com/cenkalti/backoff/v4"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// pingBackOff controls how the initial connection check is retried.
var pingBackOff = func(retries uint64) backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxElapsedTime = 30 * time.Second
	return backoff.WithMaxRetries(b, retries)
}

func buildDSN(cfg *config.Config) string {
	return fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)
}

// NewDatabase opens the Postgres pool holding orders, store settings and the payment log.
func NewDatabase(cfg *config.Config) (*sql.DB, error) {
	return newDatabaseWithDriver(cfg, "postgres")
}

func newDatabaseWithDriver(cfg *config.Config, driverName string) (*sql.DB, error) {
	db, err := sql.Open(driverName, buildDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}

	attempt := 0
	err = backoff.Retry(func() error {
		attempt++
		if err := db.Ping(); err != nil {
			logger.L().Warn("database ping failed",
				zap.Int("attempt", attempt),
				zap.String("host", cfg.DBHost),
				zap.Error(err),
			)
			return err
		}
		return nil
	}, pingBackOff(cfg.DBPingRetries))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping DB: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	logger.L().Info("Database connection established", zap.String("host", cfg.DBHost))
	return db, nil
}

func InitDB(cfg *config.Config) *sql.DB {
	db, err := NewDatabase(cfg)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return db
}

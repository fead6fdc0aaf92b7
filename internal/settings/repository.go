package settings

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type Repository interface {
	LoadSettings(ctx context.Context, storeID int64) (*Settings, error)
	GetStore(ctx context.Context, storeID int64) (*Store, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) LoadSettings(ctx context.Context, storeID int64) (*Settings, error) {
	const q = `
	SELECT store_id, api_url, api_key, api_secret, accept_on_chain,
		additional_fee, additional_fee_percentage
	FROM sbp_settings
	WHERE store_id = $1
	`

	var s Settings
	err := r.db.QueryRowContext(ctx, q, storeID).Scan(
		&s.StoreID, &s.APIURL, &s.APIKey, &s.APISecret, &s.AcceptOnChain,
		&s.AdditionalFee, &s.AdditionalFeePercentage,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSettingsNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load settings for store %d: %w", storeID, err)
	}
	return &s, nil
}

func (r *repository) GetStore(ctx context.Context, storeID int64) (*Store, error) {
	const q = `
	SELECT id, name, url, COALESCE(language_code, '')
	FROM stores
	WHERE id = $1
	`

	var st Store
	err := r.db.QueryRowContext(ctx, q, storeID).Scan(&st.ID, &st.Name, &st.URL, &st.LanguageCode)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStoreNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get store %d: %w", storeID, err)
	}
	return &st, nil
}

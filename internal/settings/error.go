package settings

import "errors"

var (
	ErrSettingsNotFound = errors.New("payment settings not found for store")
	ErrStoreNotFound    = errors.New("store not found")
	ErrNotConfigured    = errors.New("swissbitcoinpay gateway not configured")
)

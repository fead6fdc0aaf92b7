package settings

import "github.com/shopspring/decimal"

// Settings is the SwissBitcoinPay configuration of one store.
type Settings struct {
	StoreID       int64
	APIURL        string
	APIKey        string
	APISecret     string
	AcceptOnChain bool

	AdditionalFee decimal.Decimal
	// AdditionalFeePercentage makes AdditionalFee a percentage of the order total instead of a fixed amount.
	AdditionalFeePercentage bool
}

// Store is the public profile of a storefront.
type Store struct {
	ID           int64
	Name         string
	URL          string
	LanguageCode string
}

const DefaultLanguageCode = "en"

// Locale returns the store language or DefaultLanguageCode.
func (s Store) Locale() string {
	if s.LanguageCode == "" {
		return DefaultLanguageCode
	}
	return s.LanguageCode
}

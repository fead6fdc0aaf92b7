package settings

import (
	"fmt"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// AdditionalFeeFor returns the payment method fee added on top of total,
// rounded to two decimals. Non-positive fees add nothing.
func (s Settings) AdditionalFeeFor(total decimal.Decimal) decimal.Decimal {
	if !s.AdditionalFee.IsPositive() {
		return decimal.Zero
	}
	if s.AdditionalFeePercentage {
		return total.Mul(s.AdditionalFee).Div(hundred).Round(2)
	}
	return s.AdditionalFee.Round(2)
}

// CheckInvoicing reports whether invoices can be created with these settings.
func (s Settings) CheckInvoicing() error {
	if s.APIURL == "" || s.APIKey == "" {
		return fmt.Errorf("store %d: %w", s.StoreID, ErrNotConfigured)
	}
	return nil
}

// CanVerifyWebhooks reports whether a webhook secret is configured.
func (s Settings) CanVerifyWebhooks() bool {
	return s.APISecret != ""
}

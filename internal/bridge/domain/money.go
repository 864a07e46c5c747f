package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultCurrencyScale is the number of fractional digits balances are kept at.
const DefaultCurrencyScale int32 = 2

func ParseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, &InvalidArgumentsError{Msg: fmt.Sprintf("invalid amount %q", raw)}
	}
	return amount, nil
}

func RoundAmount(amount decimal.Decimal, scale int32) decimal.Decimal {
	return amount.Round(scale)
}

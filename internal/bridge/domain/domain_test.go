package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseRarity(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name        string
		raw         string
		expected    Rarity
		expectedErr error
	}

	tests := []testCase{
		{name: "empty defaults to common", raw: "", expected: RarityCommon},
		{name: "case insensitive", raw: " Legendary ", expected: RarityLegendary},
		{name: "ultra beast", raw: "ultra_beast", expected: RarityUltraBeast},
		{name: "unknown", raw: "starter", expectedErr: &InvalidArgumentsError{}},
	}

	for _, tc := range tests {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			res, err := ParseRarity(tt.raw)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, res)
		})
	}
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	wrappedUnavailable := fmt.Errorf("get balance: %w", &ServiceUnavailableError{Msg: "economy offline"})

	assert.True(t, IsTransient(wrappedUnavailable))
	assert.False(t, IsTransient(&InsufficientFundsError{}))

	assert.True(t, IsValidation(fmt.Errorf("withdraw: %w", &InsufficientFundsError{Msg: "insufficient funds"})))
	assert.True(t, IsValidation(&AccountNotFoundError{}))
	assert.False(t, IsValidation(wrappedUnavailable))
	assert.False(t, IsValidation(&InvariantViolationError{}))
}

func TestConfigurationError_Unwrap(t *testing.T) {
	t.Parallel()

	err := &ConfigurationError{Msg: "invalid rules", Err: &NoRuleMatchedError{Msg: "no fallback for sold"}}

	assert.ErrorIs(t, err, &NoRuleMatchedError{})
	assert.Equal(t, "invalid rules: no fallback for sold", err.Error())
}

func TestStock_PerPlayerLimit(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 0, Stock{Policy: StockUnlimited}.PerPlayerLimit())
	assert.Equal(t, 1, Stock{Policy: StockOncePerPlayer}.PerPlayerLimit())
	assert.Equal(t, 3, Stock{Policy: StockLimited, Limit: 3}.PerPlayerLimit())
}

func TestEventKind_RoundTrip(t *testing.T) {
	t.Parallel()

	for _, kind := range SupportedEventKinds {
		parsed, ok := ParseEventKind(kind.String())
		assert.True(t, ok)
		assert.Equal(t, kind, parsed)
	}

	_, ok := ParseEventKind("evolved")
	assert.False(t, ok)
}

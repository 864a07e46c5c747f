package config

import (
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
	"github.com/turiddu25/cobble-economy/internal/bridge/valuation"
)

func TestLoadBundle_Example(t *testing.T) {
	t.Parallel()

	bundle, err := LoadBundle(filepath.Join("testdata", "rules.yaml"))
	require.NoError(t, err)

	assert.Equal(t, int64(20241019), bundle.Rules.Seed())
	assert.Equal(t, int32(2), bundle.Rules.Scale())
	assert.Equal(t, 8, bundle.Rules.Len())

	catalog := bundle.Catalog
	assert.Equal(t, "Cobble Exchange", catalog.Title)
	assert.Equal(t, 9, catalog.PageSize)
	assert.Equal(t, domain.Currency{Symbol: "coins", Scale: 2}, catalog.Currency)
	require.Len(t, catalog.Offers, 4)

	pass, ok := catalog.Offer("premium-pass")
	require.True(t, ok)
	assert.Equal(t, domain.OfferBuy, pass.Kind)
	assert.Equal(t, domain.StockOncePerPlayer, pass.Stock.Policy)
	require.NotNil(t, pass.Price)
	assert.True(t, decimal.NewFromInt(1000).Equal(*pass.Price))

	sell, ok := catalog.Offer("sell-magikarp")
	require.True(t, ok)
	assert.Nil(t, sell.Price)
	require.NotNil(t, sell.Creature)
	assert.Equal(t, "magikarp", sell.Creature.Species)
	assert.Equal(t, domain.RarityCommon, sell.Creature.Rarity)
	assert.Equal(t, domain.DirectionCredit, sell.Direction())
}

func TestLoadBundle_ExampleValuation(t *testing.T) {
	t.Parallel()

	bundle, err := LoadBundle(filepath.Join("testdata", "rules.yaml"))
	require.NoError(t, err)

	engine := valuation.NewEngine(bundle.Rules)

	type testCase struct {
		name     string
		kind     domain.EventKind
		level    int
		expected string
	}

	tests := []testCase{
		{name: "capture uses default", kind: domain.EventCaptured, level: 10, expected: "6"},
		{name: "trade uses trade bonus", kind: domain.EventTraded, level: 10, expected: "2.50"},
		{name: "low level battle uses default", kind: domain.EventBattleWon, level: 10, expected: "6"},
		{name: "veteran battle", kind: domain.EventBattleWon, level: 50, expected: "25"},
	}

	for _, tc := range tests {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			amount, err := engine.Valuate(domain.DomainEvent{
				ID:     uuid.NewString(),
				Kind:   tt.kind,
				Player: uuid.New(),
				Creature: domain.Creature{
					Species: "bidoof",
					Level:   tt.level,
					Rarity:  domain.RarityCommon,
				},
			})
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(amount), "got %s", amount)
		})
	}
}

func TestLoadBundle_MissingFile(t *testing.T) {
	t.Parallel()

	_, err := LoadBundle(filepath.Join("testdata", "missing.yaml"))
	assert.ErrorIs(t, err, &domain.ConfigurationError{})
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("BRIDGE_TEST_SHOP_TITLE", "Night Market")

	file, err := Parse([]byte(`
rules:
  - name: default
    amount: "1"
shop:
  title: ${BRIDGE_TEST_SHOP_TITLE}
`))
	require.NoError(t, err)

	bundle, err := file.Compile()
	require.NoError(t, err)
	assert.Equal(t, "Night Market", bundle.Catalog.Title)
	assert.Equal(t, DefaultPageSize, bundle.Catalog.PageSize)
	assert.Equal(t, DefaultCurrencySymbol, bundle.Catalog.Currency.Symbol)
}

func TestFile_Compile(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name        string
		yaml        string
		expectedErr []error
	}

	tests := []testCase{
		{
			name: "minimal",
			yaml: `
rules:
  - name: default
    amount: "1"
`,
		},
		{
			name:        "no rules",
			yaml:        `seed: 1`,
			expectedErr: []error{&domain.ConfigurationError{}},
		},
		{
			name: "missing fallback",
			yaml: `
rules:
  - name: only-captures
    events: [captured]
    amount: "1"
`,
			expectedErr: []error{&domain.ConfigurationError{}, &domain.NoRuleMatchedError{}},
		},
		{
			name: "unknown event",
			yaml: `
rules:
  - name: default
    events: [evolved]
    amount: "1"
`,
			expectedErr: []error{&domain.ConfigurationError{}},
		},
		{
			name: "bad amount",
			yaml: `
rules:
  - name: default
    amount: "lots"
`,
			expectedErr: []error{&domain.ConfigurationError{}, &domain.InvalidArgumentsError{}},
		},
		{
			name: "negative amount",
			yaml: `
rules:
  - name: default
    amount: "-1"
`,
			expectedErr: []error{&domain.ConfigurationError{}},
		},
		{
			name: "bonus too large",
			yaml: `
rules:
  - name: default
    amount: "1"
    bonus_max: "92233720368547758.07"
`,
			expectedErr: []error{&domain.ConfigurationError{}},
		},
		{
			name: "buy offer without price",
			yaml: `
rules:
  - name: default
    amount: "1"
shop:
  offers:
    - id: candy
`,
			expectedErr: []error{&domain.ConfigurationError{}},
		},
		{
			name: "limited offer without limit",
			yaml: `
rules:
  - name: default
    amount: "1"
shop:
  offers:
    - id: candy
      price: "5"
      stock:
        policy: limited
`,
			expectedErr: []error{&domain.ConfigurationError{}},
		},
		{
			name: "duplicate offer ids",
			yaml: `
rules:
  - name: default
    amount: "1"
shop:
  offers:
    - id: candy
      price: "5"
    - id: candy
      price: "6"
`,
			expectedErr: []error{&domain.ConfigurationError{}},
		},
		{
			name: "sell creature out of range",
			yaml: `
rules:
  - name: default
    amount: "1"
shop:
  offers:
    - id: sell
      kind: sell
      creature:
        species: magikarp
        level: 101
`,
			expectedErr: []error{&domain.ConfigurationError{}},
		},
	}

	for _, tc := range tests {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			file, err := Parse([]byte(tt.yaml))
			require.NoError(t, err)

			bundle, err := file.Compile()
			if len(tt.expectedErr) > 0 {
				for _, expected := range tt.expectedErr {
					assert.ErrorIs(t, err, expected)
				}
				assert.Nil(t, bundle)
				return
			}
			assert.NoError(t, err)
			assert.NotNil(t, bundle)
		})
	}
}

func TestFile_Compile_ZeroScale(t *testing.T) {
	t.Parallel()

	file, err := Parse([]byte(`
rules:
  - name: default
    amount: "1"
currency:
  scale: 0
`))
	require.NoError(t, err)

	bundle, err := file.Compile()
	require.NoError(t, err)
	assert.Equal(t, int32(0), bundle.Rules.Scale())
	assert.Equal(t, int32(0), bundle.Catalog.Currency.Scale)
}

func TestFile_Compile_GeneratesSeed(t *testing.T) {
	t.Parallel()

	raw := []byte(`
rules:
  - name: default
    amount: "1"
    bonus_max: "100"
`)

	first, err := Parse(raw)
	require.NoError(t, err)
	second, err := Parse(raw)
	require.NoError(t, err)

	a, err := first.Compile()
	require.NoError(t, err)
	b, err := second.Compile()
	require.NoError(t, err)

	assert.NotEqual(t, a.Rules.Seed(), b.Rules.Seed())
}

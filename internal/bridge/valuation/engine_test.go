package valuation

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
)

type fixedRand struct {
	draw   int64
	bounds []int64
}

func (f *fixedRand) Int63n(n int64) int64 {
	f.bounds = append(f.bounds, n)
	if f.draw >= n {
		return n - 1
	}
	return f.draw
}

func boolPtr(b bool) *bool {
	return &b
}

func fallback(name string, amount string, kinds ...domain.EventKind) Rule {
	return Rule{Name: name, Events: kinds, Amount: decimal.RequireFromString(amount)}
}

func newEvent(kind domain.EventKind, species string, level int) domain.DomainEvent {
	return domain.DomainEvent{
		ID:     uuid.NewString(),
		Kind:   kind,
		Player: uuid.New(),
		Creature: domain.Creature{
			Species: species,
			Level:   level,
			Rarity:  domain.RarityCommon,
		},
	}
}

func TestNewRuleSet(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name        string
		rules       []Rule
		scale       int32
		expectedErr []error
	}

	tests := []testCase{
		{
			name:  "global fallback",
			rules: []Rule{fallback("default", "1")},
			scale: 2,
		},
		{
			name: "fallback per kind",
			rules: []Rule{
				fallback("captured", "1", domain.EventCaptured),
				fallback("traded", "1", domain.EventTraded),
				fallback("rest", "1", domain.EventSold, domain.EventBattleWon),
			},
			scale: 2,
		},
		{
			name: "missing fallback for sold",
			rules: []Rule{
				fallback("captured", "1", domain.EventCaptured, domain.EventTraded, domain.EventBattleWon),
				{Name: "pikachu", Species: "pikachu", Amount: decimal.NewFromInt(5)},
			},
			scale:       2,
			expectedErr: []error{&domain.ConfigurationError{}, &domain.NoRuleMatchedError{}},
		},
		{
			name:        "empty table",
			scale:       2,
			expectedErr: []error{&domain.ConfigurationError{}, &domain.NoRuleMatchedError{}},
		},
		{
			name: "negative amount",
			rules: []Rule{
				fallback("default", "1"),
				{Name: "bad", Species: "ditto", Amount: decimal.NewFromInt(-1)},
			},
			scale:       2,
			expectedErr: []error{&domain.ConfigurationError{}},
		},
		{
			name: "inverted level bounds",
			rules: []Rule{
				fallback("default", "1"),
				{Name: "bad", MinLevel: 50, MaxLevel: 10, Amount: decimal.NewFromInt(1)},
			},
			scale:       2,
			expectedErr: []error{&domain.ConfigurationError{}},
		},
		{
			name:        "duplicate names",
			rules:       []Rule{fallback("default", "1"), fallback("default", "2")},
			scale:       2,
			expectedErr: []error{&domain.ConfigurationError{}},
		},
		{
			name: "bonus too large for scale",
			rules: []Rule{
				fallback("default", "1"),
				{Name: "huge", Species: "ditto", Amount: decimal.NewFromInt(1), BonusMax: decimal.New(1, 17)},
			},
			scale:       2,
			expectedErr: []error{&domain.ConfigurationError{}},
		},
		{
			name:        "negative scale",
			rules:       []Rule{fallback("default", "1")},
			scale:       -1,
			expectedErr: []error{&domain.ConfigurationError{}},
		},
	}

	for _, tc := range tests {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rs, err := NewRuleSet(tt.rules, 42, tt.scale)
			if len(tt.expectedErr) > 0 {
				for _, expected := range tt.expectedErr {
					assert.ErrorIs(t, err, expected)
				}
				assert.Nil(t, rs)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, len(tt.rules), rs.Len())
		})
	}
}

func TestEngine_Valuate_Priority(t *testing.T) {
	t.Parallel()

	rules := []Rule{
		fallback("default", "1.00"),
		fallback("trade", "2.50", domain.EventTraded),
		{Name: "high level", MinLevel: 50, Amount: decimal.NewFromInt(20)},
		{Name: "legendary", Rarity: domain.RarityLegendary, Amount: decimal.NewFromInt(100)},
		{Name: "shiny", Shiny: boolPtr(true), Amount: decimal.NewFromInt(200)},
		{Name: "pikachu", Species: "Pikachu", Amount: decimal.NewFromInt(30)},
		{Name: "pikachu sale", Species: "pikachu", Events: []domain.EventKind{domain.EventSold}, Amount: decimal.NewFromInt(40)},
		{Name: "raichu", Species: "raichu", Amount: decimal.NewFromInt(50)},
		{Name: "raichu again", Species: "raichu", Amount: decimal.NewFromInt(60)},
	}
	rs, err := NewRuleSet(rules, 7, 2)
	require.NoError(t, err)

	engine := NewEngine(rs)

	type testCase struct {
		name     string
		event    domain.DomainEvent
		expected string
	}

	shinyLegend := newEvent(domain.EventCaptured, "mewtwo", 70)
	shinyLegend.Creature.Shiny = true
	shinyLegend.Creature.Rarity = domain.RarityLegendary

	legend := newEvent(domain.EventCaptured, "mewtwo", 70)
	legend.Creature.Rarity = domain.RarityLegendary

	tests := []testCase{
		{name: "fallback", event: newEvent(domain.EventCaptured, "bidoof", 5), expected: "1"},
		{name: "level rule", event: newEvent(domain.EventBattleWon, "bidoof", 60), expected: "20"},
		{name: "rarity beats level", event: legend, expected: "100"},
		{name: "shiny beats rarity", event: shinyLegend, expected: "200"},
		{name: "species match is case insensitive", event: newEvent(domain.EventCaptured, "PIKACHU", 60), expected: "30"},
		{name: "event scope beats unscoped species", event: newEvent(domain.EventSold, "pikachu", 10), expected: "40"},
		{name: "scoped fallback beats global fallback", event: newEvent(domain.EventTraded, "bidoof", 10), expected: "2.5"},
		{name: "global fallback covers other kinds", event: newEvent(domain.EventSold, "bidoof", 10), expected: "1"},
		{name: "first declared wins ties", event: newEvent(domain.EventCaptured, "raichu", 10), expected: "50"},
	}

	for _, tc := range tests {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			amount, err := engine.Valuate(tt.event)
			assert.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(amount), "got %s", amount)
		})
	}
}

func TestEngine_Valuate_PerLevelAndRounding(t *testing.T) {
	t.Parallel()

	rs, err := NewRuleSet([]Rule{{
		Name:     "default",
		Amount:   decimal.RequireFromString("0.50"),
		PerLevel: decimal.RequireFromString("0.125"),
	}}, 1, 2)
	require.NoError(t, err)

	amount, err := NewEngine(rs).Valuate(newEvent(domain.EventCaptured, "eevee", 3))
	require.NoError(t, err)

	// 0.50 + 3 * 0.125 = 0.875
	assert.Equal(t, "0.88", amount.StringFixed(2))
}

func TestEngine_Valuate_Deterministic(t *testing.T) {
	t.Parallel()

	rs, err := NewRuleSet([]Rule{{
		Name:     "default",
		Amount:   decimal.NewFromInt(10),
		BonusMax: decimal.NewFromInt(50),
	}}, 99, 2)
	require.NoError(t, err)

	engine := NewEngine(rs)
	event := newEvent(domain.EventCaptured, "charmander", 12)

	first, err := engine.Valuate(event)
	require.NoError(t, err)

	for range 20 {
		again, err := engine.Valuate(event)
		require.NoError(t, err)
		assert.True(t, first.Equal(again))
	}

	assert.True(t, first.GreaterThanOrEqual(decimal.NewFromInt(10)))
	assert.True(t, first.LessThanOrEqual(decimal.NewFromInt(60)))
}

func TestEngine_Valuate_BonusBounds(t *testing.T) {
	t.Parallel()

	rs, err := NewRuleSet([]Rule{{
		Name:     "default",
		Amount:   decimal.NewFromInt(1),
		BonusMax: decimal.RequireFromString("2.50"),
	}}, 5, 2)
	require.NoError(t, err)

	low := &fixedRand{draw: 0}
	amount, err := NewEngine(rs, WithRandFactory(func(int64) Rand { return low })).
		Valuate(newEvent(domain.EventCaptured, "zubat", 4))
	require.NoError(t, err)
	assert.Equal(t, "1.00", amount.StringFixed(2))
	assert.Equal(t, []int64{251}, low.bounds)

	high := &fixedRand{draw: 1 << 40}
	amount, err = NewEngine(rs, WithRandFactory(func(int64) Rand { return high })).
		Valuate(newEvent(domain.EventCaptured, "zubat", 4))
	require.NoError(t, err)
	assert.Equal(t, "3.50", amount.StringFixed(2))
}

func TestEngine_Valuate_SeedDependsOnEvent(t *testing.T) {
	t.Parallel()

	rs, err := NewRuleSet([]Rule{{
		Name:     "default",
		Amount:   decimal.Zero,
		BonusMax: decimal.NewFromInt(1),
	}}, 11, 2)
	require.NoError(t, err)

	var seeds []int64
	engine := NewEngine(rs, WithRandFactory(func(seed int64) Rand {
		seeds = append(seeds, seed)
		return &fixedRand{}
	}))

	event := newEvent(domain.EventCaptured, "abra", 8)
	_, err = engine.Valuate(event)
	require.NoError(t, err)
	_, err = engine.Valuate(event)
	require.NoError(t, err)

	other := event
	other.ID = uuid.NewString()
	_, err = engine.Valuate(other)
	require.NoError(t, err)

	require.Len(t, seeds, 3)
	assert.Equal(t, seeds[0], seeds[1])
	assert.NotEqual(t, seeds[0], seeds[2])
}

func TestEngine_Replace(t *testing.T) {
	t.Parallel()

	first, err := NewRuleSet([]Rule{fallback("default", "1")}, 1, 2)
	require.NoError(t, err)
	second, err := NewRuleSet([]Rule{fallback("default", "9")}, 1, 2)
	require.NoError(t, err)

	engine := NewEngine(first)
	event := newEvent(domain.EventTraded, "onix", 20)

	amount, err := engine.Valuate(event)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1).Equal(amount))

	engine.Replace(second)

	amount, err = engine.Valuate(event)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(9).Equal(amount))
	assert.Same(t, second, engine.RuleSet())
}

func TestEngine_Valuate_UnknownKind(t *testing.T) {
	t.Parallel()

	rs, err := NewRuleSet([]Rule{fallback("default", "1", domain.SupportedEventKinds...)}, 1, 2)
	require.NoError(t, err)

	_, err = NewEngine(rs).Valuate(newEvent(domain.EventKind(99), "onix", 20))
	assert.ErrorIs(t, err, &domain.NoRuleMatchedError{})
}

func TestNewSeed(t *testing.T) {
	t.Parallel()

	a, err := NewSeed()
	require.NoError(t, err)
	b, err := NewSeed()
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

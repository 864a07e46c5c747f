package valuation

import (
	"fmt"
	"sync/atomic"

	"github.com/shopspring/decimal"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
)

type Option func(*Engine)

func WithRandFactory(factory RandFactory) Option {
	return func(e *Engine) {
		e.randFactory = factory
	}
}

type Engine struct {
	snapshot    atomic.Pointer[RuleSet]
	randFactory RandFactory
}

func NewEngine(rules *RuleSet, opts ...Option) *Engine {
	e := &Engine{
		randFactory: MathRandFactory,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.snapshot.Store(rules)
	return e
}

// Replace swaps in a new rule set. Valuations already running keep the snapshot they loaded.
func (e *Engine) Replace(rules *RuleSet) {
	e.snapshot.Store(rules)
}

func (e *Engine) RuleSet() *RuleSet {
	return e.snapshot.Load()
}

func (e *Engine) Valuate(event domain.DomainEvent) (decimal.Decimal, error) {
	rules := e.snapshot.Load()

	rule, ok := rules.match(event)
	if !ok {
		return decimal.Decimal{}, &domain.NoRuleMatchedError{
			Msg: fmt.Sprintf("no valuation rule matches %s event for %s", event.Kind, event.Creature.Species),
		}
	}

	amount := rule.Amount.Add(rule.PerLevel.Mul(decimal.NewFromInt(int64(event.Creature.Level))))

	if rule.BonusMax.IsPositive() {
		maxMinor := rule.BonusMax.Shift(rules.scale).IntPart()
		if maxMinor > 0 {
			draw := e.randFactory(eventSeed(rules.seed, event)).Int63n(maxMinor + 1)
			amount = amount.Add(decimal.New(draw, -rules.scale))
		}
	}

	return domain.RoundAmount(amount, rules.scale), nil
}

package valuation

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
)

// Predicate weights. An event scope ranks below every creature predicate, so a scoped
// fallback still beats the global one.
const (
	speciesWeight = 16
	shinyWeight   = 8
	rarityWeight  = 4
	levelWeight   = 2
	eventsWeight  = 1
)

type Rule struct {
	Name string

	// Events limits the rule to these kinds; empty means every kind.
	Events   []domain.EventKind
	Species  string
	Shiny    *bool
	Rarity   domain.Rarity
	MinLevel int
	MaxLevel int

	Amount   decimal.Decimal
	PerLevel decimal.Decimal
	BonusMax decimal.Decimal
}

func (r Rule) specificity() int {
	score := 0
	if r.Species != "" {
		score += speciesWeight
	}
	if r.Shiny != nil {
		score += shinyWeight
	}
	if r.Rarity != "" {
		score += rarityWeight
	}
	if r.MinLevel > 0 || r.MaxLevel > 0 {
		score += levelWeight
	}
	if len(r.Events) > 0 {
		score += eventsWeight
	}
	return score
}

// IsFallback reports whether the rule has no creature predicate.
func (r Rule) IsFallback() bool {
	return r.Species == "" && r.Shiny == nil && r.Rarity == "" && r.MinLevel == 0 && r.MaxLevel == 0
}

func (r Rule) coversKind(kind domain.EventKind) bool {
	return len(r.Events) == 0 || slices.Contains(r.Events, kind)
}

func (r Rule) matches(event domain.DomainEvent) bool {
	if !r.coversKind(event.Kind) {
		return false
	}

	c := event.Creature
	if r.Species != "" && r.Species != domain.NormalizeSpecies(c.Species) {
		return false
	}
	if r.Shiny != nil && *r.Shiny != c.Shiny {
		return false
	}
	if r.Rarity != "" && r.Rarity != c.Rarity {
		return false
	}
	if r.MinLevel > 0 && c.Level < r.MinLevel {
		return false
	}
	if r.MaxLevel > 0 && c.Level > r.MaxLevel {
		return false
	}

	return true
}

func (r Rule) validate() error {
	if r.Name == "" {
		return errors.New("rule name is required")
	}
	if r.Amount.IsNegative() {
		return fmt.Errorf("rule %s: amount must be >= 0", r.Name)
	}
	if r.PerLevel.IsNegative() {
		return fmt.Errorf("rule %s: per_level must be >= 0", r.Name)
	}
	if r.BonusMax.IsNegative() {
		return fmt.Errorf("rule %s: bonus_max must be >= 0", r.Name)
	}
	if r.MinLevel < 0 || r.MaxLevel < 0 {
		return fmt.Errorf("rule %s: level bounds must be >= 0", r.Name)
	}
	if r.MaxLevel > 0 && r.MinLevel > r.MaxLevel {
		return fmt.Errorf("rule %s: min_level (%d) cannot exceed max_level (%d)", r.Name, r.MinLevel, r.MaxLevel)
	}
	return nil
}

// MaxBonus bounds BonusMax so the bonus stays drawable in minor units at any supported scale.
var MaxBonus = decimal.New(1, 9)

var maxMinorBonus = decimal.NewFromInt(math.MaxInt64 - 1)

// RuleSet is an immutable, validated rule table.
type RuleSet struct {
	rules []Rule
	seed  int64
	scale int32
}

// NewRuleSet validates rules and orders them by priority. Every supported event kind must be
// covered by a fallback rule; a missing fallback is reported as a ConfigurationError wrapping
// NoRuleMatchedError.
func NewRuleSet(rules []Rule, seed int64, scale int32) (*RuleSet, error) {
	if scale < 0 {
		return nil, &domain.ConfigurationError{Msg: "invalid rule set", Err: fmt.Errorf("currency scale must be >= 0, got %d", scale)}
	}

	names := make(map[string]struct{}, len(rules))
	ordered := make([]Rule, 0, len(rules))
	for _, rule := range rules {
		rule.Species = domain.NormalizeSpecies(rule.Species)
		if err := rule.validate(); err != nil {
			return nil, &domain.ConfigurationError{Msg: "invalid rule set", Err: err}
		}
		if rule.BonusMax.Shift(scale).GreaterThan(maxMinorBonus) {
			return nil, &domain.ConfigurationError{
				Msg: "invalid rule set",
				Err: fmt.Errorf("rule %s: bonus_max %s is too large for scale %d", rule.Name, rule.BonusMax, scale),
			}
		}
		if _, dup := names[rule.Name]; dup {
			return nil, &domain.ConfigurationError{Msg: "invalid rule set", Err: fmt.Errorf("duplicate rule name %s", rule.Name)}
		}
		names[rule.Name] = struct{}{}
		ordered = append(ordered, rule)
	}

	var missing []string
	for _, kind := range domain.SupportedEventKinds {
		covered := slices.ContainsFunc(ordered, func(r Rule) bool {
			return r.IsFallback() && r.coversKind(kind)
		})
		if !covered {
			missing = append(missing, kind.String())
		}
	}
	if len(missing) > 0 {
		return nil, &domain.ConfigurationError{
			Msg: "invalid rule set",
			Err: &domain.NoRuleMatchedError{Msg: "no fallback rule for " + strings.Join(missing, ", ")},
		}
	}

	slices.SortStableFunc(ordered, func(a, b Rule) int {
		return b.specificity() - a.specificity()
	})

	return &RuleSet{
		rules: ordered,
		seed:  seed,
		scale: scale,
	}, nil
}

func (rs *RuleSet) Seed() int64 {
	return rs.seed
}

func (rs *RuleSet) Scale() int32 {
	return rs.scale
}

func (rs *RuleSet) Len() int {
	return len(rs.rules)
}

// Rules returns a copy of the rules in priority order.
func (rs *RuleSet) Rules() []Rule {
	return slices.Clone(rs.rules)
}

func (rs *RuleSet) match(event domain.DomainEvent) (Rule, bool) {
	for _, rule := range rs.rules {
		if rule.matches(event) {
			return rule, true
		}
	}
	return Rule{}, false
}

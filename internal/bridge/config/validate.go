package config

import (
	"errors"
	"fmt"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
	"github.com/turiddu25/cobble-economy/internal/bridge/valuation"
)

// Validate checks the shape of the file. Rule table semantics such as fallback coverage are
// checked when the rule set is built.
func (f *File) Validate() error {
	if f.Currency.Scale != nil && (*f.Currency.Scale < 0 || *f.Currency.Scale > 8) {
		return fmt.Errorf("currency.scale must be between 0 and 8, got %d", *f.Currency.Scale)
	}

	if len(f.Rules) == 0 {
		return errors.New("rules must not be empty")
	}
	for i, rule := range f.Rules {
		if err := rule.validate(fmt.Sprintf("rules[%d]", i)); err != nil {
			return err
		}
	}

	if f.Shop.PageSize < 1 {
		return fmt.Errorf("shop.page_size must be >= 1, got %d", f.Shop.PageSize)
	}

	ids := make(map[string]struct{}, len(f.Shop.Offers))
	for i, offer := range f.Shop.Offers {
		prefix := fmt.Sprintf("shop.offers[%d]", i)
		if err := offer.validate(prefix); err != nil {
			return err
		}
		if _, dup := ids[offer.ID]; dup {
			return fmt.Errorf("%s.id %q is duplicated", prefix, offer.ID)
		}
		ids[offer.ID] = struct{}{}
	}

	return nil
}

func (r *RuleConfig) validate(prefix string) error {
	if r.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	for _, event := range r.Events {
		if _, ok := domain.ParseEventKind(event); !ok {
			return fmt.Errorf("%s.events: unknown event %q", prefix, event)
		}
	}
	if r.Rarity != "" {
		if _, err := domain.ParseRarity(r.Rarity); err != nil {
			return fmt.Errorf("%s.rarity: %w", prefix, err)
		}
	}
	if r.Amount == "" {
		return fmt.Errorf("%s.amount is required", prefix)
	}
	for field, raw := range map[string]string{"amount": r.Amount, "per_level": r.PerLevel, "bonus_max": r.BonusMax} {
		if raw == "" {
			continue
		}
		amount, err := domain.ParseAmount(raw)
		if err != nil {
			return fmt.Errorf("%s.%s: %w", prefix, field, err)
		}
		if field == "bonus_max" && amount.GreaterThan(valuation.MaxBonus) {
			return fmt.Errorf("%s.bonus_max must be <= %s", prefix, valuation.MaxBonus)
		}
	}
	return nil
}

func (o *OfferConfig) validate(prefix string) error {
	if o.ID == "" {
		return fmt.Errorf("%s.id is required", prefix)
	}

	switch domain.OfferKind(o.Kind) {
	case domain.OfferBuy:
		if o.Price == "" {
			return fmt.Errorf("%s.price is required for buy offers", prefix)
		}
	case domain.OfferSell:
		if o.Price == "" && o.Creature == nil {
			return fmt.Errorf("%s: sell offers need a price or a creature", prefix)
		}
	default:
		return fmt.Errorf("%s.kind must be buy or sell, got %q", prefix, o.Kind)
	}

	if o.Price != "" {
		price, err := domain.ParseAmount(o.Price)
		if err != nil {
			return fmt.Errorf("%s.price: %w", prefix, err)
		}
		if price.IsNegative() {
			return fmt.Errorf("%s.price must be >= 0", prefix)
		}
	}

	if c := o.Creature; c != nil {
		if domain.NormalizeSpecies(c.Species) == "" {
			return fmt.Errorf("%s.creature.species is required", prefix)
		}
		if c.Level < domain.MinCreatureLevel || c.Level > domain.MaxCreatureLevel {
			return fmt.Errorf("%s.creature.level must be between %d and %d, got %d",
				prefix, domain.MinCreatureLevel, domain.MaxCreatureLevel, c.Level)
		}
		if _, err := domain.ParseRarity(c.Rarity); err != nil {
			return fmt.Errorf("%s.creature.rarity: %w", prefix, err)
		}
	}

	switch domain.StockPolicy(o.Stock.Policy) {
	case domain.StockUnlimited, domain.StockOncePerPlayer:
	case domain.StockLimited:
		if o.Stock.Limit < 1 {
			return fmt.Errorf("%s.stock.limit must be >= 1 for limited offers", prefix)
		}
	default:
		return fmt.Errorf("%s.stock.policy %q is unknown", prefix, o.Stock.Policy)
	}

	return nil
}

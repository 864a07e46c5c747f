package config

import (
	"github.com/shopspring/decimal"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
	"github.com/turiddu25/cobble-economy/internal/bridge/valuation"
)

func optionalAmount(raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, nil
	}
	return domain.ParseAmount(raw)
}

func (f *File) buildRules() ([]valuation.Rule, error) {
	rules := make([]valuation.Rule, 0, len(f.Rules))
	for _, rc := range f.Rules {
		rule := valuation.Rule{
			Name:     rc.Name,
			Species:  rc.Species,
			Shiny:    rc.Shiny,
			MinLevel: rc.MinLevel,
			MaxLevel: rc.MaxLevel,
		}

		for _, raw := range rc.Events {
			kind, _ := domain.ParseEventKind(raw)
			rule.Events = append(rule.Events, kind)
		}

		if rc.Rarity != "" {
			rarity, err := domain.ParseRarity(rc.Rarity)
			if err != nil {
				return nil, err
			}
			rule.Rarity = rarity
		}

		var err error
		if rule.Amount, err = domain.ParseAmount(rc.Amount); err != nil {
			return nil, err
		}
		if rule.PerLevel, err = optionalAmount(rc.PerLevel); err != nil {
			return nil, err
		}
		if rule.BonusMax, err = optionalAmount(rc.BonusMax); err != nil {
			return nil, err
		}

		rules = append(rules, rule)
	}

	return rules, nil
}

func (f *File) buildCatalog() (domain.Catalog, error) {
	catalog := domain.Catalog{
		Title:    f.Shop.Title,
		PageSize: f.Shop.PageSize,
		Currency: domain.Currency{
			Symbol: f.Currency.Symbol,
			Scale:  *f.Currency.Scale,
		},
		Offers: make([]domain.ShopOffer, 0, len(f.Shop.Offers)),
	}

	for _, oc := range f.Shop.Offers {
		offer := domain.ShopOffer{
			ID:      oc.ID,
			Display: oc.Display,
			Icon:    oc.Icon,
			Lore:    oc.Lore,
			Kind:    domain.OfferKind(oc.Kind),
			Stock: domain.Stock{
				Policy: domain.StockPolicy(oc.Stock.Policy),
				Limit:  oc.Stock.Limit,
			},
		}

		if oc.Price != "" {
			price, err := domain.ParseAmount(oc.Price)
			if err != nil {
				return domain.Catalog{}, err
			}
			price = domain.RoundAmount(price, catalog.Currency.Scale)
			offer.Price = &price
		}

		if oc.Creature != nil {
			rarity, err := domain.ParseRarity(oc.Creature.Rarity)
			if err != nil {
				return domain.Catalog{}, err
			}
			offer.Creature = &domain.Creature{
				Species: domain.NormalizeSpecies(oc.Creature.Species),
				Level:   oc.Creature.Level,
				Rarity:  rarity,
				Shiny:   oc.Creature.Shiny,
			}
		}

		catalog.Offers = append(catalog.Offers, offer)
	}

	return catalog, nil
}

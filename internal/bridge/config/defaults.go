package config

import (
	"strings"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
)

const (
	DefaultCurrencySymbol = "coins"
	DefaultShopTitle      = "Exchange"
	DefaultPageSize       = 9
)

func (f *File) applyDefaults() {
	if f.Currency.Symbol == "" {
		f.Currency.Symbol = DefaultCurrencySymbol
	}
	if f.Currency.Scale == nil {
		scale := domain.DefaultCurrencyScale
		f.Currency.Scale = &scale
	}

	if f.Shop.Title == "" {
		f.Shop.Title = DefaultShopTitle
	}
	if f.Shop.PageSize == 0 {
		f.Shop.PageSize = DefaultPageSize
	}

	for i := range f.Shop.Offers {
		offer := &f.Shop.Offers[i]
		offer.Kind = strings.ToLower(strings.TrimSpace(offer.Kind))
		if offer.Kind == "" {
			offer.Kind = string(domain.OfferBuy)
		}
		if offer.Display == "" {
			offer.Display = offer.ID
		}
		if offer.Stock.Policy == "" {
			offer.Stock.Policy = string(domain.StockUnlimited)
		}
		if offer.Creature != nil && offer.Creature.Level == 0 {
			offer.Creature.Level = domain.MinCreatureLevel
		}
	}
}

package bootstrap

import (
	"context"
	"sync"

	"github.com/turiddu25/cobble-economy/internal/bridge/config"
	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
	"github.com/turiddu25/cobble-economy/internal/bridge/valuation"
)

type catalogReplacer interface {
	Replace(catalog domain.Catalog)
}

type currencySetter interface {
	SetCurrency(currency domain.Currency)
}

// configReloader re-reads the rules file and swaps the rule set, the catalog and the currency
// together. A file that fails to load leaves everything as it was.
type configReloader struct {
	path    string
	engine  *valuation.Engine
	catalog catalogReplacer

	mu       sync.Mutex
	currency currencySetter
}

func newConfigReloader(path string, engine *valuation.Engine, catalog catalogReplacer) *configReloader {
	return &configReloader{
		path:    path,
		engine:  engine,
		catalog: catalog,
	}
}

func (r *configReloader) setCurrencySetter(currency currencySetter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.currency = currency
}

func (r *configReloader) Reload(ctx context.Context) (domain.ReloadReport, error) {
	if err := ctx.Err(); err != nil {
		return domain.ReloadReport{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	bundle, err := config.LoadBundle(r.path)
	if err != nil {
		return domain.ReloadReport{}, err
	}

	r.engine.Replace(bundle.Rules)
	r.catalog.Replace(bundle.Catalog)
	if r.currency != nil {
		r.currency.SetCurrency(bundle.Catalog.Currency)
	}

	return domain.ReloadReport{
		Rules:  bundle.Rules.Len(),
		Offers: len(bundle.Catalog.Offers),
	}, nil
}

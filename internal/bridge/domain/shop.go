package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

const (
	ShopReasonPrefix   = "shop:"
	RefundReasonPrefix = "refund:"
)

// ShopReason is the journal reason of a shop transaction for offerID.
func ShopReason(offerID string) string {
	return ShopReasonPrefix + offerID
}

// RefundedOffer returns the offer id a refund reason gives back.
func RefundedOffer(reason string) (string, bool) {
	return strings.CutPrefix(reason, RefundReasonPrefix+ShopReasonPrefix)
}

type OfferKind string

const (
	OfferBuy  OfferKind = "buy"
	OfferSell OfferKind = "sell"
)

type StockPolicy string

const (
	StockUnlimited     StockPolicy = "unlimited"
	StockLimited       StockPolicy = "limited"
	StockOncePerPlayer StockPolicy = "once_per_player"
)

type Stock struct {
	Policy StockPolicy
	Limit  int
}

// PerPlayerLimit returns how many times one player may take the offer; 0 means no limit.
func (s Stock) PerPlayerLimit() int {
	switch s.Policy {
	case StockOncePerPlayer:
		return 1
	case StockLimited:
		return s.Limit
	default:
		return 0
	}
}

// ShopOffer is an item presented in the exchange menu. Price is fixed when set; otherwise
// the offer is a sell offer priced by valuating Creature as a sale.
type ShopOffer struct {
	ID       string
	Display  string
	Icon     string
	Lore     []string
	Kind     OfferKind
	Price    *decimal.Decimal
	Creature *Creature
	Stock    Stock
}

func (o ShopOffer) Direction() Direction {
	if o.Kind == OfferSell {
		return DirectionCredit
	}
	return DirectionDebit
}

type Currency struct {
	Symbol string
	Scale  int32
}

// Catalog is the full set of offers shown by the exchange menu.
type Catalog struct {
	Title    string
	PageSize int
	Currency Currency
	Offers   []ShopOffer
}

func (c Catalog) Offer(id string) (ShopOffer, bool) {
	for _, offer := range c.Offers {
		if offer.ID == id {
			return offer, true
		}
	}
	return ShopOffer{}, false
}

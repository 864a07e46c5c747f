package shop

import (
	"github.com/google/uuid"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
)

const (
	StatusProcessing        = "Processing…"
	StatusInsufficientFunds = "Insufficient funds"
	StatusOutOfStock        = "Out of stock"
	StatusUnknownOffer      = "Unknown offer"
	StatusUnavailable       = "Economy unavailable, try again later"
	StatusFailed            = "Transaction failed"
	StatusCancelled         = "Transaction cancelled"
)

// Menu describes one rendered page of the exchange GUI.
type Menu struct {
	Player  uuid.UUID  `json:"player"`
	Title   string     `json:"title"`
	Page    int        `json:"page"`
	Pages   int        `json:"pages"`
	HasPrev bool       `json:"has_prev"`
	HasNext bool       `json:"has_next"`
	Items   []MenuItem `json:"items"`
	Status  string     `json:"status,omitempty"`
}

type MenuItem struct {
	Slot      int              `json:"slot"`
	OfferID   string           `json:"offer_id"`
	Display   string           `json:"display"`
	Icon      string           `json:"icon,omitempty"`
	Lore      []string         `json:"lore,omitempty"`
	Kind      domain.OfferKind `json:"kind"`
	Price     string           `json:"price"`
	Available bool             `json:"available"`
	// Remaining is the number of times the player may still take the offer; -1 means unlimited.
	Remaining int `json:"remaining"`
}

// MenuPublisher pushes refreshed menus to an open GUI.
type MenuPublisher interface {
	PublishMenu(menu Menu)
}

func pageCount(offers, pageSize int) int {
	if offers == 0 {
		return 1
	}
	pageSize = max(pageSize, 1)
	return (offers + pageSize - 1) / pageSize
}

func clampPage(page, pages int) int {
	return min(max(page, 1), pages)
}

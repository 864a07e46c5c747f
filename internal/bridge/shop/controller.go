package shop

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/turiddu25/cobble-economy/internal/bridge/coordinator"
	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
	"github.com/turiddu25/cobble-economy/internal/pkg/logging"
)

type Submitter interface {
	Submit(ctx context.Context, request domain.TransactionRequest) (*coordinator.Ticket, error)
}

type session struct {
	page   int
	status string
}

type selection struct {
	player  uuid.UUID
	offerID string
	display string
	price   decimal.Decimal
	kind    domain.OfferKind
}

// Controller serves the exchange GUI. It is a result sink for the coordinator so stock and
// status lines follow transaction outcomes.
type Controller struct {
	submitter Submitter
	valuator  domain.Valuator
	publisher MenuPublisher
	logger    logging.Logger

	mu        sync.Mutex
	catalog   domain.Catalog
	formatter *PriceFormatter
	sessions  map[uuid.UUID]*session
	pending   map[string]selection
	taken     map[string]map[uuid.UUID]int
}

func NewController(catalog domain.Catalog, submitter Submitter, valuator domain.Valuator, logger logging.Logger) *Controller {
	return &Controller{
		submitter: submitter,
		valuator:  valuator,
		logger:    logger,
		catalog:   catalog,
		formatter: NewPriceFormatter(catalog.Currency, language.English),
		sessions:  make(map[uuid.UUID]*session),
		pending:   make(map[string]selection),
		taken:     make(map[string]map[uuid.UUID]int),
	}
}

// SetPublisher sets where refreshed menus are pushed after a transaction finishes.
func (c *Controller) SetPublisher(publisher MenuPublisher) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publisher = publisher
}

// Replace swaps the catalog. Stock already taken is kept per offer id.
func (c *Controller) Replace(catalog domain.Catalog) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.catalog = catalog
	c.formatter = NewPriceFormatter(catalog.Currency, language.English)
	pages := pageCount(len(catalog.Offers), catalog.PageSize)
	for _, s := range c.sessions {
		s.page = clampPage(s.page, pages)
	}
}

func (c *Controller) Open(player uuid.UUID, page int) Menu {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.sessions[player]
	if !ok {
		s = &session{}
		c.sessions[player] = s
	}
	s.page = clampPage(page, pageCount(len(c.catalog.Offers), c.catalog.PageSize))

	return c.render(player, s)
}

func (c *Controller) Close(player uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, player)
}

func (c *Controller) Select(ctx context.Context, player uuid.UUID, offerID string) (Menu, error) {
	c.mu.Lock()

	s, ok := c.sessions[player]
	if !ok {
		c.mu.Unlock()
		return Menu{}, &domain.SessionNotFoundError{Msg: fmt.Sprintf("no open shop for %s", player)}
	}

	offer, ok := c.catalog.Offer(offerID)
	if !ok {
		s.status = StatusUnknownOffer
		menu := c.render(player, s)
		c.mu.Unlock()
		return menu, &domain.OfferNotFoundError{Msg: fmt.Sprintf("offer %s not found", offerID)}
	}

	if remaining := c.remaining(player, offer); remaining == 0 {
		s.status = StatusOutOfStock
		menu := c.render(player, s)
		c.mu.Unlock()
		return menu, &domain.OutOfStockError{Msg: fmt.Sprintf("offer %s is out of stock for %s", offerID, player)}
	}

	price, err := c.price(offer)
	if err != nil {
		s.status = StatusFailed
		menu := c.render(player, s)
		c.mu.Unlock()
		return menu, err
	}

	request := domain.TransactionRequest{
		CorrelationID: uuid.NewString(),
		Player:        player,
		Direction:     offer.Direction(),
		Amount:        price,
		Reason:        domain.ShopReason(offer.ID),
	}
	c.pending[request.CorrelationID] = selection{
		player:  player,
		offerID: offer.ID,
		display: offer.Display,
		price:   price,
		kind:    offer.Kind,
	}
	s.status = StatusProcessing
	c.mu.Unlock()

	// The result may arrive before Submit returns, so the selection is registered first.
	_, err = c.submitter.Submit(ctx, request)

	c.mu.Lock()
	defer c.mu.Unlock()

	if err != nil {
		delete(c.pending, request.CorrelationID)
		c.logger.Warn("failed to submit shop transaction", "player", player.String(), "offer", offer.ID, "error", err)
		if s, ok := c.sessions[player]; ok {
			s.status = statusFor(err)
		}
	}

	s, ok = c.sessions[player]
	if !ok {
		return Menu{}, err
	}
	return c.render(player, s), err
}

// Notify applies a transaction result to stock accounting and the player's status line.
func (c *Controller) Notify(result domain.Result) {
	c.mu.Lock()

	sel, ok := c.pending[result.CorrelationID]
	if !ok {
		if offerID, refund := domain.RefundedOffer(result.Reason); refund && result.Committed() {
			c.release(offerID, result.Player)
		}
		c.mu.Unlock()
		return
	}
	delete(c.pending, result.CorrelationID)

	if result.Committed() {
		perPlayer, ok := c.taken[sel.offerID]
		if !ok {
			perPlayer = make(map[uuid.UUID]int)
			c.taken[sel.offerID] = perPlayer
		}
		perPlayer[sel.player]++
	}

	s, open := c.sessions[sel.player]
	if !open {
		c.mu.Unlock()
		return
	}

	s.status = c.resultStatus(sel, result)
	menu := c.render(sel.player, s)
	publisher := c.publisher
	c.mu.Unlock()

	if publisher != nil {
		publisher.PublishMenu(menu)
	}
}

// release gives back one taken unit of offerID after a refund.
func (c *Controller) release(offerID string, player uuid.UUID) {
	perPlayer := c.taken[offerID]
	if perPlayer[player] == 0 {
		return
	}
	perPlayer[player]--
	if perPlayer[player] == 0 {
		delete(perPlayer, player)
	}
}

func (c *Controller) resultStatus(sel selection, result domain.Result) string {
	switch result.State {
	case domain.TxCommitted:
		if sel.kind == domain.OfferSell {
			return fmt.Sprintf("Sold %s for %s", sel.display, c.formatter.Format(sel.price))
		}
		return fmt.Sprintf("Purchased %s for %s", sel.display, c.formatter.Format(sel.price))
	case domain.TxCancelled:
		return StatusCancelled
	default:
		return statusFor(result.Err)
	}
}

func statusFor(err error) string {
	switch {
	case errors.Is(err, &domain.InsufficientFundsError{}):
		return StatusInsufficientFunds
	case errors.Is(err, &domain.ServiceUnavailableError{}):
		return StatusUnavailable
	case errors.Is(err, &domain.CancelledError{}):
		return StatusCancelled
	default:
		return StatusFailed
	}
}

func (c *Controller) price(offer domain.ShopOffer) (decimal.Decimal, error) {
	if offer.Price != nil {
		return *offer.Price, nil
	}
	if offer.Creature == nil {
		return decimal.Decimal{}, &domain.ConfigurationError{Msg: fmt.Sprintf("offer %s has no price", offer.ID)}
	}

	amount, err := c.valuator.Valuate(domain.DomainEvent{
		ID:       "offer:" + offer.ID,
		Kind:     domain.EventSold,
		Creature: *offer.Creature,
	})
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to price offer %s: %w", offer.ID, err)
	}
	return amount, nil
}

// remaining returns how many more times player may take offer, counting selections that are
// still in flight. -1 means unlimited.
func (c *Controller) remaining(player uuid.UUID, offer domain.ShopOffer) int {
	limit := offer.Stock.PerPlayerLimit()
	if limit == 0 {
		return -1
	}

	used := c.taken[offer.ID][player]
	for _, sel := range c.pending {
		if sel.player == player && sel.offerID == offer.ID {
			used++
		}
	}
	return max(limit-used, 0)
}

func (c *Controller) render(player uuid.UUID, s *session) Menu {
	pageSize := max(c.catalog.PageSize, 1)
	pages := pageCount(len(c.catalog.Offers), pageSize)
	page := clampPage(s.page, pages)

	start := (page - 1) * pageSize
	end := min(start+pageSize, len(c.catalog.Offers))

	items := make([]MenuItem, 0, end-start)
	for i, offer := range c.catalog.Offers[start:end] {
		item := MenuItem{
			Slot:    i,
			OfferID: offer.ID,
			Display: offer.Display,
			Icon:    offer.Icon,
			Lore:    offer.Lore,
			Kind:    offer.Kind,
		}

		if price, err := c.price(offer); err == nil {
			item.Price = c.formatter.Format(price)
		} else {
			c.logger.Warn("failed to price offer", "offer", offer.ID, "error", err)
			item.Price = "?"
		}

		item.Remaining = c.remaining(player, offer)
		item.Available = item.Remaining != 0

		items = append(items, item)
	}

	return Menu{
		Player:  player,
		Title:   c.catalog.Title,
		Page:    page,
		Pages:   pages,
		HasPrev: page > 1,
		HasNext: page < pages,
		Items:   items,
		Status:  s.status,
	}
}

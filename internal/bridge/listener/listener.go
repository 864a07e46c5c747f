package listener

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/turiddu25/cobble-economy/internal/bridge/coordinator"
	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
	"github.com/turiddu25/cobble-economy/internal/pkg/logging"
)

// Host event types as published by the host event bus.
const (
	TypePokemonCaptured = "POKEMON_CAPTURED"
	TypeTradeCompleted  = "TRADE_COMPLETED"
	TypePokemonSold     = "POKEMON_SOLD"
	TypeBattleVictory   = "BATTLE_VICTORY"
	TypeEvolution       = "EVOLUTION_COMPLETE"
	TypeHatchEgg        = "HATCH_EGG_POST"
	TypePokemonFished   = "POKEMON_FISHED"
	TypePokemonReleased = "POKEMON_RELEASED"
)

var hostKinds = map[string]domain.EventKind{
	TypePokemonCaptured: domain.EventCaptured,
	TypeTradeCompleted:  domain.EventTraded,
	TypePokemonSold:     domain.EventSold,
	TypeBattleVictory:   domain.EventBattleWon,
}

// HostEvent is the payload the host forwards for every subscribed event. A completed trade is
// delivered once per participant, with Player set to the receiving side.
type HostEvent struct {
	ID         string    `json:"id,omitempty"`
	Type       string    `json:"type"`
	Player     string    `json:"player"`
	Species    string    `json:"species"`
	Level      int       `json:"level"`
	Rarity     string    `json:"rarity,omitempty"`
	Shiny      bool      `json:"shiny,omitempty"`
	OccurredAt time.Time `json:"occurred_at,omitzero"`
}

type EventHandler interface {
	Handle(ctx context.Context, event domain.DomainEvent) (*coordinator.Ticket, error)
}

type Listener struct {
	handler EventHandler
	logger  logging.Logger
	now     func() time.Time
}

func NewListener(handler EventHandler, logger logging.Logger) *Listener {
	return &Listener{
		handler: handler,
		logger:  logger,
		now:     time.Now,
	}
}

// Handle translates a host event and hands it to the coordinator. It reports whether the
// event was accepted. It never blocks and never panics.
func (l *Listener) Handle(event HostEvent) (accepted bool) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("recovered from panic while handling host event", "type", event.Type, "id", event.ID, "panic", r)
			accepted = false
		}
	}()

	domainEvent, ok, err := l.translate(event)
	if err != nil {
		l.logger.Warn("dropping malformed host event", "type", event.Type, "id", event.ID, "error", err)
		return false
	}
	if !ok {
		l.logger.Debug("ignoring host event", "type", event.Type)
		return false
	}

	_, err = l.handler.Handle(context.Background(), domainEvent)
	if err != nil {
		switch {
		case errors.Is(err, &domain.ServiceUnavailableError{}):
			l.logger.Warn("dropping host event, coordinator unavailable", "id", domainEvent.ID, "error", err)
		case errors.Is(err, &domain.NoRuleMatchedError{}), domain.IsValidation(err):
			l.logger.Warn("dropping host event", "id", domainEvent.ID, "error", err)
		default:
			l.logger.Error("failed to submit host event", "id", domainEvent.ID, "error", err)
		}
		return false
	}

	return true
}

func (l *Listener) translate(event HostEvent) (domain.DomainEvent, bool, error) {
	kind, ok := hostKinds[strings.ToUpper(strings.TrimSpace(event.Type))]
	if !ok {
		return domain.DomainEvent{}, false, nil
	}

	player, err := uuid.Parse(event.Player)
	if err != nil || player == uuid.Nil {
		return domain.DomainEvent{}, false, &domain.InvalidArgumentsError{Msg: fmt.Sprintf("invalid player id %q", event.Player)}
	}

	species := domain.NormalizeSpecies(event.Species)
	if species == "" {
		return domain.DomainEvent{}, false, &domain.InvalidArgumentsError{Msg: "species is required"}
	}

	level := event.Level
	if level == 0 {
		level = domain.MinCreatureLevel
	}
	if level < domain.MinCreatureLevel || level > domain.MaxCreatureLevel {
		return domain.DomainEvent{}, false, &domain.InvalidArgumentsError{Msg: fmt.Sprintf("level %d out of range", event.Level)}
	}

	rarity, err := domain.ParseRarity(event.Rarity)
	if err != nil {
		return domain.DomainEvent{}, false, err
	}

	id := strings.TrimSpace(event.ID)
	if id == "" {
		id = uuid.NewString()
	}

	occurredAt := event.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = l.now()
	}

	return domain.DomainEvent{
		ID:     id,
		Kind:   kind,
		Player: player,
		Creature: domain.Creature{
			Species: species,
			Level:   level,
			Rarity:  rarity,
			Shiny:   event.Shiny,
		},
		OccurredAt: occurredAt,
	}, true, nil
}

package http

import (
	"context"

	"github.com/google/uuid"

	"github.com/turiddu25/cobble-economy/internal/bridge/command"
	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
	"github.com/turiddu25/cobble-economy/internal/bridge/listener"
	"github.com/turiddu25/cobble-economy/internal/bridge/shop"
)

type EventListener interface {
	Handle(event listener.HostEvent) bool
}

type ShopController interface {
	Open(player uuid.UUID, page int) shop.Menu
	Select(ctx context.Context, player uuid.UUID, offerID string) (shop.Menu, error)
	Close(player uuid.UUID)
}

type CommandExecutor interface {
	Execute(ctx context.Context, invocation command.Invocation) string
}

type ResultLookup interface {
	Lookup(correlationID string) (domain.Result, bool)
}

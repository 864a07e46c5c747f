package domain

import (
	"time"

	"github.com/google/uuid"
)

type EventKind int

const (
	EventCaptured EventKind = iota + 1
	EventTraded
	EventSold
	EventBattleWon
)

var SupportedEventKinds = []EventKind{EventCaptured, EventTraded, EventSold, EventBattleWon}

var eventKindNames = map[EventKind]string{
	EventCaptured:  "captured",
	EventTraded:    "traded",
	EventSold:      "sold",
	EventBattleWon: "battle_won",
}

func (k EventKind) String() string {
	if name, ok := eventKindNames[k]; ok {
		return name
	}
	return "unknown"
}

func ParseEventKind(raw string) (EventKind, bool) {
	for kind, name := range eventKindNames {
		if name == raw {
			return kind, true
		}
	}
	return 0, false
}

type DomainEvent struct {
	ID         string
	Kind       EventKind
	Player     uuid.UUID
	Creature   Creature
	OccurredAt time.Time
}

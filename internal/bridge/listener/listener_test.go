package listener

import (
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	listenermocks "github.com/turiddu25/cobble-economy/gen/mocks/listener"
	loggingmocks "github.com/turiddu25/cobble-economy/gen/mocks/logging"
	"github.com/turiddu25/cobble-economy/internal/bridge/coordinator"
	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
	"github.com/turiddu25/cobble-economy/internal/pkg/logging"
)

var (
	testPlayer = uuid.MustParse("6a0f3c52-1b1e-4f8e-9d7a-3c2b1a0f9e88")
	fixedNow   = time.Date(2026, 10, 19, 18, 30, 0, 0, time.UTC)
)

func TestListener_Handle(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name  string
		event HostEvent

		expectedAccepted bool

		prepareFn func(t *testing.T, ctrl *gomock.Controller) (EventHandler, logging.Logger)
	}

	validCapture := HostEvent{
		ID:      "evt-1",
		Type:    TypePokemonCaptured,
		Player:  testPlayer.String(),
		Species: "Pikachu",
		Level:   12,
		Rarity:  "common",
	}

	tests := []testCase{
		{
			name:  "capture is submitted",
			event: validCapture,
			prepareFn: func(t *testing.T, ctrl *gomock.Controller) (EventHandler, logging.Logger) {
				t.Helper()
				handler := listenermocks.NewMockEventHandler(ctrl)
				handler.EXPECT().
					Handle(gomock.Any(), domain.DomainEvent{
						ID:     "evt-1",
						Kind:   domain.EventCaptured,
						Player: testPlayer,
						Creature: domain.Creature{
							Species: "pikachu",
							Level:   12,
							Rarity:  domain.RarityCommon,
						},
						OccurredAt: fixedNow,
					}).
					Return(&coordinator.Ticket{}, nil)
				return handler, loggingmocks.NewMockLogger(ctrl)
			},
			expectedAccepted: true,
		},
		{
			name: "trade maps to traded and level defaults to one",
			event: HostEvent{
				ID:      "trade-7",
				Type:    "trade_completed",
				Player:  testPlayer.String(),
				Species: "machoke",
				Shiny:   true,
				Rarity:  "paradox",
			},
			prepareFn: func(t *testing.T, ctrl *gomock.Controller) (EventHandler, logging.Logger) {
				t.Helper()
				handler := listenermocks.NewMockEventHandler(ctrl)
				handler.EXPECT().
					Handle(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, event domain.DomainEvent) (*coordinator.Ticket, error) {
						assert.Equal(t, domain.EventTraded, event.Kind)
						assert.Equal(t, 1, event.Creature.Level)
						assert.True(t, event.Creature.Shiny)
						assert.Equal(t, domain.RarityParadox, event.Creature.Rarity)
						return &coordinator.Ticket{}, nil
					})
				return handler, loggingmocks.NewMockLogger(ctrl)
			},
			expectedAccepted: true,
		},
		{
			name: "missing id gets a fresh one",
			event: HostEvent{
				Type:    TypeBattleVictory,
				Player:  testPlayer.String(),
				Species: "garchomp",
				Level:   60,
			},
			prepareFn: func(t *testing.T, ctrl *gomock.Controller) (EventHandler, logging.Logger) {
				t.Helper()
				handler := listenermocks.NewMockEventHandler(ctrl)
				handler.EXPECT().
					Handle(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, event domain.DomainEvent) (*coordinator.Ticket, error) {
						_, err := uuid.Parse(event.ID)
						assert.NoError(t, err)
						assert.Equal(t, domain.EventBattleWon, event.Kind)
						return &coordinator.Ticket{}, nil
					})
				return handler, loggingmocks.NewMockLogger(ctrl)
			},
			expectedAccepted: true,
		},
		{
			name:  "unsupported type is ignored",
			event: HostEvent{Type: TypeEvolution, Player: testPlayer.String(), Species: "ivysaur", Level: 16},
			prepareFn: func(t *testing.T, ctrl *gomock.Controller) (EventHandler, logging.Logger) {
				t.Helper()
				logger := loggingmocks.NewMockLogger(ctrl)
				logger.EXPECT().Debug(gomock.Any(), gomock.Any())
				return listenermocks.NewMockEventHandler(ctrl), logger
			},
		},
		{
			name:  "bad player id is dropped",
			event: HostEvent{Type: TypePokemonCaptured, Player: "steve", Species: "zubat", Level: 3},
			prepareFn: func(t *testing.T, ctrl *gomock.Controller) (EventHandler, logging.Logger) {
				t.Helper()
				logger := loggingmocks.NewMockLogger(ctrl)
				logger.EXPECT().Warn("dropping malformed host event", gomock.Any())
				return listenermocks.NewMockEventHandler(ctrl), logger
			},
		},
		{
			name:  "empty species is dropped",
			event: HostEvent{Type: TypePokemonCaptured, Player: testPlayer.String(), Species: "  ", Level: 3},
			prepareFn: func(t *testing.T, ctrl *gomock.Controller) (EventHandler, logging.Logger) {
				t.Helper()
				logger := loggingmocks.NewMockLogger(ctrl)
				logger.EXPECT().Warn("dropping malformed host event", gomock.Any())
				return listenermocks.NewMockEventHandler(ctrl), logger
			},
		},
		{
			name:  "level out of range is dropped",
			event: HostEvent{Type: TypePokemonSold, Player: testPlayer.String(), Species: "magikarp", Level: 101},
			prepareFn: func(t *testing.T, ctrl *gomock.Controller) (EventHandler, logging.Logger) {
				t.Helper()
				logger := loggingmocks.NewMockLogger(ctrl)
				logger.EXPECT().Warn("dropping malformed host event", gomock.Any())
				return listenermocks.NewMockEventHandler(ctrl), logger
			},
		},
		{
			name:  "unknown rarity is dropped",
			event: HostEvent{Type: TypePokemonSold, Player: testPlayer.String(), Species: "magikarp", Level: 5, Rarity: "starter"},
			prepareFn: func(t *testing.T, ctrl *gomock.Controller) (EventHandler, logging.Logger) {
				t.Helper()
				logger := loggingmocks.NewMockLogger(ctrl)
				logger.EXPECT().Warn("dropping malformed host event", gomock.Any())
				return listenermocks.NewMockEventHandler(ctrl), logger
			},
		},
		{
			name:  "full queue drops the event",
			event: validCapture,
			prepareFn: func(t *testing.T, ctrl *gomock.Controller) (EventHandler, logging.Logger) {
				t.Helper()
				handler := listenermocks.NewMockEventHandler(ctrl)
				handler.EXPECT().
					Handle(gomock.Any(), gomock.Any()).
					Return(nil, &domain.ServiceUnavailableError{Msg: "transaction queue is full"})
				logger := loggingmocks.NewMockLogger(ctrl)
				logger.EXPECT().Warn("dropping host event, coordinator unavailable", gomock.Any())
				return handler, logger
			},
		},
		{
			name:  "unexpected error is logged",
			event: validCapture,
			prepareFn: func(t *testing.T, ctrl *gomock.Controller) (EventHandler, logging.Logger) {
				t.Helper()
				handler := listenermocks.NewMockEventHandler(ctrl)
				handler.EXPECT().
					Handle(gomock.Any(), gomock.Any()).
					Return(nil, assert.AnError)
				logger := loggingmocks.NewMockLogger(ctrl)
				logger.EXPECT().Error("failed to submit host event", gomock.Any())
				return handler, logger
			},
		},
		{
			name:  "panic is recovered",
			event: validCapture,
			prepareFn: func(t *testing.T, ctrl *gomock.Controller) (EventHandler, logging.Logger) {
				t.Helper()
				handler := listenermocks.NewMockEventHandler(ctrl)
				handler.EXPECT().
					Handle(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ any, _ domain.DomainEvent) (*coordinator.Ticket, error) {
						panic("host bug")
					})
				logger := loggingmocks.NewMockLogger(ctrl)
				logger.EXPECT().Error("recovered from panic while handling host event", gomock.Any())
				return handler, logger
			},
		},
	}

	for _, tc := range tests {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			ctrl := gomock.NewController(t)
			handler, logger := tt.prepareFn(t, ctrl)

			l := NewListener(handler, logger)
			l.now = func() time.Time { return fixedNow }

			var accepted bool
			assert.NotPanics(t, func() {
				accepted = l.Handle(tt.event)
			})
			assert.Equal(t, tt.expectedAccepted, accepted)
		})
	}
}

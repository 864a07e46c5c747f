// Package ws pushes coordinator results and shop menus to connected host adapters and accepts
// host events and commands over the same connection.
package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/turiddu25/cobble-economy/internal/bridge/command"
	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
	bridgehttp "github.com/turiddu25/cobble-economy/internal/bridge/infrastructure/http"
	"github.com/turiddu25/cobble-economy/internal/bridge/shop"
	"github.com/turiddu25/cobble-economy/internal/pkg/jwt"
	"github.com/turiddu25/cobble-economy/internal/pkg/logging"
)

const (
	defaultWriteTimeout = 5 * time.Second
	defaultPingInterval = 30 * time.Second
	defaultPongTimeout  = 60 * time.Second
	defaultSendBuffer   = 64
)

type Config struct {
	WriteTimeout time.Duration
	PingInterval time.Duration
	PongTimeout  time.Duration
	SendBuffer   int
}

func (c Config) withDefaults() Config {
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = defaultWriteTimeout
	}
	if c.PingInterval <= 0 {
		c.PingInterval = defaultPingInterval
	}
	if c.PongTimeout <= c.PingInterval {
		c.PongTimeout = max(defaultPongTimeout, 2*c.PingInterval)
	}
	if c.SendBuffer <= 0 {
		c.SendBuffer = defaultSendBuffer
	}
	return c
}

// Hub tracks host connections. It is a domain.ResultSink and a shop.MenuPublisher; both
// broadcast to every connection without blocking the caller.
type Hub struct {
	cfg      Config
	listener bridgehttp.EventListener
	commands bridgehttp.CommandExecutor
	logger   logging.Logger
	upgrader websocket.Upgrader

	mu       sync.RWMutex
	sessions map[*session]struct{}
}

func NewHub(listener bridgehttp.EventListener, commands bridgehttp.CommandExecutor, cfg Config, logger logging.Logger) *Hub {
	return &Hub{
		cfg:      cfg.withDefaults(),
		listener: listener,
		commands: commands,
		logger:   logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		sessions: make(map[*session]struct{}),
	}
}

// Serve upgrades the request and runs the session until the peer goes away. It expects the
// auth middleware to have stored the caller's claims.
func (h *Hub) Serve(c *gin.Context) {
	value, ok := c.Get(jwt.ClaimsContextKey)
	claims, _ := value.(*jwt.Claims)
	if !ok || claims == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"errors": "missing claims"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "subject", claims.Subject, "error", err)
		return
	}

	s := newSession(conn, claims, h.cfg)
	h.register(s)
	h.logger.Info("host connected", "subject", claims.Subject)

	go s.writeLoop(h.logger)
	h.readLoop(s)

	h.unregister(s)
	s.close()
	h.logger.Info("host disconnected", "subject", claims.Subject)
}

func (h *Hub) readLoop(s *session) {
	s.conn.SetReadDeadline(time.Now().Add(h.cfg.PongTimeout))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(h.cfg.PongTimeout))
	})

	for {
		_, payload, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("websocket read failed", "subject", s.claims.Subject, "error", err)
			}
			return
		}

		var frame inboundFrame
		if err := json.Unmarshal(payload, &frame); err != nil {
			h.logger.Warn("discarding malformed frame", "subject", s.claims.Subject, "error", err)
			s.enqueue(h.logger, outboundFrame{Type: TypeError, Error: "malformed frame"})
			continue
		}

		h.dispatch(s, frame)
	}
}

func (h *Hub) dispatch(s *session, frame inboundFrame) {
	switch frame.Type {
	case TypeEvent:
		if frame.Event == nil {
			s.enqueue(h.logger, outboundFrame{Type: TypeError, RequestID: frame.RequestID, Error: "missing event"})
			return
		}
		accepted := h.listener.Handle(*frame.Event)
		s.enqueue(h.logger, outboundFrame{Type: TypeAck, RequestID: frame.RequestID, Accepted: &accepted})
	case TypeCommand:
		if frame.Command == nil {
			s.enqueue(h.logger, outboundFrame{Type: TypeError, RequestID: frame.RequestID, Error: "missing command"})
			return
		}
		invocation, err := s.invocation(*frame.Command)
		if err != nil {
			s.enqueue(h.logger, outboundFrame{Type: TypeError, RequestID: frame.RequestID, Error: err.Error()})
			return
		}
		reply := h.commands.Execute(context.Background(), invocation)
		s.enqueue(h.logger, outboundFrame{Type: TypeReply, RequestID: frame.RequestID, Reply: reply})
	default:
		h.logger.Debug("unknown frame type", "subject", s.claims.Subject, "type", frame.Type)
		s.enqueue(h.logger, outboundFrame{Type: TypeError, RequestID: frame.RequestID, Error: "unknown frame type " + frame.Type})
	}
}

func (h *Hub) Notify(result domain.Result) {
	response := bridgehttp.NewResultResponse(result)
	h.broadcast(outboundFrame{Type: TypeResult, Result: &response})
}

func (h *Hub) PublishMenu(menu shop.Menu) {
	h.broadcast(outboundFrame{Type: TypeMenu, Menu: &menu})
}

func (h *Hub) broadcast(frame outboundFrame) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for s := range h.sessions {
		s.enqueue(h.logger, frame)
	}
}

// Close disconnects every host.
func (h *Hub) Close() {
	h.mu.Lock()
	sessions := make([]*session, 0, len(h.sessions))
	for s := range h.sessions {
		sessions = append(sessions, s)
	}
	clear(h.sessions)
	h.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

func (h *Hub) register(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.sessions[s] = struct{}{}
}

func (h *Hub) unregister(s *session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.sessions, s)
}

type session struct {
	conn   *websocket.Conn
	claims *jwt.Claims
	cfg    Config

	writeMu   sync.Mutex
	send      chan []byte
	done      chan struct{}
	closeOnce sync.Once
}

func newSession(conn *websocket.Conn, claims *jwt.Claims, cfg Config) *session {
	return &session{
		conn:   conn,
		claims: claims,
		cfg:    cfg,
		send:   make(chan []byte, cfg.SendBuffer),
		done:   make(chan struct{}),
	}
}

func (s *session) invocation(payload commandPayload) (command.Invocation, error) {
	var sender uuid.UUID
	if payload.Sender != "" {
		parsed, err := uuid.Parse(payload.Sender)
		if err != nil {
			return command.Invocation{}, &domain.InvalidArgumentsError{Msg: "invalid sender"}
		}
		sender = parsed
	}

	return command.Invocation{
		Sender: sender,
		Permissions: slices.DeleteFunc(slices.Clone(payload.Permissions), func(node string) bool {
			return !s.claims.HasPermission(node)
		}),
		Args: payload.Args,
	}, nil
}

// enqueue never blocks. A peer that cannot keep up is disconnected.
func (s *session) enqueue(logger logging.Logger, frame outboundFrame) {
	data, err := json.Marshal(frame)
	if err != nil {
		logger.Error("failed to marshal frame", "type", frame.Type, "error", err)
		return
	}

	select {
	case <-s.done:
	case s.send <- data:
	default:
		logger.Warn("host is not keeping up, disconnecting", "subject", s.claims.Subject)
		s.close()
	}
}

func (s *session) writeLoop(logger logging.Logger) {
	ticker := time.NewTicker(s.cfg.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case data := <-s.send:
			if err := s.write(websocket.TextMessage, data); err != nil {
				logger.Debug("websocket write failed", "subject", s.claims.Subject, "error", err)
				s.close()
				return
			}
		case <-ticker.C:
			if err := s.write(websocket.PingMessage, []byte("keepalive")); err != nil {
				logger.Debug("failed to send ping", "subject", s.claims.Subject, "error", err)
				s.close()
				return
			}
		}
	}
}

func (s *session) write(messageType int, data []byte) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	s.conn.SetWriteDeadline(time.Now().Add(s.cfg.WriteTimeout))
	return s.conn.WriteMessage(messageType, data)
}

func (s *session) close() {
	s.closeOnce.Do(func() {
		close(s.done)

		s.writeMu.Lock()
		s.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		s.writeMu.Unlock()

		s.conn.Close()
	})
}

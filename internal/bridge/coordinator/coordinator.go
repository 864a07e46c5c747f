package coordinator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
	"github.com/turiddu25/cobble-economy/internal/pkg/logging"
)

const tracerName = "github.com/turiddu25/cobble-economy/internal/bridge/coordinator"

type Option func(*Coordinator)

func WithJournal(journal domain.TransactionJournal) Option {
	return func(c *Coordinator) {
		c.journal = journal
	}
}

func WithSinks(sinks ...domain.ResultSink) Option {
	return func(c *Coordinator) {
		c.sinks = append(c.sinks, sinks...)
	}
}

func WithTracer(tracer trace.Tracer) Option {
	return func(c *Coordinator) {
		c.tracer = tracer
	}
}

type Coordinator struct {
	economy  domain.EconomyService
	valuator domain.Valuator
	journal  domain.TransactionJournal
	logger   logging.Logger
	tracer   trace.Tracer
	cfg      Config

	sinksMu sync.RWMutex
	sinks   []domain.ResultSink

	locks *accountLocks
	queue chan *Ticket

	mu      sync.Mutex
	tickets map[string]*Ticket
	stopped bool
}

func New(economy domain.EconomyService, valuator domain.Valuator, cfg Config, logger logging.Logger, opts ...Option) *Coordinator {
	cfg = cfg.withDefaults()

	c := &Coordinator{
		economy:  economy,
		valuator: valuator,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
		cfg:      cfg,
		locks:    newAccountLocks(),
		queue:    make(chan *Ticket, cfg.QueueSize),
		tickets:  make(map[string]*Ticket),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// AddSink registers a sink for results of transactions that finish afterwards.
func (c *Coordinator) AddSink(sink domain.ResultSink) {
	c.sinksMu.Lock()
	defer c.sinksMu.Unlock()
	c.sinks = append(c.sinks, sink)
}

// Handle values a domain event and submits the resulting credit.
func (c *Coordinator) Handle(ctx context.Context, event domain.DomainEvent) (*Ticket, error) {
	return c.Submit(ctx, domain.TransactionRequest{
		CorrelationID: event.ID,
		Player:        event.Player,
		Direction:     domain.DirectionCredit,
		Event:         &event,
		Reason:        "event:" + event.Kind.String(),
	})
}

// Submit queues a transaction without blocking. Submitting a correlation id that is already
// known returns the existing ticket.
func (c *Coordinator) Submit(ctx context.Context, request domain.TransactionRequest) (*Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := validateRequest(request); err != nil {
		return nil, err
	}

	if existing, ok := c.lookupTicket(request.CorrelationID); ok {
		return existing, nil
	}

	if request.Event != nil {
		amount, err := c.valuator.Valuate(*request.Event)
		if err != nil {
			return nil, fmt.Errorf("failed to valuate event %s: %w", request.Event.ID, err)
		}
		request.Amount = amount
	}
	if request.Amount.IsNegative() {
		return nil, &domain.InvalidArgumentsError{Msg: fmt.Sprintf("amount must not be negative, got %s", request.Amount)}
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.tickets[request.CorrelationID]; ok {
		return existing, nil
	}
	if c.stopped {
		return nil, &domain.ServiceUnavailableError{Msg: "coordinator is stopped"}
	}

	ticket := newTicket(request, c.publish)
	select {
	case c.queue <- ticket:
	default:
		return nil, &domain.ServiceUnavailableError{Msg: "transaction queue is full"}
	}
	c.tickets[request.CorrelationID] = ticket

	return ticket, nil
}

// Lookup returns a snapshot of a known ticket.
func (c *Coordinator) Lookup(correlationID string) (domain.Result, bool) {
	ticket, ok := c.lookupTicket(correlationID)
	if !ok {
		return domain.Result{}, false
	}
	return ticket.Snapshot(), true
}

func (c *Coordinator) Ticket(correlationID string) (*Ticket, bool) {
	return c.lookupTicket(correlationID)
}

func (c *Coordinator) lookupTicket(correlationID string) (*Ticket, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	ticket, ok := c.tickets[correlationID]
	return ticket, ok
}

// Run starts the worker pool and the janitor and blocks until ctx is done. Tickets still
// queued on return are failed as unavailable.
func (c *Coordinator) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	for range c.cfg.Workers {
		g.Go(func() error {
			c.work(gctx)
			return nil
		})
	}
	g.Go(func() error {
		c.runJanitor(gctx)
		return nil
	})

	err := g.Wait()
	c.stop()
	return err
}

func (c *Coordinator) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case ticket := <-c.queue:
			// In-flight transactions finish even while shutting down.
			c.process(context.WithoutCancel(ctx), ticket)
		}
	}
}

func (c *Coordinator) stop() {
	c.mu.Lock()
	c.stopped = true
	c.mu.Unlock()

	for {
		select {
		case ticket := <-c.queue:
			if ticket.transition(domain.TxPending, domain.TxFailed) {
				ticket.finish(domain.TxFailed, ticket.baseResult(), &domain.ServiceUnavailableError{Msg: "coordinator stopped before submission"})
			}
		default:
			return
		}
	}
}

func (c *Coordinator) runJanitor(ctx context.Context) {
	ticker := time.NewTicker(c.cfg.janitorInterval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if pruned := c.prune(now); pruned > 0 {
				c.logger.Debug("pruned finished tickets", "count", pruned)
			}
		}
	}
}

func (c *Coordinator) prune(now time.Time) int {
	cutoff := now.Add(-c.cfg.Retention)

	c.mu.Lock()
	defer c.mu.Unlock()

	pruned := 0
	for id, ticket := range c.tickets {
		if ticket.finishedBefore(cutoff) {
			delete(c.tickets, id)
			pruned++
		}
	}
	return pruned
}

func (c *Coordinator) publish(ticket *Ticket) {
	result := ticket.Snapshot()
	c.record(result)

	c.sinksMu.RLock()
	sinks := append([]domain.ResultSink(nil), c.sinks...)
	c.sinksMu.RUnlock()

	for _, sink := range sinks {
		c.notify(sink, result)
	}
}

// record journals the ticket state. Pending is never journaled since Submit must not block.
func (c *Coordinator) record(result domain.Result) {
	if c.journal == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.cfg.CallTimeout)
	defer cancel()

	if err := c.journal.Record(ctx, toRecord(result)); err != nil {
		c.logger.Warn("failed to journal transaction", "correlation_id", result.CorrelationID, "error", err)
	}
}

func (c *Coordinator) notify(sink domain.ResultSink, result domain.Result) {
	defer func() {
		if r := recover(); r != nil {
			c.logger.Error("result sink panicked", "correlation_id", result.CorrelationID, "panic", r)
		}
	}()
	sink.Notify(result)
}

func toRecord(result domain.Result) domain.TransactionRecord {
	record := domain.TransactionRecord{
		CorrelationID: result.CorrelationID,
		Player:        result.Player,
		Direction:     result.Direction,
		Amount:        result.Amount,
		State:         result.State,
		Reason:        result.Reason,
		UpdatedAt:     time.Now().UTC(),
	}
	if result.Err != nil {
		record.Error = result.Err.Error()
	}
	return record
}

func validateRequest(request domain.TransactionRequest) error {
	if request.CorrelationID == "" {
		return &domain.InvalidArgumentsError{Msg: "correlation id is required"}
	}
	if request.Player == uuid.Nil {
		return &domain.InvalidArgumentsError{Msg: "player is required"}
	}
	if request.Direction != domain.DirectionCredit && request.Direction != domain.DirectionDebit {
		return &domain.InvalidArgumentsError{Msg: fmt.Sprintf("unknown direction %q", request.Direction)}
	}
	return nil
}

package coordinator

import (
	"context"
	"sync"
	"time"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
)

// Ticket tracks one submitted transaction.
type Ticket struct {
	request domain.TransactionRequest
	onDone  func(*Ticket)

	mu         sync.Mutex
	state      domain.TxState
	attempts   int
	result     domain.Result
	finishedAt time.Time

	done chan struct{}
}

func newTicket(request domain.TransactionRequest, onDone func(*Ticket)) *Ticket {
	return &Ticket{
		request: request,
		onDone:  onDone,
		state:   domain.TxPending,
		done:    make(chan struct{}),
	}
}

func (t *Ticket) ID() string {
	return t.request.CorrelationID
}

func (t *Ticket) Request() domain.TransactionRequest {
	return t.request
}

func (t *Ticket) State() domain.TxState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

func (t *Ticket) Done() <-chan struct{} {
	return t.done
}

// Cancel withdraws the ticket. It only succeeds while the ticket is still pending.
func (t *Ticket) Cancel() bool {
	t.mu.Lock()
	if t.state != domain.TxPending {
		t.mu.Unlock()
		return false
	}
	t.state = domain.TxCancelled
	t.mu.Unlock()

	t.finish(domain.TxCancelled, t.baseResult(), &domain.CancelledError{Msg: "transaction cancelled before submission"})
	return true
}

// Wait blocks until the ticket reaches a terminal state or ctx is done.
func (t *Ticket) Wait(ctx context.Context) (domain.Result, error) {
	select {
	case <-t.done:
		return t.Snapshot(), nil
	case <-ctx.Done():
		return domain.Result{}, ctx.Err()
	}
}

// Snapshot returns the ticket as a result. State is the current state; the other outcome
// fields are only final once the ticket is terminal.
func (t *Ticket) Snapshot() domain.Result {
	t.mu.Lock()
	defer t.mu.Unlock()

	res := t.result
	if t.finishedAt.IsZero() {
		res = t.baseResult()
	}
	res.State = t.state
	res.Attempts = t.attempts
	return res
}

func (t *Ticket) baseResult() domain.Result {
	return domain.Result{
		CorrelationID: t.request.CorrelationID,
		Player:        t.request.Player,
		Direction:     t.request.Direction,
		Amount:        t.request.Amount,
		Reason:        t.request.Reason,
	}
}

func (t *Ticket) transition(from, to domain.TxState) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state != from {
		return false
	}
	t.state = to
	return true
}

// beginAttempt records a new adapter attempt and returns its number.
func (t *Ticket) beginAttempt() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.attempts++
	if t.attempts > 1 {
		t.state = domain.TxRetrying
	}
	return t.attempts
}

func (t *Ticket) finish(state domain.TxState, res domain.Result, err error) {
	t.mu.Lock()
	if !t.finishedAt.IsZero() {
		t.mu.Unlock()
		return
	}
	t.state = state
	t.result = res
	t.result.Err = err
	t.finishedAt = time.Now()
	t.mu.Unlock()

	close(t.done)
	if t.onDone != nil {
		t.onDone(t)
	}
}

func (t *Ticket) finishedBefore(cutoff time.Time) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return !t.finishedAt.IsZero() && t.finishedAt.Before(cutoff)
}

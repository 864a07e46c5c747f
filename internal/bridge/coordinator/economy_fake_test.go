package coordinator

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
	"github.com/turiddu25/cobble-economy/internal/bridge/infrastructure/memory"
)

const (
	opGetBalance = "get_balance"
	opDeposit    = "deposit"
	opWithdraw   = "withdraw"
)

type fault struct {
	err        error
	applyFirst bool
	sideEffect func()
}

// scriptedEconomy wraps the memory accounts with injected faults and call accounting.
type scriptedEconomy struct {
	accounts *memory.Accounts

	mu       sync.Mutex
	faults   map[string][]fault
	calls    map[string]int
	inFlight map[uuid.UUID]int
	gates    map[uuid.UUID]chan struct{}
	delay    time.Duration

	overlapped atomic.Bool
}

func newScriptedEconomy() *scriptedEconomy {
	return &scriptedEconomy{
		accounts: memory.NewAccounts(),
		faults:   make(map[string][]fault),
		calls:    make(map[string]int),
		inFlight: make(map[uuid.UUID]int),
		gates:    make(map[uuid.UUID]chan struct{}),
	}
}

func (e *scriptedEconomy) open(player uuid.UUID, balance int64) {
	_ = e.accounts.EnsureAccount(context.Background(), player, decimal.NewFromInt(balance))
}

func (e *scriptedEconomy) inject(op string, faults ...fault) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.faults[op] = append(e.faults[op], faults...)
}

// gate blocks mutations for player until the returned func is called.
func (e *scriptedEconomy) gate(player uuid.UUID) func() {
	ch := make(chan struct{})
	e.mu.Lock()
	e.gates[player] = ch
	e.mu.Unlock()
	return func() { close(ch) }
}

func (e *scriptedEconomy) callCount(op string) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.calls[op]
}

func (e *scriptedEconomy) balance(player uuid.UUID) decimal.Decimal {
	b, _ := e.accounts.GetBalance(context.Background(), player)
	return b
}

func (e *scriptedEconomy) next(op string) (fault, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.calls[op]++
	queue := e.faults[op]
	if len(queue) == 0 {
		return fault{}, false
	}
	e.faults[op] = queue[1:]
	return queue[0], true
}

func (e *scriptedEconomy) GetBalance(ctx context.Context, player uuid.UUID) (decimal.Decimal, error) {
	if f, ok := e.next(opGetBalance); ok {
		return decimal.Decimal{}, f.err
	}
	return e.accounts.GetBalance(ctx, player)
}

func (e *scriptedEconomy) Deposit(ctx context.Context, player uuid.UUID, amount decimal.Decimal) error {
	return e.mutate(ctx, opDeposit, player, func() error {
		return e.accounts.Deposit(ctx, player, amount)
	})
}

func (e *scriptedEconomy) Withdraw(ctx context.Context, player uuid.UUID, amount decimal.Decimal) error {
	return e.mutate(ctx, opWithdraw, player, func() error {
		return e.accounts.Withdraw(ctx, player, amount)
	})
}

func (e *scriptedEconomy) mutate(ctx context.Context, op string, player uuid.UUID, apply func() error) error {
	e.mu.Lock()
	e.inFlight[player]++
	if e.inFlight[player] > 1 {
		e.overlapped.Store(true)
	}
	gate := e.gates[player]
	delay := e.delay
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.inFlight[player]--
		e.mu.Unlock()
	}()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if delay > 0 {
		time.Sleep(delay)
	}

	f, ok := e.next(op)
	if !ok {
		return apply()
	}
	if f.applyFirst {
		if err := apply(); err != nil {
			return err
		}
	}
	if f.sideEffect != nil {
		f.sideEffect()
	}
	return f.err
}

type valuatorFunc func(event domain.DomainEvent) (decimal.Decimal, error)

func (f valuatorFunc) Valuate(event domain.DomainEvent) (decimal.Decimal, error) {
	return f(event)
}

func fixedValuator(amount int64) domain.Valuator {
	return valuatorFunc(func(domain.DomainEvent) (decimal.Decimal, error) {
		return decimal.NewFromInt(amount), nil
	})
}

package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
)

// Accounts is an in-process economy service used by the memory backend and tests.
type Accounts struct {
	mu       sync.Mutex
	balances map[uuid.UUID]decimal.Decimal
}

func NewAccounts() *Accounts {
	return &Accounts{
		balances: make(map[uuid.UUID]decimal.Decimal),
	}
}

func (a *Accounts) EnsureAccount(ctx context.Context, player uuid.UUID, startBalance decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return &domain.ServiceUnavailableError{Msg: "ensure account", Err: err}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	if _, ok := a.balances[player]; !ok {
		a.balances[player] = startBalance
	}
	return nil
}

func (a *Accounts) GetBalance(ctx context.Context, player uuid.UUID) (decimal.Decimal, error) {
	if err := ctx.Err(); err != nil {
		return decimal.Decimal{}, &domain.ServiceUnavailableError{Msg: "get balance", Err: err}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	balance, ok := a.balances[player]
	if !ok {
		return decimal.Decimal{}, accountNotFound(player)
	}
	return balance, nil
}

func (a *Accounts) Deposit(ctx context.Context, player uuid.UUID, amount decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return &domain.ServiceUnavailableError{Msg: "deposit", Err: err}
	}
	if amount.IsNegative() {
		return &domain.InvalidArgumentsError{Msg: "deposit amount must not be negative"}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	balance, ok := a.balances[player]
	if !ok {
		return accountNotFound(player)
	}
	a.balances[player] = balance.Add(amount)
	return nil
}

func (a *Accounts) Withdraw(ctx context.Context, player uuid.UUID, amount decimal.Decimal) error {
	if err := ctx.Err(); err != nil {
		return &domain.ServiceUnavailableError{Msg: "withdraw", Err: err}
	}
	if amount.IsNegative() {
		return &domain.InvalidArgumentsError{Msg: "withdraw amount must not be negative"}
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	balance, ok := a.balances[player]
	if !ok {
		return accountNotFound(player)
	}
	if balance.LessThan(amount) {
		return &domain.InsufficientFundsError{
			Msg: fmt.Sprintf("balance %s is lower than %s", balance, amount),
		}
	}
	a.balances[player] = balance.Sub(amount)
	return nil
}

func accountNotFound(player uuid.UUID) error {
	return &domain.AccountNotFoundError{Msg: fmt.Sprintf("account %s not found", player)}
}

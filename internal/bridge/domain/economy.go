package domain

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EconomyService is the external account API. Calls are not deduplicated on the service
// side; the coordinator is the only caller that mutates balances.
type EconomyService interface {
	GetBalance(ctx context.Context, player uuid.UUID) (decimal.Decimal, error)
	Deposit(ctx context.Context, player uuid.UUID, amount decimal.Decimal) error
	Withdraw(ctx context.Context, player uuid.UUID, amount decimal.Decimal) error
}

type AccountOpener interface {
	EnsureAccount(ctx context.Context, player uuid.UUID, startBalance decimal.Decimal) error
}

type Valuator interface {
	Valuate(event DomainEvent) (decimal.Decimal, error)
}

type TransactionJournal interface {
	Record(ctx context.Context, record TransactionRecord) error
	History(ctx context.Context, player uuid.UUID, limit int) ([]TransactionRecord, error)
	// Find returns the latest record for correlationID or TransactionNotFoundError.
	Find(ctx context.Context, correlationID string) (TransactionRecord, error)
}

type ResultSink interface {
	Notify(result Result)
}

type ResultSinkFunc func(result Result)

func (f ResultSinkFunc) Notify(result Result) {
	f(result)
}

// ReloadReport summarizes a successful configuration reload.
type ReloadReport struct {
	Rules  int
	Offers int
}

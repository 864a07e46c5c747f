package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

type TxState string

const (
	TxPending   TxState = "pending"
	TxSubmitted TxState = "submitted"
	TxRetrying  TxState = "retrying"
	TxCommitted TxState = "committed"
	TxFailed    TxState = "failed"
	TxCancelled TxState = "cancelled"
)

func (s TxState) Terminal() bool {
	return s == TxCommitted || s == TxFailed || s == TxCancelled
}

// TransactionRequest asks the coordinator for one balance change. Either Amount is set
// directly (shop prices) or Event is set and the amount comes from valuation.
type TransactionRequest struct {
	CorrelationID string
	Player        uuid.UUID
	Direction     Direction
	Amount        decimal.Decimal
	Event         *DomainEvent
	Reason        string
}

type Result struct {
	CorrelationID string
	Player        uuid.UUID
	Direction     Direction
	Amount        decimal.Decimal
	Reason        string
	State         TxState
	Attempts      int
	Balance       decimal.Decimal
	Err           error
}

func (r Result) Committed() bool {
	return r.State == TxCommitted
}

type TransactionRecord struct {
	CorrelationID string
	Player        uuid.UUID
	Direction     Direction
	Amount        decimal.Decimal
	State         TxState
	Reason        string
	Error         string
	UpdatedAt     time.Time
}

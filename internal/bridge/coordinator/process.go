package coordinator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
)

func (c *Coordinator) process(ctx context.Context, ticket *Ticket) {
	if !ticket.transition(domain.TxPending, domain.TxSubmitted) {
		// cancelled while queued
		return
	}

	request := ticket.Request()
	ctx, span := c.tracer.Start(ctx, "coordinator.process", trace.WithAttributes(
		attribute.String("correlation_id", request.CorrelationID),
		attribute.String("player", request.Player.String()),
		attribute.String("direction", string(request.Direction)),
		attribute.String("amount", request.Amount.String()),
	))
	defer span.End()

	c.record(ticket.Snapshot())
	result := ticket.baseResult()

	if request.Amount.IsZero() {
		ticket.finish(domain.TxCommitted, result, nil)
		return
	}

	if err := c.locks.acquire(ctx, request.Player, request.CorrelationID); err != nil {
		c.fail(span, ticket, result, err)
		return
	}

	balance, err := c.apply(ctx, ticket)

	if releaseErr := c.locks.release(request.Player, request.CorrelationID); releaseErr != nil && err == nil {
		err = releaseErr
	}

	result.Balance = balance
	if err != nil {
		c.fail(span, ticket, result, err)
		return
	}

	span.SetAttributes(attribute.Int("attempts", ticket.Snapshot().Attempts))
	c.logger.Info("transaction committed",
		"correlation_id", request.CorrelationID,
		"player", request.Player.String(),
		"direction", string(request.Direction),
		"amount", request.Amount.String(),
		"balance", balance.String(),
	)
	ticket.finish(domain.TxCommitted, result, nil)
}

func (c *Coordinator) fail(span trace.Span, ticket *Ticket, result domain.Result, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	args := []any{"correlation_id", result.CorrelationID, "player", result.Player.String(), "error", err}
	switch {
	case errors.Is(err, &domain.InvariantViolationError{}):
		c.logger.Error("transaction aborted", args...)
	case domain.IsValidation(err):
		c.logger.Info("transaction rejected", args...)
	default:
		c.logger.Warn("transaction failed", args...)
	}

	ticket.finish(domain.TxFailed, result, err)
}

// apply performs the balance change with retries and returns the resulting balance. A
// rejected debit returns the unchanged balance.
func (c *Coordinator) apply(ctx context.Context, ticket *Ticket) (decimal.Decimal, error) {
	request := ticket.Request()

	var (
		before       decimal.Decimal
		expected     decimal.Decimal
		haveBalance  bool
		mutationSent bool
	)

	operation := func() (decimal.Decimal, error) {
		if attempt := ticket.beginAttempt(); attempt == 2 {
			c.record(ticket.Snapshot())
		}

		if !haveBalance {
			balance, err := c.getBalance(ctx, request)
			if err != nil {
				return decimal.Decimal{}, retryable(err)
			}

			before = balance
			haveBalance = true

			if request.Direction == domain.DirectionDebit {
				if before.LessThan(request.Amount) {
					return before, backoff.Permanent(&domain.InsufficientFundsError{
						Msg: fmt.Sprintf("balance %s is lower than %s", before, request.Amount),
					})
				}
				expected = before.Sub(request.Amount)
			} else {
				expected = before.Add(request.Amount)
			}
		} else if mutationSent {
			current, err := c.getBalance(ctx, request)
			if err != nil {
				return decimal.Decimal{}, retryable(err)
			}

			applied, err := reconcile(request, current, before, expected)
			if err != nil {
				return current, backoff.Permanent(err)
			}
			if applied {
				c.logger.Info("previous attempt was applied", "correlation_id", request.CorrelationID)
				return expected, nil
			}
		}

		mutationSent = true
		if err := c.mutate(ctx, request); err != nil {
			if !isRetryable(err) {
				mutationSent = false
			}
			return before, retryable(err)
		}

		return expected, nil
	}

	balance, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(c.newBackOff()),
		backoff.WithMaxTries(uint(c.cfg.MaxAttempts)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			c.logger.Warn("economy call failed, retrying",
				"correlation_id", request.CorrelationID,
				"error", err,
				"retry_in", next,
			)
		}),
	)

	var permanent *backoff.PermanentError
	if errors.As(err, &permanent) {
		return balance, permanent.Unwrap()
	}

	if err != nil && mutationSent && isRetryable(err) {
		return c.settle(ctx, request, before, expected, err)
	}

	return balance, err
}

// settle resolves a mutation whose last reply was lost after the attempts ran out.
func (c *Coordinator) settle(ctx context.Context, request domain.TransactionRequest, before, expected decimal.Decimal, cause error) (decimal.Decimal, error) {
	current, err := c.getBalance(ctx, request)
	if err != nil {
		c.logger.Error("outcome of economy call is unknown",
			"correlation_id", request.CorrelationID,
			"player", request.Player.String(),
			"error", err,
		)
		return before, cause
	}

	applied, err := reconcile(request, current, before, expected)
	switch {
	case err != nil:
		return current, err
	case applied:
		c.logger.Info("last attempt was applied", "correlation_id", request.CorrelationID)
		return expected, nil
	default:
		return before, cause
	}
}

// reconcile reports whether a fresh balance shows the mutation applied. A balance matching
// neither side means another writer touched the account.
func reconcile(request domain.TransactionRequest, current, before, expected decimal.Decimal) (bool, error) {
	switch {
	case current.Equal(expected):
		return true, nil
	case current.Equal(before):
		return false, nil
	default:
		return false, &domain.InvariantViolationError{
			Msg: fmt.Sprintf("balance of %s is %s, expected %s or %s", request.Player, current, before, expected),
		}
	}
}

func (c *Coordinator) newBackOff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.cfg.InitialInterval
	b.MaxInterval = c.cfg.MaxInterval
	return b
}

func (c *Coordinator) getBalance(ctx context.Context, request domain.TransactionRequest) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := c.call(ctx, func(ctx context.Context) error {
		var err error
		balance, err = c.economy.GetBalance(ctx, request.Player)
		return err
	})
	return balance, err
}

func (c *Coordinator) mutate(ctx context.Context, request domain.TransactionRequest) error {
	return c.call(ctx, func(ctx context.Context) error {
		if request.Direction == domain.DirectionDebit {
			return c.economy.Withdraw(ctx, request.Player, request.Amount)
		}
		return c.economy.Deposit(ctx, request.Player, request.Amount)
	})
}

func (c *Coordinator) call(ctx context.Context, fn func(ctx context.Context) error) error {
	callCtx, cancel := context.WithTimeout(ctx, c.cfg.CallTimeout)
	defer cancel()

	err := fn(callCtx)
	if err != nil && !domain.IsTransient(err) && errors.Is(err, context.DeadlineExceeded) {
		return &domain.ServiceUnavailableError{Msg: "economy call timed out", Err: err}
	}
	return err
}

func isRetryable(err error) bool {
	return domain.IsTransient(err) || errors.Is(err, context.DeadlineExceeded)
}

func retryable(err error) error {
	if isRetryable(err) {
		return err
	}
	return backoff.Permanent(err)
}

package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
)

// classifyError maps driver failures onto the economy error taxonomy. Domain errors raised
// inside a transaction pass through as is.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	if domain.IsValidation(err) || domain.IsTransient(err) {
		return err
	}

	if isUnavailable(err) {
		return &domain.ServiceUnavailableError{Msg: op, Err: err}
	}

	return fmt.Errorf("%s: %w", op, err)
}

func isUnavailable(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return true
	}
	if pgconn.Timeout(err) || pgconn.SafeToRetry(err) {
		return true
	}

	var connectErr *pgconn.ConnectError
	if errors.As(err, &connectErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch {
		case len(pgErr.Code) >= 2 && pgErr.Code[:2] == "08":
			// connection exception class
			return true
		case pgErr.Code == "57P01", pgErr.Code == "53300", pgErr.Code == "40001", pgErr.Code == "40P01":
			return true
		}
	}

	return false
}

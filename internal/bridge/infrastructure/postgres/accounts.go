package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
	"github.com/turiddu25/cobble-economy/internal/pkg/database"
)

// Accounts is the economy service backed by the accounts table.
type Accounts struct {
	queryExecuter database.QueryExecuter
	txManager     database.TxManager
}

func NewAccounts(queryExecuter database.QueryExecuter, txManager database.TxManager) *Accounts {
	return &Accounts{
		queryExecuter: queryExecuter,
		txManager:     txManager,
	}
}

func (a *Accounts) EnsureAccount(ctx context.Context, player uuid.UUID, startBalance decimal.Decimal) error {
	sql := `INSERT INTO accounts (player_id, balance) VALUES ($1, $2::numeric) ON CONFLICT (player_id) DO NOTHING`

	_, err := a.queryExecuter.Exec(ctx, sql, player.String(), startBalance.String())
	return classifyError("failed to ensure account", err)
}

func (a *Accounts) GetBalance(ctx context.Context, player uuid.UUID) (decimal.Decimal, error) {
	balance, err := getBalance(ctx, a.queryExecuter, player, false)
	if err != nil {
		return decimal.Decimal{}, classifyError("failed to get balance", err)
	}
	return balance, nil
}

func (a *Accounts) Deposit(ctx context.Context, player uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return &domain.InvalidArgumentsError{Msg: "deposit amount must not be negative"}
	}

	sql := `UPDATE accounts SET balance = balance + $1::numeric, updated_at = now() WHERE player_id = $2`
	tag, err := a.queryExecuter.Exec(ctx, sql, amount.String(), player.String())
	if err != nil {
		return classifyError("failed to deposit", err)
	}
	if tag.RowsAffected() == 0 {
		return accountNotFound(player)
	}

	return nil
}

func (a *Accounts) Withdraw(ctx context.Context, player uuid.UUID, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return &domain.InvalidArgumentsError{Msg: "withdraw amount must not be negative"}
	}

	err := a.txManager.WithinTransaction(ctx, func(ctx context.Context, executor database.QueryExecuter) error {
		balance, err := getBalance(ctx, executor, player, true)
		if err != nil {
			return err
		}

		if balance.LessThan(amount) {
			return &domain.InsufficientFundsError{
				Msg: fmt.Sprintf("balance %s is lower than %s", balance, amount),
			}
		}

		sql := `UPDATE accounts SET balance = balance - $1::numeric, updated_at = now() WHERE player_id = $2`
		_, err = executor.Exec(ctx, sql, amount.String(), player.String())
		if err != nil {
			return fmt.Errorf("failed to update balance: %w", err)
		}

		return nil
	})

	return classifyError("failed to withdraw", err)
}

func getBalance(ctx context.Context, querier database.Querier, player uuid.UUID, lock bool) (decimal.Decimal, error) {
	sql := `SELECT balance::text FROM accounts WHERE player_id = $1`
	if lock {
		sql += ` FOR UPDATE`
	}

	var raw string
	err := querier.QueryRow(ctx, sql, player.String()).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Decimal{}, accountNotFound(player)
		}
		return decimal.Decimal{}, err
	}

	balance, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("failed to parse balance %q: %w", raw, err)
	}

	return balance, nil
}

func accountNotFound(player uuid.UUID) error {
	return &domain.AccountNotFoundError{Msg: fmt.Sprintf("account %s not found", player)}
}

//go:build integration

package postgres

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
	"github.com/turiddu25/cobble-economy/internal/pkg/database"
	"github.com/turiddu25/cobble-economy/internal/pkg/logging"
	"github.com/turiddu25/cobble-economy/migrations"
)

func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()

	pg, err := tcpostgres.Run(
		t.Context(),
		"postgres:16-alpine",
		tcpostgres.WithDatabase("economy_bridge"),
		tcpostgres.WithUsername("bridge"),
		tcpostgres.WithPassword("password"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(context.Background()) })

	connStr, err := pg.ConnectionString(t.Context(), "sslmode=disable")
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		err := database.MigrateDatabase(t.Context(), connStr, migrations.FS, migrations.Dir, logging.NopLogger)
		return err == nil
	}, 30*time.Second, 500*time.Millisecond)

	pool, err := pgxpool.New(t.Context(), connStr)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return pool
}

func TestIntegration_AccountsAndJournal(t *testing.T) {
	pool := startPostgres(t)

	accounts := NewAccounts(pool, database.NewDelegateTxManager(pool, logging.NopLogger))
	journal := NewJournal(pool)
	ctx := t.Context()
	player := uuid.New()

	require.NoError(t, accounts.EnsureAccount(ctx, player, decimal.NewFromInt(100)))
	require.NoError(t, accounts.EnsureAccount(ctx, player, decimal.NewFromInt(999)))

	require.NoError(t, accounts.Deposit(ctx, player, decimal.NewFromInt(25)))
	balance, err := accounts.GetBalance(ctx, player)
	require.NoError(t, err)
	assert.Equal(t, "125.00", balance.StringFixed(2))

	err = accounts.Withdraw(ctx, player, decimal.NewFromInt(500))
	assert.ErrorIs(t, err, &domain.InsufficientFundsError{})

	balance, err = accounts.GetBalance(ctx, player)
	require.NoError(t, err)
	assert.Equal(t, "125.00", balance.StringFixed(2))

	_, err = accounts.GetBalance(ctx, uuid.New())
	assert.ErrorIs(t, err, &domain.AccountNotFoundError{})

	var wg sync.WaitGroup
	for range 25 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			assert.NoError(t, accounts.Withdraw(ctx, player, decimal.NewFromInt(5)))
		}()
	}
	wg.Wait()

	balance, err = accounts.GetBalance(ctx, player)
	require.NoError(t, err)
	assert.True(t, balance.IsZero(), "balance %s", balance)

	record := domain.TransactionRecord{
		CorrelationID: uuid.NewString(),
		Player:        player,
		Direction:     domain.DirectionCredit,
		Amount:        decimal.NewFromInt(25),
		State:         domain.TxSubmitted,
		Reason:        "event:captured",
		UpdatedAt:     time.Now().UTC(),
	}
	require.NoError(t, journal.Record(ctx, record))

	record.State = domain.TxCommitted
	require.NoError(t, journal.Record(ctx, record))

	history, err := journal.History(ctx, player, 10)
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, domain.TxCommitted, history[0].State)
	assert.True(t, decimal.NewFromInt(25).Equal(history[0].Amount))
}

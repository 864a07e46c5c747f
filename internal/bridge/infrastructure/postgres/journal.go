package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
	"github.com/turiddu25/cobble-economy/internal/pkg/database"
)

type Journal struct {
	queryExecuter database.QueryExecuter
}

func NewJournal(queryExecuter database.QueryExecuter) *Journal {
	return &Journal{
		queryExecuter: queryExecuter,
	}
}

func (j *Journal) Record(ctx context.Context, record domain.TransactionRecord) error {
	sql := `INSERT INTO transaction_journal (correlation_id, player_id, direction, amount, state, reason, error, updated_at)
		VALUES ($1, $2, $3, $4::numeric, $5, $6, $7, $8)
		ON CONFLICT (correlation_id) DO UPDATE
		SET amount = EXCLUDED.amount, state = EXCLUDED.state, error = EXCLUDED.error, updated_at = EXCLUDED.updated_at`

	_, err := j.queryExecuter.Exec(ctx, sql,
		record.CorrelationID,
		record.Player.String(),
		string(record.Direction),
		record.Amount.String(),
		string(record.State),
		record.Reason,
		record.Error,
		record.UpdatedAt,
	)
	return classifyError("failed to record transaction", err)
}

// History returns up to limit records for player, newest first. A limit <= 0 returns all.
func (j *Journal) History(ctx context.Context, player uuid.UUID, limit int) ([]domain.TransactionRecord, error) {
	if limit <= 0 {
		limit = math.MaxInt32
	}

	sql := `SELECT correlation_id, player_id::text, direction, amount::text, state, reason, error, updated_at
		FROM transaction_journal WHERE player_id = $1 ORDER BY created_at DESC, correlation_id LIMIT $2`

	rows, err := j.queryExecuter.Query(ctx, sql, player.String(), limit)
	if err != nil {
		return nil, classifyError("failed to query journal", err)
	}
	defer rows.Close()

	res := make([]domain.TransactionRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		res = append(res, record)
	}

	if err := rows.Err(); err != nil {
		return nil, classifyError("failed to read journal", err)
	}

	return res, nil
}

func (j *Journal) Find(ctx context.Context, correlationID string) (domain.TransactionRecord, error) {
	sql := `SELECT correlation_id, player_id::text, direction, amount::text, state, reason, error, updated_at
		FROM transaction_journal WHERE correlation_id = $1`

	record, err := scanRecord(j.queryExecuter.QueryRow(ctx, sql, correlationID))
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.TransactionRecord{}, &domain.TransactionNotFoundError{Msg: fmt.Sprintf("transaction %s not found", correlationID)}
	}
	if err != nil {
		return domain.TransactionRecord{}, classifyError("failed to find transaction", err)
	}
	return record, nil
}

func scanRecord(row pgx.Row) (domain.TransactionRecord, error) {
	var (
		record    domain.TransactionRecord
		playerRaw string
		direction string
		amountRaw string
		state     string
	)

	err := row.Scan(&record.CorrelationID, &playerRaw, &direction, &amountRaw, &state, &record.Reason, &record.Error, &record.UpdatedAt)
	if err != nil {
		return record, fmt.Errorf("failed to scan journal row: %w", err)
	}

	if record.Player, err = uuid.Parse(playerRaw); err != nil {
		return record, fmt.Errorf("failed to parse player id %q: %w", playerRaw, err)
	}
	if record.Amount, err = decimal.NewFromString(amountRaw); err != nil {
		return record, fmt.Errorf("failed to parse amount %q: %w", amountRaw, err)
	}
	record.Direction = domain.Direction(direction)
	record.State = domain.TxState(state)

	return record, nil
}

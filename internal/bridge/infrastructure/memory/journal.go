package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
)

// Journal keeps the latest record per correlation id.
type Journal struct {
	mu      sync.RWMutex
	records map[string]domain.TransactionRecord
	order   map[uuid.UUID][]string
}

func NewJournal() *Journal {
	return &Journal{
		records: make(map[string]domain.TransactionRecord),
		order:   make(map[uuid.UUID][]string),
	}
}

func (j *Journal) Record(_ context.Context, record domain.TransactionRecord) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if _, ok := j.records[record.CorrelationID]; !ok {
		j.order[record.Player] = append(j.order[record.Player], record.CorrelationID)
	}
	j.records[record.CorrelationID] = record
	return nil
}

// History returns up to limit records for player, newest first. A limit <= 0 returns all.
func (j *Journal) History(_ context.Context, player uuid.UUID, limit int) ([]domain.TransactionRecord, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	ids := j.order[player]
	res := make([]domain.TransactionRecord, 0, len(ids))
	for _, id := range slices.Backward(ids) {
		if limit > 0 && len(res) == limit {
			break
		}
		res = append(res, j.records[id])
	}
	return res, nil
}

func (j *Journal) Find(_ context.Context, correlationID string) (domain.TransactionRecord, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()

	record, ok := j.records[correlationID]
	if !ok {
		return domain.TransactionRecord{}, &domain.TransactionNotFoundError{Msg: fmt.Sprintf("transaction %s not found", correlationID)}
	}
	return record, nil
}

package coordinator

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
)

type accountLock struct {
	token  chan struct{}
	refs   int
	holder string
}

// accountLocks hands out one token per player. Entries are created on first use and removed
// once nobody holds or waits for them.
type accountLocks struct {
	mu    sync.Mutex
	locks map[uuid.UUID]*accountLock
}

func newAccountLocks() *accountLocks {
	return &accountLocks{
		locks: make(map[uuid.UUID]*accountLock),
	}
}

func (l *accountLocks) acquire(ctx context.Context, player uuid.UUID, holder string) error {
	l.mu.Lock()
	lock, ok := l.locks[player]
	if !ok {
		lock = &accountLock{token: make(chan struct{}, 1)}
		l.locks[player] = lock
	}
	if lock.holder == holder {
		l.mu.Unlock()
		return &domain.InvariantViolationError{
			Msg: fmt.Sprintf("transaction %s already holds the lock for %s", holder, player),
		}
	}
	lock.refs++
	l.mu.Unlock()

	select {
	case lock.token <- struct{}{}:
		l.mu.Lock()
		lock.holder = holder
		l.mu.Unlock()
		return nil
	case <-ctx.Done():
		l.mu.Lock()
		l.unref(player, lock)
		l.mu.Unlock()
		return ctx.Err()
	}
}

func (l *accountLocks) release(player uuid.UUID, holder string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	lock, ok := l.locks[player]
	if !ok || lock.holder != holder {
		return &domain.InvariantViolationError{
			Msg: fmt.Sprintf("transaction %s released a lock for %s it does not hold", holder, player),
		}
	}

	lock.holder = ""
	<-lock.token
	l.unref(player, lock)
	return nil
}

func (l *accountLocks) unref(player uuid.UUID, lock *accountLock) {
	lock.refs--
	if lock.refs == 0 {
		delete(l.locks, player)
	}
}

func (l *accountLocks) size() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.locks)
}

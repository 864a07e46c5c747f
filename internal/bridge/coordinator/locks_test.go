package coordinator

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turiddu25/cobble-economy/internal/bridge/domain"
)

func TestAccountLocks(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name string

		actFn func(t *testing.T, locks *accountLocks, player uuid.UUID) error

		expectedErr  error
		expectedSize int
	}

	tests := []testCase{
		{
			name: "acquire and release",
			actFn: func(t *testing.T, locks *accountLocks, player uuid.UUID) error {
				require.NoError(t, locks.acquire(t.Context(), player, "tx-1"))
				assert.Equal(t, 1, locks.size())
				return locks.release(player, "tx-1")
			},
			expectedSize: 0,
		},
		{
			name: "re-entrant acquire",
			actFn: func(t *testing.T, locks *accountLocks, player uuid.UUID) error {
				require.NoError(t, locks.acquire(t.Context(), player, "tx-1"))
				return locks.acquire(t.Context(), player, "tx-1")
			},
			expectedErr:  &domain.InvariantViolationError{},
			expectedSize: 1,
		},
		{
			name: "release without acquire",
			actFn: func(t *testing.T, locks *accountLocks, player uuid.UUID) error {
				return locks.release(player, "tx-1")
			},
			expectedErr:  &domain.InvariantViolationError{},
			expectedSize: 0,
		},
		{
			name: "release by another holder",
			actFn: func(t *testing.T, locks *accountLocks, player uuid.UUID) error {
				require.NoError(t, locks.acquire(t.Context(), player, "tx-1"))
				return locks.release(player, "tx-2")
			},
			expectedErr:  &domain.InvariantViolationError{},
			expectedSize: 1,
		},
		{
			name: "waiter gives up",
			actFn: func(t *testing.T, locks *accountLocks, player uuid.UUID) error {
				require.NoError(t, locks.acquire(t.Context(), player, "tx-1"))

				ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
				defer cancel()
				err := locks.acquire(ctx, player, "tx-2")
				require.ErrorIs(t, err, context.DeadlineExceeded)

				return locks.release(player, "tx-1")
			},
			expectedSize: 0,
		},
	}

	for _, tc := range tests {
		tt := tc
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			locks := newAccountLocks()
			err := tt.actFn(t, locks, uuid.New())

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
			} else {
				assert.NoError(t, err)
			}
			assert.Equal(t, tt.expectedSize, locks.size())
		})
	}
}

func TestAccountLocks_HandOff(t *testing.T) {
	t.Parallel()

	locks := newAccountLocks()
	player := uuid.New()

	require.NoError(t, locks.acquire(t.Context(), player, "tx-1"))

	acquired := make(chan struct{})
	go func() {
		assert.NoError(t, locks.acquire(context.Background(), player, "tx-2"))
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired a held lock")
	case <-time.After(20 * time.Millisecond):
	}

	require.NoError(t, locks.release(player, "tx-1"))

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second holder never acquired the lock")
	}

	require.NoError(t, locks.release(player, "tx-2"))
	assert.Equal(t, 0, locks.size())
}

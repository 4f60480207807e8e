package locking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryLocker(t *testing.T) {
	ctx := context.Background()

	t.Run("second acquire of a held lock fails", func(t *testing.T) {
		locker := NewMemoryLocker()

		ok, err := locker.TryAcquire(ctx, "sync:inventory_levels", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = locker.TryAcquire(ctx, "sync:inventory_levels", time.Minute)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("different keys are independent", func(t *testing.T) {
		locker := NewMemoryLocker()

		ok, err := locker.TryAcquire(ctx, "sync:inventory_levels", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = locker.TryAcquire(ctx, "sync:vendor_products", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("release frees the lock", func(t *testing.T) {
		locker := NewMemoryLocker()

		ok, err := locker.TryAcquire(ctx, "reconcile:sku:MUG-RED", time.Minute)
		require.NoError(t, err)
		require.True(t, ok)

		require.NoError(t, locker.Release(ctx, "reconcile:sku:MUG-RED"))

		ok, err = locker.TryAcquire(ctx, "reconcile:sku:MUG-RED", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("expired lock can be re-acquired", func(t *testing.T) {
		locker := NewMemoryLocker()

		ok, err := locker.TryAcquire(ctx, "sync:inventory_levels", time.Millisecond)
		require.NoError(t, err)
		require.True(t, ok)

		time.Sleep(5 * time.Millisecond)

		ok, err = locker.TryAcquire(ctx, "sync:inventory_levels", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("releasing an unheld lock is a no-op", func(t *testing.T) {
		locker := NewMemoryLocker()
		assert.NoError(t, locker.Release(ctx, "never-acquired"))
	})
}

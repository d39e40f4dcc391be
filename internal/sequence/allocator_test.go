package sequence

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/ecomcore/storefront/internal/domain"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_busy_timeout=5000"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.IDCounter{}))
	return db
}

func TestAllocatorNext(t *testing.T) {
	db := newTestDB(t)
	alloc := NewAllocator(db)
	ctx := context.Background()

	t.Run("fresh key starts at one", func(t *testing.T) {
		seq, err := alloc.Next(ctx, "testid")
		require.NoError(t, err)
		assert.Equal(t, int64(1), seq)
	})

	t.Run("values increase by one", func(t *testing.T) {
		for want := int64(2); want <= 5; want++ {
			seq, err := alloc.Next(ctx, "testid")
			require.NoError(t, err)
			assert.Equal(t, want, seq)
		}
	})

	t.Run("keys are independent", func(t *testing.T) {
		seq, err := alloc.Next(ctx, "otherid")
		require.NoError(t, err)
		assert.Equal(t, int64(1), seq)
	})
}

// Allocations inside an open transaction must ride the transaction's own
// connection; going through the outer handle would hit sqlite's table lock
// and fail the enclosing write.
func TestAllocatorNextTx(t *testing.T) {
	db := newTestDB(t)
	alloc := NewAllocator(db)
	ctx := context.Background()

	var first, second int64
	err := db.Transaction(func(tx *gorm.DB) error {
		var err error
		if first, err = alloc.NextTx(ctx, tx, "txid"); err != nil {
			return err
		}
		second, err = alloc.NextTx(ctx, tx, "txid")
		return err
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first)
	assert.Equal(t, int64(2), second)

	t.Run("rollback returns the counter", func(t *testing.T) {
		sentinel := assert.AnError
		err := db.Transaction(func(tx *gorm.DB) error {
			if _, err := alloc.NextTx(ctx, tx, "txid"); err != nil {
				return err
			}
			return sentinel
		})
		require.ErrorIs(t, err, sentinel)

		seq, err := alloc.Next(ctx, "txid")
		require.NoError(t, err)
		assert.Equal(t, int64(3), seq)
	})
}

func TestAllocatorCurrent(t *testing.T) {
	db := newTestDB(t)
	alloc := NewAllocator(db)
	ctx := context.Background()

	seq, err := alloc.Current(ctx, "neverused")
	require.NoError(t, err)
	assert.Equal(t, int64(0), seq)

	_, err = alloc.Next(ctx, "used")
	require.NoError(t, err)
	_, err = alloc.Next(ctx, "used")
	require.NoError(t, err)

	seq, err = alloc.Current(ctx, "used")
	require.NoError(t, err)
	assert.Equal(t, int64(2), seq)
}

// N concurrent allocations on one key must yield exactly {1..N}: every value
// handed to exactly one caller, no duplicates, no gaps.
func TestAllocatorConcurrent(t *testing.T) {
	db := newTestDB(t)
	alloc := NewAllocator(db)
	ctx := context.Background()

	const n = 32
	results := make([]int64, n)
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			seq, err := alloc.Next(ctx, "raceid")
			assert.NoError(t, err)
			results[i] = seq
		}(i)
	}
	wg.Wait()

	sort.Slice(results, func(i, j int) bool { return results[i] < results[j] })
	for i := 0; i < n; i++ {
		assert.Equal(t, int64(i+1), results[i])
	}
}

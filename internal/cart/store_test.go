package cart

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/angelmondragon/storefront-backend/pkg/db/models"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newSQLiteRepository(t *testing.T) *Repository {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{SkipDefaultTransaction: true})
	require.NoError(t, err)
	sqlDB, err := conn.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, conn.AutoMigrate(&models.CartItem{}))
	return NewRepository(conn)
}

func storeBackends(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(*testing.T) Store { return NewMemoryStore() },
		"sqlite": func(t *testing.T) Store { return newSQLiteRepository(t) },
	}
}

func TestStoreAddMergesQuantities(t *testing.T) {
	for name, build := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := build(t)

			first, err := store.Add(ctx, "s1", nil, 7, 2)
			require.NoError(t, err)
			second, err := store.Add(ctx, "s1", nil, 7, 3)
			require.NoError(t, err)
			require.Equal(t, first.ID, second.ID)
			require.Equal(t, 5, second.Quantity)

			other, err := store.Add(ctx, "s2", nil, 7, 1)
			require.NoError(t, err)
			require.NotEqual(t, first.ID, other.ID)

			items, err := store.List(ctx, "s1")
			require.NoError(t, err)
			require.Len(t, items, 1)
			require.Equal(t, 5, items[0].Quantity)

			_, err = store.Add(ctx, "s1", nil, 7, 0)
			require.Error(t, err)
		})
	}
}

func TestStoreSetQuantityZeroDeletes(t *testing.T) {
	for name, build := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := build(t)
			item, err := store.Add(ctx, "s1", nil, 3, 1)
			require.NoError(t, err)

			updated, removed, err := store.SetQuantity(ctx, item.ID, 4)
			require.NoError(t, err)
			require.False(t, removed)
			require.Equal(t, 4, updated.Quantity)

			_, removed, err = store.SetQuantity(ctx, item.ID, 0)
			require.NoError(t, err)
			require.True(t, removed)

			_, err = store.Get(ctx, item.ID)
			require.ErrorIs(t, err, ErrNotFound)
			_, _, err = store.SetQuantity(ctx, item.ID, 2)
			require.ErrorIs(t, err, ErrNotFound)

			readded, err := store.Add(ctx, "s1", nil, 3, 2)
			require.NoError(t, err)
			require.Equal(t, 2, readded.Quantity)
		})
	}
}

func TestStoreRemoveAndUnknownSession(t *testing.T) {
	for name, build := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := build(t)

			items, err := store.List(ctx, "never-seen")
			require.NoError(t, err)
			require.NotNil(t, items)
			require.Empty(t, items)

			userID := uint64(9)
			item, err := store.Add(ctx, "s1", &userID, 1, 1)
			require.NoError(t, err)
			require.NotNil(t, item.UserID)
			require.Equal(t, userID, *item.UserID)

			removed, err := store.Remove(ctx, item.ID)
			require.NoError(t, err)
			require.True(t, removed)
			removed, err = store.Remove(ctx, item.ID)
			require.NoError(t, err)
			require.False(t, removed)
		})
	}
}

func TestStoreMissingItemIsNotFound(t *testing.T) {
	for name, build := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := build(t)

			_, err := store.Get(ctx, 404)
			require.ErrorIs(t, err, ErrNotFound)
			_, _, err = store.SetQuantity(ctx, 404, 3)
			require.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreConcurrentAddsSum(t *testing.T) {
	for name, build := range storeBackends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := build(t)

			const workers = 20
			var wg sync.WaitGroup
			errs := make(chan error, workers)
			for i := 0; i < workers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := store.Add(ctx, "shared", nil, 42, 1); err != nil {
						errs <- err
					}
				}()
			}
			wg.Wait()
			close(errs)
			for err := range errs {
				require.NoError(t, err)
			}

			items, err := store.List(ctx, "shared")
			require.NoError(t, err)
			require.Len(t, items, 1)
			require.Equal(t, workers, items[0].Quantity)
		})
	}
}

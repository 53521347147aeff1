package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/storefront/shop"
	"github.com/warp/storefront/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var t0 = time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedLedger(t *testing.T, store *sqlite.Store) {
	t.Helper()
	ctx := context.Background()
	require.NoError(t, store.CreateUser(ctx, shop.User{ID: "u1", Name: "Alice", Balance: 1000, CreatedAt: t0}))
	require.NoError(t, store.SaveProduct(ctx, shop.Product{ID: "p1", Title: "Widget", Price: 100, Stock: 5, CreatedAt: t0, UpdatedAt: t0}))
}

// =============================================================================
// ROUNDTRIPS
// =============================================================================

func TestSQLite_UserRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedLedger(t, store)

	u, err := store.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Alice", u.Name)
	assert.Equal(t, shop.Cents(1000), u.Balance)
	assert.True(t, u.CreatedAt.Equal(t0))

	_, err = store.GetUser(ctx, "ghost")
	assert.ErrorIs(t, err, shop.ErrUserNotFound)
}

func TestSQLite_ProductUpsert(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedLedger(t, store)

	p, err := store.GetProduct(ctx, "p1")
	require.NoError(t, err)
	p.Price = 150
	p.Stock = 7
	require.NoError(t, store.SaveProduct(ctx, *p))

	updated, err := store.GetProduct(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, shop.Cents(150), updated.Price)
	assert.Equal(t, 7, updated.Stock)
	assert.True(t, updated.CreatedAt.Equal(t0), "created_at preserved across upsert")
}

func TestSQLite_PurchaseRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedLedger(t, store)

	p := shop.Purchase{ID: "pur-1", UserID: "u1", ProductID: "p1", Quantity: 3, UnitPrice: 100, CreatedAt: t0}
	require.NoError(t, store.CreatePurchase(ctx, p))

	got, err := store.GetPurchase(ctx, "pur-1")
	require.NoError(t, err)
	assert.Equal(t, shop.Cents(300), got.Cost())
	assert.True(t, got.CreatedAt.Equal(t0))

	list, err := store.ListPurchasesByUser(ctx, "u1", 10, 0)
	require.NoError(t, err)
	assert.Len(t, list, 1)

	require.NoError(t, store.DeletePurchase(ctx, "pur-1"))
	_, err = store.GetPurchase(ctx, "pur-1")
	assert.ErrorIs(t, err, shop.ErrPurchaseNotFound)
	assert.ErrorIs(t, store.DeletePurchase(ctx, "pur-1"), shop.ErrPurchaseNotFound)
}

// =============================================================================
// GUARDED UPDATES
// =============================================================================

func TestSQLite_DebitBalance_Guard(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedLedger(t, store)

	assert.ErrorIs(t, store.DebitBalance(ctx, "u1", 1001), shop.ErrInsufficientFunds)
	assert.NoError(t, store.DebitBalance(ctx, "u1", 1000))
	assert.ErrorIs(t, store.DebitBalance(ctx, "u1", 1), shop.ErrInsufficientFunds)
	assert.ErrorIs(t, store.DebitBalance(ctx, "ghost", 1), shop.ErrUserNotFound)

	require.NoError(t, store.CreditBalance(ctx, "u1", 250))
	u, _ := store.GetUser(ctx, "u1")
	assert.Equal(t, shop.Cents(250), u.Balance)
}

func TestSQLite_ReserveStock_Guard(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedLedger(t, store)

	assert.ErrorIs(t, store.ReserveStock(ctx, "p1", 6), shop.ErrInsufficientStock)
	assert.NoError(t, store.ReserveStock(ctx, "p1", 5))
	assert.ErrorIs(t, store.ReserveStock(ctx, "p1", 1), shop.ErrInsufficientStock)
	assert.ErrorIs(t, store.ReserveStock(ctx, "ghost", 1), shop.ErrProductNotFound)

	require.NoError(t, store.RestoreStock(ctx, "p1", 2))
	p, _ := store.GetProduct(ctx, "p1")
	assert.Equal(t, 2, p.Stock)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func TestSQLite_WithTx_RollbackOnError(t *testing.T) {
	// GIVEN: A funded user and stocked product
	// WHEN: A transaction debits, reserves, then fails
	// THEN: Nothing is committed

	store := newTestStore(t)
	ctx := context.Background()
	seedLedger(t, store)

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(st shop.Store) error {
		if err := st.DebitBalance(ctx, "u1", 300); err != nil {
			return err
		}
		if err := st.ReserveStock(ctx, "p1", 3); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	u, _ := store.GetUser(ctx, "u1")
	assert.Equal(t, shop.Cents(1000), u.Balance)
	p, _ := store.GetProduct(ctx, "p1")
	assert.Equal(t, 5, p.Stock)
}

func TestSQLite_WithTx_Commit(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedLedger(t, store)

	err := store.WithTx(ctx, func(st shop.Store) error {
		if err := st.DebitBalance(ctx, "u1", 300); err != nil {
			return err
		}
		return st.ReserveStock(ctx, "p1", 3)
	})
	require.NoError(t, err)

	u, _ := store.GetUser(ctx, "u1")
	assert.Equal(t, shop.Cents(700), u.Balance)
	p, _ := store.GetProduct(ctx, "p1")
	assert.Equal(t, 2, p.Stock)
}

// =============================================================================
// RETURNS
// =============================================================================

func TestSQLite_OneOpenReturnPerPurchase(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	seedLedger(t, store)
	require.NoError(t, store.CreatePurchase(ctx, shop.Purchase{ID: "pur-1", UserID: "u1", ProductID: "p1", Quantity: 1, UnitPrice: 100, CreatedAt: t0}))

	require.NoError(t, store.CreateReturn(ctx, shop.Return{ID: "r1", PurchaseID: "pur-1", CreatedAt: t0}))
	err := store.CreateReturn(ctx, shop.Return{ID: "r2", PurchaseID: "pur-1", CreatedAt: t0})
	assert.ErrorIs(t, err, shop.ErrReturnAlreadyRequested)

	open, err := store.OpenReturnForPurchase(ctx, "pur-1")
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, shop.ReturnID("r1"), open.ID)

	require.NoError(t, store.DeleteReturn(ctx, "r1"))
	open, err = store.OpenReturnForPurchase(ctx, "pur-1")
	require.NoError(t, err)
	assert.Nil(t, open)
}

// =============================================================================
// JOURNAL
// =============================================================================

func TestSQLite_Journal_AppendAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		e := shop.JournalEntry{
			ID:         string(rune('a' + i)),
			At:         t0.Add(time.Duration(i) * time.Minute),
			Kind:       shop.JournalPurchase,
			ActorID:    "u1",
			PurchaseID: "pur-1",
			UserID:     "u1",
			ProductID:  "p1",
			Quantity:   1,
			Amount:     100,
		}
		require.NoError(t, store.AppendJournal(ctx, e))
	}

	entries, err := store.JournalEntries(ctx, 10, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	// Newest first.
	assert.Equal(t, "c", entries[0].ID)
	assert.Equal(t, "a", entries[2].ID)

	paged, err := store.JournalEntries(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, paged, 1)
	assert.Equal(t, "a", paged[0].ID)
}

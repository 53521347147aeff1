package shop_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/storefront/shop"
	"github.com/warp/storefront/shop/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var admin = shop.Actor{ID: "admin-1", Admin: true}

// returnFixture sets up a purchase made at testTime by u1 (balance 1000,
// product p1 price 100 stock 5, quantity 3) plus a ReturnService whose
// clock starts at testTime.
func returnFixture(t *testing.T) (*shop.ReturnService, *store.Memory, *shop.Purchase, *time.Time) {
	t.Helper()
	mem := store.NewMemory()

	now := testTime
	clock := func() time.Time { return now }

	purchases := shop.NewPurchaseService(mem)
	purchases.Now = clock
	returns := shop.NewReturnService(mem)
	returns.Now = clock

	seedUser(t, mem, "u1", 1000)
	seedProduct(t, mem, "p1", 100, 5)

	p, err := purchases.CreatePurchase(context.Background(), buyer("u1"), "p1", 3)
	require.NoError(t, err)
	return returns, mem, p, &now
}

// =============================================================================
// REQUEST WINDOW TESTS
// =============================================================================

func TestRequestReturn_InsideWindow(t *testing.T) {
	// GIVEN: A purchase made at t0, window 3m
	// WHEN: Requesting a return at t0+179s
	// THEN: Return is created; ledger untouched

	returns, mem, p, now := returnFixture(t)
	ctx := context.Background()
	*now = testTime.Add(179 * time.Second)

	ret, err := returns.RequestReturn(ctx, buyer("u1"), p.ID)
	require.NoError(t, err)
	assert.Equal(t, p.ID, ret.PurchaseID)

	// A request is not a reversal: balance and stock unchanged.
	user, _ := mem.GetUser(ctx, "u1")
	assert.Equal(t, shop.Cents(700), user.Balance)
	product, _ := mem.GetProduct(ctx, "p1")
	assert.Equal(t, 2, product.Stock)
}

func TestRequestReturn_AfterWindow(t *testing.T) {
	// WHEN: Requesting at t0+181s
	// THEN: ReturnWindowExpired

	returns, _, p, now := returnFixture(t)
	*now = testTime.Add(181 * time.Second)

	_, err := returns.RequestReturn(context.Background(), buyer("u1"), p.ID)
	assert.ErrorIs(t, err, shop.ErrReturnWindowExpired)

	var winErr *shop.ReturnWindowExpiredError
	require.ErrorAs(t, err, &winErr)
	assert.Equal(t, testTime.Add(3*time.Minute), winErr.ClosedAt)
}

func TestRequestReturn_ExactDeadline(t *testing.T) {
	// now == created_at + window is already expired (strict inequality).
	returns, _, p, now := returnFixture(t)
	*now = testTime.Add(3 * time.Minute)

	_, err := returns.RequestReturn(context.Background(), buyer("u1"), p.ID)
	assert.ErrorIs(t, err, shop.ErrReturnWindowExpired)
}

func TestRequestReturn_Duplicate(t *testing.T) {
	// At most one open return per purchase.
	returns, _, p, _ := returnFixture(t)
	ctx := context.Background()

	_, err := returns.RequestReturn(ctx, buyer("u1"), p.ID)
	require.NoError(t, err)

	_, err = returns.RequestReturn(ctx, buyer("u1"), p.ID)
	assert.ErrorIs(t, err, shop.ErrReturnAlreadyRequested)
}

func TestRequestReturn_NotOwner(t *testing.T) {
	returns, mem, p, _ := returnFixture(t)
	ctx := context.Background()
	seedUser(t, mem, "u2", 1000)

	_, err := returns.RequestReturn(ctx, buyer("u2"), p.ID)
	assert.ErrorIs(t, err, shop.ErrUnauthorized)

	// Admins may request on a buyer's behalf.
	_, err = returns.RequestReturn(ctx, admin, p.ID)
	assert.NoError(t, err)
}

func TestRequestReturn_PurchaseNotFound(t *testing.T) {
	returns, _, _, _ := returnFixture(t)

	_, err := returns.RequestReturn(context.Background(), buyer("u1"), "missing")
	assert.ErrorIs(t, err, shop.ErrPurchaseNotFound)
}

// =============================================================================
// RESOLUTION TESTS
// =============================================================================

func TestResolveReturn_Approve_ReversesPurchase(t *testing.T) {
	// GIVEN: balance=700, stock=2 after buying 3 units at 100
	// WHEN: The return is approved
	// THEN: balance=1000, stock=5, Purchase and Return rows are gone

	returns, mem, p, _ := returnFixture(t)
	ctx := context.Background()

	ret, err := returns.RequestReturn(ctx, buyer("u1"), p.ID)
	require.NoError(t, err)

	err = returns.ResolveReturn(ctx, admin, ret.ID, shop.DecisionApprove)
	require.NoError(t, err)

	user, _ := mem.GetUser(ctx, "u1")
	assert.Equal(t, shop.Cents(1000), user.Balance, "balance restored to pre-purchase value")
	product, _ := mem.GetProduct(ctx, "p1")
	assert.Equal(t, 5, product.Stock, "stock restored to pre-purchase value")

	_, err = mem.GetPurchase(ctx, p.ID)
	assert.ErrorIs(t, err, shop.ErrPurchaseNotFound)
	_, err = mem.GetReturn(ctx, ret.ID)
	assert.ErrorIs(t, err, shop.ErrReturnNotFound)
}

func TestResolveReturn_Approve_RefundUsesCapturedPrice(t *testing.T) {
	// Repricing the product between purchase and approval must not
	// change the refund.
	returns, mem, p, _ := returnFixture(t)
	ctx := context.Background()

	ret, err := returns.RequestReturn(ctx, buyer("u1"), p.ID)
	require.NoError(t, err)

	product, _ := mem.GetProduct(ctx, "p1")
	product.Price = 999
	require.NoError(t, mem.SaveProduct(ctx, *product))

	require.NoError(t, returns.ResolveReturn(ctx, admin, ret.ID, shop.DecisionApprove))

	user, _ := mem.GetUser(ctx, "u1")
	assert.Equal(t, shop.Cents(1000), user.Balance, "refund is 3*100 from the purchase, not 3*999")
}

func TestResolveReturn_Cancel_LeavesLedgerUntouched(t *testing.T) {
	// Cancelling removes only the Return; Purchase and ledger stand.
	returns, mem, p, _ := returnFixture(t)
	ctx := context.Background()

	ret, err := returns.RequestReturn(ctx, buyer("u1"), p.ID)
	require.NoError(t, err)

	err = returns.ResolveReturn(ctx, admin, ret.ID, shop.DecisionCancel)
	require.NoError(t, err)

	user, _ := mem.GetUser(ctx, "u1")
	assert.Equal(t, shop.Cents(700), user.Balance)
	product, _ := mem.GetProduct(ctx, "p1")
	assert.Equal(t, 2, product.Stock)

	stored, err := mem.GetPurchase(ctx, p.ID)
	require.NoError(t, err, "purchase stands after cancellation")
	assert.Equal(t, p.ID, stored.ID)

	_, err = mem.GetReturn(ctx, ret.ID)
	assert.ErrorIs(t, err, shop.ErrReturnNotFound)
}

func TestResolveReturn_RequiresAdmin(t *testing.T) {
	returns, _, p, _ := returnFixture(t)
	ctx := context.Background()

	ret, err := returns.RequestReturn(ctx, buyer("u1"), p.ID)
	require.NoError(t, err)

	err = returns.ResolveReturn(ctx, buyer("u1"), ret.ID, shop.DecisionApprove)
	assert.ErrorIs(t, err, shop.ErrUnauthorized)

	// Still pending and still reversible by an actual admin.
	require.NoError(t, returns.ResolveReturn(ctx, admin, ret.ID, shop.DecisionApprove))
}

func TestResolveReturn_NotFound(t *testing.T) {
	returns, _, _, _ := returnFixture(t)

	err := returns.ResolveReturn(context.Background(), admin, "missing", shop.DecisionApprove)
	assert.ErrorIs(t, err, shop.ErrReturnNotFound)
}

func TestResolveReturn_InvalidDecision(t *testing.T) {
	returns, _, p, _ := returnFixture(t)
	ctx := context.Background()

	ret, err := returns.RequestReturn(ctx, buyer("u1"), p.ID)
	require.NoError(t, err)

	err = returns.ResolveReturn(ctx, admin, ret.ID, shop.ReturnDecision("maybe"))
	assert.Error(t, err)

	// The bad decision must not have mutated anything.
	_, err = returns.Store.GetReturn(ctx, ret.ID)
	assert.NoError(t, err)
}

func TestResolveReturn_JournalTrail(t *testing.T) {
	// Purchase -> request -> approve leaves three journal entries even
	// though the Purchase and Return rows are gone.
	returns, mem, p, _ := returnFixture(t)
	ctx := context.Background()

	ret, err := returns.RequestReturn(ctx, buyer("u1"), p.ID)
	require.NoError(t, err)
	require.NoError(t, returns.ResolveReturn(ctx, admin, ret.ID, shop.DecisionApprove))

	entries, err := mem.JournalEntries(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	// Newest first.
	assert.Equal(t, shop.JournalRefund, entries[0].Kind)
	assert.Equal(t, shop.JournalReturnRequested, entries[1].Kind)
	assert.Equal(t, shop.JournalPurchase, entries[2].Kind)
	for _, e := range entries {
		assert.Equal(t, p.ID, e.PurchaseID)
		assert.Equal(t, shop.Cents(300), e.Amount)
	}
	assert.Equal(t, admin.ID, entries[0].ActorID, "refund is attributed to the admin")
}

// =============================================================================
// WORKED EXAMPLE
// =============================================================================

func TestPurchaseReturnRoundTrip_WorkedExample(t *testing.T) {
	// stock=5 price=100 balance=1000; buy 3 -> 700/2; approve -> 1000/5.
	mem := store.NewMemory()
	ctx := context.Background()

	now := testTime
	clock := func() time.Time { return now }
	purchases := shop.NewPurchaseService(mem)
	purchases.Now = clock
	returns := shop.NewReturnService(mem)
	returns.Now = clock

	seedUser(t, mem, "u1", 1000)
	seedProduct(t, mem, "p1", 100, 5)

	p, err := purchases.CreatePurchase(ctx, buyer("u1"), "p1", 3)
	require.NoError(t, err)
	assert.Equal(t, shop.Cents(300), p.Cost())

	now = now.Add(time.Minute)
	ret, err := returns.RequestReturn(ctx, buyer("u1"), p.ID)
	require.NoError(t, err)
	require.NoError(t, returns.ResolveReturn(ctx, admin, ret.ID, shop.DecisionApprove))

	user, _ := mem.GetUser(ctx, "u1")
	product, _ := mem.GetProduct(ctx, "p1")
	assert.Equal(t, shop.Cents(1000), user.Balance)
	assert.Equal(t, 5, product.Stock)
}

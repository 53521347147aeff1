// Package store provides an in-memory shop.TxStore implementation
// (for testing/dev).
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/warp/storefront/shop"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

// Memory implements shop.TxStore. A single mutex serializes every
// operation; WithTx holds it for the whole transaction and restores a
// snapshot on error, which gives the same all-or-nothing and
// no-lost-update guarantees as the SQLite store.
type Memory struct {
	mu sync.Mutex
	st *state
}

type state struct {
	users     map[shop.UserID]shop.User
	products  map[shop.ProductID]shop.Product
	purchases map[shop.PurchaseID]shop.Purchase
	returns   map[shop.ReturnID]shop.Return
	journal   []shop.JournalEntry
}

func NewMemory() *Memory {
	return &Memory{st: &state{
		users:     make(map[shop.UserID]shop.User),
		products:  make(map[shop.ProductID]shop.Product),
		purchases: make(map[shop.PurchaseID]shop.Purchase),
		returns:   make(map[shop.ReturnID]shop.Return),
	}}
}

func (s *state) clone() *state {
	c := &state{
		users:     make(map[shop.UserID]shop.User, len(s.users)),
		products:  make(map[shop.ProductID]shop.Product, len(s.products)),
		purchases: make(map[shop.PurchaseID]shop.Purchase, len(s.purchases)),
		returns:   make(map[shop.ReturnID]shop.Return, len(s.returns)),
		journal:   append([]shop.JournalEntry(nil), s.journal...),
	}
	for k, v := range s.users {
		c.users[k] = v
	}
	for k, v := range s.products {
		c.products[k] = v
	}
	for k, v := range s.purchases {
		c.purchases[k] = v
	}
	for k, v := range s.returns {
		c.returns[k] = v
	}
	return c
}

// WithTx runs fn against the live state under the store lock. On error
// the pre-transaction snapshot is restored, so fn's writes vanish.
func (m *Memory) WithTx(ctx context.Context, fn func(shop.Store) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	backup := m.st.clone()
	if err := fn(&view{st: m.st}); err != nil {
		m.st = backup
		return err
	}
	return nil
}

// =============================================================================
// VIEW - Unlocked state access shared by Memory and WithTx
// =============================================================================

type view struct{ st *state }

func (v *view) CreateUser(_ context.Context, u shop.User) error {
	v.st.users[u.ID] = u
	return nil
}

func (v *view) GetUser(_ context.Context, id shop.UserID) (*shop.User, error) {
	u, ok := v.st.users[id]
	if !ok {
		return nil, shop.ErrUserNotFound
	}
	return &u, nil
}

func (v *view) DebitBalance(_ context.Context, id shop.UserID, amount shop.Cents) error {
	u, ok := v.st.users[id]
	if !ok {
		return shop.ErrUserNotFound
	}
	if u.Balance < amount {
		return shop.ErrInsufficientFunds
	}
	u.Balance -= amount
	v.st.users[id] = u
	return nil
}

func (v *view) CreditBalance(_ context.Context, id shop.UserID, amount shop.Cents) error {
	u, ok := v.st.users[id]
	if !ok {
		return shop.ErrUserNotFound
	}
	u.Balance += amount
	v.st.users[id] = u
	return nil
}

func (v *view) SaveProduct(_ context.Context, p shop.Product) error {
	v.st.products[p.ID] = p
	return nil
}

func (v *view) GetProduct(_ context.Context, id shop.ProductID) (*shop.Product, error) {
	p, ok := v.st.products[id]
	if !ok {
		return nil, shop.ErrProductNotFound
	}
	return &p, nil
}

func (v *view) ListProducts(_ context.Context, limit, offset int) ([]shop.Product, error) {
	all := make([]shop.Product, 0, len(v.st.products))
	for _, p := range v.st.products {
		all = append(all, p)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return page(all, limit, offset), nil
}

func (v *view) ReserveStock(_ context.Context, id shop.ProductID, quantity int) error {
	p, ok := v.st.products[id]
	if !ok {
		return shop.ErrProductNotFound
	}
	if p.Stock < quantity {
		return shop.ErrInsufficientStock
	}
	p.Stock -= quantity
	v.st.products[id] = p
	return nil
}

func (v *view) RestoreStock(_ context.Context, id shop.ProductID, quantity int) error {
	p, ok := v.st.products[id]
	if !ok {
		return shop.ErrProductNotFound
	}
	p.Stock += quantity
	v.st.products[id] = p
	return nil
}

func (v *view) CreatePurchase(_ context.Context, p shop.Purchase) error {
	v.st.purchases[p.ID] = p
	return nil
}

func (v *view) GetPurchase(_ context.Context, id shop.PurchaseID) (*shop.Purchase, error) {
	p, ok := v.st.purchases[id]
	if !ok {
		return nil, shop.ErrPurchaseNotFound
	}
	return &p, nil
}

func (v *view) DeletePurchase(_ context.Context, id shop.PurchaseID) error {
	if _, ok := v.st.purchases[id]; !ok {
		return shop.ErrPurchaseNotFound
	}
	delete(v.st.purchases, id)
	return nil
}

func (v *view) ListPurchasesByUser(_ context.Context, userID shop.UserID, limit, offset int) ([]shop.Purchase, error) {
	var all []shop.Purchase
	for _, p := range v.st.purchases {
		if p.UserID == userID {
			all = append(all, p)
		}
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return page(all, limit, offset), nil
}

func (v *view) CreateReturn(_ context.Context, r shop.Return) error {
	for _, existing := range v.st.returns {
		if existing.PurchaseID == r.PurchaseID {
			return shop.ErrReturnAlreadyRequested
		}
	}
	v.st.returns[r.ID] = r
	return nil
}

func (v *view) GetReturn(_ context.Context, id shop.ReturnID) (*shop.Return, error) {
	r, ok := v.st.returns[id]
	if !ok {
		return nil, shop.ErrReturnNotFound
	}
	return &r, nil
}

func (v *view) DeleteReturn(_ context.Context, id shop.ReturnID) error {
	if _, ok := v.st.returns[id]; !ok {
		return shop.ErrReturnNotFound
	}
	delete(v.st.returns, id)
	return nil
}

func (v *view) ListReturns(_ context.Context, limit, offset int) ([]shop.Return, error) {
	all := make([]shop.Return, 0, len(v.st.returns))
	for _, r := range v.st.returns {
		all = append(all, r)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.Before(all[j].CreatedAt)
		}
		return all[i].ID < all[j].ID
	})
	return page(all, limit, offset), nil
}

func (v *view) OpenReturnForPurchase(_ context.Context, id shop.PurchaseID) (*shop.Return, error) {
	for _, r := range v.st.returns {
		if r.PurchaseID == id {
			ret := r
			return &ret, nil
		}
	}
	return nil, nil
}

func (v *view) AppendJournal(_ context.Context, e shop.JournalEntry) error {
	v.st.journal = append(v.st.journal, e)
	return nil
}

// JournalEntries returns entries newest first.
func (v *view) JournalEntries(_ context.Context, limit, offset int) ([]shop.JournalEntry, error) {
	all := make([]shop.JournalEntry, 0, len(v.st.journal))
	for i := len(v.st.journal) - 1; i >= 0; i-- {
		all = append(all, v.st.journal[i])
	}
	return page(all, limit, offset), nil
}

func page[T any](all []T, limit, offset int) []T {
	if offset < 0 {
		offset = 0
	}
	if offset >= len(all) {
		return nil
	}
	all = all[offset:]
	if limit > 0 && limit < len(all) {
		all = all[:limit]
	}
	result := make([]T, len(all))
	copy(result, all)
	return result
}

// =============================================================================
// LOCKED DELEGATION - Memory methods outside WithTx
// =============================================================================

func (m *Memory) CreateUser(ctx context.Context, u shop.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{st: m.st}).CreateUser(ctx, u)
}

func (m *Memory) GetUser(ctx context.Context, id shop.UserID) (*shop.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{st: m.st}).GetUser(ctx, id)
}

func (m *Memory) DebitBalance(ctx context.Context, id shop.UserID, amount shop.Cents) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{st: m.st}).DebitBalance(ctx, id, amount)
}

func (m *Memory) CreditBalance(ctx context.Context, id shop.UserID, amount shop.Cents) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{st: m.st}).CreditBalance(ctx, id, amount)
}

func (m *Memory) SaveProduct(ctx context.Context, p shop.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{st: m.st}).SaveProduct(ctx, p)
}

func (m *Memory) GetProduct(ctx context.Context, id shop.ProductID) (*shop.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{st: m.st}).GetProduct(ctx, id)
}

func (m *Memory) ListProducts(ctx context.Context, limit, offset int) ([]shop.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{st: m.st}).ListProducts(ctx, limit, offset)
}

func (m *Memory) ReserveStock(ctx context.Context, id shop.ProductID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{st: m.st}).ReserveStock(ctx, id, quantity)
}

func (m *Memory) RestoreStock(ctx context.Context, id shop.ProductID, quantity int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{st: m.st}).RestoreStock(ctx, id, quantity)
}

func (m *Memory) CreatePurchase(ctx context.Context, p shop.Purchase) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{st: m.st}).CreatePurchase(ctx, p)
}

func (m *Memory) GetPurchase(ctx context.Context, id shop.PurchaseID) (*shop.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{st: m.st}).GetPurchase(ctx, id)
}

func (m *Memory) DeletePurchase(ctx context.Context, id shop.PurchaseID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{st: m.st}).DeletePurchase(ctx, id)
}

func (m *Memory) ListPurchasesByUser(ctx context.Context, userID shop.UserID, limit, offset int) ([]shop.Purchase, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{st: m.st}).ListPurchasesByUser(ctx, userID, limit, offset)
}

func (m *Memory) CreateReturn(ctx context.Context, r shop.Return) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{st: m.st}).CreateReturn(ctx, r)
}

func (m *Memory) GetReturn(ctx context.Context, id shop.ReturnID) (*shop.Return, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{st: m.st}).GetReturn(ctx, id)
}

func (m *Memory) DeleteReturn(ctx context.Context, id shop.ReturnID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{st: m.st}).DeleteReturn(ctx, id)
}

func (m *Memory) ListReturns(ctx context.Context, limit, offset int) ([]shop.Return, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{st: m.st}).ListReturns(ctx, limit, offset)
}

func (m *Memory) OpenReturnForPurchase(ctx context.Context, id shop.PurchaseID) (*shop.Return, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{st: m.st}).OpenReturnForPurchase(ctx, id)
}

func (m *Memory) AppendJournal(ctx context.Context, e shop.JournalEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{st: m.st}).AppendJournal(ctx, e)
}

func (m *Memory) JournalEntries(ctx context.Context, limit, offset int) ([]shop.JournalEntry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return (&view{st: m.st}).JournalEntries(ctx, limit, offset)
}

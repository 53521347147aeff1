/*
purchase.go - Purchase service

PURPOSE:
  Validates and atomically applies a purchase:

    user.balance -= quantity * product.price
    product.stock -= quantity
    + new Purchase row
    + journal entry

  All four writes commit together or not at all.

PRECONDITIONS (checked inside the transaction):
  quantity > 0                      else ErrInvalidQuantity
  quantity <= product.stock         else InsufficientStockError (reports stock)
  balance  >= quantity * price      else InsufficientFundsError

  A failed precondition leaves every record untouched. There are no
  retries; the caller resubmits with corrected input.

CONCURRENCY:
  The pre-checks produce friendly errors, but correctness under
  concurrent purchases rests on the store's guarded decrements: the
  last unit of stock sells exactly once.

SEE ALSO:
  - store.go: DebitBalance / ReserveStock guard semantics
  - returns.go: The exact inverse of this effect
*/
package shop

import (
	"context"
	"fmt"
	"time"
)

// PurchaseService applies purchases against the ledger.
type PurchaseService struct {
	Store TxStore

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

func NewPurchaseService(store TxStore) *PurchaseService {
	return &PurchaseService{Store: store, Now: time.Now}
}

// CreatePurchase validates and applies a purchase by actor for quantity
// units of the product. Returns the created Purchase on success.
func (s *PurchaseService) CreatePurchase(ctx context.Context, actor Actor, productID ProductID, quantity int) (*Purchase, error) {
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidQuantity, quantity)
	}

	var created *Purchase
	err := s.Store.WithTx(ctx, func(st Store) error {
		user, err := st.GetUser(ctx, actor.ID)
		if err != nil {
			return err
		}
		product, err := st.GetProduct(ctx, productID)
		if err != nil {
			return err
		}

		if quantity > product.Stock {
			return &InsufficientStockError{
				ProductID: product.ID,
				Requested: quantity,
				Available: product.Stock,
			}
		}
		cost := product.Price.Mul(quantity)
		if user.Balance < cost {
			return &InsufficientFundsError{
				UserID:  user.ID,
				Balance: user.Balance,
				Cost:    cost,
			}
		}

		// Guarded decrements; these re-enforce the preconditions under
		// concurrent transactions.
		if err := st.DebitBalance(ctx, user.ID, cost); err != nil {
			return err
		}
		if err := st.ReserveStock(ctx, product.ID, quantity); err != nil {
			return err
		}

		p := Purchase{
			ID:        NewPurchaseID(),
			UserID:    user.ID,
			ProductID: product.ID,
			Quantity:  quantity,
			UnitPrice: product.Price,
			CreatedAt: s.Now().UTC(),
		}
		if err := st.CreatePurchase(ctx, p); err != nil {
			return err
		}
		if err := st.AppendJournal(ctx, newJournalEntry(JournalPurchase, p.CreatedAt, actor, p)); err != nil {
			return err
		}

		created = &p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

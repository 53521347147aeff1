/*
store.go - Persistence interfaces for the storefront ledger

PURPOSE:
  Defines the interface between the services and the database. Different
  implementations can use SQLite or in-memory storage; both must provide
  the same transactional guarantees.

KEY INTERFACES:
  Store:   Record reads/writes plus guarded balance/stock adjustments
  TxStore: Store with WithTx for atomic multi-write operations

GUARDED UPDATES:
  DebitBalance and ReserveStock are conditional single-row updates
  ("decrement if still sufficient"). Two concurrent purchases for the
  last unit of stock therefore cannot both succeed: one decrement wins,
  the other fails the guard. The services pre-check to produce friendly
  errors, but the guard is what holds under concurrency.

ATOMICITY:
  WithTx runs fn against a transactional view of the store. If fn
  returns an error nothing is committed. create_purchase and
  approve-return each run as one WithTx unit, so their multi-row
  effects are all-or-nothing.

IMPLEMENTATIONS:
  - store/sqlite: SQLite-backed production store
  - shop/store:   In-memory store for tests and dev

SEE ALSO:
  - purchase.go, returns.go: The only writers of ledger state
*/
package shop

import "context"

// Store handles persistence of users, products, purchases, returns and
// the audit journal. Not-found conditions surface as the package's
// Err*NotFound sentinels.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u User) error
	GetUser(ctx context.Context, id UserID) (*User, error)

	// DebitBalance subtracts amount from the user's purse. Fails with
	// ErrInsufficientFunds if the purse holds less than amount; the
	// balance is never driven negative.
	DebitBalance(ctx context.Context, id UserID, amount Cents) error

	// CreditBalance adds amount to the user's purse.
	CreditBalance(ctx context.Context, id UserID, amount Cents) error

	// Products
	SaveProduct(ctx context.Context, p Product) error
	GetProduct(ctx context.Context, id ProductID) (*Product, error)
	ListProducts(ctx context.Context, limit, offset int) ([]Product, error)

	// ReserveStock subtracts quantity units of stock. Fails with
	// ErrInsufficientStock if fewer than quantity remain; stock is
	// never driven negative.
	ReserveStock(ctx context.Context, id ProductID, quantity int) error

	// RestoreStock adds quantity units of stock back.
	RestoreStock(ctx context.Context, id ProductID, quantity int) error

	// Purchases
	CreatePurchase(ctx context.Context, p Purchase) error
	GetPurchase(ctx context.Context, id PurchaseID) (*Purchase, error)
	DeletePurchase(ctx context.Context, id PurchaseID) error
	ListPurchasesByUser(ctx context.Context, userID UserID, limit, offset int) ([]Purchase, error)

	// Returns. CreateReturn fails with ErrReturnAlreadyRequested if the
	// purchase already has an open Return.
	CreateReturn(ctx context.Context, r Return) error
	GetReturn(ctx context.Context, id ReturnID) (*Return, error)
	DeleteReturn(ctx context.Context, id ReturnID) error
	ListReturns(ctx context.Context, limit, offset int) ([]Return, error)

	// OpenReturnForPurchase returns the open Return for a purchase, or
	// nil if there is none.
	OpenReturnForPurchase(ctx context.Context, id PurchaseID) (*Return, error)

	// Journal (append-only)
	AppendJournal(ctx context.Context, e JournalEntry) error
	JournalEntries(ctx context.Context, limit, offset int) ([]JournalEntry, error)
}

// TxStore wraps Store with transaction support.
//
// WithTx executes fn within a transaction. If fn returns an error the
// transaction is rolled back, otherwise it is committed. Concurrent
// transactions touching the same User or Product rows serialize.
type TxStore interface {
	Store

	WithTx(ctx context.Context, fn func(Store) error) error
}

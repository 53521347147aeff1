/*
Package sqlite provides a SQLite-backed implementation of shop.TxStore.

PURPOSE:
  Implements the persistence interface for users, products, purchases,
  returns, and the audit journal. In production the same patterns apply
  to PostgreSQL - only minor SQL dialect differences.

KEY TABLES:
  users:     Purse balances (CHECK balance >= 0)
  products:  Catalog with price and stock (CHECK stock >= 0)
  purchases: Ledger line items; unit_price captured at purchase time
  returns:   Pending reversal requests; UNIQUE(purchase_id) enforces
             at most one open return per purchase
  journal:   Append-only audit trail (no UPDATE, no DELETE)

GUARDED UPDATES:
  Balance and stock decrements are conditional single statements:

    UPDATE users SET balance = balance - ? WHERE id = ? AND balance >= ?

  A zero rows-affected result means the guard failed. Combined with the
  transaction in WithTx this serializes concurrent purchases; two buyers
  cannot both take the last unit of stock.

CONCURRENCY:
  Uses sync.Mutex around writes and WithTx. In production with
  PostgreSQL, database-level row locking handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency
  and crash recovery. Foreign keys are enforced.

USAGE:
  store, err := sqlite.New("./data/shop.db")  // ":memory:" for tests
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New(). For production, use a proper
  migration tool (golang-migrate, goose) with versioned migrations.

SEE ALSO:
  - shop/store.go: Interface definitions and guard semantics
  - shop/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"github.com/warp/storefront/shop"
)

// Store implements shop.TxStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite allows one writer; a second pooled connection would also
	// see a different database entirely for ":memory:" paths.
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		balance INTEGER NOT NULL CHECK (balance >= 0),
		created_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS products (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		price INTEGER NOT NULL CHECK (price >= 0),
		stock INTEGER NOT NULL CHECK (stock >= 0),
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS purchases (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL REFERENCES users(id),
		product_id TEXT NOT NULL REFERENCES products(id),
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		unit_price INTEGER NOT NULL CHECK (unit_price >= 0),
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_purchases_user
		ON purchases(user_id, created_at);

	-- CRITICAL: at most one open return per purchase
	CREATE TABLE IF NOT EXISTS returns (
		id TEXT PRIMARY KEY,
		purchase_id TEXT NOT NULL UNIQUE REFERENCES purchases(id),
		created_at TEXT NOT NULL
	);

	-- Append-only audit journal. No UPDATE, no DELETE.
	CREATE TABLE IF NOT EXISTS journal (
		id TEXT PRIMARY KEY,
		at TEXT NOT NULL,
		kind TEXT NOT NULL,
		actor_id TEXT NOT NULL,
		purchase_id TEXT NOT NULL,
		user_id TEXT NOT NULL,
		product_id TEXT NOT NULL,
		quantity INTEGER NOT NULL,
		amount INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_journal_at
		ON journal(at DESC);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// DBTX - Shared query surface for *sql.DB and *sql.Tx
// =============================================================================

type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

const timeLayout = time.RFC3339Nano

func fmtTime(t time.Time) string { return t.UTC().Format(timeLayout) }

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}

func normLimit(limit int) int {
	if limit <= 0 {
		return -1 // SQLite: negative LIMIT means no limit
	}
	return limit
}

func normOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

// WithTx executes fn within a database transaction. If fn returns an
// error the transaction is rolled back, otherwise it is committed.
func (s *Store) WithTx(ctx context.Context, fn func(store shop.Store) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&txStore{q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

// txStore adapts a *sql.Tx to shop.Store by delegating to the shared
// query helpers.
type txStore struct {
	q dbtx
}

// =============================================================================
// USERS
// =============================================================================

func createUser(ctx context.Context, q dbtx, u shop.User) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO users (id, name, balance, created_at)
		VALUES (?, ?, ?, ?)`,
		u.ID, u.Name, int64(u.Balance), fmtTime(u.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func getUser(ctx context.Context, q dbtx, id shop.UserID) (*shop.User, error) {
	var u shop.User
	var balance int64
	var createdAt string
	err := q.QueryRowContext(ctx, `
		SELECT id, name, balance, created_at FROM users WHERE id = ?`, id,
	).Scan(&u.ID, &u.Name, &balance, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shop.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query user: %w", err)
	}
	u.Balance = shop.Cents(balance)
	if u.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse user created_at: %w", err)
	}
	return &u, nil
}

func debitBalance(ctx context.Context, q dbtx, id shop.UserID, amount shop.Cents) error {
	result, err := q.ExecContext(ctx, `
		UPDATE users SET balance = balance - ?
		WHERE id = ? AND balance >= ?`,
		int64(amount), id, int64(amount),
	)
	if err != nil {
		return fmt.Errorf("debit balance: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		// Guard failed: either the user is gone or the purse is short.
		if _, err := getUser(ctx, q, id); err != nil {
			return err
		}
		return shop.ErrInsufficientFunds
	}
	return nil
}

func creditBalance(ctx context.Context, q dbtx, id shop.UserID, amount shop.Cents) error {
	result, err := q.ExecContext(ctx, `
		UPDATE users SET balance = balance + ? WHERE id = ?`,
		int64(amount), id,
	)
	if err != nil {
		return fmt.Errorf("credit balance: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return shop.ErrUserNotFound
	}
	return nil
}

// =============================================================================
// PRODUCTS
// =============================================================================

func saveProduct(ctx context.Context, q dbtx, p shop.Product) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO products (id, title, description, image_url, price, stock, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			title = excluded.title,
			description = excluded.description,
			image_url = excluded.image_url,
			price = excluded.price,
			stock = excluded.stock,
			updated_at = excluded.updated_at`,
		p.ID, p.Title, p.Description, p.ImageURL, int64(p.Price), p.Stock,
		fmtTime(p.CreatedAt), fmtTime(p.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

func getProduct(ctx context.Context, q dbtx, id shop.ProductID) (*shop.Product, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, title, description, image_url, price, stock, created_at, updated_at
		FROM products WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("query product: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, shop.ErrProductNotFound
	}
	p, err := scanProduct(rows)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func listProducts(ctx context.Context, q dbtx, limit, offset int) ([]shop.Product, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, title, description, image_url, price, stock, created_at, updated_at
		FROM products ORDER BY created_at, id LIMIT ? OFFSET ?`,
		normLimit(limit), normOffset(offset))
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	var products []shop.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

func scanProduct(rows *sql.Rows) (shop.Product, error) {
	var p shop.Product
	var price int64
	var createdAt, updatedAt string
	if err := rows.Scan(&p.ID, &p.Title, &p.Description, &p.ImageURL, &price, &p.Stock, &createdAt, &updatedAt); err != nil {
		return p, fmt.Errorf("scan product: %w", err)
	}
	p.Price = shop.Cents(price)
	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return p, fmt.Errorf("parse product created_at: %w", err)
	}
	if p.UpdatedAt, err = parseTime(updatedAt); err != nil {
		return p, fmt.Errorf("parse product updated_at: %w", err)
	}
	return p, nil
}

func reserveStock(ctx context.Context, q dbtx, id shop.ProductID, quantity int) error {
	result, err := q.ExecContext(ctx, `
		UPDATE products SET stock = stock - ?, updated_at = ?
		WHERE id = ? AND stock >= ?`,
		quantity, fmtTime(time.Now()), id, quantity,
	)
	if err != nil {
		return fmt.Errorf("reserve stock: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		if _, err := getProduct(ctx, q, id); err != nil {
			return err
		}
		return shop.ErrInsufficientStock
	}
	return nil
}

func restoreStock(ctx context.Context, q dbtx, id shop.ProductID, quantity int) error {
	result, err := q.ExecContext(ctx, `
		UPDATE products SET stock = stock + ?, updated_at = ? WHERE id = ?`,
		quantity, fmtTime(time.Now()), id,
	)
	if err != nil {
		return fmt.Errorf("restore stock: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return shop.ErrProductNotFound
	}
	return nil
}

// =============================================================================
// PURCHASES
// =============================================================================

func createPurchase(ctx context.Context, q dbtx, p shop.Purchase) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO purchases (id, user_id, product_id, quantity, unit_price, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ID, p.UserID, p.ProductID, p.Quantity, int64(p.UnitPrice), fmtTime(p.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("insert purchase: %w", err)
	}
	return nil
}

func getPurchase(ctx context.Context, q dbtx, id shop.PurchaseID) (*shop.Purchase, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, user_id, product_id, quantity, unit_price, created_at
		FROM purchases WHERE id = ?`, id)
	if err != nil {
		return nil, fmt.Errorf("query purchase: %w", err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, shop.ErrPurchaseNotFound
	}
	p, err := scanPurchase(rows)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func deletePurchase(ctx context.Context, q dbtx, id shop.PurchaseID) error {
	result, err := q.ExecContext(ctx, `DELETE FROM purchases WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete purchase: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return shop.ErrPurchaseNotFound
	}
	return nil
}

func listPurchasesByUser(ctx context.Context, q dbtx, userID shop.UserID, limit, offset int) ([]shop.Purchase, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, user_id, product_id, quantity, unit_price, created_at
		FROM purchases WHERE user_id = ?
		ORDER BY created_at, id LIMIT ? OFFSET ?`,
		userID, normLimit(limit), normOffset(offset))
	if err != nil {
		return nil, fmt.Errorf("list purchases: %w", err)
	}
	defer rows.Close()

	var purchases []shop.Purchase
	for rows.Next() {
		p, err := scanPurchase(rows)
		if err != nil {
			return nil, err
		}
		purchases = append(purchases, p)
	}
	return purchases, rows.Err()
}

func scanPurchase(rows *sql.Rows) (shop.Purchase, error) {
	var p shop.Purchase
	var unitPrice int64
	var createdAt string
	if err := rows.Scan(&p.ID, &p.UserID, &p.ProductID, &p.Quantity, &unitPrice, &createdAt); err != nil {
		return p, fmt.Errorf("scan purchase: %w", err)
	}
	p.UnitPrice = shop.Cents(unitPrice)
	var err error
	if p.CreatedAt, err = parseTime(createdAt); err != nil {
		return p, fmt.Errorf("parse purchase created_at: %w", err)
	}
	return p, nil
}

// =============================================================================
// RETURNS
// =============================================================================

func createReturn(ctx context.Context, q dbtx, r shop.Return) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO returns (id, purchase_id, created_at)
		VALUES (?, ?, ?)`,
		r.ID, r.PurchaseID, fmtTime(r.CreatedAt),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return shop.ErrReturnAlreadyRequested
		}
		return fmt.Errorf("insert return: %w", err)
	}
	return nil
}

func getReturn(ctx context.Context, q dbtx, id shop.ReturnID) (*shop.Return, error) {
	var r shop.Return
	var createdAt string
	err := q.QueryRowContext(ctx, `
		SELECT id, purchase_id, created_at FROM returns WHERE id = ?`, id,
	).Scan(&r.ID, &r.PurchaseID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shop.ErrReturnNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query return: %w", err)
	}
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse return created_at: %w", err)
	}
	return &r, nil
}

func deleteReturn(ctx context.Context, q dbtx, id shop.ReturnID) error {
	result, err := q.ExecContext(ctx, `DELETE FROM returns WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete return: %w", err)
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return shop.ErrReturnNotFound
	}
	return nil
}

func listReturns(ctx context.Context, q dbtx, limit, offset int) ([]shop.Return, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, purchase_id, created_at FROM returns
		ORDER BY created_at, id LIMIT ? OFFSET ?`,
		normLimit(limit), normOffset(offset))
	if err != nil {
		return nil, fmt.Errorf("list returns: %w", err)
	}
	defer rows.Close()

	var returns []shop.Return
	for rows.Next() {
		var r shop.Return
		var createdAt string
		if err := rows.Scan(&r.ID, &r.PurchaseID, &createdAt); err != nil {
			return nil, fmt.Errorf("scan return: %w", err)
		}
		if r.CreatedAt, err = parseTime(createdAt); err != nil {
			return nil, fmt.Errorf("parse return created_at: %w", err)
		}
		returns = append(returns, r)
	}
	return returns, rows.Err()
}

func openReturnForPurchase(ctx context.Context, q dbtx, id shop.PurchaseID) (*shop.Return, error) {
	var r shop.Return
	var createdAt string
	err := q.QueryRowContext(ctx, `
		SELECT id, purchase_id, created_at FROM returns WHERE purchase_id = ?`, id,
	).Scan(&r.ID, &r.PurchaseID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query return by purchase: %w", err)
	}
	if r.CreatedAt, err = parseTime(createdAt); err != nil {
		return nil, fmt.Errorf("parse return created_at: %w", err)
	}
	return &r, nil
}

// =============================================================================
// JOURNAL
// =============================================================================

func appendJournal(ctx context.Context, q dbtx, e shop.JournalEntry) error {
	_, err := q.ExecContext(ctx, `
		INSERT INTO journal (id, at, kind, actor_id, purchase_id, user_id, product_id, quantity, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, fmtTime(e.At), e.Kind, e.ActorID, e.PurchaseID, e.UserID, e.ProductID,
		e.Quantity, int64(e.Amount),
	)
	if err != nil {
		return fmt.Errorf("append journal: %w", err)
	}
	return nil
}

func journalEntries(ctx context.Context, q dbtx, limit, offset int) ([]shop.JournalEntry, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, at, kind, actor_id, purchase_id, user_id, product_id, quantity, amount
		FROM journal ORDER BY at DESC, id LIMIT ? OFFSET ?`,
		normLimit(limit), normOffset(offset))
	if err != nil {
		return nil, fmt.Errorf("list journal: %w", err)
	}
	defer rows.Close()

	var entries []shop.JournalEntry
	for rows.Next() {
		var e shop.JournalEntry
		var at string
		var amount int64
		if err := rows.Scan(&e.ID, &at, &e.Kind, &e.ActorID, &e.PurchaseID, &e.UserID, &e.ProductID, &e.Quantity, &amount); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		e.Amount = shop.Cents(amount)
		if e.At, err = parseTime(at); err != nil {
			return nil, fmt.Errorf("parse journal at: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// =============================================================================
// INTERFACE WIRING - Store (autocommit) and txStore delegate to helpers
// =============================================================================

func (s *Store) CreateUser(ctx context.Context, u shop.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return createUser(ctx, s.db, u)
}

func (s *Store) GetUser(ctx context.Context, id shop.UserID) (*shop.User, error) {
	return getUser(ctx, s.db, id)
}

func (s *Store) DebitBalance(ctx context.Context, id shop.UserID, amount shop.Cents) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return debitBalance(ctx, s.db, id, amount)
}

func (s *Store) CreditBalance(ctx context.Context, id shop.UserID, amount shop.Cents) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return creditBalance(ctx, s.db, id, amount)
}

func (s *Store) SaveProduct(ctx context.Context, p shop.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return saveProduct(ctx, s.db, p)
}

func (s *Store) GetProduct(ctx context.Context, id shop.ProductID) (*shop.Product, error) {
	return getProduct(ctx, s.db, id)
}

func (s *Store) ListProducts(ctx context.Context, limit, offset int) ([]shop.Product, error) {
	return listProducts(ctx, s.db, limit, offset)
}

func (s *Store) ReserveStock(ctx context.Context, id shop.ProductID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return reserveStock(ctx, s.db, id, quantity)
}

func (s *Store) RestoreStock(ctx context.Context, id shop.ProductID, quantity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return restoreStock(ctx, s.db, id, quantity)
}

func (s *Store) CreatePurchase(ctx context.Context, p shop.Purchase) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return createPurchase(ctx, s.db, p)
}

func (s *Store) GetPurchase(ctx context.Context, id shop.PurchaseID) (*shop.Purchase, error) {
	return getPurchase(ctx, s.db, id)
}

func (s *Store) DeletePurchase(ctx context.Context, id shop.PurchaseID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deletePurchase(ctx, s.db, id)
}

func (s *Store) ListPurchasesByUser(ctx context.Context, userID shop.UserID, limit, offset int) ([]shop.Purchase, error) {
	return listPurchasesByUser(ctx, s.db, userID, limit, offset)
}

func (s *Store) CreateReturn(ctx context.Context, r shop.Return) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return createReturn(ctx, s.db, r)
}

func (s *Store) GetReturn(ctx context.Context, id shop.ReturnID) (*shop.Return, error) {
	return getReturn(ctx, s.db, id)
}

func (s *Store) DeleteReturn(ctx context.Context, id shop.ReturnID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return deleteReturn(ctx, s.db, id)
}

func (s *Store) ListReturns(ctx context.Context, limit, offset int) ([]shop.Return, error) {
	return listReturns(ctx, s.db, limit, offset)
}

func (s *Store) OpenReturnForPurchase(ctx context.Context, id shop.PurchaseID) (*shop.Return, error) {
	return openReturnForPurchase(ctx, s.db, id)
}

func (s *Store) AppendJournal(ctx context.Context, e shop.JournalEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return appendJournal(ctx, s.db, e)
}

func (s *Store) JournalEntries(ctx context.Context, limit, offset int) ([]shop.JournalEntry, error) {
	return journalEntries(ctx, s.db, limit, offset)
}

func (t *txStore) CreateUser(ctx context.Context, u shop.User) error {
	return createUser(ctx, t.q, u)
}

func (t *txStore) GetUser(ctx context.Context, id shop.UserID) (*shop.User, error) {
	return getUser(ctx, t.q, id)
}

func (t *txStore) DebitBalance(ctx context.Context, id shop.UserID, amount shop.Cents) error {
	return debitBalance(ctx, t.q, id, amount)
}

func (t *txStore) CreditBalance(ctx context.Context, id shop.UserID, amount shop.Cents) error {
	return creditBalance(ctx, t.q, id, amount)
}

func (t *txStore) SaveProduct(ctx context.Context, p shop.Product) error {
	return saveProduct(ctx, t.q, p)
}

func (t *txStore) GetProduct(ctx context.Context, id shop.ProductID) (*shop.Product, error) {
	return getProduct(ctx, t.q, id)
}

func (t *txStore) ListProducts(ctx context.Context, limit, offset int) ([]shop.Product, error) {
	return listProducts(ctx, t.q, limit, offset)
}

func (t *txStore) ReserveStock(ctx context.Context, id shop.ProductID, quantity int) error {
	return reserveStock(ctx, t.q, id, quantity)
}

func (t *txStore) RestoreStock(ctx context.Context, id shop.ProductID, quantity int) error {
	return restoreStock(ctx, t.q, id, quantity)
}

func (t *txStore) CreatePurchase(ctx context.Context, p shop.Purchase) error {
	return createPurchase(ctx, t.q, p)
}

func (t *txStore) GetPurchase(ctx context.Context, id shop.PurchaseID) (*shop.Purchase, error) {
	return getPurchase(ctx, t.q, id)
}

func (t *txStore) DeletePurchase(ctx context.Context, id shop.PurchaseID) error {
	return deletePurchase(ctx, t.q, id)
}

func (t *txStore) ListPurchasesByUser(ctx context.Context, userID shop.UserID, limit, offset int) ([]shop.Purchase, error) {
	return listPurchasesByUser(ctx, t.q, userID, limit, offset)
}

func (t *txStore) CreateReturn(ctx context.Context, r shop.Return) error {
	return createReturn(ctx, t.q, r)
}

func (t *txStore) GetReturn(ctx context.Context, id shop.ReturnID) (*shop.Return, error) {
	return getReturn(ctx, t.q, id)
}

func (t *txStore) DeleteReturn(ctx context.Context, id shop.ReturnID) error {
	return deleteReturn(ctx, t.q, id)
}

func (t *txStore) ListReturns(ctx context.Context, limit, offset int) ([]shop.Return, error) {
	return listReturns(ctx, t.q, limit, offset)
}

func (t *txStore) OpenReturnForPurchase(ctx context.Context, id shop.PurchaseID) (*shop.Return, error) {
	return openReturnForPurchase(ctx, t.q, id)
}

func (t *txStore) AppendJournal(ctx context.Context, e shop.JournalEntry) error {
	return appendJournal(ctx, t.q, e)
}

func (t *txStore) JournalEntries(ctx context.Context, limit, offset int) ([]shop.JournalEntry, error) {
	return journalEntries(ctx, t.q, limit, offset)
}

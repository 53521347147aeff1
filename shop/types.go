/*
Package shop provides the core storefront ledger.

PURPOSE:
  This package contains the domain types and services for the purchase/return
  ledger: user purses, product stock, purchase records, and return requests.
  Everything else (routing, auth, templates) is a collaborator around this core.

KEY CONCEPTS IN THIS FILE (types.go):
  - Cents: A money amount in the smallest currency unit (integer, never float)
  - User: Holds a purse balance. Invariant: balance >= 0 always.
  - Product: Holds a price and a stock count. Invariant: stock >= 0 always.
  - Purchase: A ledger entry created by PurchaseService. Captures the unit
    price at purchase time so later price edits never change refunds.
  - Return: A pending reversal request against one Purchase.
  - Actor: The authenticated caller (identity + admin claim), supplied by
    the auth collaborator and re-checked by the services.

DESIGN PRINCIPLES:
  1. Integer money: all arithmetic is on Cents; decimal.Decimal is used only
     at the display boundary (see Cents.Decimal).
  2. Type Safety: Strong typing for IDs prevents mixing user/product IDs.
  3. Visible mutation: balance and stock change only inside an explicit
     service-layer transaction, never as a side effect of saving a record.

SEE ALSO:
  - purchase.go: PurchaseService (debit purse + stock atomically)
  - returns.go: ReturnService (time-windowed request, approve/cancel)
  - store.go: Persistence interfaces
  - journal.go: Append-only audit journal
*/
package shop

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =============================================================================
// MONEY - Integer cents with decimal display
// =============================================================================

// Cents is a money amount in the smallest currency unit.
// All ledger arithmetic stays on integers; Decimal() is display-only.
type Cents int64

func (c Cents) Mul(quantity int) Cents { return c * Cents(quantity) }

// Decimal converts cents to whole currency units for display and DTOs.
func (c Cents) Decimal() decimal.Decimal {
	return decimal.NewFromInt(int64(c)).Div(decimal.NewFromInt(100))
}

func (c Cents) String() string { return c.Decimal().StringFixed(2) }

// =============================================================================
// IDENTIFIERS
// =============================================================================

type UserID string
type ProductID string
type PurchaseID string
type ReturnID string

func NewPurchaseID() PurchaseID { return PurchaseID(uuid.NewString()) }
func NewReturnID() ReturnID     { return ReturnID(uuid.NewString()) }

// =============================================================================
// ENTITIES
// =============================================================================

// User holds a purse balance in cents. Balance never goes negative;
// the store enforces this with guarded updates.
type User struct {
	ID        UserID
	Name      string
	Balance   Cents
	CreatedAt time.Time
}

// Product is a catalog item. Stock never goes negative.
type Product struct {
	ID          ProductID
	Title       string
	Description string
	ImageURL    string
	Price       Cents
	Stock       int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Purchase records one buy. UnitPrice is the product price at purchase
// time, so Cost() is stable even if the product is repriced later.
type Purchase struct {
	ID        PurchaseID
	UserID    UserID
	ProductID ProductID
	Quantity  int
	UnitPrice Cents
	CreatedAt time.Time
}

func (p Purchase) Cost() Cents { return p.UnitPrice.Mul(p.Quantity) }

// Return is a pending reversal request. It is resolved by an admin:
// approval reverses the purchase, cancellation deletes only the Return.
// At most one open Return exists per Purchase.
type Return struct {
	ID         ReturnID
	PurchaseID PurchaseID
	CreatedAt  time.Time
}

// =============================================================================
// ACTOR - Caller identity and role claim
// =============================================================================

// Actor is the authenticated caller. The auth collaborator establishes it;
// services still re-check Admin rather than trusting upstream filtering.
type Actor struct {
	ID    UserID
	Admin bool
}

// =============================================================================
// RETURN RESOLUTION
// =============================================================================

type ReturnDecision string

const (
	DecisionApprove ReturnDecision = "approve"
	DecisionCancel  ReturnDecision = "cancel"
)

func ParseReturnDecision(s string) (ReturnDecision, error) {
	switch ReturnDecision(s) {
	case DecisionApprove, DecisionCancel:
		return ReturnDecision(s), nil
	}
	return "", fmt.Errorf("invalid return decision: %q", s)
}

// =============================================================================
// DEFAULTS
// =============================================================================

const (
	// DefaultPurse is the starting balance for a newly registered user.
	DefaultPurse Cents = 1_000_000

	// DefaultReturnWindow is how long after a purchase a return may be
	// requested.
	DefaultReturnWindow = 3 * time.Minute

	// DefaultPageSize is the page size for list queries.
	DefaultPageSize = 10
)

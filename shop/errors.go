/*
errors.go - Centralized error types for the storefront core

PURPOSE:
  All core error types in one place. Every error here is recoverable and
  user-facing; none is fatal to the process, and none triggers a retry -
  the caller resubmits with corrected input.

ERROR CATEGORIES:
  1. Precondition errors - Business rule violations (stock, funds, window)
  2. Authorization errors - Missing admin claim
  3. Not-found errors - Dangling references

USAGE:
  Callers match with errors.Is / errors.As:

    if errors.Is(err, shop.ErrInsufficientStock) {
        var stockErr *shop.InsufficientStockError
        errors.As(err, &stockErr) // stockErr.Available has current stock
    }

SEE ALSO:
  - purchase.go, returns.go: Where these errors originate
*/
package shop

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInsufficientStock is returned when a purchase asks for more units
	// than the product has in stock.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrInsufficientFunds is returned when a purchase costs more than the
	// buyer's purse holds.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrReturnWindowExpired is returned when a return is requested at or
	// after purchase time + return window.
	ErrReturnWindowExpired = errors.New("return window expired")

	// ErrReturnAlreadyRequested is returned when a Purchase already has an
	// open Return. At most one open Return per Purchase.
	ErrReturnAlreadyRequested = errors.New("return already requested")

	// ErrUnauthorized is returned when a non-admin actor attempts an
	// admin-only operation, or a non-owner touches another user's purchase.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidQuantity is returned for non-positive purchase quantities.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// Not-found errors for dangling references.
	ErrUserNotFound     = errors.New("user not found")
	ErrProductNotFound  = errors.New("product not found")
	ErrPurchaseNotFound = errors.New("purchase not found")
	ErrReturnNotFound   = errors.New("return not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// InsufficientStockError reports the current stock alongside the shortage.
type InsufficientStockError struct {
	ProductID ProductID
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.ProductID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InsufficientFundsError reports the purse shortfall.
type InsufficientFundsError struct {
	UserID  UserID
	Balance Cents
	Cost    Cents
}

func (e *InsufficientFundsError) Error() string {
	return fmt.Sprintf("insufficient funds for user %s: balance %s, cost %s",
		e.UserID, e.Balance, e.Cost)
}

func (e *InsufficientFundsError) Unwrap() error { return ErrInsufficientFunds }

// ReturnWindowExpiredError reports when the window closed.
type ReturnWindowExpiredError struct {
	PurchaseID PurchaseID
	ClosedAt   time.Time
	Now        time.Time
}

func (e *ReturnWindowExpiredError) Error() string {
	return fmt.Sprintf("return window for purchase %s closed at %s (now %s)",
		e.PurchaseID, e.ClosedAt.Format(time.RFC3339), e.Now.Format(time.RFC3339))
}

func (e *ReturnWindowExpiredError) Unwrap() error { return ErrReturnWindowExpired }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input
// and should map to a 4xx at the HTTP boundary.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInsufficientStock) ||
		errors.Is(err, ErrInsufficientFunds) ||
		errors.Is(err, ErrReturnWindowExpired) ||
		errors.Is(err, ErrReturnAlreadyRequested) ||
		errors.Is(err, ErrInvalidQuantity)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrPurchaseNotFound) ||
		errors.Is(err, ErrReturnNotFound)
}

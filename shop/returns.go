/*
returns.go - Return service

PURPOSE:
  Handles the return lifecycle:

    request  ->  PENDING Return row (no ledger mutation yet)
    approve  ->  purse += cost, stock += quantity,
                 Purchase and Return rows deleted
    cancel   ->  Return row deleted, Purchase stands

  Approval is the exact inverse of the purchase effect: balance and
  stock come back to their pre-purchase values (UnitPrice was captured
  on the Purchase, so repricing the product cannot skew the refund).

ELIGIBILITY WINDOW:
  A return may be requested strictly before created_at + Window
  (3 minutes by default). At or after the deadline the request fails
  with ReturnWindowExpiredError.

DUPLICATES:
  At most one open Return per Purchase. A second request fails with
  ErrReturnAlreadyRequested.

AUTHORIZATION:
  Only the buyer (or an admin) may request a return. Only an admin may
  resolve one. The admin claim arrives as an explicit Actor parameter
  and is checked here, not assumed to be filtered upstream.

TERMINAL STATES:
  Resolution deletes rows rather than flagging them; the audit journal
  keeps the history (see journal.go).

SEE ALSO:
  - purchase.go: The effect being reversed
*/
package shop

import (
	"context"
	"fmt"
	"time"
)

// ReturnService handles return requests and their resolution.
type ReturnService struct {
	Store  TxStore
	Window time.Duration

	// Now is the clock; overridable in tests.
	Now func() time.Time
}

func NewReturnService(store TxStore) *ReturnService {
	return &ReturnService{Store: store, Window: DefaultReturnWindow, Now: time.Now}
}

// RequestReturn creates a pending Return for a purchase. The purchase
// must belong to the actor (admins may act for any buyer) and still be
// inside the eligibility window.
func (s *ReturnService) RequestReturn(ctx context.Context, actor Actor, purchaseID PurchaseID) (*Return, error) {
	var created *Return
	err := s.Store.WithTx(ctx, func(st Store) error {
		purchase, err := st.GetPurchase(ctx, purchaseID)
		if err != nil {
			return err
		}
		if purchase.UserID != actor.ID && !actor.Admin {
			return fmt.Errorf("%w: purchase %s does not belong to %s", ErrUnauthorized, purchase.ID, actor.ID)
		}

		now := s.Now().UTC()
		deadline := purchase.CreatedAt.Add(s.Window)
		if !now.Before(deadline) {
			return &ReturnWindowExpiredError{PurchaseID: purchase.ID, ClosedAt: deadline, Now: now}
		}

		open, err := st.OpenReturnForPurchase(ctx, purchase.ID)
		if err != nil {
			return err
		}
		if open != nil {
			return fmt.Errorf("%w: purchase %s", ErrReturnAlreadyRequested, purchase.ID)
		}

		r := Return{ID: NewReturnID(), PurchaseID: purchase.ID, CreatedAt: now}
		if err := st.CreateReturn(ctx, r); err != nil {
			return err
		}
		if err := st.AppendJournal(ctx, newJournalEntry(JournalReturnRequested, now, actor, *purchase)); err != nil {
			return err
		}

		created = &r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// ResolveReturn applies an admin decision to a pending Return.
//
// cancel: deletes the Return only; the Purchase and ledger stand.
// approve: atomically credits the purse, restores stock, and deletes
// both the Return and the Purchase. All-or-nothing.
func (s *ReturnService) ResolveReturn(ctx context.Context, actor Actor, returnID ReturnID, decision ReturnDecision) error {
	if !actor.Admin {
		return fmt.Errorf("%w: resolving returns requires an admin actor", ErrUnauthorized)
	}

	return s.Store.WithTx(ctx, func(st Store) error {
		ret, err := st.GetReturn(ctx, returnID)
		if err != nil {
			return err
		}
		purchase, err := st.GetPurchase(ctx, ret.PurchaseID)
		if err != nil {
			return err
		}

		now := s.Now().UTC()
		switch decision {
		case DecisionCancel:
			if err := st.DeleteReturn(ctx, ret.ID); err != nil {
				return err
			}
			return st.AppendJournal(ctx, newJournalEntry(JournalReturnCancelled, now, actor, *purchase))

		case DecisionApprove:
			if err := st.CreditBalance(ctx, purchase.UserID, purchase.Cost()); err != nil {
				return err
			}
			if err := st.RestoreStock(ctx, purchase.ProductID, purchase.Quantity); err != nil {
				return err
			}
			// Return row goes first: it references the Purchase.
			if err := st.DeleteReturn(ctx, ret.ID); err != nil {
				return err
			}
			if err := st.DeletePurchase(ctx, purchase.ID); err != nil {
				return err
			}
			return st.AppendJournal(ctx, newJournalEntry(JournalRefund, now, actor, *purchase))

		default:
			return fmt.Errorf("invalid return decision: %q", decision)
		}
	})
}

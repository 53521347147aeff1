/*
journal.go - Append-only audit journal

PURPOSE:
  Resolved returns delete the Purchase and Return rows, so the rows
  themselves carry no history. The journal is the audit trail: one
  immutable entry per ledger effect, written in the same transaction
  as the effect it records.

CRITICAL INVARIANTS:
  1. APPEND-ONLY: No Update, No Delete.
  2. SAME-TX: An entry is committed iff its ledger effect is committed.

ENTRY KINDS:
  purchase          purse debited, stock reserved
  return_requested  Return created, no ledger mutation
  refund            purchase reversed (purse credited, stock restored)
  return_cancelled  Return deleted, Purchase stands

SEE ALSO:
  - store.go: AppendJournal / JournalEntries
  - purchase.go, returns.go: Where entries are written
*/
package shop

import (
	"time"

	"github.com/google/uuid"
)

type JournalKind string

const (
	JournalPurchase        JournalKind = "purchase"
	JournalReturnRequested JournalKind = "return_requested"
	JournalRefund          JournalKind = "refund"
	JournalReturnCancelled JournalKind = "return_cancelled"
)

// JournalEntry records one ledger effect. Amount is the money moved
// (always non-negative; Kind tells the direction) and Quantity the
// units of stock moved.
type JournalEntry struct {
	ID         string
	At         time.Time
	Kind       JournalKind
	ActorID    UserID
	PurchaseID PurchaseID
	UserID     UserID
	ProductID  ProductID
	Quantity   int
	Amount     Cents
}

func newJournalEntry(kind JournalKind, at time.Time, actor Actor, p Purchase) JournalEntry {
	return JournalEntry{
		ID:         uuid.NewString(),
		At:         at,
		Kind:       kind,
		ActorID:    actor.ID,
		PurchaseID: p.ID,
		UserID:     p.UserID,
		ProductID:  p.ProductID,
		Quantity:   p.Quantity,
		Amount:     p.Cost(),
	}
}

// Package balance derives per-payer shares from a ledger snapshot.
//
// Compute is pure: it never caches and is recomputed in full whenever the
// ledger or the payer registry changes, so the result is always consistent
// with its inputs by construction.
package balance

import (
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/ihanakangas/jako/internal/models"
	"github.com/ihanakangas/jako/internal/registry"
)

// Share is one payer's accumulated share of the ledger.
type Share struct {
	Name   string
	Amount decimal.Decimal
}

// Display returns the share rounded to two fraction digits.
// Rounding happens only here; Amount keeps full precision.
func (s Share) Display() string {
	return s.Amount.StringFixed(2)
}

// Snapshot is the derived balance state for one ledger snapshot.
// Shares are ordered by the registry's payer order, one entry per
// registered payer (payers with no items appear with a zero share).
type Snapshot struct {
	Shares []Share
	Total  decimal.Decimal
}

// Amount returns the accumulated share for the named payer.
func (s Snapshot) Amount(name string) (decimal.Decimal, bool) {
	for _, share := range s.Shares {
		if share.Name == name {
			return share.Amount, true
		}
	}
	return decimal.Decimal{}, false
}

// DisplayTotal returns the grand total rounded to two fraction digits.
func (s Snapshot) DisplayTotal() string {
	return s.Total.StringFixed(2)
}

// Compute calculates each registered payer's share of the given items and
// the grand total.
//
// Every registered payer gets an entry, zero if no items name them. Each
// item's price is divided equally among its payers; shares addressed to
// names missing from the registry are dropped, since the registry is the
// addressing space for display. Items with no payers are malformed: they
// are logged and skipped for share purposes, but their price still counts
// toward the total, which sums every item unconditionally.
func Compute(items []models.Item, reg *registry.Registry) Snapshot {
	names := reg.Names()
	accum := make(map[string]decimal.Decimal, len(names))
	for _, name := range names {
		accum[name] = decimal.Zero
	}

	total := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Price)

		if len(item.Payers) == 0 {
			slog.Warn("ledger inconsistency: item has no payers, skipping share",
				"item_id", item.ID, "label", item.Label)
			continue
		}

		share := item.Price.Div(decimal.NewFromInt(int64(len(item.Payers))))
		for _, payer := range item.Payers {
			if acc, ok := accum[payer]; ok {
				accum[payer] = acc.Add(share)
			}
		}
	}

	shares := make([]Share, len(names))
	for i, name := range names {
		shares[i] = Share{Name: name, Amount: accum[name]}
	}

	return Snapshot{Shares: shares, Total: total}
}

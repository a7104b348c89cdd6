package models

import "github.com/shopspring/decimal"

// Item represents one committed purchase on an event's ledger.
// Once committed an item always has at least one payer and a
// non-negative price; the store enforces neither, the editing layer does.
type Item struct {
	// ID is the unique identifier for the item (UUID format),
	// assigned by the store.
	ID string `json:"id"`

	// Label is the name or description of the purchase (e.g. "Maito", "Pizza").
	Label string `json:"item"`

	// Price is the full price of the purchase in major currency units.
	Price decimal.Decimal `json:"price"`

	// Payers is the ordered list of payer names splitting this item.
	// The price is divided equally among them.
	Payers []string `json:"payers"`
}

// NewItem is the payload for creating an item. The store assigns the id.
type NewItem struct {
	Label  string          `json:"item"`
	Price  decimal.Decimal `json:"price"`
	Payers []string        `json:"payers"`
}

// Clone returns a deep copy of the item.
func (i Item) Clone() Item {
	c := i
	c.Payers = append([]string(nil), i.Payers...)
	return c
}

package models

import "github.com/shopspring/decimal"

// ReceiptCandidate is one machine-extracted line item from a processed
// receipt. Candidates carry a temporary id so the review UI can address
// them; the id is discarded when the batch is committed.
type ReceiptCandidate struct {
	// ID is a temporary identifier (UUID format) local to the review session.
	ID string `json:"id"`

	// Label is the extracted product name.
	Label string `json:"item"`

	// Price is the extracted final price of the line.
	Price decimal.Decimal `json:"price"`
}

// Package models defines the core domain models for jako.
//
// # Models
//
//   - Event: a named expense-splitting session that owns a list of items
//   - Item: one purchase with a price and the payers who share it
//   - NewItem: the payload for creating an item (no id yet)
//   - ReceiptCandidate: a (label, price) pair extracted from a receipt,
//     not yet reviewed or committed
//
// Payers are identified by case-sensitive name strings; there are no user
// accounts. An item's payer list is the subset of names the item's price is
// divided among.
//
// # Design principles
//
// 1. Prices are decimal.Decimal, never float64: shares are accumulated at
// full precision and rounded to two digits only for display.
// 2. Item ids are assigned by the store, never by callers.
// 3. Relationships use name strings instead of pointers to avoid circular
// references.
package models

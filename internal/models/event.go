package models

// Event represents a named expense-splitting session.
// Goods and their payers hang off an event; the event name is the
// addressing key used by the API.
type Event struct {
	// Name is the unique, human-chosen name of the event.
	Name string `json:"name"`

	// Description is an optional free-form note.
	Description string `json:"description,omitempty"`

	// CreatedAt is the Unix timestamp when the event was created.
	CreatedAt int64 `json:"created_at"`
}

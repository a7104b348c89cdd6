// Package session implements the editing workflows of an event's ledger:
// the single-item editor dialog and the receipt review/commit flow.
//
// A Session owns the last fetched ledger snapshot and the payer registry
// for one event. At most one editing surface (item editor or receipt
// staging) is open at a time; the open surface owns the registry until it
// closes. All mutations go through the collaborator API and are followed
// by a full re-fetch of the ledger, never an optimistic local merge.
package session

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ihanakangas/jako/internal/balance"
	"github.com/ihanakangas/jako/internal/models"
	"github.com/ihanakangas/jako/internal/registry"
)

// Collaborator is the remote ledger contract the session engine consumes.
// Implementations report transport failures as client.FetchError or
// client.UploadError; the session never inspects those beyond aborting
// the operation that raised them.
type Collaborator interface {
	// ListItems returns every committed item for the event.
	// An empty sequence is valid (new event).
	ListItems(ctx context.Context, event string) ([]models.Item, error)

	// CreateItem commits one new item and returns it with its assigned id.
	CreateItem(ctx context.Context, event string, item models.NewItem) (models.Item, error)

	// UpdateItem replaces the fields of an existing item.
	UpdateItem(ctx context.Context, event, id string, item models.NewItem) (models.Item, error)

	// DeleteItem removes one item from the ledger.
	DeleteItem(ctx context.Context, event, id string) error

	// CreateItemBatch commits the whole batch or nothing.
	CreateItemBatch(ctx context.Context, event string, items []models.NewItem) error

	// ExtractReceipt uploads a receipt file and returns the extracted
	// (label, price) candidates, unordered.
	ExtractReceipt(ctx context.Context, filename string, file io.Reader) ([]models.ReceiptCandidate, error)
}

var (
	// ErrSurfaceActive is returned when opening an editing surface while
	// another one is already open. Only one save/delete may be in flight
	// per event, and the open dialog is the mutual-exclusion boundary.
	ErrSurfaceActive = errors.New("another editing surface is already open")

	// ErrInvalidState is returned for an operation that the current state
	// of the editor or staging area does not allow.
	ErrInvalidState = errors.New("operation not allowed in current state")

	// ErrItemNotFound is returned when opening the editor for an item id
	// that is not in the current ledger snapshot.
	ErrItemNotFound = errors.New("item not found in ledger snapshot")
)

// ValidationError reports bad local input. It is raised before any
// collaborator call is dispatched; the collaborator is not trusted to
// re-validate identically.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Session is the editing context for one event.
type Session struct {
	api   Collaborator
	event string

	items []models.Item
	reg   *registry.Registry

	editor  *Editor
	staging *Staging
}

// New creates a session for the named event. Call Refresh before reading
// Items or Balances.
func New(api Collaborator, event string) *Session {
	return &Session{
		api:   api,
		event: event,
		reg:   registry.New(),
	}
}

// Event returns the event name the session is bound to.
func (s *Session) Event() string { return s.event }

// Refresh re-fetches the ledger snapshot from the collaborator. While no
// editing surface is open it also rebuilds the payer registry from the
// committed items, which naturally drops ephemeral payers that were never
// attached to an item.
func (s *Session) Refresh(ctx context.Context) error {
	items, err := s.api.ListItems(ctx, s.event)
	if err != nil {
		return fmt.Errorf("refresh ledger: %w", err)
	}
	s.items = items
	if s.editor == nil && s.staging == nil {
		s.reg = registry.FromItems(items)
	}
	return nil
}

// Items returns the last fetched ledger snapshot.
func (s *Session) Items() []models.Item {
	out := make([]models.Item, len(s.items))
	for i, item := range s.items {
		out[i] = item.Clone()
	}
	return out
}

// Registry returns the session's current payer registry. While an editing
// surface is open the surface owns it; callers outside a surface should
// treat it as read-only.
func (s *Session) Registry() *registry.Registry { return s.reg }

// Balances recomputes every payer's share and the grand total from the
// current snapshot and registry. Recomputed in full on every call.
func (s *Session) Balances() balance.Snapshot {
	return balance.Compute(s.items, s.reg)
}

func (s *Session) surfaceOpen() bool {
	return s.editor != nil || s.staging != nil
}

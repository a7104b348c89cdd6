package session

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ihanakangas/jako/internal/models"
	"github.com/ihanakangas/jako/internal/registry"
)

// EditorState is the lifecycle state of the item dialog.
type EditorState int

const (
	// EditorClosed means the dialog is not open; the editor is spent.
	EditorClosed EditorState = iota
	// EditorCreating means the dialog is authoring a new item.
	EditorCreating
	// EditorEditing means the dialog is modifying an existing item.
	EditorEditing
)

// Editor is the single-item dialog: Closed → Creating|Editing → Closed.
// It validates input, calls the collaborator, and re-fetches the ledger
// after every successful mutation. A collaborator failure aborts the
// transition and leaves the draft fields untouched.
type Editor struct {
	session *Session
	state   EditorState
	itemID  string

	label string
	price string
}

// OpenEditor re-fetches the ledger, rebuilds the payer registry from the
// committed items with everyone included, and opens the dialog for
// creating a new item with empty fields.
func (s *Session) OpenEditor(ctx context.Context) (*Editor, error) {
	if s.surfaceOpen() {
		return nil, ErrSurfaceActive
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	s.reg = registry.FromItems(s.items)
	e := &Editor{session: s, state: EditorCreating}
	s.editor = e
	return e, nil
}

// OpenEditorFor opens the dialog for editing an existing item, pre-filled
// with the item's label and price. The registry is rebuilt fresh from the
// ledger, which marks every known payer included: the assumption is that
// everyone still participates unless told otherwise.
func (s *Session) OpenEditorFor(ctx context.Context, itemID string) (*Editor, error) {
	if s.surfaceOpen() {
		return nil, ErrSurfaceActive
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	var target *models.Item
	for i := range s.items {
		if s.items[i].ID == itemID {
			target = &s.items[i]
			break
		}
	}
	if target == nil {
		return nil, fmt.Errorf("%w: %s", ErrItemNotFound, itemID)
	}

	s.reg = registry.FromItems(s.items)
	e := &Editor{
		session: s,
		state:   EditorEditing,
		itemID:  target.ID,
		label:   target.Label,
		price:   target.Price.String(),
	}
	s.editor = e
	return e, nil
}

// State returns the editor's current lifecycle state.
func (e *Editor) State() EditorState { return e.state }

// Label returns the current label draft.
func (e *Editor) Label() string { return e.label }

// Price returns the current raw price input.
func (e *Editor) Price() string { return e.price }

// SetLabel updates the label draft.
func (e *Editor) SetLabel(label string) { e.label = label }

// SetPrice updates the raw price input. Parsing happens at save time.
func (e *Editor) SetPrice(price string) { e.price = price }

// Registry returns the payer registry owned by this dialog. Adding and
// toggling payers goes through it directly.
func (e *Editor) Registry() *registry.Registry { return e.session.reg }

// AddPayer registers a new payer, included. Blank names are ignored.
func (e *Editor) AddPayer(name string) { e.session.reg.Register(name) }

// TogglePayer flips a known payer's inclusion flag.
func (e *Editor) TogglePayer(name string) error { return e.session.reg.Toggle(name) }

// validate parses and checks the draft fields, returning the validated
// payload. This runs before any collaborator call.
func (e *Editor) validate() (models.NewItem, error) {
	label := strings.TrimSpace(e.label)
	if label == "" {
		return models.NewItem{}, &ValidationError{Field: "label", Reason: "must not be empty"}
	}

	price, err := decimal.NewFromString(strings.TrimSpace(e.price))
	if err != nil {
		return models.NewItem{}, &ValidationError{Field: "price", Reason: "must be a number"}
	}
	if price.IsNegative() {
		return models.NewItem{}, &ValidationError{Field: "price", Reason: "must not be negative"}
	}

	payers := e.session.reg.Selected()
	if len(payers) == 0 {
		return models.NewItem{}, &ValidationError{Field: "payers", Reason: "at least one payer must be selected"}
	}

	return models.NewItem{Label: label, Price: price, Payers: payers}, nil
}

// Save validates the draft and commits it, creating or updating depending
// on how the dialog was opened. On success the ledger is re-fetched and
// the dialog closes. On failure the dialog stays open with its draft
// fields intact.
func (e *Editor) Save(ctx context.Context) error {
	if e.state == EditorClosed {
		return ErrInvalidState
	}

	item, err := e.validate()
	if err != nil {
		return err
	}

	switch e.state {
	case EditorCreating:
		if _, err := e.session.api.CreateItem(ctx, e.session.event, item); err != nil {
			return fmt.Errorf("create item: %w", err)
		}
	case EditorEditing:
		if _, err := e.session.api.UpdateItem(ctx, e.session.event, e.itemID, item); err != nil {
			return fmt.Errorf("update item: %w", err)
		}
	}

	e.close()
	return e.session.Refresh(ctx)
}

// Delete removes the item being edited. Only valid in the editing state.
// On failure the dialog stays open and the ledger is left as last
// successfully fetched.
func (e *Editor) Delete(ctx context.Context) error {
	if e.state != EditorEditing {
		return ErrInvalidState
	}
	if err := e.session.api.DeleteItem(ctx, e.session.event, e.itemID); err != nil {
		return fmt.Errorf("delete item: %w", err)
	}
	e.close()
	return e.session.Refresh(ctx)
}

// Close abandons the dialog without saving. Draft fields are discarded
// and the registry is rebuilt from the ledger, dropping payers that were
// never attached to a committed item.
func (e *Editor) Close() {
	if e.state == EditorClosed {
		return
	}
	e.close()
	e.session.reg = registry.FromItems(e.session.items)
}

func (e *Editor) close() {
	e.state = EditorClosed
	e.session.editor = nil
}

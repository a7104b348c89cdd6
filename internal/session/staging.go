package session

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ihanakangas/jako/internal/models"
	"github.com/ihanakangas/jako/internal/registry"
)

// StagingState is the lifecycle state of the receipt review flow.
type StagingState int

const (
	// StagingClosed means the flow is not open; the staging area is spent.
	StagingClosed StagingState = iota
	// StagingAwaitingFile means the flow is waiting for a receipt file.
	StagingAwaitingFile
	// StagingUploading means the file is at the extraction collaborator.
	StagingUploading
	// StagingReviewing means extracted drafts are being reviewed.
	StagingReviewing
	// StagingCommitting means the batch commit call is in flight.
	StagingCommitting
)

// receiptExtensions are the accepted receipt file types.
var receiptExtensions = map[string]bool{
	".pdf":  true,
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// Draft is one provisional item extracted from a receipt. Its payer
// binding is a tagged variant: a linked draft tracks the live registry
// selection, a pinned draft holds an independent copy taken on the first
// manual edit of that draft. Pinning is one-way.
type Draft struct {
	ID    string
	Label string
	Price decimal.Decimal

	pinned       bool
	pinnedPayers []string
}

// Pinned reports whether the draft holds an independent payer copy.
func (d Draft) Pinned() bool { return d.pinned }

// Payers resolves the draft's effective payer list against the given
// registry: the pinned copy if pinned, otherwise the live selection.
func (d Draft) Payers(reg *registry.Registry) []string {
	if d.pinned {
		return append([]string(nil), d.pinnedPayers...)
	}
	return reg.Selected()
}

// Staging is the receipt review flow:
// AwaitingFile → Uploading → Reviewing → Committing → closed,
// with cancel allowed from any state before Committing. The draft batch
// is never partially discarded: a failed commit keeps every draft and
// stays in Reviewing so the user can retry without re-uploading.
type Staging struct {
	session *Session
	state   StagingState
	drafts  []Draft
}

// OpenStaging re-fetches the ledger, rebuilds the payer registry from
// the committed items with everyone included, and opens the receipt flow
// waiting for a file.
func (s *Session) OpenStaging(ctx context.Context) (*Staging, error) {
	if s.surfaceOpen() {
		return nil, ErrSurfaceActive
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	st := &Staging{session: s, state: StagingAwaitingFile}
	s.staging = st
	return st, nil
}

// OpenStagingWith opens the receipt flow with a caller-supplied registry
// snapshot instead of rebuilding one from the ledger, preserving the
// caller's inclusion flags across the flow.
func (s *Session) OpenStagingWith(ctx context.Context, flags []registry.Flag) (*Staging, error) {
	if s.surfaceOpen() {
		return nil, ErrSurfaceActive
	}
	if err := s.Refresh(ctx); err != nil {
		return nil, err
	}
	s.reg = registry.FromFlags(flags)
	st := &Staging{session: s, state: StagingAwaitingFile}
	s.staging = st
	return st, nil
}

// State returns the staging area's current lifecycle state.
func (st *Staging) State() StagingState { return st.state }

// Registry returns the payer registry owned by this flow.
func (st *Staging) Registry() *registry.Registry { return st.session.reg }

// Drafts returns a copy of the current draft batch.
func (st *Staging) Drafts() []Draft {
	out := make([]Draft, len(st.drafts))
	copy(out, st.drafts)
	for i := range out {
		out[i].pinnedPayers = append([]string(nil), st.drafts[i].pinnedPayers...)
	}
	return out
}

// Upload sends the receipt file to the extraction collaborator and seeds
// the draft batch from the returned candidates, each linked to the live
// registry selection. Accepted types: pdf, png, jpg, jpeg. On extraction
// failure the flow falls back to awaiting a file and the error is
// surfaced; nothing else changes.
func (st *Staging) Upload(ctx context.Context, filename string, file io.Reader) error {
	if st.state != StagingAwaitingFile {
		return ErrInvalidState
	}
	ext := strings.ToLower(filepath.Ext(filename))
	if !receiptExtensions[ext] {
		return &ValidationError{Field: "file", Reason: "must be pdf, png, jpg or jpeg"}
	}

	st.state = StagingUploading
	candidates, err := st.session.api.ExtractReceipt(ctx, filename, file)
	if err != nil {
		st.state = StagingAwaitingFile
		return fmt.Errorf("extract receipt: %w", err)
	}

	st.drafts = make([]Draft, len(candidates))
	for i, c := range candidates {
		st.drafts[i] = Draft{ID: c.ID, Label: c.Label, Price: c.Price}
	}
	st.state = StagingReviewing
	return nil
}

func (st *Staging) find(id string) *Draft {
	for i := range st.drafts {
		if st.drafts[i].ID == id {
			return &st.drafts[i]
		}
	}
	return nil
}

// EditDraft replaces one draft's fields and pins its payer list to the
// given subset, decoupling it from later registry changes. Other drafts'
// bindings are unaffected.
func (st *Staging) EditDraft(id, label, price string, payers []string) error {
	if st.state != StagingReviewing {
		return ErrInvalidState
	}
	d := st.find(id)
	if d == nil {
		return fmt.Errorf("%w: draft %s", ErrItemNotFound, id)
	}

	label = strings.TrimSpace(label)
	if label == "" {
		return &ValidationError{Field: "label", Reason: "must not be empty"}
	}
	parsed, err := decimal.NewFromString(strings.TrimSpace(price))
	if err != nil {
		return &ValidationError{Field: "price", Reason: "must be a number"}
	}
	if parsed.IsNegative() {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	if len(payers) == 0 {
		return &ValidationError{Field: "payers", Reason: "at least one payer must be selected"}
	}

	d.Label = label
	d.Price = parsed
	d.pinned = true
	d.pinnedPayers = append([]string(nil), payers...)
	return nil
}

// DeleteDraft removes one draft from the batch. Purely local, no ledger
// call; unknown ids are ignored.
func (st *Staging) DeleteDraft(id string) error {
	if st.state != StagingReviewing {
		return ErrInvalidState
	}
	for i := range st.drafts {
		if st.drafts[i].ID == id {
			st.drafts = append(st.drafts[:i], st.drafts[i+1:]...)
			return nil
		}
	}
	return nil
}

// AddPayer registers a payer on the shared registry. Drafts still linked
// to the registry pick the change up immediately; pinned drafts do not.
func (st *Staging) AddPayer(name string) {
	st.session.reg.Register(name)
}

// TogglePayer flips a known payer's inclusion flag on the shared registry.
func (st *Staging) TogglePayer(name string) error {
	return st.session.reg.Toggle(name)
}

// Commit resolves every draft to its effective payer list and sends the
// batch to the collaborator's all-or-nothing create. On success staging
// clears and the ledger is re-fetched; on failure the batch stays intact
// and the flow remains in Reviewing.
func (st *Staging) Commit(ctx context.Context) error {
	if st.state != StagingReviewing {
		return ErrInvalidState
	}
	if len(st.drafts) == 0 {
		return &ValidationError{Field: "drafts", Reason: "nothing to commit"}
	}
	if !st.session.reg.AnySelected() {
		return &ValidationError{Field: "payers", Reason: "at least one payer must be selected"}
	}

	items := make([]models.NewItem, len(st.drafts))
	for i, d := range st.drafts {
		payers := d.Payers(st.session.reg)
		if len(payers) == 0 {
			return &ValidationError{Field: "payers", Reason: fmt.Sprintf("draft %q has no payers", d.Label)}
		}
		items[i] = models.NewItem{Label: d.Label, Price: d.Price, Payers: payers}
	}

	st.state = StagingCommitting
	if err := st.session.api.CreateItemBatch(ctx, st.session.event, items); err != nil {
		st.state = StagingReviewing
		return fmt.Errorf("commit batch: %w", err)
	}

	st.close()
	return st.session.Refresh(ctx)
}

// Cancel abandons the flow, discarding all drafts. Allowed from any state
// before Committing. The registry is rebuilt from the ledger, dropping
// payers that were never attached to a committed item.
func (st *Staging) Cancel() error {
	if st.state == StagingClosed || st.state == StagingCommitting {
		return ErrInvalidState
	}
	st.close()
	st.session.reg = registry.FromItems(st.session.items)
	return nil
}

func (st *Staging) close() {
	st.state = StagingClosed
	st.drafts = nil
	st.session.staging = nil
}

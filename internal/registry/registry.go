// Package registry tracks the set of known payer names for an editing
// session and each payer's current inclusion flag.
//
// The registry is an ordered mapping from payer name to a boolean
// "included" flag. Iteration order is first-seen order, which keeps
// rendering and tests deterministic. A registry lives for the duration of
// one editing session (item dialog or receipt review); it is rebuilt from
// the ledger whenever a session opens.
package registry

import (
	"errors"
	"strings"

	"github.com/ihanakangas/jako/internal/models"
)

// ErrUnknownPayer is returned by Toggle for a name that was never
// registered. Callers must Register a name before toggling it.
var ErrUnknownPayer = errors.New("unknown payer")

// Flag is one (name, included) pair of a registry snapshot.
type Flag struct {
	Name     string
	Included bool
}

// Registry is an ordered payer-name → included mapping.
// The zero value is not usable; use New, FromItems or FromFlags.
type Registry struct {
	order    []string
	included map[string]bool
}

// New returns an empty registry.
func New() *Registry {
	return &Registry{included: make(map[string]bool)}
}

// FromItems builds a registry from committed ledger items: the ordered
// union of every payer named on any item, each included. This is the
// "open the add-item dialog fresh" path, where everyone is assumed to
// still participate unless told otherwise.
func FromItems(items []models.Item) *Registry {
	r := New()
	for _, item := range items {
		for _, payer := range item.Payers {
			r.Register(payer)
		}
	}
	return r
}

// FromFlags rebuilds a registry from a snapshot, preserving both order
// and the caller-supplied inclusion flags. Unlike FromItems it does not
// reset anything to included.
func FromFlags(flags []Flag) *Registry {
	r := New()
	for _, f := range flags {
		r.Register(f.Name)
		r.included[f.Name] = f.Included
	}
	return r
}

// Register adds a new payer with included=true if absent. Registering an
// existing name is a no-op and does not reset its flag. Empty or
// whitespace-only names are silently ignored.
func (r *Registry) Register(name string) {
	if strings.TrimSpace(name) == "" {
		return
	}
	if _, ok := r.included[name]; ok {
		return
	}
	r.order = append(r.order, name)
	r.included[name] = true
}

// Toggle flips the inclusion flag for an existing payer.
func (r *Registry) Toggle(name string) error {
	v, ok := r.included[name]
	if !ok {
		return ErrUnknownPayer
	}
	r.included[name] = !v
	return nil
}

// Included reports whether the named payer is currently flagged included.
// Unknown names report false.
func (r *Registry) Included(name string) bool {
	return r.included[name]
}

// Known reports whether the name has been registered.
func (r *Registry) Known(name string) bool {
	_, ok := r.included[name]
	return ok
}

// Names returns every registered payer name in first-seen order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.order...)
}

// Selected returns the ordered names currently flagged included.
// This is the payer list attached to a saved item.
func (r *Registry) Selected() []string {
	var out []string
	for _, name := range r.order {
		if r.included[name] {
			out = append(out, name)
		}
	}
	return out
}

// AnySelected reports whether at least one payer is flagged included.
func (r *Registry) AnySelected() bool {
	for _, name := range r.order {
		if r.included[name] {
			return true
		}
	}
	return false
}

// Len returns the number of registered payers.
func (r *Registry) Len() int {
	return len(r.order)
}

// Snapshot returns the ordered (name, included) pairs of the registry.
func (r *Registry) Snapshot() []Flag {
	flags := make([]Flag, len(r.order))
	for i, name := range r.order {
		flags[i] = Flag{Name: name, Included: r.included[name]}
	}
	return flags
}

// IncludeAll resets every flag to included.
func (r *Registry) IncludeAll() {
	for _, name := range r.order {
		r.included[name] = true
	}
}

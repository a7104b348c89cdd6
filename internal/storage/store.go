// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/ihanakangas/jako/internal/models"
)

var (
	// ErrNotFound is returned when the addressed event or item does not exist.
	ErrNotFound = errors.New("not found")

	// ErrEventExists is returned when creating an event whose name is taken.
	ErrEventExists = errors.New("event already exists")
)

// Store defines the interface for event and goods storage.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the API layer.
type Store interface {
	// CreateEvent persists a new event. The CreatedAt field is populated
	// by the store.
	CreateEvent(ctx context.Context, event *models.Event) error

	// ListEvents returns every event, oldest first.
	ListEvents(ctx context.Context) ([]models.Event, error)

	// GetEvent retrieves an event by name.
	GetEvent(ctx context.Context, name string) (*models.Event, error)

	// DeleteEvent removes an event and all goods attached to it.
	DeleteEvent(ctx context.Context, name string) error

	// ListItems returns every item of an event in insertion order,
	// payer lists in their stored order.
	ListItems(ctx context.Context, event string) ([]models.Item, error)

	// CreateItem persists a new item under an event. The item.ID field
	// is populated by the store.
	CreateItem(ctx context.Context, event string, item *models.Item) error

	// UpdateItem replaces the fields of an existing item.
	UpdateItem(ctx context.Context, event string, item *models.Item) error

	// DeleteItem removes one item from an event.
	DeleteItem(ctx context.Context, event, id string) error

	// CreateItems persists a batch of items in a single transaction:
	// either every item is committed or none is.
	CreateItems(ctx context.Context, event string, items []*models.Item) error

	// Close releases any resources held by the store.
	Close() error
}

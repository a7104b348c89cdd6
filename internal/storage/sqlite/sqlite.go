// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/ihanakangas/jako/internal/models"
	"github.com/ihanakangas/jako/internal/storage"
)

// Ensure SQLiteStore implements storage.Store
var _ storage.Store = (*SQLiteStore)(nil)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ping verifies the database is reachable, for the health endpoint.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// CreateEvent persists a new event.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO events (name, description, created_at) VALUES (?, ?, ?)",
		event.Name, event.Description, event.CreatedAt,
	)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return fmt.Errorf("%w: %s", storage.ErrEventExists, event.Name)
		}
		return fmt.Errorf("failed to insert event: %w", err)
	}
	return nil
}

// ListEvents returns every event, oldest first.
func (s *SQLiteStore) ListEvents(ctx context.Context) ([]models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name, description, created_at FROM events ORDER BY created_at, name",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []models.Event
	for rows.Next() {
		var e models.Event
		if err := rows.Scan(&e.Name, &e.Description, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// GetEvent retrieves an event by name.
func (s *SQLiteStore) GetEvent(ctx context.Context, name string) (*models.Event, error) {
	event := &models.Event{}
	err := s.db.QueryRowContext(ctx,
		"SELECT name, description, created_at FROM events WHERE name = ?",
		name,
	).Scan(&event.Name, &event.Description, &event.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: event %s", storage.ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	return event, nil
}

// DeleteEvent removes an event; goods and payer rows cascade.
func (s *SQLiteStore) DeleteEvent(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE name = ?", name)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: event %s", storage.ErrNotFound, name)
	}
	return nil
}

// ListItems returns an event's items in insertion order with their payer
// lists in stored order.
func (s *SQLiteStore) ListItems(ctx context.Context, event string) ([]models.Item, error) {
	if _, err := s.GetEvent(ctx, event); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, label, price FROM goods WHERE event_name = ? ORDER BY rowid",
		event,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list goods: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var item models.Item
		var price string
		if err := rows.Scan(&item.ID, &item.Label, &price); err != nil {
			return nil, fmt.Errorf("failed to scan good: %w", err)
		}
		item.Price, err = decimal.NewFromString(price)
		if err != nil {
			return nil, fmt.Errorf("corrupt price for good %s: %w", item.ID, err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate goods: %w", err)
	}

	for i := range items {
		payers, err := s.itemPayers(ctx, items[i].ID)
		if err != nil {
			return nil, err
		}
		items[i].Payers = payers
	}
	return items, nil
}

func (s *SQLiteStore) itemPayers(ctx context.Context, goodID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM good_payers WHERE good_id = ? ORDER BY position",
		goodID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get payers: %w", err)
	}
	defer rows.Close()

	var payers []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan payer: %w", err)
		}
		payers = append(payers, name)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate payers: %w", err)
	}
	return payers, nil
}

// CreateItem persists a single new item under an event.
func (s *SQLiteStore) CreateItem(ctx context.Context, event string, item *models.Item) error {
	return s.CreateItems(ctx, event, []*models.Item{item})
}

// CreateItems persists a batch of items in one transaction. The ledger
// sees either the whole batch or none of it.
func (s *SQLiteStore) CreateItems(ctx context.Context, event string, items []*models.Item) error {
	if _, err := s.GetEvent(ctx, event); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, item := range items {
		if item.ID == "" {
			item.ID = uuid.New().String()
		}
		_, err = tx.ExecContext(ctx,
			"INSERT INTO goods (id, event_name, label, price, created_at) VALUES (?, ?, ?, ?, ?)",
			item.ID, event, item.Label, item.Price.String(), now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert good: %w", err)
		}
		if err := insertPayers(ctx, tx, item.ID, item.Payers); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// UpdateItem replaces an item's label, price and payer list.
func (s *SQLiteStore) UpdateItem(ctx context.Context, event string, item *models.Item) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE goods SET label = ?, price = ? WHERE id = ? AND event_name = ?",
		item.Label, item.Price.String(), item.ID, event,
	)
	if err != nil {
		return fmt.Errorf("failed to update good: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: good %s", storage.ErrNotFound, item.ID)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM good_payers WHERE good_id = ?", item.ID); err != nil {
		return fmt.Errorf("failed to clear payers: %w", err)
	}
	if err := insertPayers(ctx, tx, item.ID, item.Payers); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteItem removes one item; its payer rows cascade.
func (s *SQLiteStore) DeleteItem(ctx context.Context, event, id string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM goods WHERE id = ? AND event_name = ?", id, event,
	)
	if err != nil {
		return fmt.Errorf("failed to delete good: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: good %s", storage.ErrNotFound, id)
	}
	return nil
}

func insertPayers(ctx context.Context, tx *sql.Tx, goodID string, payers []string) error {
	for pos, name := range payers {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO good_payers (good_id, position, name) VALUES (?, ?, ?)",
			goodID, pos, name,
		)
		if err != nil {
			return fmt.Errorf("failed to insert payer: %w", err)
		}
	}
	return nil
}

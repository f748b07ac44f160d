package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"itemhub-rest-api/internal/model"
	"itemhub-rest-api/internal/schema"

	_ "modernc.org/sqlite" // Pure Go SQLite driver - no CGO required
)

// SQLiteItemRepository implements ItemRepository using SQLite.
// Thread-safe with WAL mode for high-concurrency reads.
type SQLiteItemRepository struct {
	db *sql.DB
	mu sync.RWMutex
}

// NewSQLiteItemRepository creates a new SQLite item repository.
// dbPath is the path to the SQLite database file (e.g., "./data/items.db")
func NewSQLiteItemRepository(dbPath string) (*SQLiteItemRepository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open SQLite: %w", err)
	}

	// SQLite only supports 1 writer
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// WAL mode for concurrent readers alongside the single writer.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set pragma %q: %w", p, err)
		}
	}

	if err := createSQLiteTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &SQLiteItemRepository{db: db}, nil
}

func createSQLiteTables(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		price REAL NOT NULL,
		description TEXT,
		in_stock INTEGER NOT NULL DEFAULT 1,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_items_price ON items(price);
	CREATE INDEX IF NOT EXISTS idx_items_in_stock ON items(in_stock);
	`
	_, err := db.Exec(query)
	return err
}

// Create inserts a new item. AUTOINCREMENT guarantees unique, monotonically
// increasing ids even under concurrent creates.
func (r *SQLiteItemRepository) Create(ctx context.Context, input *schema.ItemInput) (*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now().UTC()
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO items (name, price, description, in_stock, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		input.Name, input.Price, input.Description, input.InStock, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to get item id: %w", err)
	}

	// Re-read so the returned timestamps match what later reads will see.
	return r.get(ctx, r.db, id)
}

// Get returns the item with the given id.
func (r *SQLiteItemRepository) Get(ctx context.Context, id int64) (*model.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.get(ctx, r.db, id)
}

type rowScanner interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func (r *SQLiteItemRepository) get(ctx context.Context, q rowScanner, id int64) (*model.Item, error) {
	item := &model.Item{}
	var description sql.NullString

	err := q.QueryRowContext(ctx,
		`SELECT id, name, price, description, in_stock, created_at, updated_at
		 FROM items WHERE id = ?`, id,
	).Scan(&item.ID, &item.Name, &item.Price, &description, &item.InStock, &item.CreatedAt, &item.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get item: %w", err)
	}

	if description.Valid {
		item.Description = &description.String
	}
	return item, nil
}

// UpdateFull replaces all mutable fields and bumps updated_at. The update and
// the read-back run in one transaction so a failure leaves nothing applied.
func (r *SQLiteItemRepository) UpdateFull(ctx context.Context, id int64, input *schema.ItemInput) (*model.Item, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`UPDATE items SET name = ?, price = ?, description = ?, in_stock = ?, updated_at = ?
		 WHERE id = ?`,
		input.Name, input.Price, input.Description, input.InStock, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return nil, err
	} else if affected == 0 {
		return nil, ErrNotFound
	}

	item, err := r.get(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return item, nil
}

// UpdatePartial applies only the supplied fields. The SET clause is assembled
// from an explicit field-to-column mapping of the keys present in the patch.
func (r *SQLiteItemRepository) UpdatePartial(ctx context.Context, id int64, patch *schema.ItemPatch) (*model.Item, error) {
	if patch.Empty() {
		return r.Get(ctx, id)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	var sets []string
	var args []any
	if patch.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *patch.Name)
	}
	if patch.Price != nil {
		sets = append(sets, "price = ?")
		args = append(args, *patch.Price)
	}
	if patch.SetDescription {
		sets = append(sets, "description = ?")
		args = append(args, patch.Description)
	}
	if patch.InStock != nil {
		sets = append(sets, "in_stock = ?")
		args = append(args, *patch.InStock)
	}
	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().UTC(), id)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := fmt.Sprintf("UPDATE items SET %s WHERE id = ?", strings.Join(sets, ", "))
	result, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}
	if affected, err := result.RowsAffected(); err != nil {
		return nil, err
	} else if affected == 0 {
		return nil, ErrNotFound
	}

	item, err := r.get(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}
	return item, nil
}

// Delete removes the item permanently.
func (r *SQLiteItemRepository) Delete(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	result, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// List returns one page of matching items in insertion order plus the total
// match count.
func (r *SQLiteItemRepository) List(ctx context.Context, filter ListFilter, page, perPage int) ([]*model.Item, int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	where, args := buildFilter(filter, questionPlaceholder)

	var total int64
	if err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM items"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count items: %w", err)
	}

	query := "SELECT id, name, price, description, in_stock, created_at, updated_at FROM items" +
		where + " ORDER BY id LIMIT ? OFFSET ?"
	rows, err := r.db.QueryContext(ctx, query, append(args, perPage, (page-1)*perPage)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list items: %w", err)
	}
	defer rows.Close()

	items, err := scanItems(rows)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Ping verifies the database is reachable.
func (r *SQLiteItemRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection.
func (r *SQLiteItemRepository) Close() error {
	return r.db.Close()
}

// Ensure SQLiteItemRepository implements ItemRepository
var _ ItemRepository = (*SQLiteItemRepository)(nil)

package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"itemhub-rest-api/internal/model"
	"itemhub-rest-api/internal/schema"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
)

// MySQLItemRepository implements ItemRepository using MySQL.
type MySQLItemRepository struct {
	db *sql.DB
}

// NewMySQLItemRepository creates a new MySQL item repository.
// dsn format: "user:password@tcp(host:port)/dbname?parseTime=true"
func NewMySQLItemRepository(dsn string) (*MySQLItemRepository, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open MySQL: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping MySQL: %w", err)
	}

	if err := createMySQLTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return &MySQLItemRepository{db: db}, nil
}

func createMySQLTables(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS items (
		id BIGINT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		price DOUBLE NOT NULL,
		description VARCHAR(500),
		in_stock BOOLEAN NOT NULL DEFAULT TRUE,
		created_at DATETIME(6) NOT NULL,
		updated_at DATETIME(6) NOT NULL,
		INDEX idx_items_price (price),
		INDEX idx_items_in_stock (in_stock)
	)`
	_, err := db.Exec(query)
	return err
}

// Create inserts a new item. AUTO_INCREMENT guarantees unique, monotonically
// increasing ids even under concurrent creates.
func (r *MySQLItemRepository) Create(ctx context.Context, input *schema.ItemInput) (*model.Item, error) {
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

	return r.get(ctx, r.db, id)
}

// Get returns the item with the given id.
func (r *MySQLItemRepository) Get(ctx context.Context, id int64) (*model.Item, error) {
	return r.get(ctx, r.db, id)
}

func (r *MySQLItemRepository) get(ctx context.Context, q rowScanner, id int64) (*model.Item, error) {
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

// UpdateFull replaces all mutable fields and bumps updated_at.
func (r *MySQLItemRepository) UpdateFull(ctx context.Context, id int64, input *schema.ItemInput) (*model.Item, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// RowsAffected is 0 for a same-values update unless CLIENT_FOUND_ROWS is
	// set, so check existence inside the transaction instead.
	if _, err := r.get(ctx, tx, id); err != nil {
		return nil, err
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE items SET name = ?, price = ?, description = ?, in_stock = ?, updated_at = ?
		 WHERE id = ?`,
		input.Name, input.Price, input.Description, input.InStock, time.Now().UTC(), id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
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

// UpdatePartial applies only the supplied fields and bumps updated_at.
func (r *MySQLItemRepository) UpdatePartial(ctx context.Context, id int64, patch *schema.ItemPatch) (*model.Item, error) {
	if patch.Empty() {
		return r.Get(ctx, id)
	}

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

	if _, err := r.get(ctx, tx, id); err != nil {
		return nil, err
	}

	query := fmt.Sprintf("UPDATE items SET %s WHERE id = ?", strings.Join(sets, ", "))
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
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
func (r *MySQLItemRepository) Delete(ctx context.Context, id int64) error {
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
func (r *MySQLItemRepository) List(ctx context.Context, filter ListFilter, page, perPage int) ([]*model.Item, int64, error) {
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
func (r *MySQLItemRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database connection.
func (r *MySQLItemRepository) Close() error {
	return r.db.Close()
}

// Ensure MySQLItemRepository implements ItemRepository
var _ ItemRepository = (*MySQLItemRepository)(nil)

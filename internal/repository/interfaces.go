package repository

import (
	"context"
	"errors"

	"itemhub-rest-api/internal/model"
	"itemhub-rest-api/internal/schema"
)

// ErrNotFound is returned when no item exists for the requested id.
var ErrNotFound = errors.New("item not found")

// ListFilter narrows List results. Nil fields mean no constraint; set fields
// are combined as a conjunction.
type ListFilter struct {
	InStock  *bool
	MinPrice *float64
	MaxPrice *float64
}

// ItemRepository defines item data access methods.
type ItemRepository interface {
	// Create persists a new item, assigning the next id and timestamps.
	Create(ctx context.Context, input *schema.ItemInput) (*model.Item, error)

	// Get returns the item with the given id, or ErrNotFound.
	Get(ctx context.Context, id int64) (*model.Item, error)

	// UpdateFull replaces name, price, description and in_stock and bumps
	// updated_at. Returns ErrNotFound if the id does not exist.
	UpdateFull(ctx context.Context, id int64, input *schema.ItemInput) (*model.Item, error)

	// UpdatePartial applies only the fields supplied by the patch, leaving
	// the rest untouched, and bumps updated_at. An empty patch is a no-op
	// read. Returns ErrNotFound if the id does not exist.
	UpdatePartial(ctx context.Context, id int64, patch *schema.ItemPatch) (*model.Item, error)

	// Delete removes the item permanently, or returns ErrNotFound.
	Delete(ctx context.Context, id int64) error

	// List returns one page of items matching the filter in insertion (id)
	// order, plus the total match count. A page beyond the last one yields
	// an empty slice, never an error.
	List(ctx context.Context, filter ListFilter, page, perPage int) ([]*model.Item, int64, error)

	// Ping verifies the backing store is reachable.
	Ping(ctx context.Context) error

	// Close closes the repository connection.
	Close() error
}

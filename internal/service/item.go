package service

import (
	"context"
	"fmt"

	"itemhub-rest-api/internal/model"
	"itemhub-rest-api/internal/repository"
	"itemhub-rest-api/internal/schema"
)

// ItemService handles item business logic on top of an ItemRepository.
type ItemService struct {
	itemRepo repository.ItemRepository
}

// NewItemService creates a new item service.
// Returns nil if itemRepo is nil (required dependency).
func NewItemService(itemRepo repository.ItemRepository) *ItemService {
	if itemRepo == nil {
		return nil
	}
	return &ItemService{itemRepo: itemRepo}
}

// ListResult is one page of items plus pagination metadata.
type ListResult struct {
	Items   []*model.Item `json:"items"`
	Total   int64         `json:"total"`
	Page    int           `json:"page"`
	PerPage int           `json:"per_page"`
	Pages   int           `json:"pages"`
}

// ListItems returns the requested page of items matching the query filters.
// A page beyond the last one yields an empty page with accurate totals.
func (s *ItemService) ListItems(ctx context.Context, query *schema.ListQuery) (*ListResult, error) {
	filter := repository.ListFilter{
		InStock:  query.InStock,
		MinPrice: query.MinPrice,
		MaxPrice: query.MaxPrice,
	}

	items, total, err := s.itemRepo.List(ctx, filter, query.Page, query.PerPage)
	if err != nil {
		return nil, fmt.Errorf("failed to list items: %w", err)
	}

	pages := int((total + int64(query.PerPage) - 1) / int64(query.PerPage))

	return &ListResult{
		Items:   items,
		Total:   total,
		Page:    query.Page,
		PerPage: query.PerPage,
		Pages:   pages,
	}, nil
}

// CreateItem persists a new item from validated input.
func (s *ItemService) CreateItem(ctx context.Context, input *schema.ItemInput) (*model.Item, error) {
	item, err := s.itemRepo.Create(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	return item, nil
}

// GetItem returns the item with the given id.
func (s *ItemService) GetItem(ctx context.Context, id int64) (*model.Item, error) {
	return s.itemRepo.Get(ctx, id)
}

// UpdateItem replaces all mutable fields of the item with the given id.
func (s *ItemService) UpdateItem(ctx context.Context, id int64, input *schema.ItemInput) (*model.Item, error) {
	return s.itemRepo.UpdateFull(ctx, id, input)
}

// PatchItem applies only the fields supplied by the patch.
func (s *ItemService) PatchItem(ctx context.Context, id int64, patch *schema.ItemPatch) (*model.Item, error) {
	return s.itemRepo.UpdatePartial(ctx, id, patch)
}

// DeleteItem removes the item with the given id permanently.
func (s *ItemService) DeleteItem(ctx context.Context, id int64) error {
	return s.itemRepo.Delete(ctx, id)
}

// PingStore verifies the backing store is reachable.
func (s *ItemService) PingStore(ctx context.Context) error {
	return s.itemRepo.Ping(ctx)
}

package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"itemhub-rest-api/internal/repository"
	"itemhub-rest-api/internal/schema"
	"itemhub-rest-api/internal/service"
	"itemhub-rest-api/pkg/apierror"
	"itemhub-rest-api/pkg/response"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// ItemHandler handles item-related HTTP requests.
type ItemHandler struct {
	itemService *service.ItemService
	log         *zap.Logger
}

// NewItemHandler creates a new item handler.
func NewItemHandler(itemService *service.ItemService, log *zap.Logger) *ItemHandler {
	return &ItemHandler{
		itemService: itemService,
		log:         log,
	}
}

// ListItems handles GET /api/items
func (h *ItemHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	query, verrs := schema.ParseListQuery(r.URL.Query())
	if verrs != nil {
		h.log.Warn("list query validation failed", zap.Any("errors", verrs))
		response.Error(w, apierror.Validation(verrs))
		return
	}

	result, err := h.itemService.ListItems(r.Context(), query)
	if err != nil {
		h.log.Error("failed to list items", zap.Error(err))
		response.Error(w, err)
		return
	}

	response.OK(w, result)
}

// CreateItem handles POST /api/items
func (h *ItemHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.Error(w, apierror.BadRequest("failed to read request body"))
		return
	}
	defer r.Body.Close()

	input, verrs := schema.ParseItem(body)
	if verrs != nil {
		h.log.Warn("item validation failed", zap.Any("errors", verrs))
		response.Error(w, apierror.Validation(verrs))
		return
	}

	item, err := h.itemService.CreateItem(r.Context(), input)
	if err != nil {
		h.log.Error("failed to create item", zap.Error(err))
		response.Error(w, err)
		return
	}

	h.log.Info("item created", zap.Int64("id", item.ID))
	response.Created(w, item)
}

// GetItem handles GET /api/items/{id}
func (h *ItemHandler) GetItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	item, err := h.itemService.GetItem(r.Context(), id)
	if err != nil {
		h.storeError(w, err, "failed to get item", id)
		return
	}

	response.OK(w, item)
}

// UpdateItem handles PUT /api/items/{id} - full replacement of all mutable
// fields. Absent optional fields take their payload defaults (description
// null, in_stock true) rather than retaining old values.
func (h *ItemHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.Error(w, apierror.BadRequest("failed to read request body"))
		return
	}
	defer r.Body.Close()

	input, verrs := schema.ParseItem(body)
	if verrs != nil {
		h.log.Warn("item validation failed", zap.Any("errors", verrs))
		response.Error(w, apierror.Validation(verrs))
		return
	}

	item, err := h.itemService.UpdateItem(r.Context(), id, input)
	if err != nil {
		h.storeError(w, err, "failed to update item", id)
		return
	}

	h.log.Info("item updated", zap.Int64("id", id))
	response.OK(w, item)
}

// PatchItem handles PATCH /api/items/{id} - applies only the supplied fields.
func (h *ItemHandler) PatchItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		response.Error(w, apierror.BadRequest("failed to read request body"))
		return
	}
	defer r.Body.Close()

	patch, verrs := schema.ParsePatch(body)
	if verrs != nil {
		h.log.Warn("patch validation failed", zap.Any("errors", verrs))
		response.Error(w, apierror.Validation(verrs))
		return
	}

	item, err := h.itemService.PatchItem(r.Context(), id, patch)
	if err != nil {
		h.storeError(w, err, "failed to patch item", id)
		return
	}

	h.log.Info("item partially updated", zap.Int64("id", id))
	response.OK(w, item)
}

// DeleteItem handles DELETE /api/items/{id}
func (h *ItemHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := h.itemID(w, r)
	if !ok {
		return
	}

	if err := h.itemService.DeleteItem(r.Context(), id); err != nil {
		h.storeError(w, err, "failed to delete item", id)
		return
	}

	h.log.Info("item deleted", zap.Int64("id", id))
	response.Message(w, "Item deleted successfully")
}

// itemID extracts the {id} route parameter. The route pattern constrains it
// to digits, so a parse failure means the resource cannot exist.
func (h *ItemHandler) itemID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id < 1 {
		response.Error(w, apierror.NotFound("Item not found"))
		return 0, false
	}
	return id, true
}

// storeError maps a store failure onto the wire contract: missing ids become
// 404s, anything else a generic 500 with the detail kept server-side.
func (h *ItemHandler) storeError(w http.ResponseWriter, err error, msg string, id int64) {
	if errors.Is(err, repository.ErrNotFound) {
		response.Error(w, apierror.NotFound("Item not found"))
		return
	}
	h.log.Error(msg, zap.Int64("id", id), zap.Error(err))
	response.Error(w, apierror.Internal(""))
}

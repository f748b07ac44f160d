package handler_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"itemhub-rest-api/internal/handler"
	"itemhub-rest-api/internal/repository"
	"itemhub-rest-api/internal/router"
	"itemhub-rest-api/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type itemBody struct {
	ID          int64    `json:"id"`
	Name        string   `json:"name"`
	Price       float64  `json:"price"`
	Description *string  `json:"description"`
	InStock     bool     `json:"in_stock"`
	CreatedAt   string   `json:"created_at"`
	UpdatedAt   string   `json:"updated_at"`
}

type listBody struct {
	Items   []itemBody `json:"items"`
	Total   int64      `json:"total"`
	Page    int        `json:"page"`
	PerPage int        `json:"per_page"`
	Pages   int        `json:"pages"`
}

func newTestServer(t *testing.T) *httptest.Server {
	srv, _ := newTestServerWithRepo(t)
	return srv
}

func newTestServerWithRepo(t *testing.T) (*httptest.Server, *repository.SQLiteItemRepository) {
	t.Helper()

	repo, err := repository.NewSQLiteItemRepository(filepath.Join(t.TempDir(), "items.db"))
	require.NoError(t, err)
	t.Cleanup(func() { repo.Close() })

	log := zap.NewNop()
	itemService := service.NewItemService(repo)

	mux := router.New(router.Config{
		ItemHandler:   handler.NewItemHandler(itemService, log),
		HealthHandler: handler.NewHealthHandler(itemService, "testing", "test"),
		Logger:        log,
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv, repo
}

func doJSON(t *testing.T, srv *httptest.Server, method, path, body string) (*http.Response, []byte) {
	t.Helper()

	req, err := http.NewRequest(method, srv.URL+path, strings.NewReader(body))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, data
}

func createItem(t *testing.T, srv *httptest.Server, payload string) itemBody {
	t.Helper()

	resp, data := doJSON(t, srv, http.MethodPost, "/api/items", payload)
	require.Equal(t, http.StatusCreated, resp.StatusCode, "create failed: %s", data)

	var item itemBody
	require.NoError(t, json.Unmarshal(data, &item))
	return item
}

func TestCreateItem(t *testing.T) {
	srv := newTestServer(t)

	t.Run("zero price is stored as zero", func(t *testing.T) {
		item := createItem(t, srv, `{"name":"A","price":0}`)
		assert.Equal(t, "A", item.Name)
		assert.Zero(t, item.Price)
		assert.True(t, item.InStock, "in_stock defaults to true")
		assert.Nil(t, item.Description)
		assert.NotEmpty(t, item.CreatedAt)
		assert.Equal(t, item.CreatedAt, item.UpdatedAt)
	})

	t.Run("empty name rejected", func(t *testing.T) {
		resp, data := doJSON(t, srv, http.MethodPost, "/api/items", `{"name":"","price":10}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body struct {
			Errors map[string][]string `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(data, &body))
		assert.Contains(t, body.Errors, "name")
	})

	t.Run("missing name rejected", func(t *testing.T) {
		resp, data := doJSON(t, srv, http.MethodPost, "/api/items", `{"price":10}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, string(data), `"errors"`)
	})

	t.Run("non-ascii round trip", func(t *testing.T) {
		item := createItem(t, srv, `{"name":"Тестовый товар","price":99.99,"description":"Описание"}`)
		assert.Equal(t, "Тестовый товар", item.Name)
		require.NotNil(t, item.Description)
		assert.Equal(t, "Описание", *item.Description)

		resp, data := doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/items/%d", item.ID), "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var got itemBody
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, "Тестовый товар", got.Name)
	})
}

func TestGetItem(t *testing.T) {
	srv := newTestServer(t)

	t.Run("create then get returns the same record", func(t *testing.T) {
		created := createItem(t, srv, `{"name":"Stable","price":12.34,"description":"text"}`)

		resp, data := doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/items/%d", created.ID), "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var got itemBody
		require.NoError(t, json.Unmarshal(data, &got))
		assert.Equal(t, created, got)
	})

	t.Run("unknown id yields 404 with contract body", func(t *testing.T) {
		resp, data := doJSON(t, srv, http.MethodGet, "/api/items/99999", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.JSONEq(t, `{"error":"Item not found"}`, string(data))
	})

	t.Run("non-numeric id yields 404", func(t *testing.T) {
		resp, _ := doJSON(t, srv, http.MethodGet, "/api/items/abc", "")
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUpdateItem(t *testing.T) {
	srv := newTestServer(t)

	t.Run("put replaces every mutable field", func(t *testing.T) {
		created := createItem(t, srv, `{"name":"Before","price":10,"description":"old"}`)

		resp, data := doJSON(t, srv, http.MethodPut,
			fmt.Sprintf("/api/items/%d", created.ID),
			`{"name":"After","price":20,"in_stock":false}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var updated itemBody
		require.NoError(t, json.Unmarshal(data, &updated))
		assert.Equal(t, "After", updated.Name)
		assert.Equal(t, float64(20), updated.Price)
		assert.Nil(t, updated.Description, "absent description is replaced with null on full update")
		assert.False(t, updated.InStock)
		assert.Equal(t, created.CreatedAt, updated.CreatedAt)
	})

	t.Run("put validates payload", func(t *testing.T) {
		created := createItem(t, srv, `{"name":"Valid","price":10}`)

		resp, data := doJSON(t, srv, http.MethodPut,
			fmt.Sprintf("/api/items/%d", created.ID),
			`{"name":"X","price":-3}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, string(data), "Price must be non-negative")
	})

	t.Run("put on missing item yields 404", func(t *testing.T) {
		resp, data := doJSON(t, srv, http.MethodPut, "/api/items/99999", `{"name":"X","price":1}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.JSONEq(t, `{"error":"Item not found"}`, string(data))
	})
}

func TestPatchItem(t *testing.T) {
	srv := newTestServer(t)

	t.Run("patch changes only supplied fields", func(t *testing.T) {
		created := createItem(t, srv, `{"name":"Camera","price":300,"description":"DSLR"}`)

		resp, data := doJSON(t, srv, http.MethodPatch,
			fmt.Sprintf("/api/items/%d", created.ID),
			`{"in_stock":false}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var patched itemBody
		require.NoError(t, json.Unmarshal(data, &patched))
		assert.False(t, patched.InStock)
		assert.Equal(t, "Camera", patched.Name)
		assert.Equal(t, float64(300), patched.Price)
		require.NotNil(t, patched.Description)
		assert.Equal(t, "DSLR", *patched.Description)
	})

	t.Run("patch validates supplied fields", func(t *testing.T) {
		created := createItem(t, srv, `{"name":"OK","price":1}`)

		resp, data := doJSON(t, srv, http.MethodPatch,
			fmt.Sprintf("/api/items/%d", created.ID),
			`{"price":-1}`)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Contains(t, string(data), `"errors"`)
	})

	t.Run("patch on missing item yields 404", func(t *testing.T) {
		resp, _ := doJSON(t, srv, http.MethodPatch, "/api/items/99999", `{"in_stock":true}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestDeleteItem(t *testing.T) {
	srv := newTestServer(t)

	created := createItem(t, srv, `{"name":"Ephemeral","price":5}`)

	resp, data := doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/items/%d", created.ID), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Item deleted successfully"}`, string(data))

	resp, data = doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/items/%d", created.ID), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Item not found"}`, string(data))

	resp, _ = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/items/%d", created.ID), "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListItems(t *testing.T) {
	srv := newTestServer(t)

	for i := 1; i <= 15; i++ {
		inStock := "true"
		if i%3 == 0 {
			inStock = "false"
		}
		createItem(t, srv, fmt.Sprintf(`{"name":"Item %d","price":%d,"in_stock":%s}`, i, i*10, inStock))
	}

	t.Run("pages are disjoint", func(t *testing.T) {
		resp, data := doJSON(t, srv, http.MethodGet, "/api/items?page=1&per_page=5", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var page1 listBody
		require.NoError(t, json.Unmarshal(data, &page1))
		require.Len(t, page1.Items, 5)
		assert.EqualValues(t, 15, page1.Total)
		assert.Equal(t, 3, page1.Pages)

		resp, data = doJSON(t, srv, http.MethodGet, "/api/items?page=2&per_page=5", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var page2 listBody
		require.NoError(t, json.Unmarshal(data, &page2))
		require.Len(t, page2.Items, 5)

		seen := map[int64]bool{}
		for _, item := range page1.Items {
			seen[item.ID] = true
		}
		for _, item := range page2.Items {
			assert.False(t, seen[item.ID], "page 2 repeats id %d", item.ID)
		}
	})

	t.Run("overshoot page is empty not an error", func(t *testing.T) {
		resp, data := doJSON(t, srv, http.MethodGet, "/api/items?page=100&per_page=5", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body listBody
		require.NoError(t, json.Unmarshal(data, &body))
		assert.Empty(t, body.Items)
		assert.EqualValues(t, 15, body.Total)
		assert.Equal(t, 3, body.Pages)
		assert.Equal(t, 100, body.Page)
	})

	t.Run("price filters", func(t *testing.T) {
		resp, data := doJSON(t, srv, http.MethodGet, "/api/items?min_price=50&max_price=100", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body listBody
		require.NoError(t, json.Unmarshal(data, &body))
		require.NotEmpty(t, body.Items)
		for _, item := range body.Items {
			assert.GreaterOrEqual(t, item.Price, float64(50))
			assert.LessOrEqual(t, item.Price, float64(100))
		}
	})

	t.Run("stock filter case-insensitive", func(t *testing.T) {
		resp, data := doJSON(t, srv, http.MethodGet, "/api/items?in_stock=FALSE", "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var body listBody
		require.NoError(t, json.Unmarshal(data, &body))
		assert.EqualValues(t, 5, body.Total)
		for _, item := range body.Items {
			assert.False(t, item.InStock)
		}
	})

	t.Run("invalid parameters rejected", func(t *testing.T) {
		resp, data := doJSON(t, srv, http.MethodGet, "/api/items?page=0&per_page=500", "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var body struct {
			Errors map[string][]string `json:"errors"`
		}
		require.NoError(t, json.Unmarshal(data, &body))
		assert.Contains(t, body.Errors, "page")
		assert.Contains(t, body.Errors, "per_page")
	})
}

func TestHealthAndStatus(t *testing.T) {
	srv := newTestServer(t)

	resp, data := doJSON(t, srv, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `"healthy"`)
	assert.Contains(t, string(data), `"testing"`)

	resp, data = doJSON(t, srv, http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), `"ok"`)
}

func TestStoreFailureYieldsInternalError(t *testing.T) {
	srv, repo := newTestServerWithRepo(t)

	created := createItem(t, srv, `{"name":"Orphan","price":1}`)

	// Closing the database makes every store call fail; the handlers must
	// normalize that to the generic 500 body with no driver detail.
	require.NoError(t, repo.Close())

	resp, data := doJSON(t, srv, http.MethodGet, fmt.Sprintf("/api/items/%d", created.ID), "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Internal server error"}`, string(data))

	resp, data = doJSON(t, srv, http.MethodGet, "/api/items", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Internal server error"}`, string(data))

	resp, data = doJSON(t, srv, http.MethodPost, "/api/items", `{"name":"X","price":1}`)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Internal server error"}`, string(data))

	resp, data = doJSON(t, srv, http.MethodDelete, fmt.Sprintf("/api/items/%d", created.ID), "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Internal server error"}`, string(data))
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer(t)

	resp, data := doJSON(t, srv, http.MethodGet, "/api/unknown", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Resource not found"}`, string(data))
}

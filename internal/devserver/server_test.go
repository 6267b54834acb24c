package devserver

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/shelf/internal/catalog"
)

func newTestServer(t *testing.T) (*Server, *catalog.Client) {
	t.Helper()
	n := 0
	srv := New(
		WithClock(func() time.Time { return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC) }),
		WithIDs(func() string { n++; return fmt.Sprintf("p%d", n) }),
	)
	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)

	client, err := catalog.NewClient(ts.URL, time.Second)
	require.NoError(t, err)
	return srv, client
}

func TestServer_CreateListUpdateDelete(t *testing.T) {
	srv, client := newTestServer(t)
	ctx := context.Background()

	created, err := client.CreateProduct(ctx, catalog.ProductInput{
		Name: "Pen", Price: 1.5, Description: "Blue pen", Category: catalog.CategoryGeneral,
	})
	require.NoError(t, err)
	assert.Equal(t, "p1", created.ID)
	assert.Equal(t, "2025-03-01T12:00:00Z", created.CreatedAt)

	list, err := client.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, created, list[0])

	updated, err := client.UpdateProduct(ctx, created.ID, catalog.ProductInput{
		Name: "Pencil", Price: 0.75, Description: "HB", Category: catalog.CategoryBooks,
	})
	require.NoError(t, err)
	assert.Equal(t, "Pencil", updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	require.NoError(t, client.DeleteProduct(ctx, created.ID))
	assert.Empty(t, srv.Products())
}

func TestServer_UnknownIDIsNotFound(t *testing.T) {
	_, client := newTestServer(t)

	err := client.DeleteProduct(context.Background(), "missing")
	var serverErr *catalog.ServerError
	require.True(t, errors.As(err, &serverErr), "err = %v", err)
	assert.Equal(t, http.StatusNotFound, serverErr.StatusCode)
}

func TestServer_FailNextIsOneShot(t *testing.T) {
	srv, client := newTestServer(t)
	srv.FailNext(http.MethodGet, http.StatusServiceUnavailable)

	_, err := client.ListProducts(context.Background())
	var serverErr *catalog.ServerError
	require.True(t, errors.As(err, &serverErr), "err = %v", err)
	assert.Equal(t, http.StatusServiceUnavailable, serverErr.StatusCode)

	_, err = client.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, srv.Requests(http.MethodGet))
}

func TestServer_RejectsInvalidBodies(t *testing.T) {
	srv := New()
	h := srv.Handler()

	cases := []struct {
		name string
		body string
	}{
		{"malformed", `{"name":`},
		{"blank name", `{"name":"  ","price":1,"category":"General"}`},
		{"negative price", `{"name":"Pen","price":-5,"category":"General"}`},
		{"unknown category", `{"name":"Pen","price":1,"category":"Toys"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, catalog.CollectionPath, bytes.NewBufferString(tc.body))
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
	assert.Empty(t, srv.Products())
}

func TestServer_SeedKeepsOrder(t *testing.T) {
	srv := New()
	srv.Seed(
		catalog.Product{ID: "b", Name: "B"},
		catalog.Product{ID: "a", Name: "A"},
	)
	got := srv.Products()
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)
	assert.NotEmpty(t, got[0].CreatedAt)
}

func TestServer_IDsWithReservedCharacters(t *testing.T) {
	srv, client := newTestServer(t)
	ctx := context.Background()
	srv.Seed(catalog.Product{ID: "a b/c", Name: "Odd", Price: 1, Description: "slash id", Category: catalog.CategoryBooks})

	updated, err := client.UpdateProduct(ctx, "a b/c", catalog.ProductInput{
		Name: "Odd", Price: 2, Description: "slash id", Category: catalog.CategoryBooks,
	})
	require.NoError(t, err)
	assert.Equal(t, "a b/c", updated.ID)
	assert.Equal(t, 2.0, srv.Products()[0].Price)

	require.NoError(t, client.DeleteProduct(ctx, "a b/c"))
	assert.Empty(t, srv.Products())
}

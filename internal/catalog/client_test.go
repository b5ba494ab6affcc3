package catalog

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/api/v1/", time.Second)
}

func TestListProducts(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products", r.URL.Path)
		w.Write([]byte(`[{"id":"SBX-1234","name":"Sneakers","company":"Shoes4All","retail":8999,"isAvailable":true}]`))
	})

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "SBX-1234", products[0].ID)
	assert.Equal(t, int64(8999), products[0].Retail)
	assert.True(t, products[0].IsAvailable)
}

func TestListProductsNullBody(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("null"))
	})

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestGetProductEscapesID(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/products/A%2FB", r.URL.EscapedPath())
		w.Write([]byte(`{"id":"A/B","name":"Slash","company":"C","retail":1,"isAvailable":false}`))
	})

	product, err := client.GetProduct(context.Background(), "A/B")
	require.NoError(t, err)
	assert.Equal(t, "A/B", product.ID)
}

func TestGetProductNotFound(t *testing.T) {
	tests := map[string]http.HandlerFunc{
		"404": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `"Not found"`, http.StatusNotFound)
		},
		"empty body": func(w http.ResponseWriter, r *http.Request) {},
		"null":       func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("null")) },
		"no id":      func(w http.ResponseWriter, r *http.Request) { w.Write([]byte("{}")) },
	}

	for name, handler := range tests {
		t.Run(name, func(t *testing.T) {
			client := newTestServer(t, handler)
			_, err := client.GetProduct(context.Background(), "XYZ")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestTransportErrors(t *testing.T) {
	client := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	_, err := client.ListProducts(context.Background())
	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
	assert.False(t, errors.Is(err, ErrNotFound))

	bad := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("{not json"))
	})
	_, err = bad.GetProduct(context.Background(), "SBX-1234")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrNotFound))
}

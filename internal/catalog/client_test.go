package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/stylekart/storefront/pkg/errors"
	"github.com/stylekart/storefront/pkg/httpclient"

	"github.com/stylekart/storefront/internal/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	logger := testLogger()
	base := httpclient.New(httpclient.DefaultConfig())
	cb := httpclient.NewCircuitBreakerClient(base, httpclient.DefaultCircuitBreakerConfig("catalog-test"), logger)
	return NewClient(srv.URL, cb, logger)
}

func TestListProducts_NormalizesShapes(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products", r.URL.Path)
		// Mixed shapes: numeric id, product_id alias, image alias, title alias.
		_, _ = w.Write([]byte(`[
			{"id": 1, "name": "Crew Neck Tee", "price": "Rs. 1,999.00", "image": "tee.jpg"},
			{"product_id": "p-2", "title": "Hoodie", "price": 2500, "image_url": "hoodie.jpg", "category": "winter"}
		]`))
	}))

	products, err := c.ListProducts(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	assert.Equal(t, domain.Product{
		ID: "1", Name: "Crew Neck Tee", Price: "Rs. 1,999.00", ImageURL: "tee.jpg",
	}, products[0])
	assert.Equal(t, domain.Product{
		ID: "p-2", Name: "Hoodie", Price: "2500", ImageURL: "hoodie.jpg", Category: "winter",
	}, products[1])
}

func TestGetProduct_Success(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/products/p-1", r.URL.Path)
		_, _ = w.Write([]byte(`{"id": "p-1", "name": "Tee", "price": "Rs. 500.00"}`))
	}))

	p, err := c.GetProduct(context.Background(), "p-1")
	require.NoError(t, err)
	assert.Equal(t, "p-1", p.ID)
	assert.Equal(t, "Rs. 500.00", p.Price)
}

func TestGetProduct_NotFound(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))

	_, err := c.GetProduct(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListUsers_NormalizesNameAliases(t *testing.T) {
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users", r.URL.Path)
		_, _ = w.Write([]byte(`[
			{"id": 10, "firstName": "Asha", "lastName": "Rao", "email": "asha@example.com", "password": "hash-1"},
			{"id": "u-11", "Fname": "Ravi", "Lname": "Iyer", "email": "ravi@example.com", "password": "hash-2"}
		]`))
	}))

	users, err := c.ListUsers(context.Background())
	require.NoError(t, err)
	require.Len(t, users, 2)

	assert.Equal(t, "10", users[0].ID)
	assert.Equal(t, "Asha", users[0].FirstName)
	assert.Equal(t, "hash-1", users[0].PasswordHash)

	assert.Equal(t, "u-11", users[1].ID)
	assert.Equal(t, "Ravi", users[1].FirstName)
	assert.Equal(t, "Iyer", users[1].LastName)
}

func TestCreateUser_PostsRecord(t *testing.T) {
	var got domain.User
	c := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/users", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusCreated)
	}))

	user := domain.User{ID: "u-1", FirstName: "Asha", Email: "asha@example.com", PasswordHash: "hash"}
	require.NoError(t, c.CreateUser(context.Background(), user))
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)
}

// Package catalog talks to the product catalog store over HTTP. The store is
// a plain JSON document server, so record shapes drift: ids arrive as numbers
// or strings under "id" or "product_id", images under "image" or "image_url",
// user names as "firstName" or "Fname". Everything is normalized onto the
// canonical domain types here; nothing past this boundary sees the external
// shapes.
package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	apperrors "github.com/stylekart/storefront/pkg/errors"
	"github.com/stylekart/storefront/pkg/httpclient"

	"github.com/stylekart/storefront/internal/domain"
)

const serviceName = "catalog"

// Client is an HTTP client for the catalog store.
type Client struct {
	baseURL string
	http    *httpclient.CircuitBreakerClient
	logger  *slog.Logger
}

// NewClient creates a catalog client against the given base URL.
func NewClient(baseURL string, http *httpclient.CircuitBreakerClient, logger *slog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    http,
		logger:  logger,
	}
}

// ListProducts fetches all products from the catalog.
func (c *Client) ListProducts(ctx context.Context) ([]domain.Product, error) {
	resp, err := c.http.Get(ctx, c.baseURL+"/products")
	if err != nil {
		return nil, fmt.Errorf("fetch products: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, serviceName)
	}
	defer func() { _ = resp.Body.Close() }()

	var records []productRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode products: %w", err)
	}

	products := make([]domain.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, rec.canonical())
	}
	return products, nil
}

// GetProduct fetches a single product by its identifier.
func (c *Client) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	resp, err := c.http.Get(ctx, c.baseURL+"/products/"+id)
	if err != nil {
		return nil, fmt.Errorf("fetch product %s: %w", id, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		_ = resp.Body.Close()
		return nil, apperrors.NotFound("product", id)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, serviceName)
	}
	defer func() { _ = resp.Body.Close() }()

	var rec productRecord
	if err := json.NewDecoder(resp.Body).Decode(&rec); err != nil {
		return nil, fmt.Errorf("decode product: %w", err)
	}

	product := rec.canonical()
	return &product, nil
}

// ListUsers fetches all registered users from the catalog store.
func (c *Client) ListUsers(ctx context.Context) ([]domain.User, error) {
	resp, err := c.http.Get(ctx, c.baseURL+"/users")
	if err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, httpclient.ParseResponseError(resp, serviceName)
	}
	defer func() { _ = resp.Body.Close() }()

	var records []userRecord
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]domain.User, 0, len(records))
	for _, rec := range records {
		users = append(users, rec.canonical())
	}
	return users, nil
}

// CreateUser stores a new user record in the catalog store.
func (c *Client) CreateUser(ctx context.Context, user domain.User) error {
	body, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("marshal user: %w", err)
	}

	resp, err := c.http.Post(ctx, c.baseURL+"/users", "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		return httpclient.ParseResponseError(resp, serviceName)
	}
	return nil
}

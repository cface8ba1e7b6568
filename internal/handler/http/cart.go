package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/stylekart/storefront/pkg/httputil"
	"github.com/stylekart/storefront/pkg/middleware"
	"github.com/stylekart/storefront/pkg/validator"

	"github.com/stylekart/storefront/internal/catalog"
	"github.com/stylekart/storefront/internal/domain"
	"github.com/stylekart/storefront/internal/session"
)

// CartHandler handles HTTP requests for cart endpoints.
type CartHandler struct {
	carts   *session.Registry
	catalog *catalog.Client
	logger  *slog.Logger
}

// NewCartHandler creates a new cart HTTP handler.
func NewCartHandler(carts *session.Registry, catalogClient *catalog.Client, logger *slog.Logger) *CartHandler {
	return &CartHandler{
		carts:   carts,
		catalog: catalogClient,
		logger:  logger,
	}
}

// AddItemRequest is the JSON request body for adding an item to the cart.
// The product snapshot comes from the catalog, not the client. Size is coerced
// through domain.ParseSize, the same as the query-parameter endpoints, so
// case and unknown values behave identically on every route.
type AddItemRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Size      string `json:"size"`
	Quantity  int    `json:"quantity" validate:"required,gte=1"`
}

// UpdateQuantityRequest is the JSON request body for updating an entry's quantity.
type UpdateQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// CartSummary is the aggregate view of the cart.
type CartSummary struct {
	ItemCount int     `json:"item_count"`
	SubTotal  float64 `json:"sub_total"`
	Total     float64 `json:"total"`
	InCart    *bool   `json:"in_cart,omitempty"`
}

// GetCart handles GET /api/v1/cart
func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	cart := h.carts.ForUser(r.Context(), userID).Cart()
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: cart})
}

// GetSummary handles GET /api/v1/cart/summary. When a product_id query
// parameter is present the response also reports whether that product, in the
// given (or default) size, is in the cart.
func (h *CartHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())
	sess := h.carts.ForUser(r.Context(), userID)

	summary := CartSummary{
		ItemCount: sess.ItemCount(),
		SubTotal:  sess.SubTotal(),
		Total:     sess.Total(),
	}

	if productID := r.URL.Query().Get("product_id"); productID != "" {
		size := domain.ParseSize(r.URL.Query().Get("size"))
		in := sess.IsInCart(productID, size)
		summary.InCart = &in
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: summary})
}

// Contains handles GET /api/v1/cart/contains. It reports whether the given
// product, in the given (or default) size, is currently in the cart.
func (h *CartHandler) Contains(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	productID := r.URL.Query().Get("product_id")
	if productID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "product_id query parameter is required"},
		})
		return
	}
	size := domain.ParseSize(r.URL.Query().Get("size"))

	in := h.carts.ForUser(r.Context(), userID).IsInCart(productID, size)
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]any{
		"product_id": productID,
		"size":       string(size),
		"in_cart":    in,
	}})
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	var req AddItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	product, err := h.catalog.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	sess := h.carts.ForUser(r.Context(), userID)
	if err := sess.AddToCart(r.Context(), *product, domain.ParseSize(req.Size), req.Quantity); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess.Cart()})
}

// UpdateQuantity handles PUT /api/v1/cart/items/{entryId}
func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	entryID := chi.URLParam(r, "entryId")
	if entryID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "entryId is required"},
		})
		return
	}

	var req UpdateQuantityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}
	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sess := h.carts.ForUser(r.Context(), userID)
	if err := sess.UpdateQuantity(r.Context(), entryID, req.Quantity); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess.Cart()})
}

// RemoveItem handles DELETE /api/v1/cart/items/{entryId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	entryID := chi.URLParam(r, "entryId")
	if entryID == "" {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "entryId is required"},
		})
		return
	}

	sess := h.carts.ForUser(r.Context(), userID)
	if err := sess.RemoveFromCart(r.Context(), entryID); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: sess.Cart()})
}

// ClearCart handles DELETE /api/v1/cart
func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID := middleware.UserIDFromContext(r.Context())

	sess := h.carts.ForUser(r.Context(), userID)
	if err := sess.Clear(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: map[string]string{"status": "cleared"}})
}

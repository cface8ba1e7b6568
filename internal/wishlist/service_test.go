package wishlist

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/stylekart/storefront/pkg/errors"
	pkgkafka "github.com/stylekart/storefront/pkg/kafka"

	"github.com/stylekart/storefront/internal/domain"
	"github.com/stylekart/storefront/internal/event"
	"github.com/stylekart/storefront/internal/repository"
	"github.com/stylekart/storefront/internal/session"
)

type fakeWishlistRepo struct {
	slots     map[string]*domain.Wishlist
	malformed map[string]bool
	saves     int
}

func newFakeWishlistRepo() *fakeWishlistRepo {
	return &fakeWishlistRepo{
		slots:     make(map[string]*domain.Wishlist),
		malformed: make(map[string]bool),
	}
}

func (f *fakeWishlistRepo) Get(_ context.Context, userID string) (*domain.Wishlist, error) {
	if f.malformed[userID] {
		return nil, fmt.Errorf("%w: unmarshal wishlist for user %s", repository.ErrMalformedData, userID)
	}
	wl, ok := f.slots[userID]
	if !ok {
		return nil, apperrors.NotFound("wishlist", userID)
	}
	cp := *wl
	cp.Items = append([]domain.WishlistItem(nil), wl.Items...)
	return &cp, nil
}

func (f *fakeWishlistRepo) Save(_ context.Context, wl *domain.Wishlist) error {
	cp := *wl
	cp.Items = append([]domain.WishlistItem(nil), wl.Items...)
	f.slots[wl.UserID] = &cp
	f.saves++
	return nil
}

func (f *fakeWishlistRepo) Delete(_ context.Context, userID string) error {
	delete(f.slots, userID)
	return nil
}

type fakeCartRepo struct {
	carts map[string]*domain.Cart
}

func (f *fakeCartRepo) Get(_ context.Context, userID string) (*domain.Cart, error) {
	cart, ok := f.carts[userID]
	if !ok {
		return nil, apperrors.NotFound("cart", userID)
	}
	return cart, nil
}

func (f *fakeCartRepo) Save(_ context.Context, cart *domain.Cart) error {
	f.carts[cart.UserID] = cart
	return nil
}

func (f *fakeCartRepo) Delete(_ context.Context, userID string) error {
	delete(f.carts, userID)
	return nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestService(repo *fakeWishlistRepo) (*Service, *session.Registry) {
	logger := testLogger()
	// No broker is running in tests; publish failures are logged and ignored.
	producer := event.NewProducer(pkgkafka.NewProducer(pkgkafka.DefaultProducerConfig([]string{"localhost:9092"}), logger), logger)
	carts := session.NewRegistry(&fakeCartRepo{carts: make(map[string]*domain.Cart)}, producer, logger)
	return NewService(repo, carts, logger), carts
}

func hoodie() domain.Product {
	return domain.Product{
		ID:       "p-7",
		Name:     "Zip Hoodie",
		Price:    "Rs. 2,499.00",
		ImageURL: "https://img.example.com/hoodie.jpg",
	}
}

func TestList_UnauthenticatedRejected(t *testing.T) {
	svc, _ := newTestService(newFakeWishlistRepo())

	_, err := svc.List(context.Background(), "")
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
}

func TestList_MissingSlotIsEmpty(t *testing.T) {
	svc, _ := newTestService(newFakeWishlistRepo())

	wl, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, wl.Items)
}

func TestList_MalformedSlotFallsBackToEmpty(t *testing.T) {
	repo := newFakeWishlistRepo()
	repo.malformed["u1"] = true
	svc, _ := newTestService(repo)

	wl, err := svc.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, wl.Items)
}

func TestAdd_SnapshotsProduct(t *testing.T) {
	repo := newFakeWishlistRepo()
	svc, _ := newTestService(repo)

	wl, err := svc.Add(context.Background(), "u1", hoodie())
	require.NoError(t, err)

	require.Len(t, wl.Items, 1)
	assert.Equal(t, "p-7", wl.Items[0].ProductID)
	assert.Equal(t, "Rs. 2,499.00", wl.Items[0].Price)
	assert.False(t, wl.Items[0].AddedAt.IsZero())

	stored, ok := repo.slots["u1"]
	require.True(t, ok)
	assert.Len(t, stored.Items, 1)
}

func TestAdd_Idempotent(t *testing.T) {
	repo := newFakeWishlistRepo()
	svc, _ := newTestService(repo)

	_, err := svc.Add(context.Background(), "u1", hoodie())
	require.NoError(t, err)
	savesAfterFirst := repo.saves

	wl, err := svc.Add(context.Background(), "u1", hoodie())
	require.NoError(t, err)

	assert.Len(t, wl.Items, 1)
	assert.Equal(t, savesAfterFirst, repo.saves, "duplicate add should not persist")
}

func TestAdd_UnauthenticatedRejected(t *testing.T) {
	repo := newFakeWishlistRepo()
	svc, _ := newTestService(repo)

	_, err := svc.Add(context.Background(), "", hoodie())
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Zero(t, repo.saves)
}

func TestAdd_MissingProductIDRejected(t *testing.T) {
	svc, _ := newTestService(newFakeWishlistRepo())

	_, err := svc.Add(context.Background(), "u1", domain.Product{Name: "no id"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestRemove_DeletesItem(t *testing.T) {
	svc, _ := newTestService(newFakeWishlistRepo())
	ctx := context.Background()

	_, err := svc.Add(ctx, "u1", hoodie())
	require.NoError(t, err)

	wl, err := svc.Remove(ctx, "u1", "p-7")
	require.NoError(t, err)
	assert.Empty(t, wl.Items)
}

func TestRemove_AbsentProductNoOp(t *testing.T) {
	repo := newFakeWishlistRepo()
	svc, _ := newTestService(repo)

	wl, err := svc.Remove(context.Background(), "u1", "ghost")
	require.NoError(t, err)
	assert.Empty(t, wl.Items)
	assert.Zero(t, repo.saves)
}

func TestClear_EmptiesSlot(t *testing.T) {
	repo := newFakeWishlistRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	_, err := svc.Add(ctx, "u1", hoodie())
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "u1"))

	stored, ok := repo.slots["u1"]
	require.True(t, ok, "clear overwrites the slot, it does not delete it")
	assert.Empty(t, stored.Items)
}

func TestMoveToCart_AddsAndRemoves(t *testing.T) {
	svc, carts := newTestService(newFakeWishlistRepo())
	ctx := context.Background()

	_, err := svc.Add(ctx, "u1", hoodie())
	require.NoError(t, err)

	wl, err := svc.MoveToCart(ctx, "u1", "p-7", domain.SizeL, 2)
	require.NoError(t, err)
	assert.Empty(t, wl.Items)

	cart := carts.ForUser(ctx, "u1").Cart()
	require.Len(t, cart.Entries, 1)
	assert.Equal(t, "p-7", cart.Entries[0].ProductID)
	assert.Equal(t, domain.SizeL, cart.Entries[0].Size)
	assert.Equal(t, 2, cart.Entries[0].Quantity)
	assert.Equal(t, "Rs. 2,499.00", cart.Entries[0].UnitPrice, "cart keeps the wishlist price snapshot")
}

func TestMoveToCart_DefaultsQuantityToOne(t *testing.T) {
	svc, carts := newTestService(newFakeWishlistRepo())
	ctx := context.Background()

	_, err := svc.Add(ctx, "u1", hoodie())
	require.NoError(t, err)

	_, err = svc.MoveToCart(ctx, "u1", "p-7", "", 0)
	require.NoError(t, err)

	cart := carts.ForUser(ctx, "u1").Cart()
	require.Len(t, cart.Entries, 1)
	assert.Equal(t, 1, cart.Entries[0].Quantity)
	assert.Equal(t, domain.DefaultSize, cart.Entries[0].Size)
}

func TestMoveToCart_AbsentItem(t *testing.T) {
	svc, _ := newTestService(newFakeWishlistRepo())

	_, err := svc.MoveToCart(context.Background(), "u1", "ghost", domain.SizeM, 1)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMoveToCart_KeepsItemWhenCartAddFails(t *testing.T) {
	repo := newFakeWishlistRepo()
	svc, _ := newTestService(repo)
	ctx := context.Background()

	now := time.Now().UTC()
	repo.slots["u1"] = &domain.Wishlist{
		UserID:    "u1",
		Items:     []domain.WishlistItem{{ProductID: "", Name: "broken record", AddedAt: now}},
		UpdatedAt: now,
	}

	// A slot row without a product id cannot be added to the cart; the
	// wishlist must stay untouched.
	_, err := svc.MoveToCart(ctx, "u1", "", domain.SizeM, 1)
	assert.Error(t, err)
	assert.Len(t, repo.slots["u1"].Items, 1)
}

func TestWishlists_PerUserIsolation(t *testing.T) {
	svc, _ := newTestService(newFakeWishlistRepo())
	ctx := context.Background()

	_, err := svc.Add(ctx, "u1", hoodie())
	require.NoError(t, err)

	wl, err := svc.List(ctx, "u2")
	require.NoError(t, err)
	assert.Empty(t, wl.Items)
}

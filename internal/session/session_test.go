package session

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/stylekart/storefront/pkg/errors"
	pkgkafka "github.com/stylekart/storefront/pkg/kafka"

	"github.com/stylekart/storefront/internal/domain"
	"github.com/stylekart/storefront/internal/event"
	"github.com/stylekart/storefront/internal/repository"
)

// --- Fake repository ---

// fakeCartRepo is a stateful in-memory stand-in for the durable key-value
// store. Carts are stored as JSON so reads return independent copies, like
// the real slot does.
type fakeCartRepo struct {
	mu        sync.Mutex
	slots     map[string][]byte
	malformed map[string]bool
	saves     int
}

func newFakeCartRepo() *fakeCartRepo {
	return &fakeCartRepo{
		slots:     make(map[string][]byte),
		malformed: make(map[string]bool),
	}
}

func (f *fakeCartRepo) Get(_ context.Context, userID string) (*domain.Cart, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.malformed[userID] {
		return nil, fmt.Errorf("%w: unmarshal cart for user %s", repository.ErrMalformedData, userID)
	}
	data, ok := f.slots[userID]
	if !ok {
		return nil, apperrors.NotFound("cart", userID)
	}
	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (f *fakeCartRepo) Save(_ context.Context, cart *domain.Cart) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	f.slots[cart.UserID] = data
	f.saves++
	return nil
}

func (f *fakeCartRepo) Delete(_ context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.slots, userID)
	return nil
}

func (f *fakeCartRepo) stored(t *testing.T, userID string) *domain.Cart {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()

	data, ok := f.slots[userID]
	require.True(t, ok, "no slot for user %s", userID)
	var cart domain.Cart
	require.NoError(t, json.Unmarshal(data, &cart))
	return &cart
}

func (f *fakeCartRepo) hasSlot(userID string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.slots[userID]
	return ok
}

// --- Helpers ---

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func newTestProducer(logger *slog.Logger) *event.Producer {
	// No broker is running in tests; publish failures are logged and ignored.
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:9092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

func newTestSession(repo repository.CartRepository) *CartSession {
	logger := newTestLogger()
	return New(repo, newTestProducer(logger), logger)
}

func tee() domain.Product {
	return domain.Product{
		ID:       "p1",
		Name:     "Crew Neck Tee",
		Price:    "Rs. 1,999.00",
		ImageURL: "https://img.example.com/tee.jpg",
	}
}

// --- State machine ---

func TestNewSession_Unauthenticated(t *testing.T) {
	s := newTestSession(newFakeCartRepo())

	assert.False(t, s.Authenticated())
	assert.Empty(t, s.UserID())
	assert.Empty(t, s.Cart().Entries)
}

func TestAddToCart_UnauthenticatedRejected(t *testing.T) {
	repo := newFakeCartRepo()
	s := newTestSession(repo)

	err := s.AddToCart(context.Background(), tee(), domain.SizeM, 1)

	require.Error(t, err)
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Empty(t, s.Cart().Entries)
	assert.Zero(t, repo.saves, "rejected mutation must not persist")
}

func TestMutations_UnauthenticatedRejected(t *testing.T) {
	s := newTestSession(newFakeCartRepo())
	ctx := context.Background()

	assert.ErrorIs(t, s.RemoveFromCart(ctx, "e1"), apperrors.ErrUnauthorized)
	assert.ErrorIs(t, s.UpdateQuantity(ctx, "e1", 3), apperrors.ErrUnauthorized)
	assert.ErrorIs(t, s.Clear(ctx), apperrors.ErrUnauthorized)
}

func TestSwitchUser_LoadsPersistedCart(t *testing.T) {
	repo := newFakeCartRepo()
	ctx := context.Background()

	seed := domain.NewCart("u1")
	seed.Entries = append(seed.Entries, domain.CartEntry{
		EntryID: "e1", ProductID: "p1", Size: domain.SizeM, Quantity: 2, UnitPrice: "Rs. 500.00",
	})
	require.NoError(t, repo.Save(ctx, seed))

	s := newTestSession(repo)
	s.SwitchUser(ctx, "u1")

	assert.True(t, s.Authenticated())
	assert.Equal(t, "u1", s.UserID())
	require.Len(t, s.Cart().Entries, 1)
	assert.Equal(t, 2, s.ItemCount())
}

func TestSwitchUser_MissingSlotStartsEmpty(t *testing.T) {
	s := newTestSession(newFakeCartRepo())
	s.SwitchUser(context.Background(), "fresh-user")

	assert.True(t, s.Authenticated())
	assert.Empty(t, s.Cart().Entries)
}

func TestSwitchUser_MalformedSlotStartsEmpty(t *testing.T) {
	repo := newFakeCartRepo()
	repo.malformed["u1"] = true

	s := newTestSession(repo)
	s.SwitchUser(context.Background(), "u1")

	assert.True(t, s.Authenticated())
	assert.Empty(t, s.Cart().Entries)
}

func TestSwitchUser_LogoutDiscardsWithoutErasing(t *testing.T) {
	repo := newFakeCartRepo()
	s := newTestSession(repo)
	ctx := context.Background()

	s.SwitchUser(ctx, "u1")
	require.NoError(t, s.AddToCart(ctx, tee(), domain.SizeM, 1))

	s.SwitchUser(ctx, "")

	assert.False(t, s.Authenticated())
	assert.Empty(t, s.Cart().Entries)
	// The durable slot survives logout.
	assert.True(t, repo.hasSlot("u1"))
	assert.Len(t, repo.stored(t, "u1").Entries, 1)
}

func TestSwitchUser_NeverMixesCarts(t *testing.T) {
	repo := newFakeCartRepo()
	s := newTestSession(repo)
	ctx := context.Background()

	s.SwitchUser(ctx, "userA")
	require.NoError(t, s.AddToCart(ctx, tee(), domain.SizeL, 1))

	s.SwitchUser(ctx, "userB")
	assert.Empty(t, s.Cart().Entries, "userB must not see userA's entries")

	s.SwitchUser(ctx, "userA")
	require.Len(t, s.Cart().Entries, 1)
	assert.Equal(t, "p1", s.Cart().Entries[0].ProductID)

	// userB's durable state is unaffected by userA's mutation.
	assert.False(t, repo.hasSlot("userB"))
}

// --- AddToCart ---

func TestAddToCart_SnapshotsProductAtInsertion(t *testing.T) {
	repo := newFakeCartRepo()
	s := newTestSession(repo)
	ctx := context.Background()
	s.SwitchUser(ctx, "u1")

	require.NoError(t, s.AddToCart(ctx, tee(), domain.SizeL, 2))

	cart := s.Cart()
	require.Len(t, cart.Entries, 1)
	e := cart.Entries[0]
	assert.NotEmpty(t, e.EntryID)
	assert.Equal(t, "p1", e.ProductID)
	assert.Equal(t, "Crew Neck Tee", e.Name)
	assert.Equal(t, "https://img.example.com/tee.jpg", e.ImageURL)
	assert.Equal(t, domain.SizeL, e.Size)
	assert.Equal(t, 2, e.Quantity)
	assert.Equal(t, "Rs. 1,999.00", e.UnitPrice)

	// Mutation persisted automatically.
	assert.Len(t, repo.stored(t, "u1").Entries, 1)
}

func TestAddToCart_EmptySizeDefaultsToM(t *testing.T) {
	s := newTestSession(newFakeCartRepo())
	ctx := context.Background()
	s.SwitchUser(ctx, "u1")

	require.NoError(t, s.AddToCart(ctx, tee(), "", 1))

	assert.Equal(t, domain.SizeM, s.Cart().Entries[0].Size)
	assert.True(t, s.IsInCart("p1", ""))
}

func TestAddToCart_MergesSamePairAndSumsQuantity(t *testing.T) {
	s := newTestSession(newFakeCartRepo())
	ctx := context.Background()
	s.SwitchUser(ctx, "u1")

	require.NoError(t, s.AddToCart(ctx, tee(), domain.SizeM, 2))
	require.NoError(t, s.AddToCart(ctx, tee(), domain.SizeM, 3))

	cart := s.Cart()
	require.Len(t, cart.Entries, 1)
	assert.Equal(t, 5, cart.Entries[0].Quantity)
}

func TestAddToCart_MergeKeepsOriginalPriceSnapshot(t *testing.T) {
	s := newTestSession(newFakeCartRepo())
	ctx := context.Background()
	s.SwitchUser(ctx, "u1")

	require.NoError(t, s.AddToCart(ctx, tee(), domain.SizeM, 1))

	repriced := tee()
	repriced.Price = "Rs. 2,499.00"
	require.NoError(t, s.AddToCart(ctx, repriced, domain.SizeM, 1))

	cart := s.Cart()
	require.Len(t, cart.Entries, 1)
	assert.Equal(t, "Rs. 1,999.00", cart.Entries[0].UnitPrice, "cart keeps the price captured at first add")
}

func TestAddToCart_DistinctSizesAreDistinctEntries(t *testing.T) {
	s := newTestSession(newFakeCartRepo())
	ctx := context.Background()
	s.SwitchUser(ctx, "u1")

	productA := tee()
	productB := domain.Product{ID: "p2", Name: "Hoodie", Price: "₹2,500"}

	require.NoError(t, s.AddToCart(ctx, productA, domain.SizeM, 2))
	require.NoError(t, s.AddToCart(ctx, productB, domain.SizeL, 1))

	assert.Len(t, s.Cart().Entries, 2)
	assert.Equal(t, 3, s.ItemCount())
}

func TestAddToCart_SameProductDifferentSizes(t *testing.T) {
	s := newTestSession(newFakeCartRepo())
	ctx := context.Background()
	s.SwitchUser(ctx, "u1")

	require.NoError(t, s.AddToCart(ctx, tee(), domain.SizeM, 1))
	require.NoError(t, s.AddToCart(ctx, tee(), domain.SizeL, 1))

	cart := s.Cart()
	require.Len(t, cart.Entries, 2)
	assert.NotEqual(t, cart.Entries[0].EntryID, cart.Entries[1].EntryID)
	assert.True(t, s.IsInCart("p1", domain.SizeM))
	assert.True(t, s.IsInCart("p1", domain.SizeL))
	assert.False(t, s.IsInCart("p1", domain.SizeXL))
}

func TestAddToCart_InvalidInput(t *testing.T) {
	s := newTestSession(newFakeCartRepo())
	ctx := context.Background()
	s.SwitchUser(ctx, "u1")

	assert.ErrorIs(t, s.AddToCart(ctx, domain.Product{}, domain.SizeM, 1), apperrors.ErrInvalidInput)
	assert.ErrorIs(t, s.AddToCart(ctx, tee(), domain.SizeM, 0), apperrors.ErrInvalidInput)
}

// --- UpdateQuantity / RemoveFromCart ---

func TestUpdateQuantity_SetsAbsoluteValue(t *testing.T) {
	s := newTestSession(newFakeCartRepo())
	ctx := context.Background()
	s.SwitchUser(ctx, "u1")

	require.NoError(t, s.AddToCart(ctx, tee(), domain.SizeM, 2))
	entryID := s.Cart().Entries[0].EntryID

	require.NoError(t, s.UpdateQuantity(ctx, entryID, 7))

	assert.Equal(t, 7, s.Cart().Entries[0].Quantity, "update sets, not increments")
}

func TestUpdateQuantity_ZeroRemovesEntry(t *testing.T) {
	repo := newFakeCartRepo()
	s := newTestSession(repo)
	ctx := context.Background()
	s.SwitchUser(ctx, "u1")

	require.NoError(t, s.AddToCart(ctx, tee(), domain.SizeM, 2))
	entryID := s.Cart().Entries[0].EntryID

	require.NoError(t, s.UpdateQuantity(ctx, entryID, 0))

	assert.Empty(t, s.Cart().Entries)
	assert.False(t, s.IsInCart("p1", domain.SizeM))
	assert.Empty(t, repo.stored(t, "u1").Entries)
}

func TestUpdateQuantity_NegativeRemovesEntry(t *testing.T) {
	s := newTestSession(newFakeCartRepo())
	ctx := context.Background()
	s.SwitchUser(ctx, "u1")

	require.NoError(t, s.AddToCart(ctx, tee(), domain.SizeM, 2))
	entryID := s.Cart().Entries[0].EntryID

	require.NoError(t, s.UpdateQuantity(ctx, entryID, -1))
	assert.Empty(t, s.Cart().Entries)
}

func TestUpdateQuantity_MissingEntryIsNoop(t *testing.T) {
	repo := newFakeCartRepo()
	s := newTestSession(repo)
	ctx := context.Background()
	s.SwitchUser(ctx, "u1")

	require.NoError(t, s.AddToCart(ctx, tee(), domain.SizeM, 2))
	savesBefore := repo.saves

	require.NoError(t, s.UpdateQuantity(ctx, "missing-entry", 5))

	assert.Equal(t, 2, s.Cart().Entries[0].Quantity)
	assert.Equal(t, savesBefore, repo.saves, "no-op must not persist")
}

func TestRemoveFromCart_RemovesEntry(t *testing.T) {
	s := newTestSession(newFakeCartRepo())
	ctx := context.Background()
	s.SwitchUser(ctx, "u1")

	require.NoError(t, s.AddToCart(ctx, tee(), domain.SizeM, 1))
	require.NoError(t, s.AddToCart(ctx, tee(), domain.SizeL, 1))
	entryID := s.Cart().Entries[0].EntryID

	require.NoError(t, s.RemoveFromCart(ctx, entryID))

	cart := s.Cart()
	require.Len(t, cart.Entries, 1)
	assert.Equal(t, domain.SizeL, cart.Entries[0].Size)
}

func TestRemoveFromCart_MissingEntryIsNoop(t *testing.T) {
	s := newTestSession(newFakeCartRepo())
	ctx := context.Background()
	s.SwitchUser(ctx, "u1")

	require.NoError(t, s.AddToCart(ctx, tee(), domain.SizeM, 1))
	require.NoError(t, s.RemoveFromCart(ctx, "missing-entry"))

	assert.Len(t, s.Cart().Entries, 1)
}

// --- Clear ---

func TestClear_EmptiesButKeepsSlot(t *testing.T) {
	repo := newFakeCartRepo()
	s := newTestSession(repo)
	ctx := context.Background()
	s.SwitchUser(ctx, "u1")

	require.NoError(t, s.AddToCart(ctx, tee(), domain.SizeM, 3))
	require.NoError(t, s.Clear(ctx))

	assert.Empty(t, s.Cart().Entries)
	assert.True(t, s.Authenticated(), "clear must not log the user out")
	// The slot is overwritten with an empty snapshot, not deleted.
	assert.True(t, repo.hasSlot("u1"))
	assert.Empty(t, repo.stored(t, "u1").Entries)
}

// --- Aggregations ---

func TestTotalEqualsSumOfEntryTotals(t *testing.T) {
	s := newTestSession(newFakeCartRepo())
	ctx := context.Background()
	s.SwitchUser(ctx, "u1")

	require.NoError(t, s.AddToCart(ctx, tee(), domain.SizeM, 2))
	require.NoError(t, s.AddToCart(ctx, domain.Product{ID: "p2", Name: "Hoodie", Price: "₹2,500"}, domain.SizeL, 1))
	require.NoError(t, s.AddToCart(ctx, domain.Product{ID: "p3", Name: "Cap", Price: "bad price"}, domain.SizeM, 4))

	var sum float64
	for _, e := range s.Cart().Entries {
		sum += e.Total()
	}
	assert.Equal(t, sum, s.Total())
	assert.Equal(t, s.Total(), s.SubTotal())
}

func TestEndToEnd_AddPricedItem(t *testing.T) {
	s := newTestSession(newFakeCartRepo())
	ctx := context.Background()
	s.SwitchUser(ctx, "u1")

	require.NoError(t, s.AddToCart(ctx, tee(), domain.SizeL, 2))

	require.Len(t, s.Cart().Entries, 1)
	assert.Equal(t, 2, s.ItemCount())
	assert.Equal(t, float64(3998), s.Total())
}

func TestEndToEnd_AddTwiceMergesInsteadOfDuplicating(t *testing.T) {
	s := newTestSession(newFakeCartRepo())
	ctx := context.Background()
	s.SwitchUser(ctx, "u1")

	product := domain.Product{ID: "p1", Name: "Tee", Price: "Rs. 500.00"}
	require.NoError(t, s.AddToCart(ctx, product, domain.SizeM, 1))
	require.NoError(t, s.AddToCart(ctx, product, domain.SizeM, 1))

	cart := s.Cart()
	require.Len(t, cart.Entries, 1)
	assert.Equal(t, 2, cart.Entries[0].Quantity)
	assert.Equal(t, float64(1000), s.Total())
}

func TestCart_ReturnsSnapshotCopy(t *testing.T) {
	s := newTestSession(newFakeCartRepo())
	ctx := context.Background()
	s.SwitchUser(ctx, "u1")

	require.NoError(t, s.AddToCart(ctx, tee(), domain.SizeM, 1))

	snap := s.Cart()
	snap.Entries[0].Quantity = 99

	assert.Equal(t, 1, s.Cart().Entries[0].Quantity, "mutating the snapshot must not touch session state")
}

package session

import (
	"context"
	"log/slog"
	"sync"

	"github.com/stylekart/storefront/internal/event"
	"github.com/stylekart/storefront/internal/repository"
)

// Registry tracks one CartSession per authenticated user. Sessions are
// created lazily on first use after login and dropped on logout; dropping a
// session discards the in-memory cart only, the durable slot stays intact.
type Registry struct {
	mu       sync.Mutex
	repo     repository.CartRepository
	producer *event.Producer
	logger   *slog.Logger
	sessions map[string]*CartSession
}

// NewRegistry creates an empty session registry.
func NewRegistry(repo repository.CartRepository, producer *event.Producer, logger *slog.Logger) *Registry {
	return &Registry{
		repo:     repo,
		producer: producer,
		logger:   logger,
		sessions: make(map[string]*CartSession),
	}
}

// ForUser returns the user's active session, creating and loading one if
// necessary.
func (r *Registry) ForUser(ctx context.Context, userID string) *CartSession {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[userID]; ok {
		return s
	}

	s := New(r.repo, r.producer, r.logger)
	s.SwitchUser(ctx, userID)
	r.sessions[userID] = s

	r.logger.DebugContext(ctx, "cart session created",
		slog.String("user_id", userID),
	)

	return s
}

// Drop discards the user's in-memory session on logout. The durable cart slot
// is not erased.
func (r *Registry) Drop(ctx context.Context, userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[userID]
	if !ok {
		return
	}

	s.SwitchUser(ctx, "")
	delete(r.sessions, userID)

	r.logger.DebugContext(ctx, "cart session dropped",
		slog.String("user_id", userID),
	)
}

// Active returns the number of live sessions.
func (r *Registry) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

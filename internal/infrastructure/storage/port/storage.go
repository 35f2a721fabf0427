package port

import (
	"context"
	"errors"

	account "findmystuff/internal/pkg/account/domain"
	conversation "findmystuff/internal/pkg/conversation/domain"
	posting "findmystuff/internal/pkg/posting/domain"
)

// ErrNotFound is returned by FindByID, Update and Delete when no record with
// the given id exists. Adapters must translate their backend's own
// no-rows/no-document sentinel into this error.
var ErrNotFound = errors.New("storage: not found")

// Entity is anything a Collection can persist. Identifiers are assigned by
// the application before Insert, never by the backend.
type Entity interface {
	EntityID() string
}

// Collection is the uniform per-entity contract every backend implements.
// Callers never learn which backend is behind it; business logic must not
// branch on backend identity.
//
// Find takes a Go predicate rather than a backend query so the contract stays
// identical across backends. Adapters are free to fetch-and-filter.
type Collection[T Entity] interface {
	All(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id string) (T, error)
	Find(ctx context.Context, pred func(T) bool) ([]T, error)
	Insert(ctx context.Context, doc T) error
	Update(ctx context.Context, id string, doc T) error
	Delete(ctx context.Context, id string) error
}

// Store groups the typed collections behind one handle. Which implementation
// backs it is a deployment-time choice (STORE_DRIVER).
type Store interface {
	Users() Collection[account.User]
	Postings() Collection[posting.Posting]
	Conversations() Collection[conversation.Conversation]

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close(ctx context.Context) error
}

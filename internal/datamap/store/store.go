package store

import (
	"context"
	"errors"

	"github.com/privacydesk/datamapd/internal/datamap/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")
)

// Store is the root data access interface. Concrete drivers (sqlite today)
// implement this. Sub-repositories keep concerns tidy and let services depend
// on exactly the tables they touch.
type Store interface {
	Users() Users
	Mappings() Mappings

	ApplyMigrations() error

	// Tx starts a read/write transaction and returns a Tx-scoped Store.
	// The caller MUST call Commit() or Rollback() on the returned Tx.
	Tx(ctx context.Context) (Tx, error)

	// WithTx executes fn within a transaction, committing when fn returns
	// nil and rolling back otherwise. Prefer this over Tx directly.
	WithTx(ctx context.Context, fn func(tx Tx) error) error

	// Close releases the underlying database handle.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Tx is a transactional store. It embeds the same repos but adds Commit/Rollback.
type Tx interface {
	Store
	Commit() error
	Rollback() error
}

type Users interface {
	// CreateUser inserts a new user and returns it with the assigned ID.
	// A duplicate email yields ErrAlreadyExists.
	CreateUser(ctx context.Context, email, passwordHash string) (domain.User, error)

	// GetUserByEmail looks a user up by exact, case-sensitive email match.
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)

	// GetUserByID returns a user by id.
	GetUserByID(ctx context.Context, id int64) (domain.User, error)
}

// Mappings is the owner-scoped record repository. Every method takes the
// owner's user ID as its first domain argument; a mapping that exists but
// belongs to a different owner is indistinguishable from one that does not
// exist at all.
type Mappings interface {
	// CreateMapping inserts a mapping for ownerID and returns the new ID.
	CreateMapping(ctx context.Context, ownerID int64, m domain.DataMapping) (int64, error)

	// ListMappings returns all mappings owned by ownerID, newest first.
	ListMappings(ctx context.Context, ownerID int64) ([]domain.DataMapping, error)

	// GetMappingByID returns the mapping only when it is owned by ownerID;
	// otherwise ErrNotFound.
	GetMappingByID(ctx context.Context, ownerID, id int64) (domain.DataMapping, error)

	// UpdateMapping rewrites the mutable fields of an owned mapping.
	// ErrNotFound when no owned row matches.
	UpdateMapping(ctx context.Context, ownerID, id int64, m domain.DataMapping) error

	// DeleteMapping removes an owned mapping. ErrNotFound when no owned row
	// matches.
	DeleteMapping(ctx context.Context, ownerID, id int64) error
}

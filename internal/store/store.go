// Package store provides facility persistence and its SQLite implementation.
package store

import (
	"context"

	"github.com/thecuz1/FacilityLocator-sub000/internal/model"
)

// BlacklistEntry is a user or guild ID barred from issuing commands.
type BlacklistEntry struct {
	ObjectID int64  `json:"object_id"`
	Reason   string `json:"reason"`
}

// Store defines facility storage.
type Store interface {
	// Insert persists a new facility, assigns its ID and creation time,
	// and refreshes its change snapshot. Returns the new ID.
	Insert(ctx context.Context, f *model.Facility) (int64, error)

	// Update persists all mutable fields of an existing facility and
	// refreshes its change snapshot.
	Update(ctx context.Context, f *model.Facility) error

	// DeleteMany hard-deletes facilities by ID.
	DeleteMany(ctx context.Context, ids []int64) error

	// Query returns facilities matching a predicate, ordered by region then ID.
	Query(ctx context.Context, p Predicate) ([]*model.Facility, error)

	// GetByID returns a facility or an error matching model.ErrNotFound.
	GetByID(ctx context.Context, id int64) (*model.Facility, error)

	// GetListBinding returns the guild's list binding; ok is false if none.
	GetListBinding(ctx context.Context, guildID int64) (b model.ListBinding, ok bool, err error)

	// SetListBinding replaces the guild's list binding.
	SetListBinding(ctx context.Context, b model.ListBinding) error

	// DeleteListBinding forgets the guild's list binding.
	DeleteListBinding(ctx context.Context, guildID int64) error

	AddBlacklist(ctx context.Context, e BlacklistEntry) error
	RemoveBlacklist(ctx context.Context, objectID int64) error
	// IsBlacklisted returns the first matching entry among ids.
	IsBlacklisted(ctx context.Context, ids ...int64) (*BlacklistEntry, error)
	ListBlacklist(ctx context.Context) ([]BlacklistEntry, error)

	// Close closes the store.
	Close() error
}

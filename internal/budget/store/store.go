// Package store defines the data access interfaces the services depend on.
// Concrete drivers live under drivers/.
package store

import (
	"context"
	"errors"

	"github.com/spendwise/budgetd/internal/budget/domain"
)

var (
	ErrNotFound      = errors.New("store: not found")
	ErrAlreadyExists = errors.New("store: already exists")

	// ErrVersionConflict reports that a whole-document write lost the race
	// against a concurrent writer: the row's version moved since the
	// caller's read. The caller should re-read and retry rather than
	// overwrite the other writer's changes.
	ErrVersionConflict = errors.New("store: version conflict")
)

// Store is the root data access interface.
type Store interface {
	Users() Users

	ApplyMigrations() error

	// Close releases any underlying resources.
	Close() error

	// Ping verifies the database connection is still alive.
	Ping(ctx context.Context) error
}

// Users is the per-username budget document repository. The document model
// mirrors the service's read-modify-write flow: ledger mutations load the
// whole user, change it in memory, and write it back via Upsert.
type Users interface {
	// GetByUsername returns the full user document.
	GetByUsername(ctx context.Context, username string) (domain.User, error)

	// Create inserts a new user. Returns ErrAlreadyExists when the
	// username is taken.
	Create(ctx context.Context, u domain.User) error

	// Upsert writes the whole document keyed by username, guarded by
	// u.Version: if the stored version no longer matches, nothing is
	// written and ErrVersionConflict is returned. A missing row is
	// inserted. On success the stored version is bumped.
	Upsert(ctx context.Context, u domain.User) error

	// SetIncome updates only the income field. No version check: a single
	// scalar write cannot clobber concurrent budget edits.
	SetIncome(ctx context.Context, username string, income float64) error

	// SetSavings updates only the savings field.
	SetSavings(ctx context.Context, username string, savings float64) error

	// UpdatePassword stores a new password hash and moves the token
	// validity watermark, invalidating tokens issued before validTime.
	UpdatePassword(ctx context.Context, username, passwordHash string, validTime int64) error
}

package repository

import (
	"advokit/case-app/internal/domain"
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Error constants for the repository layer.
var (
	ErrNotFound     = RepositoryError("not found")
	ErrConflict     = RepositoryError("conflict")
	ErrUpdateFailed = RepositoryError("update failed")
	ErrDeleteFailed = RepositoryError("delete failed")
)

// RepositoryError helps distinguish repository errors.
type RepositoryError string

func (e RepositoryError) Error() string {
	return string(e)
}

// UserRepository defines the interface for interacting with user data.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) (primitive.ObjectID, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
}

// CaseRepository defines the interface for interacting with case aggregates.
// Every read and mutation is scoped by owner: a case whose userId does not
// match is indistinguishable from a missing one (ErrNotFound either way).
type CaseRepository interface {
	Create(ctx context.Context, c *domain.Case) (primitive.ObjectID, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*domain.Case, error)
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID, page, limit int64) ([]domain.Case, int64, error)
	// Update replaces the whole document (single-writer-per-record
	// discipline: read, mutate in memory, write back as one unit).
	Update(ctx context.Context, c *domain.Case) error
	Delete(ctx context.Context, id, ownerID primitive.ObjectID) error
	Search(ctx context.Context, ownerID primitive.ObjectID, query string) ([]domain.Case, error)
	// ExistsByCaseNo reports whether the owner already has a case with this
	// number, ignoring excludeID (pass NilObjectID on create).
	ExistsByCaseNo(ctx context.Context, ownerID primitive.ObjectID, caseNo string, excludeID primitive.ObjectID) (bool, error)

	// Dashboard queries.
	CountByOwner(ctx context.Context, ownerID primitive.ObjectID) (int64, error)
	CountByStatus(ctx context.Context, ownerID primitive.ObjectID, statuses ...domain.Status) (int64, error)
	CountCreatedSince(ctx context.Context, ownerID primitive.ObjectID, since time.Time) (int64, error)
	CountCompletedSince(ctx context.Context, ownerID primitive.ObjectID, since time.Time) (int64, error)
	CountHearingsSince(ctx context.Context, ownerID primitive.ObjectID, since time.Time) (int64, error)
	FindUpcomingHearings(ctx context.Context, ownerID primitive.ObjectID, from, to time.Time, limit int64) ([]domain.Case, error)
	FindRecentlyUpdated(ctx context.Context, ownerID primitive.ObjectID, limit int64) ([]domain.Case, error)
}

// NoteRepository defines the interface for interacting with note rows.
type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) (primitive.ObjectID, error)
	GetByIDAndOwner(ctx context.Context, id, ownerID primitive.ObjectID) (*domain.Note, error)
	ListByOwner(ctx context.Context, ownerID primitive.ObjectID) ([]domain.Note, error)
	Update(ctx context.Context, note *domain.Note) error
	Delete(ctx context.Context, id, ownerID primitive.ObjectID) error
}

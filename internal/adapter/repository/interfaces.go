package repository

import (
	"context"
	"fmt"

	"github.com/andremq/user-accounts-backend/internal/domain/entity"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/repository_mocks.go -package=mocks

// Filter matches documents whose fields contain every listed key/value pair.
// An empty filter matches the whole collection.
type Filter map[string]any

// Update is a partial document merged over the first match.
type Update map[string]any

type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
}

type DeleteResult struct {
	DeletedCount int64
}

// UniqueViolationError surfaces a storage-level uniqueness rejection. Field
// names the document field whose unique index was violated. The service layer
// translates it into the corresponding typed domain conflict; it backstops
// the non-atomic check-then-write in the service.
type UniqueViolationError struct {
	Field string
	Err   error
}

func (e *UniqueViolationError) Error() string {
	return fmt.Sprintf("duplicate value for unique field %s: %v", e.Field, e.Err)
}

func (e *UniqueViolationError) Unwrap() error {
	return e.Err
}

// Session is a unit of work over the store. The caller must call exactly one
// of Commit or Abort; leaking a session holds its connection open and is a
// caller bug.
type Session interface {
	Commit(ctx context.Context) error
	Abort(ctx context.Context) error
}

type UserRepository interface {
	// Create persists the document with a freshly generated entityId and
	// returns the persisted value. Fails with *UniqueViolationError on a
	// unique-index rejection.
	Create(ctx context.Context, user entity.User) (*entity.User, error)
	// FindOne returns the first match with password excluded, or (nil, nil)
	// when nothing matches.
	FindOne(ctx context.Context, filter Filter) (*entity.User, error)
	// FindOneAndUpdate merges update over the first match and returns the
	// post-update document (same projection as FindOne), or (nil, nil) when
	// nothing matches.
	FindOneAndUpdate(ctx context.Context, filter Filter, update Update) (*entity.User, error)
	Find(ctx context.Context, filter Filter) ([]entity.User, error)
	DeleteOne(ctx context.Context, filter Filter) (*DeleteResult, error)
	StartTransaction(ctx context.Context) (Session, error)
	// WithSession returns a repository whose operations run inside sess.
	WithSession(sess Session) UserRepository
}

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/andremq/user-accounts-backend/internal/adapter/repository"
	"github.com/andremq/user-accounts-backend/internal/domain/entity"
)

// UserRepo instantiates the generic document repository for the users
// collection. It adds no logic of its own.
type UserRepo struct {
	docs *DocumentRepo[entity.User]
}

func NewUserRepo(pool *pgxpool.Pool, logger *zap.Logger) *UserRepo {
	return &UserRepo{docs: NewDocumentRepo[entity.User](pool, "users", logger)}
}

func (r *UserRepo) Create(ctx context.Context, user entity.User) (*entity.User, error) {
	return r.docs.Create(ctx, user)
}

func (r *UserRepo) FindOne(ctx context.Context, filter repository.Filter) (*entity.User, error) {
	return r.docs.FindOne(ctx, filter)
}

func (r *UserRepo) FindOneAndUpdate(ctx context.Context, filter repository.Filter, update repository.Update) (*entity.User, error) {
	return r.docs.FindOneAndUpdate(ctx, filter, update)
}

func (r *UserRepo) Find(ctx context.Context, filter repository.Filter) ([]entity.User, error) {
	return r.docs.Find(ctx, filter)
}

func (r *UserRepo) DeleteOne(ctx context.Context, filter repository.Filter) (*repository.DeleteResult, error) {
	return r.docs.DeleteOne(ctx, filter)
}

func (r *UserRepo) StartTransaction(ctx context.Context) (repository.Session, error) {
	return r.docs.StartTransaction(ctx)
}

func (r *UserRepo) WithSession(sess repository.Session) repository.UserRepository {
	s, ok := sess.(*Session)
	if !ok {
		return r
	}
	return &UserRepo{docs: r.docs.WithSession(s)}
}

package handler

import (
	"context"

	"github.com/andremq/user-accounts-backend/internal/domain/entity"
	"github.com/andremq/user-accounts-backend/internal/usecase/user"
)

//go:generate mockgen -source=interfaces.go -destination=../../mocks/handler_mocks.go -package=mocks

type UserService interface {
	CreateUser(ctx context.Context, input user.CreateInput) (*entity.User, error)
	List(ctx context.Context) ([]entity.User, error)
	FindByEntityID(ctx context.Context, entityID string) (*entity.User, error)
	UpdateUser(ctx context.Context, entityID string, input user.UpdateInput) (*entity.User, error)
	DeleteUser(ctx context.Context, entityID string) error
}

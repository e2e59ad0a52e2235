package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/andremq/user-accounts-backend/internal/adapter/repository"
	"github.com/andremq/user-accounts-backend/internal/domain"
	"github.com/andremq/user-accounts-backend/internal/domain/entity"
	"github.com/andremq/user-accounts-backend/internal/infrastructure/auth"
)

// Service owns the user lifecycle business rules: uniqueness checks, password
// hashing, and the translation of storage-level uniqueness rejections into
// typed domain errors. Each operation is an independent transaction over
// repository calls; nothing is retried internally.
type Service struct {
	users  repository.UserRepository
	hasher *auth.PasswordHasher
}

func NewService(users repository.UserRepository, hasher *auth.PasswordHasher) *Service {
	return &Service{users: users, hasher: hasher}
}

type CreateInput struct {
	Name     string
	Username string
	Email    string
	Password string
}

type UpdateInput struct {
	Name     string
	Username string
	Email    string
}

// CreateUser rejects duplicate emails and usernames, hashes the password, and
// persists the new user. The two existence checks and the write are not one
// atomic step: two concurrent creates can both pass the checks, so the unique
// indexes reject the loser and that rejection is translated into the same
// typed conflict the pre-check produces.
func (s *Service) CreateUser(ctx context.Context, input CreateInput) (*entity.User, error) {
	exists, err := s.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, &domain.UserAlreadyExistsError{Email: input.Email}
	}

	available, err := s.UsernameAvailable(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if !available {
		return nil, &domain.UsernameTakenError{Username: input.Username}
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("hashing password: %w", err)
	}

	sess, err := s.users.StartTransaction(ctx)
	if err != nil {
		return nil, err
	}

	created, err := s.users.WithSession(sess).Create(ctx, entity.User{
		Name:     input.Name,
		Username: input.Username,
		Email:    input.Email,
		Password: hash,
	})
	if err != nil {
		_ = sess.Abort(ctx)
		return nil, translateConflict(err, input.Email, input.Username, "creating user")
	}
	if err := sess.Commit(ctx); err != nil {
		return nil, err
	}

	return created, nil
}

// List returns all users in storage-native order, passwords excluded.
func (s *Service) List(ctx context.Context) ([]entity.User, error) {
	users, err := s.users.Find(ctx, repository.Filter{})
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

func (s *Service) FindByEntityID(ctx context.Context, entityID string) (*entity.User, error) {
	user, err := s.users.FindOne(ctx, repository.Filter{"entityId": entityID})
	if err != nil {
		return nil, fmt.Errorf("querying user: %w", err)
	}
	if user == nil {
		return nil, &domain.UserNotFoundError{EntityID: entityID}
	}
	return user, nil
}

// UpdateUser applies a partial update of name, username, and email. Changing
// the email to one owned by a different user is a conflict; keeping the
// current email is a no-op and passes. The record vanishing between the load
// and the update reports not-found.
func (s *Service) UpdateUser(ctx context.Context, entityID string, input UpdateInput) (*entity.User, error) {
	current, err := s.FindByEntityID(ctx, entityID)
	if err != nil {
		return nil, err
	}

	if input.Email != current.Email {
		exists, err := s.ExistsByEmail(ctx, input.Email)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, &domain.UserAlreadyExistsError{Email: input.Email}
		}
	}

	sess, err := s.users.StartTransaction(ctx)
	if err != nil {
		return nil, err
	}

	updated, err := s.users.WithSession(sess).FindOneAndUpdate(ctx,
		repository.Filter{"entityId": entityID},
		repository.Update{
			"name":     input.Name,
			"username": input.Username,
			"email":    input.Email,
		},
	)
	if err != nil {
		_ = sess.Abort(ctx)
		return nil, translateConflict(err, input.Email, input.Username, "updating user")
	}
	if updated == nil {
		_ = sess.Abort(ctx)
		return nil, &domain.UserNotFoundError{EntityID: entityID}
	}
	if err := sess.Commit(ctx); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteUser physically removes the user. A delete that matched nothing
// reports not-found.
func (s *Service) DeleteUser(ctx context.Context, entityID string) error {
	sess, err := s.users.StartTransaction(ctx)
	if err != nil {
		return err
	}

	result, err := s.users.WithSession(sess).DeleteOne(ctx, repository.Filter{"entityId": entityID})
	if err != nil {
		_ = sess.Abort(ctx)
		return fmt.Errorf("deleting user: %w", err)
	}
	if result.DeletedCount == 0 {
		_ = sess.Abort(ctx)
		return &domain.UserNotFoundError{EntityID: entityID}
	}
	return sess.Commit(ctx)
}

func (s *Service) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	user, err := s.users.FindOne(ctx, repository.Filter{"email": email})
	if err != nil {
		return false, fmt.Errorf("checking email: %w", err)
	}
	return user != nil, nil
}

func (s *Service) UsernameAvailable(ctx context.Context, username string) (bool, error) {
	user, err := s.users.FindOne(ctx, repository.Filter{"username": username})
	if err != nil {
		return false, fmt.Errorf("checking username: %w", err)
	}
	return user == nil, nil
}

// translateConflict maps a storage uniqueness rejection onto the typed domain
// conflict for the field that collided. Other errors are wrapped as-is.
func translateConflict(err error, email, username, op string) error {
	var uv *repository.UniqueViolationError
	if errors.As(err, &uv) {
		switch uv.Field {
		case "email":
			return &domain.UserAlreadyExistsError{Email: email}
		case "username":
			return &domain.UsernameTakenError{Username: username}
		}
	}
	return fmt.Errorf("%s: %w", op, err)
}

package domain

import "fmt"

// UserNotFoundError is returned by id-based lookups when no user matches.
type UserNotFoundError struct {
	EntityID string
}

func (e *UserNotFoundError) Error() string {
	return fmt.Sprintf("user with id %s was not found", e.EntityID)
}

// UserAlreadyExistsError is returned when a create or email change collides
// with an existing account's email.
type UserAlreadyExistsError struct {
	Email string
}

func (e *UserAlreadyExistsError) Error() string {
	return fmt.Sprintf("user with email %s already exists", e.Email)
}

// UsernameTakenError is returned when the requested username is already in use.
type UsernameTakenError struct {
	Username string
}

func (e *UsernameTakenError) Error() string {
	return fmt.Sprintf("username %s has already been taken", e.Username)
}

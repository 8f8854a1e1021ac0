package auth

import (
	"context"
	"errors"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrUserAlreadyExists  = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// UserRepository abstracts persistence concerns from the domain layer.
// Create must report a duplicate email as ErrUserAlreadyExists.
type UserRepository interface {
	Create(ctx context.Context, user User) error
	GetByEmail(ctx context.Context, email string) (User, error)
}

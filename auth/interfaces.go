package auth

import "context"

type Service interface {
	Register(ctx context.Context, r registerRequest) (*Account, string, error)
	Login(ctx context.Context, r loginRequest) (*Account, string, error)
}

// Repository is the credential store. FindByEmail returns ErrAccountNotFound
// when no account matches. Store returns ErrEmailInUse when the store itself
// rejects a duplicate email.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Account, error)
	Store(ctx context.Context, acc *Account) error
}

type registerRequest struct {
	Username string `json:"username" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,bcryptmax"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/rs/xid"
)

type Account struct {
	ID           ID
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

type ID string

var (
	ErrValidation        = errors.New("invalid request")
	ErrInvalidUsername   = errors.New("invalid username")
	ErrInvalidEmail      = errors.New("invalid email address")
	ErrEmailInUse        = errors.New("email already in use")
	ErrAccountNotFound   = errors.New("user not found")
	ErrIncorrectPassword = errors.New("incorrect password")
	ErrStoreUnavailable  = errors.New("credential store unavailable")
	ErrHashingFailure    = errors.New("error hashing password")
)

// NewAccount returns a new Account if username and email are not blank.
// Uniqueness of the email is checked by the service, not here.
func NewAccount(username string, email string) (*Account, error) {
	if strings.TrimSpace(username) == "" {
		return nil, ErrInvalidUsername
	}

	if strings.TrimSpace(email) == "" {
		return nil, ErrInvalidEmail
	}

	return &Account{Username: username, Email: email}, nil
}

func NewID() ID {
	return ID(xid.New().String())
}

// accountView is the public representation of an account. It never carries
// the password hash.
type accountView struct {
	ID        ID        `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func viewOf(acc *Account) accountView {
	return accountView{ID: acc.ID, Username: acc.Username, Email: acc.Email, CreatedAt: acc.CreatedAt}
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
)

type service struct {
	accounts Repository
	hasher   Hasher
	tokens   TokenIssuer
	logger   logrus.FieldLogger
}

func NewService(accounts Repository, hasher Hasher, tokens TokenIssuer, logger logrus.FieldLogger) Service {
	return &service{accounts: accounts, hasher: hasher, tokens: tokens, logger: logger}
}

// Register creates an account and returns it with a fresh token. The
// duplicate check and the insert are not atomic; the store's own uniqueness
// constraint catches the race. An account that was stored is not removed if
// token issuance fails afterwards.
func (svc *service) Register(ctx context.Context, r registerRequest) (*Account, string, error) {
	if err := validateRequest(r); err != nil {
		return nil, "", err
	}

	acc, err := NewAccount(r.Username, r.Email)
	if err != nil {
		return nil, "", err
	}

	if err := svc.verifyNotInUse(ctx, acc.Email); err != nil {
		return nil, "", err
	}

	hash, err := svc.hasher.Hash(r.Password)
	if err != nil {
		return nil, "", err
	}

	acc.ID = NewID()
	acc.PasswordHash = hash
	acc.CreatedAt = time.Now().UTC()

	if err := svc.accounts.Store(ctx, acc); err != nil {
		if errors.Is(err, ErrEmailInUse) {
			return nil, "", ErrEmailInUse
		}
		return nil, "", fmt.Errorf("%w: saving account: %v", ErrStoreUnavailable, err)
	}

	token, err := svc.tokens.Issue(acc.ID, acc.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}

	svc.logger.WithFields(logrus.Fields{"account_id": acc.ID, "email": acc.Email}).Info("account registered")
	return acc, token, nil
}

func (svc *service) Login(ctx context.Context, r loginRequest) (*Account, string, error) {
	if err := validateRequest(r); err != nil {
		return nil, "", err
	}

	acc, err := svc.accounts.FindByEmail(ctx, r.Email)
	if errors.Is(err, ErrAccountNotFound) {
		return nil, "", ErrAccountNotFound
	}
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if !svc.hasher.Verify(r.Password, acc.PasswordHash) {
		svc.logger.WithField("account_id", acc.ID).Warn("login with incorrect password")
		return nil, "", ErrIncorrectPassword
	}

	token, err := svc.tokens.Issue(acc.ID, acc.Email)
	if err != nil {
		return nil, "", fmt.Errorf("issuing token: %w", err)
	}

	svc.logger.WithFields(logrus.Fields{"account_id": acc.ID, "email": acc.Email}).Info("account logged in")
	return acc, token, nil
}

func (svc *service) verifyNotInUse(ctx context.Context, email string) error {
	u, err := svc.accounts.FindByEmail(ctx, email)
	if u != nil && err == nil {
		return ErrEmailInUse
	}
	if err != nil && !errors.Is(err, ErrAccountNotFound) {
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	return nil
}

package auth

import (
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is how long an issued session token stays valid.
const TokenTTL = time.Hour

var (
	ErrMissingSecret    = errors.New("token signing secret is not set")
	ErrMissingToken     = errors.New("access denied")
	ErrMalformedToken   = errors.New("malformed token")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
)

// Claims are the fields carried by a session token.
type Claims struct {
	AccountID ID     `json:"id"`
	Email     string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer is what the account service needs from the token service.
type TokenIssuer interface {
	Issue(accountID ID, email string) (string, error)
}

// TokenVerifier is what the auth gate needs from the token service.
type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// TokenService issues and verifies HS256 session tokens. Tokens are not
// stored anywhere and cannot be revoked before they expire.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenService(secret []byte) (*TokenService, error) {
	if len(secret) == 0 {
		return nil, ErrMissingSecret
	}
	key := make([]byte, len(secret))
	copy(key, secret)
	return &TokenService{secret: key, ttl: TokenTTL, now: time.Now}, nil
}

// WithClock returns a copy of s that reads the current time from now.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	c := *s
	c.now = now
	return &c
}

func (s *TokenService) Issue(accountID ID, email string) (string, error) {
	now := s.now()
	claims := Claims{
		AccountID: accountID,
		Email:     email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   string(accountID),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify checks the signature before it looks at any claim, then checks
// expiry. The returned error is one of ErrMalformedToken,
// ErrInvalidSignature or ErrTokenExpired.
func (s *TokenService) Verify(tokenString string) (*Claims, error) {
	if err := s.verifySignature(tokenString); err != nil {
		return nil, err
	}

	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	switch {
	case err == nil:
	case errors.Is(err, jwt.ErrTokenMalformed):
		return nil, ErrMalformedToken
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return nil, ErrInvalidSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, ErrTokenExpired
	default:
		return nil, ErrMalformedToken
	}

	if !token.Valid || claims.AccountID == "" {
		return nil, ErrMalformedToken
	}

	return claims, nil
}

// verifySignature checks the HS256 signature over the raw header and payload
// segments. Neither segment is JSON-decoded here.
func (s *TokenService) verifySignature(tokenString string) error {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return ErrMalformedToken
	}

	p := jwt.NewParser()
	for _, seg := range parts[:2] {
		if _, err := p.DecodeSegment(seg); err != nil {
			return ErrMalformedToken
		}
	}
	sig, err := p.DecodeSegment(parts[2])
	if err != nil {
		return ErrMalformedToken
	}

	if err := jwt.SigningMethodHS256.Verify(parts[0]+"."+parts[1], sig, s.secret); err != nil {
		return ErrInvalidSignature
	}
	return nil
}

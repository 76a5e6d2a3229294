package auth

import (
	"context"
	"encoding/json"
	"net/http"
)

// Identity is the authenticated caller of a single request.
type Identity struct {
	AccountID ID
	Email     string
}

type identityKey struct{}

// IdentityFrom returns the identity RequireAuth stored in ctx.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

func withIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// RequireAuth lets a request through to next only when its Authorization
// header holds a valid token. The header carries the raw token without a
// scheme. Expired tokens get the same 403 as forged ones.
//
// It does not check ownership of the resource the request touches.
func RequireAuth(next http.Handler, tokens TokenVerifier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, err := tokenFromRequest(r)
		if err != nil {
			denyRequest(w, http.StatusUnauthorized, "Access Denied")
			return
		}

		claims, err := tokens.Verify(token)
		if err != nil {
			denyRequest(w, http.StatusForbidden, "Invalid Token")
			return
		}

		ctx := withIdentity(r.Context(), Identity{AccountID: claims.AccountID, Email: claims.Email})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func tokenFromRequest(r *http.Request) (string, error) {
	token := r.Header.Get("Authorization")
	if token == "" {
		return "", ErrMissingToken
	}
	return token, nil
}

func denyRequest(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}

package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/MajedBannouri/Taski/apperrors"
	"github.com/MajedBannouri/Taski/models"
)

type contextKey string

const userKey contextKey = "currentUser"

// WithUser attaches the authenticated user to the request context.
func WithUser(ctx context.Context, user *models.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// UserFrom returns the authenticated user, or nil for anonymous requests.
func UserFrom(ctx context.Context) *models.User {
	user, _ := ctx.Value(userKey).(*models.User)
	return user
}

// UserSource is the slice of the repository the identity resolver needs.
type UserSource interface {
	UserByID(ctx context.Context, id string) (models.User, error)
}

// Authenticator maps an Authorization header to a user record.
type Authenticator struct {
	Tokens *TokenService
	Users  UserSource
}

// Resolve returns the user for the given raw Authorization header value.
// An absent header yields (nil, nil) — anonymous. A token that fails
// verification is an error, not anonymous access. A valid token whose user
// no longer exists yields (nil, nil).
func (a *Authenticator) Resolve(ctx context.Context, header string) (*models.User, error) {
	if header == "" {
		return nil, nil
	}
	userID, err := a.Tokens.Verify(header)
	if err != nil {
		return nil, err
	}
	user, err := a.Users.UserByID(ctx, userID)
	if err != nil {
		if apperrors.IsCode(err, apperrors.CodeNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Middleware resolves identity once per request and attaches it to the
// context consumed by every resolver. Verification failures are reported
// in-band, the same shape the query protocol uses for resolver errors.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := a.Resolve(r.Context(), r.Header.Get("Authorization"))
		if err != nil {
			writeGraphQLError(w, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func writeGraphQLError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	resp := map[string]interface{}{
		"errors": []map[string]interface{}{
			{
				"message":    err.Error(),
				"extensions": map[string]interface{}{"code": string(apperrors.CodeOf(err))},
			},
		},
	}
	if encErr := json.NewEncoder(w).Encode(resp); encErr != nil {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}
}

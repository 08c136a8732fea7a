package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/courtside/tournament-service/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

type contextKey string

const userContextKey contextKey = "user"

const (
	jwtClaimUserID = "user_id"
	jwtClaimRole   = "role"
)

func writeAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	fmt.Fprintf(w, `{"success":false,"message":%q,"data":null}`, message)
}

// Authenticate verifies the HS256 token from the Authorization header
// or the access_token cookie and stores its claims in the request
// context. Token issuance belongs to the auth service; this service
// only verifies.
func Authenticate(secret []byte) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString := extractToken(r)
			if tokenString == "" {
				writeAuthError(w, http.StatusUnauthorized, "Token d'authentification requis")
				return
			}

			claims := jwt.MapClaims{}
			token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
				if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
					return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
				}
				return secret, nil
			})
			if err != nil || !token.Valid {
				writeAuthError(w, http.StatusUnauthorized, "Token invalide")
				return
			}

			ctx := context.WithValue(r.Context(), userContextKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole gates a route on the caller's role claim.
func RequireRole(roles ...models.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, err := GetUserRoleFromContext(r.Context())
			if err != nil {
				writeAuthError(w, http.StatusUnauthorized, "Authentification requise")
				return
			}

			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			writeAuthError(w, http.StatusForbidden, "Rôle insuffisant pour cette opération")
		})
	}
}

func extractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		return strings.TrimPrefix(header, "Bearer ")
	}
	if cookie, err := r.Cookie("access_token"); err == nil {
		return cookie.Value
	}
	return ""
}

func claimsFromContext(ctx context.Context) (jwt.MapClaims, error) {
	claims, ok := ctx.Value(userContextKey).(jwt.MapClaims)
	if !ok {
		return nil, errors.New("user claims not found in context")
	}
	return claims, nil
}

func GetUserIDFromContext(ctx context.Context) (uuid.UUID, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return uuid.Nil, err
	}

	raw, ok := claims[jwtClaimUserID]
	if !ok {
		return uuid.Nil, fmt.Errorf("missing %q claim in token", jwtClaimUserID)
	}
	str, ok := raw.(string)
	if !ok {
		return uuid.Nil, fmt.Errorf("invalid type for %q claim: expected string, got %T", jwtClaimUserID, raw)
	}
	id, err := uuid.Parse(str)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user ID in %q claim: %w", jwtClaimUserID, err)
	}
	return id, nil
}

func GetUserRoleFromContext(ctx context.Context) (models.UserRole, error) {
	claims, err := claimsFromContext(ctx)
	if err != nil {
		return "", err
	}

	raw, ok := claims[jwtClaimRole]
	if !ok {
		return "", fmt.Errorf("missing %q claim in token", jwtClaimRole)
	}
	str, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("invalid type for %q claim: expected string, got %T", jwtClaimRole, raw)
	}

	role := models.UserRole(str)
	switch role {
	case models.RoleAdmin, models.RoleOrganisateur, models.RoleJoueur, models.RoleSpectateur:
		return role, nil
	default:
		return "", fmt.Errorf("invalid role value in claim: %q", str)
	}
}

// CallerOwnsResource reports whether the authenticated caller is the
// owner identified by ownerID, or an admin.
func CallerOwnsResource(ctx context.Context, ownerID uuid.UUID) bool {
	role, err := GetUserRoleFromContext(ctx)
	if err != nil {
		return false
	}
	if role == models.RoleAdmin {
		return true
	}
	userID, err := GetUserIDFromContext(ctx)
	if err != nil {
		return false
	}
	return userID == ownerID
}

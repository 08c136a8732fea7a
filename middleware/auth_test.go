package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/courtside/tournament-service/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func signToken(t *testing.T, secret []byte, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)
	return token
}

func authProtected(t *testing.T, roles ...models.UserRole) http.Handler {
	t.Helper()
	var handler http.Handler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	if len(roles) > 0 {
		handler = RequireRole(roles...)(handler)
	}
	return Authenticate(testSecret)(handler)
}

func TestAuthenticate(t *testing.T) {
	userID := uuid.New()
	validClaims := jwt.MapClaims{
		"user_id": userID.String(),
		"role":    "organisateur",
		"exp":     time.Now().Add(time.Hour).Unix(),
	}

	t.Run("missing token", func(t *testing.T) {
		rec := httptest.NewRecorder()
		authProtected(t).ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Token d'authentification requis")
	})

	t.Run("bearer header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, validClaims))
		rec := httptest.NewRecorder()
		authProtected(t).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("cookie", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.AddCookie(&http.Cookie{Name: "access_token", Value: signToken(t, testSecret, validClaims)})
		rec := httptest.NewRecorder()
		authProtected(t).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("wrong secret", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, []byte("other"), validClaims))
		rec := httptest.NewRecorder()
		authProtected(t).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "Token invalide")
	})

	t.Run("expired token", func(t *testing.T) {
		expired := jwt.MapClaims{
			"user_id": userID.String(),
			"role":    "organisateur",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		}
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, expired))
		rec := httptest.NewRecorder()
		authProtected(t).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRequireRole(t *testing.T) {
	handler := authProtected(t, models.RoleOrganisateur, models.RoleAdmin)

	request := func(role string) *httptest.ResponseRecorder {
		claims := jwt.MapClaims{
			"user_id": uuid.New().String(),
			"role":    role,
			"exp":     time.Now().Add(time.Hour).Unix(),
		}
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusOK, request("organisateur").Code)
	assert.Equal(t, http.StatusOK, request("admin").Code)

	rec := request("joueur")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Rôle insuffisant")
}

func TestCallerOwnsResource(t *testing.T) {
	ownerID := uuid.New()

	ctxFor := func(userID uuid.UUID, role string) *http.Request {
		claims := jwt.MapClaims{
			"user_id": userID.String(),
			"role":    role,
			"exp":     time.Now().Add(time.Hour).Unix(),
		}
		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, claims))
		return req
	}

	// Run requests through Authenticate to populate the context, then
	// inspect ownership inside the handler.
	check := func(req *http.Request) bool {
		var owns bool
		handler := Authenticate(testSecret)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			owns = CallerOwnsResource(r.Context(), ownerID)
		}))
		handler.ServeHTTP(httptest.NewRecorder(), req)
		return owns
	}

	assert.True(t, check(ctxFor(ownerID, "organisateur")))
	assert.False(t, check(ctxFor(uuid.New(), "organisateur")))
	assert.True(t, check(ctxFor(uuid.New(), "admin")))
}

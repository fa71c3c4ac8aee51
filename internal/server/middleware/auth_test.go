package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testTokenValidator accepts a fixed set of tokens.
type testTokenValidator struct {
	validTokens map[string]uuid.UUID
}

func newTestTokenValidator() *testTokenValidator {
	return &testTokenValidator{validTokens: make(map[string]uuid.UUID)}
}

func (v *testTokenValidator) ValidateToken(tokenString string) (UserIDGetter, error) {
	userID, ok := v.validTokens[tokenString]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return testClaims(userID), nil
}

type testClaims uuid.UUID

func (c testClaims) GetUserID() uuid.UUID { return uuid.UUID(c) }

func serve(t *testing.T, v TokenValidator, authHeader string) (*httptest.ResponseRecorder, bool, uuid.UUID) {
	t.Helper()
	called := false
	var seen uuid.UUID
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		id, err := GetUserID(r)
		require.NoError(t, err)
		seen = id
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/recommendations/saved", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	AuthMiddleware(v)(handler).ServeHTTP(w, req)
	return w, called, seen
}

func errorMessage(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body["error"]
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	v := newTestTokenValidator()
	userID := uuid.New()
	v.validTokens["valid-test-token-123"] = userID

	w, called, seen := serve(t, v, "Bearer valid-test-token-123")

	assert.True(t, called)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, userID, seen)
}

func TestAuthMiddleware_SchemeIsCaseInsensitive(t *testing.T) {
	v := newTestTokenValidator()
	v.validTokens["tok"] = uuid.New()

	for _, header := range []string{"bearer tok", "BeArEr tok", "Bearer  tok"} {
		w, called, _ := serve(t, v, header)
		assert.True(t, called, header)
		assert.Equal(t, http.StatusOK, w.Code, header)
	}
}

func TestAuthMiddleware_MissingOrMalformedHeader(t *testing.T) {
	v := newTestTokenValidator()

	for _, header := range []string{"", "token123", "Bearer", "Bearer ", "Basic dXNlcjpwYXNz", "Bearer a b"} {
		t.Run(fmt.Sprintf("%q", header), func(t *testing.T) {
			w, called, _ := serve(t, v, header)
			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			assert.Equal(t, MsgNoToken, errorMessage(t, w))
		})
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	v := newTestTokenValidator()

	tests := []struct {
		name  string
		token string
	}{
		{name: "wrong signature", token: "eyJhbGciOiJIUzI1NiIsInR5cCI6IkpXVCJ9.eyJ1c2VyX2lkIjoiMTIzIn0.invalid"},
		{name: "malformed token", token: "not.a.valid.jwt.token"},
		{name: "unknown token", token: "expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, called, _ := serve(t, v, "Bearer "+tt.token)
			assert.False(t, called)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.Equal(t, MsgInvalidToken, errorMessage(t, w))
		})
	}
}

func TestAuthMiddleware_NilUserID(t *testing.T) {
	v := newTestTokenValidator()
	v.validTokens["nil-user"] = uuid.Nil

	w, called, _ := serve(t, v, "Bearer nil-user")
	assert.False(t, called)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestGetUserID(t *testing.T) {
	userID := uuid.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(WithUserID(req.Context(), userID))

	got, err := GetUserID(req)
	require.NoError(t, err)
	assert.Equal(t, userID, got)
}

func TestGetUserID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	got, err := GetUserID(req)
	assert.ErrorIs(t, err, ErrNoUser)
	assert.Equal(t, uuid.Nil, got)
}

func TestGetUserID_InvalidType(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), userIDKey, "not-a-uuid"))

	got, err := GetUserID(req)
	assert.Error(t, err)
	assert.Equal(t, uuid.Nil, got)
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/eugenek0529/reservation-system/internal/errors"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestVerify(t *testing.T) {
	v := NewVerifier(testSecret)
	token := signToken(t, testSecret, jwt.MapClaims{
		"sub":          "2f1e",
		"email":        "owner@example.com",
		"exp":          time.Now().Add(time.Hour).Unix(),
		"app_metadata": map[string]any{"role": "admin"},
	})

	identity, err := v.Verify(token)

	require.NoError(t, err)
	assert.Equal(t, "2f1e", identity.UserID)
	assert.Equal(t, "owner@example.com", identity.Email)
	assert.Equal(t, RoleAdmin, identity.Role)
}

func TestVerifyRejects(t *testing.T) {
	v := NewVerifier(testSecret)
	expired := signToken(t, testSecret, jwt.MapClaims{"sub": "x", "exp": time.Now().Add(-time.Minute).Unix()})
	wrongKey := signToken(t, "other", jwt.MapClaims{"sub": "x"})
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{"sub": "x"}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":   expired,
		"wrong key": wrongKey,
		"alg none":  unsigned,
		"garbage":   "not-a-token",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := v.Verify(token)
			assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
		})
	}
}

func TestVerifyWithoutSecret(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{"sub": "x"})

	_, err := NewVerifier("").Verify(token)

	assert.Equal(t, apperrors.KindUnauthorized, apperrors.KindOf(err))
}

func TestResolveRole(t *testing.T) {
	tests := []struct {
		name   string
		claims map[string]any
		role   string
	}{
		{"default", map[string]any{}, RoleUser},
		{"app metadata", map[string]any{"app_metadata": map[string]any{"role": "admin"}}, RoleAdmin},
		{"user metadata cannot grant admin", map[string]any{"user_metadata": map[string]any{"role": "admin"}}, RoleUser},
		{"user metadata other role", map[string]any{"user_metadata": map[string]any{"role": "staff"}}, "staff"},
		{"app metadata wins", map[string]any{
			"user_metadata": map[string]any{"role": "admin"},
			"app_metadata":  map[string]any{"role": "user"},
		}, RoleUser},
		{"app metadata over user metadata", map[string]any{
			"user_metadata": map[string]any{"role": "staff"},
			"app_metadata":  map[string]any{"role": "admin"},
		}, RoleAdmin},
		{"empty role", map[string]any{"app_metadata": map[string]any{"role": ""}}, RoleUser},
		{"wrong type", map[string]any{"app_metadata": "admin"}, RoleUser},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.role, ResolveRole(tt.claims))
		})
	}
}

func TestBearerToken(t *testing.T) {
	token, ok := BearerToken("Bearer abc.def")
	assert.True(t, ok)
	assert.Equal(t, "abc.def", token)

	token, ok = BearerToken("bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	_, ok = BearerToken("Basic abc")
	assert.False(t, ok)
	_, ok = BearerToken("Bearer ")
	assert.False(t, ok)
}

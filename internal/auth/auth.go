package auth

import (
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	apperrors "github.com/eugenek0529/reservation-system/internal/errors"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Identity is the caller resolved from a verified access token
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// Verifier checks HS256 bearer tokens issued by the identity backend
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify parses tokenString and resolves the caller identity
func (v *Verifier) Verify(tokenString string) (*Identity, error) {
	if len(v.secret) == 0 {
		return nil, apperrors.Unauthorized("token verification is not configured")
	}

	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, apperrors.Unauthorized("invalid or expired token")
	}

	sub, _ := claims.GetSubject()
	email, _ := claims["email"].(string)
	return &Identity{
		UserID: sub,
		Email:  email,
		Role:   ResolveRole(claims),
	}, nil
}

// ResolveRole reads app_metadata.role, then user_metadata.role, defaulting to
// "user". user_metadata is writable by the user, so it never grants admin.
func ResolveRole(claims map[string]any) string {
	if role := metadataRole(claims, "app_metadata"); role != "" {
		return role
	}
	if role := metadataRole(claims, "user_metadata"); role != "" && role != RoleAdmin {
		return role
	}
	return RoleUser
}

func metadataRole(claims map[string]any, key string) string {
	meta, ok := claims[key].(map[string]any)
	if !ok {
		return ""
	}
	role, _ := meta["role"].(string)
	return role
}

// BearerToken extracts the token of an Authorization header value
func BearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

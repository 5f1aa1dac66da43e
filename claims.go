package authclient

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	goerrors "github.com/goliatone/go-errors"
)

// TokenClaims is the structural record decoded from a credential's payload
// segment. Absent fields stay zero valued; defaulting is the caller's
// responsibility.
type TokenClaims struct {
	Subject     string   `json:"sub,omitempty"`
	Email       string   `json:"email,omitempty"`
	Name        string   `json:"name,omitempty"`
	Roles       []string `json:"roles,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
	IssuedAt    int64    `json:"iat,omitempty"`
	ExpiresAt   int64    `json:"exp,omitempty"`
}

// HasExpiry reports whether the credential carried a numeric exp claim.
func (c *TokenClaims) HasExpiry() bool {
	return c.ExpiresAt > 0
}

// Expired reports whether exp is present and strictly in the past.
func (c *TokenClaims) Expired(now time.Time) bool {
	return c.HasExpiry() && c.ExpiresAt < now.Unix()
}

// DecodeToken splits a credential into its segments and parses the payload
// into TokenClaims. It never verifies the signature; the signing scheme is
// the backend's concern. Malformed input fails with ErrTokenMalformed.
//
// Pure function: no I/O, no shared state, safe from any goroutine.
func DecodeToken(raw string) (*TokenClaims, error) {
	payload := jwt.MapClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(raw, payload); err != nil {
		return nil, goerrors.Wrap(err, ErrTokenMalformed.Category, ErrTokenMalformed.Message).
			WithTextCode(ErrTokenMalformed.TextCode)
	}

	return claimsFromPayload(payload), nil
}

func claimsFromPayload(payload jwt.MapClaims) *TokenClaims {
	return &TokenClaims{
		Subject:     stringClaim(payload, "sub"),
		Email:       stringClaim(payload, "email"),
		Name:        stringClaim(payload, "name"),
		Roles:       stringSliceClaim(payload, "roles"),
		Permissions: stringSliceClaim(payload, "permissions"),
		IssuedAt:    numericClaim(payload, "iat"),
		ExpiresAt:   numericClaim(payload, "exp"),
	}
}

func stringClaim(payload jwt.MapClaims, key string) string {
	if v, ok := payload[key].(string); ok {
		return v
	}
	return ""
}

// stringSliceClaim tolerates both JSON arrays and a single string value.
func stringSliceClaim(payload jwt.MapClaims, key string) []string {
	switch v := payload[key].(type) {
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	case []string:
		return v
	case string:
		return []string{v}
	}
	return nil
}

func numericClaim(payload jwt.MapClaims, key string) int64 {
	switch v := payload[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}

// internal/pkg/jwt/jwt.go
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/oklog/ulid/v2"
)

type Config struct {
	Secret   string
	Issuer   string
	Audience string
	TTL      time.Duration
}

// Claims carried by admin tokens.
type Claims struct {
	Role string `json:"role"`
	jwt.RegisteredClaims
}

// IsAdmin reports whether the token grants admin access.
func (c *Claims) IsAdmin() bool {
	return c.Role == "admin"
}

// Manager signs and verifies HMAC tokens. One shared secret; key rotation is
// a config redeploy.
type Manager struct {
	cfg Config
}

func NewManager(cfg Config) (*Manager, error) {
	if cfg.Secret == "" {
		return nil, fmt.Errorf("jwt secret is not set")
	}
	if cfg.TTL == 0 {
		cfg.TTL = 12 * time.Hour
	}
	return &Manager{cfg: cfg}, nil
}

// Generate issues a signed token and returns it with its jti.
func (m *Manager) Generate(role string) (string, string, error) {
	now := time.Now()
	jti := ulid.Make().String()

	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.cfg.Issuer,
			Audience:  []string{m.cfg.Audience},
			ExpiresAt: jwt.NewNumericDate(now.Add(m.cfg.TTL)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        jti,
		},
	}

	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString([]byte(m.cfg.Secret))
	if err != nil {
		return "", "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, jti, nil
}

// Verify parses and validates a token, returning its claims.
func (m *Manager) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	tok, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(m.cfg.Secret), nil
	},
		jwt.WithIssuer(m.cfg.Issuer),
		jwt.WithAudience(m.cfg.Audience),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	if !tok.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}

// TTL exposes the configured token lifetime for session bookkeeping.
func (m *Manager) TTL() time.Duration {
	return m.cfg.TTL
}

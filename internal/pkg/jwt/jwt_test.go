package jwt

import (
	"strings"
	"testing"
	"time"
)

func testConfig() Config {
	return Config{
		Secret:   "test-secret",
		Issuer:   "atlas",
		Audience: "atlas-admin",
		TTL:      time.Hour,
	}
}

func TestGenerateVerifyRoundTrip(t *testing.T) {
	m, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	token, jti, err := m.Generate("admin")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if jti == "" {
		t.Error("empty jti")
	}

	claims, err := m.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !claims.IsAdmin() {
		t.Error("admin token should report IsAdmin")
	}
	if claims.ID != jti {
		t.Errorf("claims jti = %q, want %q", claims.ID, jti)
	}
}

func TestVerifyRejects(t *testing.T) {
	m, _ := NewManager(testConfig())
	token, _, _ := m.Generate("admin")

	t.Run("wrong secret", func(t *testing.T) {
		other, _ := NewManager(Config{Secret: "different", Issuer: "atlas", Audience: "atlas-admin", TTL: time.Hour})
		if _, err := other.Verify(token); err == nil {
			t.Error("token signed with another secret verified")
		}
	})

	t.Run("wrong audience", func(t *testing.T) {
		other, _ := NewManager(Config{Secret: "test-secret", Issuer: "atlas", Audience: "elsewhere", TTL: time.Hour})
		if _, err := other.Verify(token); err == nil {
			t.Error("token for another audience verified")
		}
	})

	t.Run("tampered payload", func(t *testing.T) {
		parts := strings.Split(token, ".")
		tampered := parts[0] + "." + parts[1] + "x." + parts[2]
		if _, err := m.Verify(tampered); err == nil {
			t.Error("tampered token verified")
		}
	})

	t.Run("expired", func(t *testing.T) {
		short, _ := NewManager(Config{Secret: "test-secret", Issuer: "atlas", Audience: "atlas-admin", TTL: -time.Minute})
		expired, _, _ := short.Generate("admin")
		if _, err := short.Verify(expired); err == nil {
			t.Error("expired token verified")
		}
	})
}

func TestNewManagerRequiresSecret(t *testing.T) {
	if _, err := NewManager(Config{}); err == nil {
		t.Error("manager built without a secret")
	}
}

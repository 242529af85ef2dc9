package token

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func TestCodec_RoundTrip(t *testing.T) {
	codec := NewCodec("secret", time.Hour)

	signed, expiresAt, err := codec.Sign("user_1", "alice@insurance.com", "ADMIN")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	if signed == "" {
		t.Fatalf("expected token, got empty")
	}
	if remaining := time.Until(expiresAt); remaining < 59*time.Minute || remaining > time.Hour {
		t.Fatalf("unexpected expiry: %v", expiresAt)
	}

	claims, err := codec.Verify(signed)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.UserID != "user_1" || claims.Email != "alice@insurance.com" || claims.Role != "ADMIN" {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestCodec_Expired(t *testing.T) {
	codec := &Codec{secret: []byte("secret"), ttl: -2 * time.Second}

	signed, _, err := codec.Sign("user_1", "alice@insurance.com", "ADMIN")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := codec.Verify(signed); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestCodec_TamperRejection(t *testing.T) {
	codec := NewCodec("secret", time.Hour)

	signed, _, err := codec.Sign("user_1", "alice@insurance.com", "ADMIN")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	// Flip one byte in each segment; none may verify.
	for _, pos := range []int{2, len(signed) / 2, len(signed) - 2} {
		raw := []byte(signed)
		if raw[pos] == 'A' {
			raw[pos] = 'B'
		} else {
			raw[pos] = 'A'
		}
		if _, err := codec.Verify(string(raw)); err == nil {
			t.Fatalf("tampered token at byte %d verified", pos)
		}
	}
}

func TestCodec_WrongSecret(t *testing.T) {
	signed, _, err := NewCodec("secret", time.Hour).Sign("user_1", "a@b.com", "AGENT")
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := NewCodec("other", time.Hour).Verify(signed); !errors.Is(err, ErrTokenInvalid) {
		t.Fatalf("expected ErrTokenInvalid, got %v", err)
	}
}

func TestCodec_Malformed(t *testing.T) {
	codec := NewCodec("secret", time.Hour)

	for _, tokenStr := range []string{"", "not-a-token", "a.b", strings.Repeat(".", 5)} {
		if _, err := codec.Verify(tokenStr); !errors.Is(err, ErrTokenInvalid) {
			t.Fatalf("expected ErrTokenInvalid for %q, got %v", tokenStr, err)
		}
	}
}

func TestCodec_DefaultTTL(t *testing.T) {
	if ttl := NewCodec("secret", 0).TTL(); ttl != 24*time.Hour {
		t.Fatalf("expected 24h default TTL, got %v", ttl)
	}
}

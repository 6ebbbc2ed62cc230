package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/golang-jwt/jwt/v5"
)

func testSessionConfig() config.SessionConfig {
	return config.SessionConfig{
		Secret: "0123456789abcdef0123",
		Issuer: "storefront",
		TTL:    time.Hour,
	}
}

func TestMintAndParseSessionToken(t *testing.T) {
	cfg := testSessionConfig()
	now := time.Now().UTC()

	token, err := MintSessionToken(cfg, now, "sess-123")
	if err != nil {
		t.Fatalf("mint session token: %v", err)
	}

	claims, err := ParseSessionToken(cfg, token)
	if err != nil {
		t.Fatalf("parse session token: %v", err)
	}
	if claims.SessionID() != "sess-123" {
		t.Fatalf("expected session id sess-123, got %q", claims.SessionID())
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("unexpected issuer %q", claims.Issuer)
	}
	if claims.ExpiresAt == nil || claims.ExpiresAt.Time.Sub(now) < 59*time.Minute {
		t.Fatalf("unexpected expiry %v", claims.ExpiresAt)
	}
}

func TestMintSessionTokenValidatesInput(t *testing.T) {
	cfg := testSessionConfig()
	if _, err := MintSessionToken(cfg, time.Now(), "  "); err == nil {
		t.Fatal("expected error for blank session id")
	}
	cfg.TTL = 0
	if _, err := MintSessionToken(cfg, time.Now(), "sess"); err == nil {
		t.Fatal("expected error for zero ttl")
	}
}

func TestParseSessionTokenRejectsTampering(t *testing.T) {
	cfg := testSessionConfig()
	token, err := MintSessionToken(cfg, time.Now(), "sess-123")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}

	other := cfg
	other.Secret = "another-secret-value-xx"
	if _, err := ParseSessionToken(other, token); err == nil {
		t.Fatal("expected signature mismatch to fail")
	}

	other = cfg
	other.Issuer = "someone-else"
	if _, err := ParseSessionToken(other, token); err == nil {
		t.Fatal("expected issuer mismatch to fail")
	}

	parts := strings.Split(token, ".")
	if _, err := ParseSessionToken(cfg, parts[0]+"."+parts[1]+".AAAA"); err == nil {
		t.Fatal("expected bad signature to fail")
	}
}

func TestParseSessionTokenRejectsExpired(t *testing.T) {
	cfg := testSessionConfig()
	token, err := MintSessionToken(cfg, time.Now().Add(-2*time.Hour), "sess-old")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseSessionToken(cfg, token); err == nil {
		t.Fatal("expected expired token to fail")
	}
}

func TestParseSessionTokenRejectsOtherAlgorithms(t *testing.T) {
	cfg := testSessionConfig()
	claims := SessionClaims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:    cfg.Issuer,
		ID:        "sess",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := ParseSessionToken(cfg, token); err == nil {
		t.Fatal("expected alg none to be rejected")
	}
}

func TestParseSessionTokenRejectsFutureIssue(t *testing.T) {
	cfg := testSessionConfig()
	token, err := MintSessionToken(cfg, time.Now().Add(time.Minute), "sess-ahead")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseSessionToken(cfg, token); !errors.Is(err, ErrInvalidSessionToken) {
		t.Fatalf("expected invalid token for future iat, got %v", err)
	}

	token, err = MintSessionToken(cfg, time.Now().Add(2*time.Second), "sess-skew")
	if err != nil {
		t.Fatalf("mint: %v", err)
	}
	if _, err := ParseSessionToken(cfg, token); err != nil {
		t.Fatalf("expected small skew to be tolerated, got %v", err)
	}
}

package auth

import (
	"strings"
	"testing"
	"time"
)

func newTestTokenService(t *testing.T) *TokenService {
	t.Helper()
	ts, err := NewTokenService("test-secret-at-least-16-chars")
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}
	return ts
}

func TestNewTokenService_ShortSecret(t *testing.T) {
	if _, err := NewTokenService("short"); err == nil {
		t.Fatal("NewTokenService() accepted a short secret, want error")
	}
}

func TestGenerateAndValidate(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Errorf("token %q doesn't look like a JWT", token)
	}

	userID, err := ts.Validate(token)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if userID != "user-123" {
		t.Errorf("userID = %q, want user-123", userID)
	}
}

func TestValidate_Expired(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.GenerateWithDuration("user-123", -time.Minute)
	if err != nil {
		t.Fatalf("GenerateWithDuration() error = %v", err)
	}

	if _, err := ts.Validate(token); err == nil {
		t.Fatal("Validate() accepted an expired token")
	}
}

func TestValidate_Tampered(t *testing.T) {
	ts := newTestTokenService(t)

	token, err := ts.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	// Flip a character in the payload segment.
	parts := strings.Split(token, ".")
	payload := []byte(parts[1])
	if payload[0] == 'A' {
		payload[0] = 'B'
	} else {
		payload[0] = 'A'
	}
	tampered := parts[0] + "." + string(payload) + "." + parts[2]

	if _, err := ts.Validate(tampered); err == nil {
		t.Fatal("Validate() accepted a tampered token")
	}
}

func TestValidate_WrongSecret(t *testing.T) {
	ts := newTestTokenService(t)

	other, err := NewTokenService("a-completely-different-secret")
	if err != nil {
		t.Fatalf("NewTokenService() error = %v", err)
	}

	token, err := other.Generate("user-123")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if _, err := ts.Validate(token); err == nil {
		t.Fatal("Validate() accepted a token signed with a different secret")
	}
}

func TestValidate_Garbage(t *testing.T) {
	ts := newTestTokenService(t)

	for _, token := range []string{"", "not-a-token", "a.b.c"} {
		if _, err := ts.Validate(token); err == nil {
			t.Errorf("Validate(%q) succeeded, want error", token)
		}
	}
}

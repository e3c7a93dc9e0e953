package auth

import (
	"strings"
	"testing"
)

const testSecret = "unit-test-session-secret"

func TestGenerateSessionID(t *testing.T) {
	t.Parallel()

	id, err := GenerateSessionID()
	if err != nil {
		t.Fatalf("GenerateSessionID failed: %v", err)
	}

	if len(id) != 32 {
		t.Errorf("Session ID should be 32 hex chars, got %d", len(id))
	}

	id2, err := GenerateSessionID()
	if err != nil {
		t.Fatalf("GenerateSessionID failed: %v", err)
	}

	if id == id2 {
		t.Error("Consecutive session IDs should differ")
	}
}

func TestEncodeSessionToken_RoundTrip(t *testing.T) {
	t.Parallel()

	id, err := GenerateSessionID()
	if err != nil {
		t.Fatalf("GenerateSessionID failed: %v", err)
	}

	token := EncodeSessionToken(testSecret, id)

	parsed, err := ParseSessionToken(testSecret, token)
	if err != nil {
		t.Fatalf("ParseSessionToken failed: %v", err)
	}

	if parsed != id {
		t.Errorf("Parsed ID mismatch: got %q, want %q", parsed, id)
	}
}

func TestParseSessionToken_WrongSecret(t *testing.T) {
	t.Parallel()

	id, err := GenerateSessionID()
	if err != nil {
		t.Fatalf("GenerateSessionID failed: %v", err)
	}

	token := EncodeSessionToken(testSecret, id)

	_, err = ParseSessionToken("a-different-secret", token)
	if err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken for wrong secret, got: %v", err)
	}
}

func TestParseSessionToken_Tampered(t *testing.T) {
	t.Parallel()

	id, err := GenerateSessionID()
	if err != nil {
		t.Fatalf("GenerateSessionID failed: %v", err)
	}

	token := EncodeSessionToken(testSecret, id)

	// Flip one hex digit of the id portion
	var flipped byte = 'a'
	if token[0] == 'a' {
		flipped = 'b'
	}
	tampered := string(flipped) + token[1:]

	_, err = ParseSessionToken(testSecret, tampered)
	if err != ErrInvalidToken {
		t.Errorf("Expected ErrInvalidToken for tampered token, got: %v", err)
	}
}

func TestParseSessionToken_Malformed(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"no separator", strings.Repeat("a", 96)},
		{"short id", "abc." + strings.Repeat("f", 64)},
		{"short signature", strings.Repeat("f", 32) + ".abc"},
		{"uppercase hex", strings.ToUpper(strings.Repeat("f", 32)) + "." + strings.Repeat("f", 64)},
		{"extra separator", strings.Repeat("f", 32) + "." + strings.Repeat("f", 64) + ".x"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := ParseSessionToken(testSecret, tt.token)
			if err != ErrInvalidToken {
				t.Errorf("Expected ErrInvalidToken for %q, got: %v", tt.name, err)
			}
		})
	}
}

func TestSignSessionID_Deterministic(t *testing.T) {
	t.Parallel()

	sig1 := SignSessionID(testSecret, "deadbeefdeadbeefdeadbeefdeadbeef")
	sig2 := SignSessionID(testSecret, "deadbeefdeadbeefdeadbeefdeadbeef")

	if sig1 != sig2 {
		t.Error("Same id and secret should produce the same signature")
	}

	if len(sig1) != 64 {
		t.Errorf("Signature should be 64 hex chars, got %d", len(sig1))
	}
}

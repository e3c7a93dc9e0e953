package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// SessionCookieName is the cookie carrying the signed session token.
const SessionCookieName = "taskhub_session"

// Token format: <session id>.<signature>
// The session id is 16 random bytes hex encoded (32 chars), used as the
// store key. The signature is HMAC-SHA256 of the id under the session
// secret (64 hex chars), so a forged or truncated cookie is rejected
// before the store is consulted.
const sessionIDBytes = 16

var (
	// ErrInvalidToken indicates the session token is malformed or
	// its signature does not verify.
	ErrInvalidToken = errors.New("invalid session token")

	// tokenFormatRegex validates the token shape before any crypto work.
	tokenFormatRegex = regexp.MustCompile(`^[a-f0-9]{32}\.[a-f0-9]{64}$`)
)

// GenerateSessionID creates a new random session identifier.
func GenerateSessionID() (string, error) {
	b := make([]byte, sessionIDBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate session id: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// SignSessionID computes the HMAC-SHA256 signature of a session id.
func SignSessionID(secret, id string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(id))
	return hex.EncodeToString(mac.Sum(nil))
}

// EncodeSessionToken assembles the signed token written to the cookie.
func EncodeSessionToken(secret, id string) string {
	return id + "." + SignSessionID(secret, id)
}

// ParseSessionToken verifies a signed token and returns the session id.
// Returns ErrInvalidToken for malformed tokens and bad signatures alike.
func ParseSessionToken(secret, token string) (string, error) {
	if !tokenFormatRegex.MatchString(token) {
		return "", ErrInvalidToken
	}

	id, sig, _ := strings.Cut(token, ".")

	expected := SignSessionID(secret, id)
	if !hmac.Equal([]byte(expected), []byte(sig)) {
		return "", ErrInvalidToken
	}

	return id, nil
}

package model

// Identity is the authenticated-identity record attached to a session
// and injected into the request context by the auth gate.
type Identity struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

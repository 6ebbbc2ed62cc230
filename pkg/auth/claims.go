package auth

import "github.com/golang-jwt/jwt/v5"

// SessionClaims is the signed cookie payload. It names the server-side
// session (jti) and nothing else; the principal lives with the session.
type SessionClaims struct {
	jwt.RegisteredClaims
}

// SessionID returns the server-side session identifier carried by the token.
func (c *SessionClaims) SessionID() string {
	if c == nil {
		return ""
	}
	return c.ID
}

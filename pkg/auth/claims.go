package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionClaims are the JWT claims carried by the session token. The
// registered ID claim doubles as the server-side session identifier.
type SessionClaims struct {
	UserID uuid.UUID `json:"uid"`
	Email  string    `json:"email"`
	Name   string    `json:"name"`
	jwt.RegisteredClaims
}

// SessionTokenPayload is the input for minting a session token.
type SessionTokenPayload struct {
	UserID    uuid.UUID
	Email     string
	Name      string
	SessionID string
}

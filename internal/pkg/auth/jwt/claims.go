package jwt

import (
	"time"

	"github.com/golang-jwt/jwt"

	"talentx/internal/app/user"
)

// Payload defines the JWT claims issued at login and presented by both the REST API
// (Authorization header) and the realtime gateway (auth envelope).
type Payload struct {
	// StandardClaims carries exp, iat and iss. Expiry is enforced on every parse.
	jwt.StandardClaims

	// ID is the platform user id.
	ID string `json:"id"`

	// Email is informational; authorization never depends on it.
	Email string `json:"email"`

	// Role is the user's platform role at issue time.
	Role user.Role `json:"role"`
}

// Identity is the verified result of a token check. It is passed explicitly to
// handlers and gateway state; nothing stores it on the request.
type Identity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Role      user.Role `json:"role"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// IsAdmin reports whether the identity carries the admin role.
func (i Identity) IsAdmin() bool {
	return i.Role.IsAdmin()
}

func (p *Payload) identity() Identity {
	return Identity{
		ID:        p.ID,
		Email:     p.Email,
		Role:      p.Role,
		ExpiresAt: time.Unix(p.ExpiresAt, 0),
	}
}

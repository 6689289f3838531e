package jwt

import (
	"github.com/golang-jwt/jwt/v5"
)

// Claims represents the identity-provider session token claims.
// Subject carries the provider's user id.
type Claims struct {
	OrgID   string `json:"org_id,omitempty"`
	OrgRole string `json:"org_role,omitempty"`
	Email   string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

package jwt

import (
	"crypto/rsa"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrTokenExpired = errors.New("token expired")
	ErrInvalidToken = errors.New("invalid token")
)

// Manager verifies bearer tokens issued by the identity provider.
// An RSA public key selects RS256; otherwise the shared secret is used with HS256.
type Manager struct {
	publicKey *rsa.PublicKey
	secret    []byte
	issuer    string
}

// NewManager creates a new JWT manager. publicKeyPEM takes precedence over secret.
func NewManager(publicKeyPEM, secret, issuer string) (*Manager, error) {
	m := &Manager{issuer: issuer}
	if publicKeyPEM != "" {
		key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(publicKeyPEM))
		if err != nil {
			return nil, fmt.Errorf("failed to parse public key: %w", err)
		}
		m.publicKey = key
		return m, nil
	}
	if secret == "" {
		return nil, fmt.Errorf("either a public key or a secret is required")
	}
	m.secret = []byte(secret)
	return m, nil
}

// ValidateAccessToken validates and parses a session token
func (m *Manager) ValidateAccessToken(tokenString string) (*Claims, error) {
	opts := []jwt.ParserOption{jwt.WithExpirationRequired()}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, m.keyFunc, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

func (m *Manager) keyFunc(token *jwt.Token) (interface{}, error) {
	if m.publicKey != nil {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return m.publicKey, nil
	}
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return m.secret, nil
}

// GenerateToken signs an HS256 token for subject. Only available in secret mode;
// used by local tooling and tests.
func (m *Manager) GenerateToken(subject string, ttl time.Duration) (string, error) {
	if m.secret == nil {
		return "", fmt.Errorf("token generation requires a shared secret")
	}
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			Issuer:    m.issuer,
			Subject:   subject,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

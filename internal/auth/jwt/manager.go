package jwt

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vetstock/vetstock-backend/pkg/config"
	"github.com/vetstock/vetstock-backend/pkg/errors"
)

// Claims represents the session token claims carried by the auth cookie
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"session_id"`
	Username  string `json:"username"`
}

// Manager signs and validates session tokens
type Manager struct {
	config *config.AuthConfig
}

// NewManager creates a new token manager
func NewManager(cfg *config.AuthConfig) *Manager {
	return &Manager{config: cfg}
}

// GenerateSessionToken signs a token referencing a server-side session
func (m *Manager) GenerateSessionToken(sessionID, username string, expiresAt time.Time) (string, error) {
	now := time.Now()

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "vetstock",
			Subject:   username,
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ID:        sessionID,
		},
		SessionID: sessionID,
		Username:  username,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(m.config.SessionSecret))
}

// ValidateSessionToken validates a token and returns its claims
func (m *Manager) ValidateSessionToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.SessionInvalid()
		}
		return []byte(m.config.SessionSecret), nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, errors.SessionExpired()
		}
		return nil, errors.SessionInvalid()
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.SessionInvalid()
	}

	return claims, nil
}

// SessionTTL returns the configured session lifetime
func (m *Manager) SessionTTL() time.Duration {
	return m.config.SessionTTL
}

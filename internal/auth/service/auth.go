package service

import (
	"context"
	"crypto/subtle"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/vetstock/vetstock-backend/internal/auth/jwt"
	"github.com/vetstock/vetstock-backend/internal/auth/repository"
	"github.com/vetstock/vetstock-backend/pkg/config"
	"github.com/vetstock/vetstock-backend/pkg/errors"
	"github.com/vetstock/vetstock-backend/pkg/logger"
)

// AuthService implements the admin login flow. There is a single
// configured account; sessions are stored server-side and referenced
// by the signed cookie token.
type AuthService struct {
	sessions   *repository.SessionRepository
	jwtManager *jwt.Manager
	config     *config.AuthConfig
	logger     *logger.Logger
}

// NewAuthService creates a new auth service
func NewAuthService(
	sessions *repository.SessionRepository,
	jwtManager *jwt.Manager,
	cfg *config.AuthConfig,
	log *logger.Logger,
) *AuthService {
	return &AuthService{
		sessions:   sessions,
		jwtManager: jwtManager,
		config:     cfg,
		logger:     log.WithComponent("auth"),
	}
}

// LoginResult carries the signed token and its expiry for the cookie
type LoginResult struct {
	Token     string
	Username  string
	ExpiresAt time.Time
}

// Login verifies the admin credentials and creates a session
func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	usernameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.config.AdminUsername)) == 1
	passwordErr := bcrypt.CompareHashAndPassword([]byte(s.config.AdminPasswordHash), []byte(password))

	if !usernameOK || passwordErr != nil {
		s.logger.Warn().Str("username", username).Msg("failed login attempt")
		return nil, errors.InvalidCredentials()
	}

	expiresAt := time.Now().Add(s.config.SessionTTL)

	session, err := s.sessions.Create(ctx, username, expiresAt)
	if err != nil {
		return nil, err
	}

	token, err := s.jwtManager.GenerateSessionToken(session.ID, username, expiresAt)
	if err != nil {
		return nil, errors.Internal("failed to sign session token")
	}

	s.logger.Info().Str("session_id", session.ID).Msg("admin logged in")

	return &LoginResult{
		Token:     token,
		Username:  username,
		ExpiresAt: expiresAt,
	}, nil
}

// Validate checks a cookie token against its server-side session
func (s *AuthService) Validate(ctx context.Context, token string) (*repository.Session, error) {
	claims, err := s.jwtManager.ValidateSessionToken(token)
	if err != nil {
		return nil, err
	}

	session, err := s.sessions.GetByID(ctx, claims.SessionID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	if !session.Active(now) {
		if session.RevokedAt != nil {
			return nil, errors.SessionInvalid()
		}
		return nil, errors.SessionExpired()
	}

	if err := s.sessions.UpdateLastUsed(ctx, session.ID); err != nil {
		s.logger.Warn().Err(err).Str("session_id", session.ID).Msg("failed to touch session")
	}

	return session, nil
}

// Logout revokes the session referenced by the token. An invalid token
// is not an error; logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.jwtManager.ValidateSessionToken(token)
	if err != nil {
		return nil
	}

	if err := s.sessions.Revoke(ctx, claims.SessionID); err != nil {
		return errors.Internal("failed to revoke session")
	}

	s.logger.Info().Str("session_id", claims.SessionID).Msg("admin logged out")
	return nil
}

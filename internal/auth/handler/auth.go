package handler

import (
	"net/http"
	"time"

	"github.com/vetstock/vetstock-backend/internal/auth/service"
	"github.com/vetstock/vetstock-backend/pkg/config"
	"github.com/vetstock/vetstock-backend/pkg/httputil"
	"github.com/vetstock/vetstock-backend/pkg/logger"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	service *service.AuthService
	config  *config.AuthConfig
	logger  *logger.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(svc *service.AuthService, cfg *config.AuthConfig, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		service: svc,
		config:  cfg,
		logger:  log,
	}
}

// LoginRequest is the login payload
type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// Login verifies credentials and sets the session cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := httputil.DecodeJSON(r, &req); err != nil {
		httputil.Error(w, err)
		return
	}

	if err := httputil.Validate(&req); err != nil {
		httputil.Error(w, err)
		return
	}

	result, err := h.service.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	http.SetCookie(w, h.sessionCookie(result.Token, result.ExpiresAt))

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"username":   result.Username,
		"expires_at": result.ExpiresAt,
	})
}

// Logout revokes the current session and clears the cookie
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(h.config.CookieName); err == nil {
		if err := h.service.Logout(r.Context(), cookie.Value); err != nil {
			h.logger.Warn().Err(err).Msg("logout error")
		}
	}

	http.SetCookie(w, h.expiredCookie())
	httputil.NoContent(w)
}

// Check reports whether the request carries a valid session
func (h *AuthHandler) Check(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(h.config.CookieName)
	if err != nil {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{"authenticated": false})
		return
	}

	session, err := h.service.Validate(r.Context(), cookie.Value)
	if err != nil {
		httputil.JSON(w, http.StatusOK, map[string]interface{}{"authenticated": false})
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]interface{}{
		"authenticated": true,
		"username":      session.Username,
		"expires_at":    session.ExpiresAt,
	})
}

func (h *AuthHandler) sessionCookie(token string, expiresAt time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     h.config.CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		MaxAge:   int(time.Until(expiresAt).Seconds()),
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

func (h *AuthHandler) expiredCookie() *http.Cookie {
	return &http.Cookie{
		Name:     h.config.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/lerp/backend/internal/infrastructure/auth"
	"github.com/lerp/backend/internal/interfaces/http/dto"
)

// SessionIDKey is the gin context key holding the current session ID
const SessionIDKey = "session_id"

// SessionTokenHeader carries a freshly issued session token back to the client
const SessionTokenHeader = "X-Session-Token"

// SessionConfig holds configuration for the session middleware
type SessionConfig struct {
	// CookieName is the cookie the session token is read from and written to
	CookieName string
	// CookieMaxAge is the cookie lifetime in seconds
	CookieMaxAge int
	// Secure marks the session cookie as HTTPS-only
	Secure bool
}

// Session returns a middleware that resolves the caller's session. The
// token is taken from the Authorization bearer header or the session
// cookie; when neither carries a valid token a new anonymous session is
// issued and handed back via cookie and response header. Carts are
// keyed by the resolved session ID.
func Session(service *auth.SessionService, cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if sessionID, ok := resolveSession(c, service, cfg.CookieName); ok {
			c.Set(SessionIDKey, sessionID)
			c.Next()
			return
		}

		token, err := service.Issue()
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				dto.NewErrorResponse(dto.ErrCodeInternal, "failed to establish a session"))
			return
		}

		c.SetSameSite(http.SameSiteLaxMode)
		c.SetCookie(cfg.CookieName, token.Token, cfg.CookieMaxAge, "/", "", cfg.Secure, true)
		c.Header(SessionTokenHeader, token.Token)
		c.Set(SessionIDKey, token.SessionID)
		c.Next()
	}
}

// RequireSession returns a middleware that rejects requests without a
// valid session token instead of issuing one. Used for routes where an
// implicit new session would hide a client bug, such as finalizing a
// sale from an empty, never-seen cart.
func RequireSession(service *auth.SessionService, cfg SessionConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID, ok := resolveSession(c, service, cfg.CookieName)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized,
				dto.NewErrorResponse(dto.ErrCodeUnauthorized, "a valid session is required"))
			return
		}
		c.Set(SessionIDKey, sessionID)
		c.Next()
	}
}

func resolveSession(c *gin.Context, service *auth.SessionService, cookieName string) (string, bool) {
	if token := bearerToken(c); token != "" {
		if sessionID, err := service.Validate(token); err == nil {
			return sessionID, true
		} else if errors.Is(err, auth.ErrExpiredToken) {
			return "", false
		}
	}

	if cookieName != "" {
		if token, err := c.Cookie(cookieName); err == nil && token != "" {
			if sessionID, err := service.Validate(token); err == nil {
				return sessionID, true
			}
		}
	}

	return "", false
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// GetSessionID returns the session ID resolved by the Session middleware
func GetSessionID(c *gin.Context) string {
	if v, exists := c.Get(SessionIDKey); exists {
		if id, ok := v.(string); ok {
			return id
		}
	}
	return ""
}

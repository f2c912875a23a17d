package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/lerp/backend/internal/infrastructure/config"
)

// Common errors
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrInvalidClaims    = errors.New("invalid token claims")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrMissingSessionID = errors.New("missing session_id in claims")
)

// Claims represents custom session token claims
type Claims struct {
	jwt.RegisteredClaims
	SessionID string `json:"session_id"`
}

// SessionToken is an issued session token with its expiry
type SessionToken struct {
	Token     string    `json:"token"`
	SessionID string    `json:"session_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// SessionService issues and validates signed session tokens. A session
// identifies an anonymous browser session; the cart is keyed by it.
type SessionService struct {
	secret     []byte
	expiration time.Duration
	issuer     string
}

// NewSessionService creates a new session service
func NewSessionService(cfg config.SessionConfig) *SessionService {
	return &SessionService{
		secret:     []byte(cfg.Secret),
		expiration: cfg.Expiration,
		issuer:     cfg.Issuer,
	}
}

// Issue creates a signed token for a fresh session ID
func (s *SessionService) Issue() (*SessionToken, error) {
	return s.IssueFor(uuid.New().String())
}

// IssueFor creates a signed token carrying the given session ID
func (s *SessionService) IssueFor(sessionID string) (*SessionToken, error) {
	now := time.Now()
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.New().String(),
			Issuer:    s.issuer,
			Subject:   sessionID,
			Audience:  jwt.ClaimStrings{s.issuer},
			ExpiresAt: jwt.NewNumericDate(now.Add(s.expiration)),
			NotBefore: jwt.NewNumericDate(now),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		SessionID: sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return nil, err
	}

	return &SessionToken{
		Token:     signed,
		SessionID: sessionID,
		ExpiresAt: now.Add(s.expiration),
	}, nil
}

// Validate verifies a session token and returns the session ID it carries
func (s *SessionService) Validate(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return s.secret, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", ErrExpiredToken
		}
		if errors.Is(err, jwt.ErrTokenNotValidYet) {
			return "", ErrTokenNotYetValid
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", ErrInvalidClaims
	}
	if claims.SessionID == "" {
		return "", ErrMissingSessionID
	}

	return claims.SessionID, nil
}

package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lerp/backend/internal/infrastructure/config"
)

func newTestService(expiration time.Duration) *SessionService {
	return NewSessionService(config.SessionConfig{
		Secret:     "test-secret-test-secret-test-secret",
		Expiration: expiration,
		Issuer:     "lerp-test",
	})
}

func TestSessionServiceIssueAndValidate(t *testing.T) {
	service := newTestService(time.Hour)

	issued, err := service.Issue()
	require.NoError(t, err)
	require.NotEmpty(t, issued.Token)
	require.NotEmpty(t, issued.SessionID)

	sessionID, err := service.Validate(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, issued.SessionID, sessionID)
}

func TestSessionServiceIssueFor(t *testing.T) {
	service := newTestService(time.Hour)

	issued, err := service.IssueFor("sess-known")
	require.NoError(t, err)

	sessionID, err := service.Validate(issued.Token)
	require.NoError(t, err)
	assert.Equal(t, "sess-known", sessionID)
}

func TestSessionServiceValidateErrors(t *testing.T) {
	service := newTestService(time.Hour)

	t.Run("garbage token", func(t *testing.T) {
		_, err := service.Validate("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		other := NewSessionService(config.SessionConfig{
			Secret:     "another-secret-another-secret-xxxx",
			Expiration: time.Hour,
			Issuer:     "lerp-test",
		})
		issued, err := other.Issue()
		require.NoError(t, err)

		_, err = service.Validate(issued.Token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("expired token", func(t *testing.T) {
		expired := newTestService(-time.Minute)
		issued, err := expired.Issue()
		require.NoError(t, err)

		_, err = expired.Validate(issued.Token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})
}

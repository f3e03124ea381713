package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "test-secret"
	testIssuer   = "TaskManagerAPI"
	testAudience = "TaskManagerClients"
)

func newTestService(ttl time.Duration) *JWTService {
	return NewJWTService(testSecret, testIssuer, testAudience, ttl)
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := newTestService(24 * time.Hour)

	token, expiresAt, err := svc.GenerateToken(42, "Test User", "test@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(24*time.Hour), expiresAt, time.Minute)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "Test User", claims.Name)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, "42", claims.Subject)
	assert.Equal(t, testIssuer, claims.Issuer)
	assert.Contains(t, claims.Audience, testAudience)
	assert.NotEmpty(t, claims.ID)
}

func TestJWTService_RejectsWrongKey(t *testing.T) {
	svc := newTestService(time.Hour)
	other := NewJWTService("different-secret", testIssuer, testAudience, time.Hour)

	token, _, err := svc.GenerateToken(1, "A", "a@example.com")
	require.NoError(t, err)

	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsWrongIssuer(t *testing.T) {
	issued := NewJWTService(testSecret, "SomeOtherService", testAudience, time.Hour)
	svc := newTestService(time.Hour)

	token, _, err := issued.GenerateToken(1, "A", "a@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsWrongAudience(t *testing.T) {
	issued := NewJWTService(testSecret, testIssuer, "SomeOtherClients", time.Hour)
	svc := newTestService(time.Hour)

	token, _, err := issued.GenerateToken(1, "A", "a@example.com")
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsExpiredToken(t *testing.T) {
	expired := newTestService(-time.Minute)

	token, _, err := expired.GenerateToken(1, "A", "a@example.com")
	require.NoError(t, err)

	svc := newTestService(time.Hour)
	_, err = svc.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestJWTService_RejectsGarbage(t *testing.T) {
	svc := newTestService(time.Hour)

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

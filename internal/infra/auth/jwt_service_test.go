package auth

import (
	"testing"
	"time"

	"cloudburst/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(secret string, ttl time.Duration) *config.Config {
	return &config.Config{
		Auth: &config.AuthConfig{
			Enabled:   true,
			SecretKey: secret,
			TokenTTL:  ttl,
		},
	}
}

func TestJWTService_GenerateAndValidateToken(t *testing.T) {
	jwtService, err := NewJWTService(testConfig("test_secret_key_very_long_for_testing", time.Hour))
	require.NoError(t, err)

	token, expiresAt, err := jwtService.GenerateToken("admin", []string{"admin"})
	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := jwtService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Subject)
	assert.Equal(t, []string{"admin"}, claims.Roles)
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService, err := NewJWTService(testConfig("test_secret_key_very_long_for_testing", time.Hour))
	require.NoError(t, err)

	_, err = jwtService.ValidateToken("invalid.token.here")
	assert.Error(t, err)
}

func TestJWTService_WrongSecret(t *testing.T) {
	issuer, err := NewJWTService(testConfig("first_secret_key_very_long_for_testing", time.Hour))
	require.NoError(t, err)
	verifier, err := NewJWTService(testConfig("second_secret_key_very_long_for_testing", time.Hour))
	require.NoError(t, err)

	token, _, err := issuer.GenerateToken("admin", nil)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	svc, err := NewJWTService(testConfig("test_secret_key_very_long_for_testing", time.Minute))
	require.NoError(t, err)

	impl := svc.(*jwtService)
	impl.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	token, _, err := impl.GenerateToken("admin", nil)
	require.NoError(t, err)

	impl.now = time.Now
	_, err = impl.ValidateToken(token)
	assert.Error(t, err)
}

func TestNewJWTService_MissingSecret(t *testing.T) {
	_, err := NewJWTService(testConfig("", time.Hour))
	assert.Error(t, err)

	_, err = NewJWTService(&config.Config{})
	assert.Error(t, err)
}

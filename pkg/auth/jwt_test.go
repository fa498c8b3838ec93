package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/cureconnect/cureconnect/internal/config"
	"github.com/cureconnect/cureconnect/internal/domain"
)

func testManager(ttl time.Duration) *JWTManager {
	return NewJWTManager(config.JWTConfig{
		Secret:          "test-secret-0123456789-0123456789",
		AccessTokenTTL:  ttl,
		RefreshTokenTTL: 24 * time.Hour,
		Issuer:          "test",
	})
}

func TestGenerateAndValidate(t *testing.T) {
	m := testManager(time.Minute)
	doctorID := uuid.New()
	in := &domain.Claims{
		UserID:   uuid.New(),
		Email:    "doc@example.com",
		Role:     domain.RoleDoctor,
		DoctorID: &doctorID,
	}

	pair, err := m.GenerateTokenPair(in)
	assert.NoError(t, err)
	assert.Equal(t, "Bearer", pair.TokenType)

	out, err := m.ValidateAccessToken(pair.AccessToken)
	assert.NoError(t, err)
	assert.Equal(t, in.UserID, out.UserID)
	assert.Equal(t, in.Email, out.Email)
	assert.Equal(t, in.Role, out.Role)
	assert.Equal(t, doctorID, *out.DoctorID)
}

func TestTokenTypeMismatch(t *testing.T) {
	m := testManager(time.Minute)
	pair, err := m.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Role: domain.RolePatient})
	assert.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenTypeMismatch)

	_, err = m.ValidateRefreshToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenTypeMismatch)
}

func TestExpiredToken(t *testing.T) {
	m := testManager(-time.Minute)
	pair, err := m.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Role: domain.RolePatient})
	assert.NoError(t, err)

	_, err = m.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenExpired)
}

func TestWrongSecretRejected(t *testing.T) {
	m := testManager(time.Minute)
	pair, err := m.GenerateTokenPair(&domain.Claims{UserID: uuid.New(), Role: domain.RolePatient})
	assert.NoError(t, err)

	other := NewJWTManager(config.JWTConfig{
		Secret:          "another-secret-entirely-0123456789",
		AccessTokenTTL:  time.Minute,
		RefreshTokenTTL: time.Hour,
		Issuer:          "test",
	})
	_, err = other.ValidateAccessToken(pair.AccessToken)
	assert.ErrorIs(t, err, ErrTokenInvalid)
}

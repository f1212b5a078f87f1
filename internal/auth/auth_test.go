package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(ttl time.Duration) *Service {
	return NewService(Config{Secret: "test-secret", TokenTTL: ttl})
}

func TestService_HashAndCheckPassword(t *testing.T) {
	service := newTestService(time.Hour)

	hash, err := service.HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, "correct horse battery staple", hash)

	assert.True(t, service.CheckPassword("correct horse battery staple", hash))
	assert.False(t, service.CheckPassword("wrong password", hash))
}

func TestService_GenerateAndValidateToken(t *testing.T) {
	service := newTestService(time.Hour)

	token, err := service.GenerateToken("admin", "Admin")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin", claims.Username)
	assert.Equal(t, "Admin", claims.Role)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
}

func TestService_ValidateToken_Invalid(t *testing.T) {
	service := newTestService(time.Hour)

	_, err := service.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_ValidateToken_Expired(t *testing.T) {
	service := newTestService(-time.Minute)

	token, err := service.GenerateToken("admin", "Admin")
	require.NoError(t, err)

	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestService_ValidateToken_WrongSecret(t *testing.T) {
	token, err := newTestService(time.Hour).GenerateToken("admin", "Admin")
	require.NoError(t, err)

	other := NewService(Config{Secret: "other-secret", TokenTTL: time.Hour})
	_, err = other.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "valid", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "empty header", header: "", wantErr: true},
		{name: "no scheme", header: "abc.def.ghi", wantErr: true},
		{name: "wrong scheme", header: "Basic abc", wantErr: true},
		{name: "missing token", header: "Bearer ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractBearer(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidToken)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

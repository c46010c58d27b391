package services

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService_IssueToken(t *testing.T) {
	service := NewAuthService("test-secret")

	signed, err := service.IssueToken("ops@hikmahsphere.org", RoleAdmin, time.Hour)
	require.NoError(t, err)

	claims := jwt.MapClaims{}
	_, err = jwt.ParseWithClaims(signed, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ops@hikmahsphere.org", claims["sub"])
	assert.Equal(t, RoleAdmin, claims["role"])
}

func TestAuthService_IssueToken_Rejections(t *testing.T) {
	_, err := NewAuthService("").IssueToken("ops", RoleAdmin, time.Hour)
	assert.EqualError(t, err, "JWT_SECRET is not set")

	_, err = NewAuthService("s").IssueToken("  ", RoleAdmin, time.Hour)
	assert.Error(t, err)

	_, err = NewAuthService("s").IssueToken("ops", RoleAdmin, 0)
	assert.Error(t, err)
}

// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"crypto/rand"
	"crypto/rsa"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/taibuivan/beetlekeeper/internal/platform/sec"
)

/*
TestPasswordHash verifies the bcrypt round trip and the length guard.
*/
func TestPasswordHash(t *testing.T) {
	sec.PasswordCost = bcrypt.MinCost
	t.Cleanup(func() { sec.PasswordCost = bcrypt.DefaultCost })

	hash, err := sec.HashPassword("dynastes852")
	require.NoError(t, err)

	assert.True(t, sec.CheckPasswordHash("dynastes852", hash))
	assert.False(t, sec.CheckPasswordHash("wrong", hash))
	assert.False(t, sec.CheckPasswordHash("dynastes852", "not-a-hash"))

	_, err = sec.HashPassword(strings.Repeat("x", 73))
	assert.Error(t, err)
}

/*
TestSecureToken checks that tokens are random and hashed deterministically.
*/
func TestSecureToken(t *testing.T) {
	first, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)
	second, err := sec.GenerateSecureToken(32)
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.Equal(t, sec.HashToken(first), sec.HashToken(first))
	assert.Len(t, sec.HashToken(first), 64)
}

/*
TestUserRole_AtLeast covers the role ladder.
*/
func TestUserRole_AtLeast(t *testing.T) {
	tests := []struct {
		role     sec.UserRole
		required sec.UserRole
		want     bool
	}{
		{sec.RoleAdmin, sec.RoleMember, true},
		{sec.RoleAdmin, sec.RoleAdmin, true},
		{sec.RoleMember, sec.RoleMember, true},
		{sec.RoleMember, sec.RoleAdmin, false},
		{"guest", sec.RoleMember, false},
		{"", "", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.role.AtLeast(tt.required), "%q >= %q", tt.role, tt.required)
	}
	assert.True(t, sec.RoleAdmin.Valid())
	assert.False(t, sec.UserRole("owner").Valid())
}

/*
TestTokenService covers signing, verification and every rejection path.
*/
func TestTokenService(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	other, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	issued := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := issued
	service := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "beetlekeeper.test").
		WithClock(func() time.Time { return clock })

	token, err := service.GenerateAccessToken("u-1", "kabuto", string(sec.RoleMember), 15*time.Minute)
	require.NoError(t, err)

	t.Run("valid", func(t *testing.T) {
		claims, err := service.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, "u-1", claims.UserID)
		assert.Equal(t, "kabuto", claims.Username)
		assert.Equal(t, "member", claims.Role)
		assert.Equal(t, "u-1", claims.Subject)
	})

	t.Run("expired", func(t *testing.T) {
		clock = issued.Add(time.Hour)
		defer func() { clock = issued }()
		_, err := service.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong_issuer", func(t *testing.T) {
		foreign := sec.NewTokenServiceFromKeys(key, &key.PublicKey, "elsewhere").
			WithClock(func() time.Time { return issued })
		_, err := foreign.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong_key", func(t *testing.T) {
		forged := sec.NewTokenServiceFromKeys(other, &other.PublicKey, "beetlekeeper.test").
			WithClock(func() time.Time { return issued })
		_, err := forged.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := service.VerifyToken("not.a.jwt")
		assert.Error(t, err)
	})
}

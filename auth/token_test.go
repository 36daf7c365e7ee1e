package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MajedBannouri/Taski/apperrors"
)

func TestTokenRoundTrip(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)

	token, err := svc.Issue("64b0c4f2a1e4d3b2c1a0f9e8")
	require.NoError(t, err)

	userID, err := svc.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "64b0c4f2a1e4d3b2c1a0f9e8", userID)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	token, err := svc.Issue("64b0c4f2a1e4d3b2c1a0f9e8")
	require.NoError(t, err)

	otherSvc := NewTokenService("other-secret", time.Hour)

	testCases := []struct {
		name  string
		token string
		svc   *TokenService
	}{
		{name: "empty", token: "", svc: svc},
		{name: "garbage", token: "not.a.token", svc: svc},
		{name: "tampered", token: token + "x", svc: svc},
		{name: "wrong key", token: token, svc: otherSvc},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tc.svc.Verify(tc.token)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))
		})
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	svc := NewTokenService("test-secret", time.Hour)
	issued := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	token, err := svc.Issue("64b0c4f2a1e4d3b2c1a0f9e8")
	require.NoError(t, err)

	// Still valid just before expiry.
	svc.now = func() time.Time { return issued.Add(59 * time.Minute) }
	_, err = svc.Verify(token)
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = svc.Verify(token)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.CodeInvalidToken))
}

func TestDefaultTTLIsThirtyDays(t *testing.T) {
	svc := NewTokenService("test-secret", 0)
	assert.Equal(t, 30*24*time.Hour, svc.ttl)
}

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueAndVerify(t *testing.T) {
	tokens := NewAdminTokens("s3cret")
	raw, err := tokens.Issue("owner@example.com", true, time.Hour)
	require.NoError(t, err)

	claims, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "owner@example.com", claims.Subject)
	assert.True(t, claims.IsAdmin)
}

func TestVerifyRejectsNonAdmin(t *testing.T) {
	tokens := NewAdminTokens("s3cret")
	raw, err := tokens.Issue("visitor", false, time.Hour)
	require.NoError(t, err)

	_, err = tokens.Verify(raw)
	assert.ErrorIs(t, err, ErrNotAdmin)
}

func TestVerifyRejectsWrongSecretAndExpiry(t *testing.T) {
	raw, err := NewAdminTokens("other").Issue("owner", true, time.Hour)
	require.NoError(t, err)
	_, err = NewAdminTokens("s3cret").Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)

	tokens := NewAdminTokens("s3cret")
	past := time.Now().Add(-2 * time.Hour)
	tokens.now = func() time.Time { return past }
	expired, err := tokens.Issue("owner", true, time.Hour)
	require.NoError(t, err)
	tokens.now = time.Now
	_, err = tokens.Verify(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestVerifyRejectsOtherAlgorithms(t *testing.T) {
	claims := AdminClaims{
		RegisteredClaims: jwt.RegisteredClaims{Issuer: issuer, ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
		IsAdmin:          true,
	}
	raw, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = NewAdminTokens("s3cret").Verify(raw)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestNoSecret(t *testing.T) {
	_, err := NewAdminTokens("").Issue("owner", true, time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)
	_, err = NewAdminTokens("").Verify("x")
	assert.ErrorIs(t, err, ErrNoSecret)
}

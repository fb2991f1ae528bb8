package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokens_PairRoundTrip(t *testing.T) {
	tokens := NewTokens("secret", 15*time.Minute, 7*24*time.Hour)

	pair, err := tokens.Pair("user-42")
	require.NoError(t, err)

	subject, err := tokens.Verify(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-42", subject)

	subject, err = tokens.Verify(pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, "user-42", subject)
}

func TestTokens_VerifyRejectsExpired(t *testing.T) {
	tokens := NewTokens("secret", -time.Minute, -time.Minute)

	pair, err := tokens.Pair("user-42")
	require.NoError(t, err)

	_, err = tokens.Verify(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_VerifyRejectsWrongSecret(t *testing.T) {
	issuer := NewTokens("secret-a", 15*time.Minute, time.Hour)
	verifier := NewTokens("secret-b", 15*time.Minute, time.Hour)

	pair, err := issuer.Pair("user-42")
	require.NoError(t, err)

	_, err = verifier.Verify(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokens_VerifyRejectsGarbage(t *testing.T) {
	tokens := NewTokens("secret", 15*time.Minute, time.Hour)

	_, err := tokens.Verify("not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

package application

import (
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/crateyy/pkg/helpers"
)

func TestBcryptVerifier(t *testing.T) {
	v := NewCredentialVerifier(StrategyBcrypt)
	hash, err := v.Hash("s3cret")
	require.NoError(t, err)
	require.True(t, helpers.IsBcryptHash(hash))

	ok, rehash := v.Verify(hash, "s3cret")
	require.True(t, ok)
	require.False(t, rehash)

	ok, _ = v.Verify(hash, "wrong")
	require.False(t, ok)

	ok, _ = v.Verify("s3cret", "s3cret")
	require.False(t, ok, "bcrypt strategy must not accept plaintext records")
}

func TestLegacyVerifier_AcceptsPlaintextAndAsksForRehash(t *testing.T) {
	v := NewCredentialVerifier(StrategyLegacy)

	ok, rehash := v.Verify("s3cret", "s3cret")
	require.True(t, ok)
	require.True(t, rehash)

	ok, rehash = v.Verify("s3cret", "other")
	require.False(t, ok)
	require.False(t, rehash)

	hash, err := v.Hash("s3cret")
	require.NoError(t, err)
	ok, rehash = v.Verify(hash, "s3cret")
	require.True(t, ok)
	require.False(t, rehash)
}

func TestVerifier_EmptyStoredPasswordNeverMatches(t *testing.T) {
	for _, strategy := range []string{StrategyBcrypt, StrategyLegacy} {
		ok, _ := NewCredentialVerifier(strategy).Verify("", "")
		require.False(t, ok, strategy)
	}
}

func TestBcryptVerifier_UpgradesWeakHashes(t *testing.T) {
	weak, err := bcrypt.GenerateFromPassword([]byte("s3cret"), bcrypt.MinCost)
	require.NoError(t, err)

	ok, rehash := NewCredentialVerifier(StrategyBcrypt).Verify(string(weak), "s3cret")
	require.True(t, ok)
	require.True(t, rehash)

	ok, rehash = NewCredentialVerifier(StrategyBcrypt).Verify(string(weak), "nope")
	require.False(t, ok)
	require.False(t, rehash)
}

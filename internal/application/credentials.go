package application

import (
	"crypto/subtle"

	"github.com/oksasatya/crateyy/pkg/helpers"
)

const (
	StrategyBcrypt = "bcrypt"
	// StrategyLegacy additionally accepts passwords stored in plaintext by the
	// first storefront release, and asks for them to be re-hashed on login.
	StrategyLegacy = "legacy"
)

// CredentialVerifier hashes new passwords and checks submitted ones.
type CredentialVerifier interface {
	Hash(plain string) (string, error)
	// Verify reports whether plain matches stored, and whether stored should be
	// replaced by a fresh Hash(plain).
	Verify(stored, plain string) (ok bool, rehash bool)
}

func NewCredentialVerifier(strategy string) CredentialVerifier {
	if strategy == StrategyLegacy {
		return LegacyVerifier{}
	}
	return BcryptVerifier{}
}

type BcryptVerifier struct{}

func (BcryptVerifier) Hash(plain string) (string, error) { return helpers.HashPassword(plain) }

func (BcryptVerifier) Verify(stored, plain string) (bool, bool) {
	if stored == "" {
		return false, false
	}
	if !helpers.CompareHashAndPassword(stored, plain) {
		return false, false
	}
	return true, helpers.NeedsRehash(stored)
}

type LegacyVerifier struct {
	BcryptVerifier
}

func (v LegacyVerifier) Verify(stored, plain string) (bool, bool) {
	if stored == "" {
		return false, false
	}
	if helpers.IsBcryptHash(stored) {
		return v.BcryptVerifier.Verify(stored, plain)
	}
	ok := subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1
	return ok, ok
}

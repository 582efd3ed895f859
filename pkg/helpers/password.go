package helpers

import "golang.org/x/crypto/bcrypt"

// PasswordCost is the bcrypt work factor for new hashes. Stored hashes with
// a lower cost are upgraded on the next successful login.
const PasswordCost = bcrypt.DefaultCost

func HashPassword(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), PasswordCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CompareHashAndPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

// IsBcryptHash tells a bcrypt hash apart from a plaintext legacy record.
func IsBcryptHash(s string) bool {
	_, err := bcrypt.Cost([]byte(s))
	return err == nil
}

// NeedsRehash reports a bcrypt hash weaker than PasswordCost.
func NeedsRehash(hash string) bool {
	cost, err := bcrypt.Cost([]byte(hash))
	return err == nil && cost < PasswordCost
}

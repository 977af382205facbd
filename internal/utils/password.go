package utils

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a bcrypt digest of plain with the given cost.
// A cost outside bcrypt's valid range falls back to the library
// default, so a missing or nonsense BCRYPT_COST never weakens hashing
// below the baseline.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// VerifyPassword reports whether plain matches the stored bcrypt
// digest. Comparison time does not depend on where the inputs differ.
func VerifyPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

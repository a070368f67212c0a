package security

import (
	"golang.org/x/crypto/bcrypt"
)

// dummyHash is compared against when a username is unknown so that failed
// logins cost the same whether or not the account exists.
var dummyHash []byte

func init() {
	h, err := bcrypt.GenerateFromPassword([]byte("worklog-dummy-password"), bcrypt.DefaultCost)
	if err != nil {
		panic(err)
	}
	dummyHash = h
}

// HashPassword returns a salted bcrypt hash of password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// ComparePasswords reports whether password matches hashedPassword.
func ComparePasswords(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// BurnComparison performs a comparison that always fails.
func BurnComparison(password string) {
	_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
}

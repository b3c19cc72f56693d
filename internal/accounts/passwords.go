package accounts

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const DefaultPasswordCost = 10

// MaxPasswordBytes is the longest input bcrypt reads. Anything past it would
// be silently ignored.
const MaxPasswordBytes = 72

var ErrPasswordTooLong = errors.New("password is longer than 72 bytes")

// Passwords hashes and checks passwords with bcrypt.
type Passwords struct {
	Cost int
}

func (p Passwords) Hash(password string) (string, error) {
	if len(password) > MaxPasswordBytes {
		return "", ErrPasswordTooLong
	}

	cost := p.Cost
	if cost == 0 {
		cost = DefaultPasswordCost
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// Matches reports whether password produces hash. Errors other than a plain
// mismatch, such as a malformed stored hash, are returned.
func (p Passwords) Matches(hash, password string) (bool, error) {
	if len(password) > MaxPasswordBytes {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

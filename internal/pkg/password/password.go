package password

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12

	// MinLength is the minimum password length accepted at signup
	MinLength = 12

	// MinCharClasses is how many of upper/lower/digit/special a password needs
	MinCharClasses = 3

	specialChars = "@#$%^&+=!"
)

// Password policy violations returned by Check
var (
	ErrEmpty    = errors.New("password is empty")
	ErrTooShort = errors.New("password is too short")
	ErrTooWeak  = errors.New("password mixes too few character classes")
)

// Hasher hashes and verifies passwords with bcrypt
type Hasher struct {
	cost int
}

// NewHasher creates a hasher with the given bcrypt cost
func NewHasher(cost int) *Hasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &Hasher{cost: cost}
}

// Hash hashes a password using bcrypt
func (h *Hasher) Hash(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a password with a hash
func (h *Hasher) Verify(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// HashToken hashes a token using SHA256 (for refresh tokens)
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// CharClasses counts how many of upper, lower, digit and special characters appear
func CharClasses(password string) int {
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r) && r < unicode.MaxASCII:
			upper = true
		case unicode.IsLower(r) && r < unicode.MaxASCII:
			lower = true
		case unicode.IsDigit(r) && r < unicode.MaxASCII:
			digit = true
		case strings.ContainsRune(specialChars, r):
			special = true
		}
	}

	n := 0
	for _, ok := range []bool{upper, lower, digit, special} {
		if ok {
			n++
		}
	}
	return n
}

// Check applies the signup password policy. Length is counted in characters.
func Check(password string) error {
	switch {
	case strings.TrimSpace(password) == "":
		return ErrEmpty
	case utf8.RuneCountInString(password) < MinLength:
		return ErrTooShort
	case CharClasses(password) < MinCharClasses:
		return ErrTooWeak
	}
	return nil
}

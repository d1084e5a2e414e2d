package services

import (
	"time"
)

// TokenIssuer mints the credentials handed out at login and refresh
type TokenIssuer interface {
	CreateToken(username string) (string, error)
	TokenValidityInSeconds() int64
	CreateRefreshToken() string
	RefreshTokenValidityInSeconds() int64
	RefreshTokenExpiry() time.Time
}

// PasswordHasher is the one-way password primitive
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// Clock returns the current time
type Clock func() time.Time

// SystemClock is the wall clock in UTC
func SystemClock() time.Time {
	return time.Now().UTC()
}

func clockOrDefault(c Clock) Clock {
	if c == nil {
		return SystemClock
	}
	return c
}

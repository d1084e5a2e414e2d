package jwt

import (
	"encoding/base64"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const bearerPrefix = "Bearer "

var (
	ErrSecretRequired = errors.New("jwt secret is required")
	ErrSecretEncoding = errors.New("jwt secret must be base64 encoded")
	ErrTokenEmpty     = errors.New("token is empty")
)

// FailureKind classifies why a token did not validate
type FailureKind string

const (
	FailureNone        FailureKind = ""
	FailureEmpty       FailureKind = "empty"
	FailureExpired     FailureKind = "expired"
	FailureMalformed   FailureKind = "malformed"
	FailureUnsupported FailureKind = "unsupported"
	FailureSignature   FailureKind = "signature"
	FailureInvalid     FailureKind = "invalid"
)

// Option configures a TokenProvider
type Option func(*TokenProvider)

// WithClock overrides the time source used for issuing and verifying tokens
func WithClock(now func() time.Time) Option {
	return func(p *TokenProvider) {
		p.now = now
	}
}

// WithFailureLogging logs why a token failed validation. Off by default.
func WithFailureLogging(enabled bool) Option {
	return func(p *TokenProvider) {
		p.logFailures = enabled
	}
}

// TokenProvider issues and verifies HS256 access tokens and opaque refresh tokens
type TokenProvider struct {
	key             []byte
	validity        time.Duration
	refreshValidity time.Duration
	now             func() time.Time
	logFailures     bool
}

// NewTokenProvider decodes the base64 secret once and builds a provider
func NewTokenProvider(secretBase64 string, validity, refreshValidity time.Duration, opts ...Option) (*TokenProvider, error) {
	secretBase64 = strings.TrimSpace(secretBase64)
	if secretBase64 == "" {
		return nil, ErrSecretRequired
	}

	key, err := base64.StdEncoding.DecodeString(secretBase64)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSecretEncoding, err)
	}
	if len(key) == 0 {
		return nil, ErrSecretRequired
	}

	p := &TokenProvider{
		key:             key,
		validity:        validity,
		refreshValidity: refreshValidity,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// CreateToken issues an access token whose subject is username
func (p *TokenProvider) CreateToken(username string) (string, error) {
	now := p.now()
	claims := jwt.RegisteredClaims{
		Subject:   username,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(p.validity)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.key)
}

// ValidateToken reports whether token is well formed, correctly signed and unexpired.
// The failure reason is logged when enabled, never returned.
func (p *TokenProvider) ValidateToken(token string) bool {
	_, err := p.parse(token)
	if err == nil {
		return true
	}
	if !p.logFailures {
		return false
	}

	switch Classify(err) {
	case FailureExpired:
		log.Printf("⚠️ Expired JWT token: %v", err)
	case FailureUnsupported:
		log.Printf("⚠️ Unsupported JWT token: %v", err)
	case FailureMalformed:
		log.Printf("⚠️ Malformed JWT token: %v", err)
	case FailureSignature:
		log.Printf("⚠️ Invalid JWT signature: %v", err)
	case FailureEmpty:
		log.Printf("⚠️ JWT token is empty: %v", err)
	default:
		log.Printf("⚠️ Invalid JWT token: %v", err)
	}
	return false
}

// GetUsernameFromToken returns the subject of a token.
// Callers validate the token first; parse failures are returned as-is.
func (p *TokenProvider) GetUsernameFromToken(token string) (string, error) {
	claims, err := p.parse(token)
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

// ResolveToken extracts the credential from an "Authorization: Bearer <token>" header value
func (p *TokenProvider) ResolveToken(authorization string) (string, bool) {
	if !strings.HasPrefix(authorization, bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(strings.TrimPrefix(authorization, bearerPrefix))
	if token == "" {
		return "", false
	}
	return token, true
}

// TokenValidityInSeconds returns the configured access token lifetime
func (p *TokenProvider) TokenValidityInSeconds() int64 {
	return int64(p.validity / time.Second)
}

// CreateRefreshToken returns a new opaque refresh token
func (p *TokenProvider) CreateRefreshToken() string {
	return uuid.NewString()
}

// RefreshTokenValidityInSeconds returns the configured refresh token lifetime
func (p *TokenProvider) RefreshTokenValidityInSeconds() int64 {
	return int64(p.refreshValidity / time.Second)
}

// RefreshTokenExpiry returns the expiry to persist with a refresh token issued now
func (p *TokenProvider) RefreshTokenExpiry() time.Time {
	return p.now().Add(p.refreshValidity)
}

func (p *TokenProvider) parse(token string) (*jwt.RegisteredClaims, error) {
	if strings.TrimSpace(token) == "" {
		return nil, ErrTokenEmpty
	}

	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: unexpected signing method %v", jwt.ErrTokenUnverifiable, t.Header["alg"])
		}
		return p.key, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(p.now),
	)
	if err != nil {
		return nil, err
	}
	if !parsed.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}
	return claims, nil
}

// Classify maps a parse error to a FailureKind
func Classify(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrTokenEmpty):
		return FailureEmpty
	case errors.Is(err, jwt.ErrTokenExpired):
		return FailureExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return FailureSignature
	case errors.Is(err, jwt.ErrTokenUnverifiable):
		return FailureUnsupported
	case errors.Is(err, jwt.ErrTokenMalformed):
		return FailureMalformed
	default:
		return FailureInvalid
	}
}

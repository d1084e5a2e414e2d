package middleware

import (
	"context"
	"log"

	"delivery-tracker/internal/core/domain"
	"delivery-tracker/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// PrincipalKey is the fiber.Ctx locals key holding the authenticated *domain.Principal
const PrincipalKey = "principal"

// TokenVerifier is the part of the token provider the interceptor needs
type TokenVerifier interface {
	ResolveToken(authorization string) (string, bool)
	ValidateToken(token string) bool
	GetUsernameFromToken(token string) (string, error)
}

// PrincipalLoader resolves a token subject to a stored user
type PrincipalLoader interface {
	LoadPrincipal(ctx context.Context, username string) (*domain.Principal, error)
}

// Authenticate establishes the principal for requests carrying a valid bearer token.
// It never rejects a request: without a principal the route's own guard decides.
func Authenticate(tokens TokenVerifier, users PrincipalLoader) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authenticate(c, tokens, users)
		return c.Next()
	}
}

func authenticate(c *fiber.Ctx, tokens TokenVerifier, users PrincipalLoader) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("❌ Authentication failed on %s: %v", c.Path(), r)
		}
	}()

	token, ok := tokens.ResolveToken(c.Get(fiber.HeaderAuthorization))
	if !ok || !tokens.ValidateToken(token) {
		return
	}

	username, err := tokens.GetUsernameFromToken(token)
	if err != nil {
		log.Printf("⚠️ Could not read token subject: %v", err)
		return
	}

	principal, err := users.LoadPrincipal(c.UserContext(), username)
	if err != nil {
		log.Printf("⚠️ Token subject %q could not be loaded: %v", username, err)
		return
	}

	c.Locals(PrincipalKey, principal)
}

// RequireAuth rejects requests that reached it without a principal
func RequireAuth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, ok := CurrentPrincipal(c); !ok {
			return response.Unauthorized(c, "인증이 필요합니다.")
		}
		return c.Next()
	}
}

// CurrentPrincipal returns the principal established by Authenticate
func CurrentPrincipal(c *fiber.Ctx) (*domain.Principal, bool) {
	principal, ok := c.Locals(PrincipalKey).(*domain.Principal)
	return principal, ok && principal != nil
}

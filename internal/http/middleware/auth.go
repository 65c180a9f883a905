package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"taskapi/internal/auth"
)

// ClaimsLocalKey is the key under which JWT stores the verified claims.
const ClaimsLocalKey = "auth_claims"

// TokenParser verifies a raw bearer token.
type TokenParser interface {
	Parse(token string) (*auth.Claims, error)
}

// JWT rejects requests without a valid, unrevoked bearer token with 401.
// Revocation lookups that fail are reported as server errors.
func JWT(tokens TokenParser, revoker auth.Revoker) fiber.Handler {
	return func(c *fiber.Ctx) error {
		raw, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}

		claims, err := tokens.Parse(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		revoked, err := revoker.IsRevoked(c.UserContext(), claims.ID)
		if err != nil {
			return err
		}
		if revoked {
			return fiber.NewError(fiber.StatusUnauthorized, "token has been revoked")
		}

		c.Locals(ClaimsLocalKey, claims)
		return c.Next()
	}
}

// ClaimsFrom returns the claims stored by JWT, or nil on unauthenticated routes.
func ClaimsFrom(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(ClaimsLocalKey).(*auth.Claims)
	return claims
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

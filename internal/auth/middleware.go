package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"clinic-backend/internal/web"
)

// RequireAuth returns a Fiber middleware that validates the Bearer token
// and sets the caller's identity on the request. Verification is local
// computation only; no I/O happens here.
func RequireAuth(issuer *TokenIssuer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			return web.UnauthorizedError("Missing auth token")
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return web.UnauthorizedError("Invalid auth header format")
		}

		claims, err := issuer.Verify(parts[1])
		if err != nil {
			return web.UnauthorizedError("Invalid or expired token")
		}

		web.SetIdentity(c, &web.Identity{
			ID:    claims.Subject,
			Email: claims.Email,
		})

		return c.Next()
	}
}

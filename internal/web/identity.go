package web

import "github.com/gofiber/fiber/v2"

// Identity is the authenticated caller, decoded from a verified token.
type Identity struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

const identityKey = "identity"

// SetIdentity attaches the authenticated identity to the request.
func SetIdentity(c *fiber.Ctx, id *Identity) {
	c.Locals(identityKey, id)
}

// IdentityFrom returns the authenticated identity, or nil if the request
// did not pass the auth guard.
func IdentityFrom(c *fiber.Ctx) *Identity {
	id, _ := c.Locals(identityKey).(*Identity)
	return id
}

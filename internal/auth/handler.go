package auth

import (
	"context"
	"errors"
	"net/mail"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"clinic-backend/internal/store"
	"clinic-backend/internal/web"
)

const minPasswordLength = 6

// UserStore is the credential-store port. Rows come back as column maps,
// matching the document store's row shape.
type UserStore interface {
	FindUserByEmail(ctx context.Context, email string) (map[string]any, error)
	CreateUser(ctx context.Context, user map[string]any) error
}

// Handler handles signup and login.
type Handler struct {
	users  UserStore
	issuer *TokenIssuer
	cost   int
}

func NewHandler(users UserStore, issuer *TokenIssuer, bcryptCost int) *Handler {
	return &Handler{users: users, issuer: issuer, cost: bcryptCost}
}

// Signup handles POST /api/auth/signup.
func (h *Handler) Signup(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
		Name     string `json:"name"`
	}
	if err := c.BodyParser(&body); err != nil {
		return web.NewAppError("INVALID_PAYLOAD", 400, "Invalid request body")
	}

	email := normalizeEmail(body.Email)
	if _, err := mail.ParseAddress(email); err != nil {
		return web.NewAppError("INVALID_PAYLOAD", 400, "Invalid email address")
	}
	if len(body.Password) < minPasswordLength {
		return web.ValidationError("Password must be at least 6 characters")
	}

	hash, err := HashPassword(body.Password, h.cost)
	if err != nil {
		return web.NewAppError("INTERNAL_ERROR", 500, "Failed to create account")
	}

	userID := uuid.New().String()
	err = h.users.CreateUser(c.Context(), map[string]any{
		"id":            userID,
		"email":         email,
		"password_hash": hash,
		"name":          body.Name,
	})
	if err != nil {
		if errors.Is(err, store.ErrUniqueViolation) {
			return web.ConflictError("An account with this email already exists")
		}
		return err
	}

	return h.respondWithToken(c, 201, "Account created", userID, email, body.Name)
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(c *fiber.Ctx) error {
	var body struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&body); err != nil {
		return web.NewAppError("INVALID_PAYLOAD", 400, "Invalid request body")
	}
	if body.Email == "" || body.Password == "" {
		return web.UnauthorizedError("Email and password are required")
	}

	user, err := h.users.FindUserByEmail(c.Context(), normalizeEmail(body.Email))
	if err != nil {
		return web.UnauthorizedError("Invalid email or password")
	}

	passwordHash, _ := user["password_hash"].(string)
	if !CheckPassword(body.Password, passwordHash) {
		return web.UnauthorizedError("Invalid email or password")
	}

	userID, _ := user["id"].(string)
	email, _ := user["email"].(string)
	name, _ := user["name"].(string)

	return h.respondWithToken(c, 200, "Logged in", userID, email, name)
}

// RegisterAuthRoutes registers auth routes on the given Fiber app.
func RegisterAuthRoutes(app *fiber.App, h *Handler) {
	grp := app.Group("/api/auth")
	grp.Post("/signup", h.Signup)
	grp.Post("/login", h.Login)
}

func (h *Handler) respondWithToken(c *fiber.Ctx, status int, message, userID, email, name string) error {
	token, err := h.issuer.Issue(userID, email)
	if err != nil {
		return web.NewAppError("INTERNAL_ERROR", 500, "Failed to generate token")
	}
	return c.Status(status).JSON(fiber.Map{
		"message": message,
		"token":   token,
		"user": fiber.Map{
			"id":    userID,
			"email": email,
			"name":  name,
		},
	})
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

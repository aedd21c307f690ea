package auth

import (
	"encoding/json"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"clinic-backend/internal/web"
)

func guardedApp(issuer *TokenIssuer) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: web.ErrorHandler})
	app.Get("/protected", RequireAuth(issuer), func(c *fiber.Ctx) error {
		return c.JSON(web.IdentityFrom(c))
	})
	return app
}

func TestRequireAuth_Rejections(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	app := guardedApp(issuer)

	expired, err := NewTokenIssuer("test-secret", -time.Minute).Issue("u1", "a@b.com")
	if err != nil {
		t.Fatalf("issue expired: %v", err)
	}
	otherSecret, err := NewTokenIssuer("other-secret", time.Hour).Issue("u1", "a@b.com")
	if err != nil {
		t.Fatalf("issue other secret: %v", err)
	}

	cases := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"no bearer prefix", "Token abc"},
		{"bare token", "abc"},
		{"invalid token", "Bearer not-a-jwt"},
		{"expired token", "Bearer " + expired},
		{"wrong secret", "Bearer " + otherSecret},
	}

	for _, tc := range cases {
		req, _ := http.NewRequest("GET", "/protected", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("%s: request failed: %v", tc.name, err)
		}
		if resp.StatusCode != 401 {
			t.Fatalf("%s: expected 401, got %d", tc.name, resp.StatusCode)
		}
	}
}

func TestRequireAuth_ValidToken(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	app := guardedApp(issuer)

	token, err := issuer.Issue("user-1", "a@b.com")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	req, _ := http.NewRequest("GET", "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	body, _ := io.ReadAll(resp.Body)
	var id web.Identity
	if err := json.Unmarshal(body, &id); err != nil {
		t.Fatalf("parse identity: %v", err)
	}
	if id.ID != "user-1" || id.Email != "a@b.com" {
		t.Fatalf("unexpected identity: %+v", id)
	}
}

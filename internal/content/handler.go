package content

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"clinic-backend/internal/store"
	"clinic-backend/internal/web"
)

// DocumentStore is the document-database port: key-value-by-id CRUD with a
// created_at sort on list.
type DocumentStore interface {
	ListDocuments(ctx context.Context, collection string) ([]map[string]any, error)
	GetDocument(ctx context.Context, collection, id string) (map[string]any, error)
	CreateDocument(ctx context.Context, collection, id string, data map[string]any) error
	UpdateDocument(ctx context.Context, collection, id string, data map[string]any) error
	DeleteDocument(ctx context.Context, collection, id string) error
}

// collections is the fixed set of public site collections. Record schemas
// are owned by the site editors; documents pass through unvalidated.
var collections = map[string]bool{
	"services":     true,
	"posts":        true,
	"team":         true,
	"testimonials": true,
}

// Handler is the pass-through CRUD layer for site content.
type Handler struct {
	docs DocumentStore
}

func NewHandler(docs DocumentStore) *Handler {
	return &Handler{docs: docs}
}

func (h *Handler) List(c *fiber.Ctx) error {
	collection, err := resolveCollection(c)
	if err != nil {
		return err
	}
	docs, err := h.docs.ListDocuments(c.Context(), collection)
	if err != nil {
		return fmt.Errorf("list %s: %w", collection, err)
	}
	return c.JSON(fiber.Map{"data": docs})
}

func (h *Handler) Get(c *fiber.Ctx) error {
	collection, err := resolveCollection(c)
	if err != nil {
		return err
	}
	id := c.Params("id")
	doc, err := h.docs.GetDocument(c.Context(), collection, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return web.NotFoundError(fmt.Sprintf("%s %s not found", collection, id))
		}
		return fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	return c.JSON(fiber.Map{"data": doc})
}

func (h *Handler) Create(c *fiber.Ctx) error {
	collection, err := resolveCollection(c)
	if err != nil {
		return err
	}
	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return web.NewAppError("INVALID_PAYLOAD", 400, "Invalid request body")
	}

	id := uuid.New().String()
	if err := h.docs.CreateDocument(c.Context(), collection, id, body); err != nil {
		return fmt.Errorf("create %s: %w", collection, err)
	}

	doc, err := h.docs.GetDocument(c.Context(), collection, id)
	if err != nil {
		return fmt.Errorf("read back %s/%s: %w", collection, id, err)
	}
	return c.Status(201).JSON(fiber.Map{"data": doc})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	collection, err := resolveCollection(c)
	if err != nil {
		return err
	}
	id := c.Params("id")
	var body map[string]any
	if err := c.BodyParser(&body); err != nil {
		return web.NewAppError("INVALID_PAYLOAD", 400, "Invalid request body")
	}

	if err := h.docs.UpdateDocument(c.Context(), collection, id, body); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return web.NotFoundError(fmt.Sprintf("%s %s not found", collection, id))
		}
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}

	doc, err := h.docs.GetDocument(c.Context(), collection, id)
	if err != nil {
		return fmt.Errorf("read back %s/%s: %w", collection, id, err)
	}
	return c.JSON(fiber.Map{"data": doc})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	collection, err := resolveCollection(c)
	if err != nil {
		return err
	}
	id := c.Params("id")
	if err := h.docs.DeleteDocument(c.Context(), collection, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return web.NotFoundError(fmt.Sprintf("%s %s not found", collection, id))
		}
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"deleted": true}})
}

// RegisterContentRoutes registers public reads and guarded mutations.
func RegisterContentRoutes(app *fiber.App, h *Handler, authMW fiber.Handler) {
	app.Get("/api/content/:collection", h.List)
	app.Get("/api/content/:collection/:id", h.Get)
	app.Post("/api/content/:collection", authMW, h.Create)
	app.Put("/api/content/:collection/:id", authMW, h.Update)
	app.Delete("/api/content/:collection/:id", authMW, h.Delete)
}

func resolveCollection(c *fiber.Ctx) (string, error) {
	name := c.Params("collection")
	if !collections[name] {
		return "", web.NotFoundError(fmt.Sprintf("Unknown collection: %s", name))
	}
	return name, nil
}

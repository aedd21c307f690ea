package media

import (
	"log"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"clinic-backend/internal/storage"
	"clinic-backend/internal/web"
)

// Handler handles authenticated media uploads and deletion.
type Handler struct {
	storage     storage.MediaStorage
	imagePolicy Policy
	mediaPolicy Policy
}

func NewHandler(s storage.MediaStorage, imagePolicy, mediaPolicy Policy) *Handler {
	return &Handler{storage: s, imagePolicy: imagePolicy, mediaPolicy: mediaPolicy}
}

// UploadImage handles POST /api/uploads/image (raster images only).
func (h *Handler) UploadImage(c *fiber.Ctx) error {
	return h.upload(c, h.imagePolicy, "images")
}

// UploadMedia handles POST /api/uploads/media (images and video).
func (h *Handler) UploadMedia(c *fiber.Ctx) error {
	return h.upload(c, h.mediaPolicy, "media")
}

func (h *Handler) upload(c *fiber.Ctx, policy Policy, folder string) error {
	file, err := c.FormFile("file")
	if err != nil {
		return web.NewAppError("INVALID_PAYLOAD", 400, "No file uploaded")
	}
	if appErr := policy.Check(file); appErr != nil {
		return appErr
	}

	src, err := file.Open()
	if err != nil {
		return web.NewAppError("INVALID_PAYLOAD", 400, "Unreadable file upload")
	}
	defer src.Close()

	obj, err := h.storage.Upload(c.Context(), folder, file.Filename, contentTypeOf(file), src)
	if err != nil {
		// Provider detail stays server-side.
		log.Printf("upload %s/%s: %v", folder, file.Filename, err)
		return web.UploadFailedError("Upload failed")
	}

	return c.Status(201).JSON(fiber.Map{
		"message":  "File uploaded",
		"imageUrl": obj.PublicURL,
		"publicId": obj.ID,
	})
}

// Remove handles DELETE /api/uploads/*. Deletion is best-effort; a failed
// delete of an orphaned object is not caller-fatal.
func (h *Handler) Remove(c *fiber.Ctx) error {
	id := c.Params("*")
	if id == "" {
		return web.NewAppError("INVALID_PAYLOAD", 400, "Missing file identifier")
	}

	deleted := h.storage.Delete(c.Context(), id)
	return c.JSON(fiber.Map{
		"message": "Delete processed",
		"deleted": deleted,
	})
}

// RegisterMediaRoutes registers upload routes behind the auth guard.
func RegisterMediaRoutes(app *fiber.App, h *Handler, authMW fiber.Handler) {
	grp := app.Group("/api/uploads", authMW)
	grp.Post("/image", h.UploadImage)
	grp.Post("/media", h.UploadMedia)
	grp.Delete("/*", h.Remove)
}

func contentTypeOf(file *multipart.FileHeader) string {
	ct := file.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return ct
}

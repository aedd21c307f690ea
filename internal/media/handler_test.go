package media

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"

	"clinic-backend/internal/auth"
	"clinic-backend/internal/storage"
	"clinic-backend/internal/web"
)

func mediaApp(t *testing.T) (*fiber.App, string, string) {
	t.Helper()
	dir := t.TempDir()
	issuer := auth.NewTokenIssuer("test-secret", time.Hour)
	token, err := issuer.Issue("admin-1", "admin@clinic.test")
	if err != nil {
		t.Fatalf("issue token: %v", err)
	}

	local := storage.NewLocalStorage(dir, "http://localhost:8080/uploads")
	h := NewHandler(local, ImagePolicy(10<<20), MediaPolicy(100<<20))

	app := fiber.New(fiber.Config{ErrorHandler: web.ErrorHandler})
	RegisterMediaRoutes(app, h, auth.RequireAuth(issuer))
	return app, token, dir
}

func multipartBody(t *testing.T, fieldName, filename, contentType string, payload []byte) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fieldName, filename))
	header.Set("Content-Type", contentType)
	part, err := w.CreatePart(header)
	if err != nil {
		t.Fatalf("create part: %v", err)
	}
	if _, err := part.Write(payload); err != nil {
		t.Fatalf("write part: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &buf, w.FormDataContentType()
}

type uploadResponse struct {
	Message  string `json:"message"`
	ImageURL string `json:"imageUrl"`
	PublicID string `json:"publicId"`
}

func TestUpload_RequiresAuth(t *testing.T) {
	app, _, _ := mediaApp(t)

	body, contentType := multipartBody(t, "file", "photo.png", "image/png", []byte("png-bytes"))
	req, _ := http.NewRequest("POST", "/api/uploads/image", body)
	req.Header.Set("Content-Type", contentType)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	// Rejected at the guard, before validation runs.
	if resp.StatusCode != 401 {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}
}

func TestUpload_Image(t *testing.T) {
	app, token, dir := mediaApp(t)

	payload := bytes.Repeat([]byte("p"), 200<<10) // 200 KB PNG
	body, contentType := multipartBody(t, "file", "hero image.png", "image/png", payload)
	req, _ := http.NewRequest("POST", "/api/uploads/image", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 201 {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("expected 201, got %d: %s", resp.StatusCode, raw)
	}

	raw, _ := io.ReadAll(resp.Body)
	var out uploadResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("parse response: %v", err)
	}
	if out.ImageURL == "" || out.PublicID == "" {
		t.Fatalf("expected url and public id, got %+v", out)
	}
	if !strings.HasPrefix(out.PublicID, "images/") {
		t.Fatalf("expected images/ folder, got %s", out.PublicID)
	}

	// The public reference must point at a retrievable, complete object.
	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(out.PublicID)))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if !bytes.Equal(stored, payload) {
		t.Fatalf("stored bytes differ: got %d, want %d", len(stored), len(payload))
	}
}

func TestUpload_MissingFile(t *testing.T) {
	app, token, _ := mediaApp(t)

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	_ = w.WriteField("caption", "no file here")
	_ = w.Close()

	req, _ := http.NewRequest("POST", "/api/uploads/image", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 400 {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
}

func TestUpload_RejectedBeforeIO(t *testing.T) {
	app, token, dir := mediaApp(t)

	body, contentType := multipartBody(t, "file", "doc.pdf", "application/pdf", []byte("%PDF-"))
	req, _ := http.NewRequest("POST", "/api/uploads/image", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 415 {
		t.Fatalf("expected 415, got %d", resp.StatusCode)
	}

	// Nothing may be written for a rejected upload.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty storage dir, found %d entries", len(entries))
	}
}

func TestUpload_MediaEndpointAllowsVideo(t *testing.T) {
	app, token, _ := mediaApp(t)

	body, contentType := multipartBody(t, "file", "visit.mp4", "video/mp4", []byte("mp4-bytes"))
	req, _ := http.NewRequest("POST", "/api/uploads/media", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 201 {
		t.Fatalf("expected 201, got %d", resp.StatusCode)
	}
}

func TestRemove_Idempotent(t *testing.T) {
	app, token, _ := mediaApp(t)

	payload := []byte("png-bytes")
	body, contentType := multipartBody(t, "file", "photo.png", "image/png", payload)
	req, _ := http.NewRequest("POST", "/api/uploads/image", body)
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var out uploadResponse
	if err := json.Unmarshal(raw, &out); err != nil {
		t.Fatalf("parse response: %v", err)
	}

	del := func() (int, bool) {
		req, _ := http.NewRequest("DELETE", "/api/uploads/"+out.PublicID, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		raw, _ := io.ReadAll(resp.Body)
		var body struct {
			Deleted bool `json:"deleted"`
		}
		if err := json.Unmarshal(raw, &body); err != nil {
			t.Fatalf("parse delete response: %v", err)
		}
		return resp.StatusCode, body.Deleted
	}

	status, deleted := del()
	if status != 200 || !deleted {
		t.Fatalf("first delete: expected deleted=true, got status=%d deleted=%v", status, deleted)
	}

	// Second delete of the same identifier must not error.
	status, deleted = del()
	if status != 200 || deleted {
		t.Fatalf("second delete: expected deleted=false, got status=%d deleted=%v", status, deleted)
	}
}

package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestObjectName(t *testing.T) {
	name := objectName("Hero Photo (1).png")
	if !strings.HasSuffix(name, ".png") {
		t.Fatalf("expected extension to be kept, got %s", name)
	}
	if strings.ContainsAny(name, " ()") {
		t.Fatalf("expected unsafe characters to be stripped, got %s", name)
	}

	// Two names for the same file must never collide.
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		n := objectName("photo.jpg")
		if seen[n] {
			t.Fatalf("duplicate object name: %s", n)
		}
		seen[n] = true
	}

	if !strings.HasPrefix(objectName("...."), "upload-") {
		t.Fatal("expected fallback base name for degenerate filenames")
	}
}

func TestLocalStorage_UploadAndDelete(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir, "http://localhost:8080/uploads")
	ctx := context.Background()

	payload := []byte("image-bytes")
	obj, err := s.Upload(ctx, "images", "photo.png", "image/png", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if !strings.HasPrefix(obj.PublicURL, "http://localhost:8080/uploads/images/") {
		t.Fatalf("unexpected public url: %s", obj.PublicURL)
	}
	if !strings.HasPrefix(obj.ID, "images/") {
		t.Fatalf("unexpected id: %s", obj.ID)
	}

	stored, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(obj.ID)))
	if err != nil {
		t.Fatalf("stored file missing: %v", err)
	}
	if !bytes.Equal(stored, payload) {
		t.Fatal("stored bytes differ from upload")
	}

	if !s.Delete(ctx, obj.ID) {
		t.Fatal("expected first delete to succeed")
	}
	if s.Delete(ctx, obj.ID) {
		t.Fatal("expected second delete to report false")
	}
}

func TestLocalStorage_ConcurrentSameName(t *testing.T) {
	dir := t.TempDir()
	s := NewLocalStorage(dir, "http://localhost:8080/uploads")
	ctx := context.Background()

	ids := make(chan string, 10)
	for i := 0; i < 10; i++ {
		go func() {
			obj, err := s.Upload(ctx, "images", "same.png", "image/png", strings.NewReader("x"))
			if err != nil {
				ids <- ""
				return
			}
			ids <- obj.ID
		}()
	}

	seen := map[string]bool{}
	for i := 0; i < 10; i++ {
		id := <-ids
		if id == "" {
			t.Fatal("upload failed")
		}
		if seen[id] {
			t.Fatalf("two uploads stored under the same id: %s", id)
		}
		seen[id] = true
	}
}

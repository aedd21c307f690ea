package storage

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"
)

// StoredObject is the durable result of a completed upload.
type StoredObject struct {
	PublicURL string
	ID        string // storage-side identifier, usable for Delete
}

// MediaStorage stores uploaded media and serves it by public URL.
// Upload either returns a complete, retrievable object or an error with
// nothing linkable left behind. Delete is best-effort: failures are logged
// and reported as false, never propagated.
type MediaStorage interface {
	Upload(ctx context.Context, folder, filename, contentType string, r io.Reader) (*StoredObject, error)
	Delete(ctx context.Context, id string) bool
}

// objectName builds a collision-resistant object name from an uploaded
// filename: {base}-{timestamp}-{random}{ext}. Concurrent uploads of the
// same file can never overwrite each other.
func objectName(filename string) string {
	ext := filepath.Ext(filename)
	base := strings.TrimSuffix(filepath.Base(filename), ext)
	base = sanitize(base)
	if base == "" {
		base = "upload"
	}
	return fmt.Sprintf("%s-%d-%s%s", base, time.Now().UnixNano(), randomHex(4), ext)
}

func sanitize(name string) string {
	var b strings.Builder
	for _, c := range name {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteRune(c)
		default:
			b.WriteRune('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

func randomHex(n int) string {
	buf := make([]byte, n)
	_, _ = rand.Read(buf)
	return hex.EncodeToString(buf)
}

package media

import (
	"fmt"
	"mime/multipart"

	"clinic-backend/internal/web"
)

// Policy is the (allowed MIME types, maximum size) pair enforced per
// endpoint before any I/O is attempted. It trusts the declared content
// type and size; bytes are never sniffed.
type Policy struct {
	Allowed  map[string]bool
	MaxBytes int64
}

var imageTypes = []string{
	"image/jpeg",
	"image/png",
	"image/gif",
	"image/webp",
}

var videoTypes = []string{
	"video/mp4",
	"video/webm",
	"video/quicktime",
}

// ImagePolicy allows raster images only.
func ImagePolicy(maxBytes int64) Policy {
	return Policy{Allowed: typeSet(imageTypes), MaxBytes: maxBytes}
}

// MediaPolicy allows images plus video containers.
func MediaPolicy(maxBytes int64) Policy {
	return Policy{Allowed: typeSet(append(append([]string{}, imageTypes...), videoTypes...)), MaxBytes: maxBytes}
}

// Check validates a file against the policy, failing fast in order:
// presence, type, size.
func (p Policy) Check(file *multipart.FileHeader) *web.AppError {
	if file == nil {
		return web.NewAppError("INVALID_PAYLOAD", 400, "No file uploaded")
	}

	contentType := file.Header.Get("Content-Type")
	if !p.Allowed[contentType] {
		return web.NewAppError("UNSUPPORTED_TYPE", 415, fmt.Sprintf("Unsupported file type: %s", contentType))
	}

	if file.Size > p.MaxBytes {
		return web.NewAppError("FILE_TOO_LARGE", 413,
			fmt.Sprintf("File too large: %d bytes (max %d)", file.Size, p.MaxBytes))
	}

	return nil
}

func typeSet(types []string) map[string]bool {
	set := make(map[string]bool, len(types))
	for _, t := range types {
		set[t] = true
	}
	return set
}

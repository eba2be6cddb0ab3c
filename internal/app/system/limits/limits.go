// internal/app/system/limits/limits.go
package limits

// Request body size limits.
const (
	// MaxJSONBody caps JSON request bodies.
	MaxJSONBody = 64 << 10 // 64 KB

	// MaxPhotoBody caps a raw JPEG frame pushed to a capture session.
	MaxPhotoBody = 16 << 20 // 16 MB
)

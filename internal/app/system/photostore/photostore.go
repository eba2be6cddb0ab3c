// Package photostore uploads captured photos to object storage under the
// owning user's namespace and returns their public URL.
package photostore

import (
	"context"
	"fmt"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/dalemusser/photoshare/internal/domain/apperr"
	"github.com/google/uuid"
)

// Store uploads a local file and returns where clients can fetch it.
type Store interface {
	Upload(ctx context.Context, userID, localPath string) (url string, err error)
}

// Key returns the object key for a photo:
// users/<uid>/photos/YYYY/MM/<uuid8>-<file>.
func Key(userID, localPath string, now time.Time) string {
	name := sanitizeName(filepath.Base(localPath))
	now = now.UTC()
	return path.Join("users", userID, "photos",
		fmt.Sprintf("%04d", now.Year()), fmt.Sprintf("%02d", int(now.Month())),
		uuid.NewString()[:8]+"-"+name)
}

func sanitizeName(name string) string {
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
	if name == "" || name == "." {
		return "photo.jpg"
	}
	return name
}

func checkUser(userID string) error {
	if userID == "" {
		return apperr.ErrNotAuthenticated
	}
	return nil
}

func joinURL(base, key string) string {
	return strings.TrimRight(base, "/") + "/" + key
}

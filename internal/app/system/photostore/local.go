package photostore

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/dalemusser/photoshare/internal/domain/apperr"
)

// Local copies photos under Root and serves them from BaseURL.
type Local struct {
	Root    string
	BaseURL string
	Now     func() time.Time
}

func (l *Local) Upload(ctx context.Context, userID, localPath string) (string, error) {
	if err := checkUser(userID); err != nil {
		return "", err
	}
	now := time.Now
	if l.Now != nil {
		now = l.Now
	}
	key := Key(userID, localPath, now())
	dst := filepath.Join(l.Root, filepath.FromSlash(key))

	if err := ctx.Err(); err != nil {
		return "", apperr.Backend("photostore.local", err)
	}
	if err := copyFile(localPath, dst); err != nil {
		return "", apperr.Backend("photostore.local", err)
	}
	return joinURL(l.BaseURL, key), nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return fmt.Errorf("copy %s: %w", filepath.Base(src), err)
	}
	return out.Close()
}

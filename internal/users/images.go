package users

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ImageStore persists uploaded profile images and returns the public path.
type ImageStore interface {
	Save(originalName string, r io.Reader) (string, error)
}

var allowedImageExt = map[string]struct{}{
	".png":  {},
	".jpg":  {},
	".jpeg": {},
	".gif":  {},
	".webp": {},
}

// DiskImages writes uploads into Dir; they are served under URLPrefix.
type DiskImages struct {
	Dir       string
	URLPrefix string
}

func (d DiskImages) Save(originalName string, r io.Reader) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if _, ok := allowedImageExt[ext]; !ok {
		return "", fmt.Errorf("%w: unsupported image type %q", ErrInvalidImage, ext)
	}
	if err := os.MkdirAll(d.Dir, 0o755); err != nil {
		return "", err
	}

	name := uuid.NewString() + ext
	f, err := os.OpenFile(filepath.Join(d.Dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", err
	}

	prefix := strings.TrimSuffix(d.URLPrefix, "/")
	if prefix == "" {
		prefix = "/uploads"
	}
	return prefix + "/" + name, nil
}

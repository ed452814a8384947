// Package images stores uploaded event images on local disk and resolves
// their public URLs from an injected base URL rather than request-time
// string concatenation.
package images

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventbooking/internal/domain"
)

// PublicPath is the URL path under which stored images are served.
const PublicPath = "/images/"

type localStore struct {
	dir     string
	baseURL string
	now     func() time.Time
}

// NewLocalStore returns an ImageStore writing files under dir. baseURL, when
// non-empty, anchors all public URLs; when empty, URLs are derived from the
// serving host of each request.
func NewLocalStore(dir, baseURL string) (domain.ImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &localStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		now:     time.Now,
	}, nil
}

func (s *localStore) Save(file io.Reader, originalName string) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	name := fmt.Sprintf("%d-%s%s", s.now().UnixMilli(), uuid.NewString()[:8], ext)

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", fmt.Errorf("create image file: %w", err)
	}
	defer dst.Close()

	if _, err := io.Copy(dst, file); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("write image file: %w", err)
	}
	return name, nil
}

func (s *localStore) Remove(storedName string) error {
	if err := os.Remove(filepath.Join(s.dir, storedName)); err != nil {
		return fmt.Errorf("remove image file: %w", err)
	}
	return nil
}

func (s *localStore) URL(requestScheme, requestHost, storedName string) string {
	if s.baseURL != "" {
		return s.baseURL + PublicPath + storedName
	}
	if requestScheme == "" {
		requestScheme = "http"
	}
	return fmt.Sprintf("%s://%s%s%s", requestScheme, requestHost, PublicPath, storedName)
}

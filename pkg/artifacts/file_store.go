package artifacts

import (
	"context"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/samvad-hq/streetview-node/internal/domain"
	"github.com/samvad-hq/streetview-node/pkg/streetview"
)

// fileStore writes images into a static files directory.
type fileStore struct {
	dir     string
	baseURL string
	now     func() time.Time
}

func newFileStore(dir, baseURL string) *fileStore {
	return &fileStore{
		dir:     strings.TrimSpace(dir),
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		now:     time.Now,
	}
}

func (f *fileStore) Type() string { return TypeFile }
func (f *fileStore) Close() error { return nil }

// Save writes the image and returns baseURL/<name>, or a file:// URL when no base is set.
func (f *fileStore) Save(ctx context.Context, img *streetview.Image) (domain.ImageArtifact, error) {
	if img == nil || len(img.Body) == 0 {
		return domain.ImageArtifact{}, fmt.Errorf("image has no data")
	}
	if err := ctx.Err(); err != nil {
		return domain.ImageArtifact{}, err
	}

	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return domain.ImageArtifact{}, fmt.Errorf("create artifact directory: %w", err)
	}

	name := objectName(img, f.now())
	path := filepath.Join(f.dir, name)
	if err := os.WriteFile(path, img.Body, 0o644); err != nil {
		return domain.ImageArtifact{}, fmt.Errorf("write artifact: %w", err)
	}

	if f.baseURL != "" {
		return artifactFor(img, f.baseURL+"/"+url.PathEscape(name)), nil
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return domain.ImageArtifact{}, fmt.Errorf("resolve artifact path: %w", err)
	}
	fileURL := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return artifactFor(img, fileURL.String()), nil
}

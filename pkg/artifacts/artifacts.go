package artifacts

import (
	"context"
	"crypto/sha1" //nolint:gosec // non-cryptographic object naming
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/streetview-node/internal/domain"
	"github.com/samvad-hq/streetview-node/pkg/streetview"
)

// Package artifacts turns fetched Street View images into image references.

// Supported store types.
const (
	TypeURL  = "url"
	TypeFile = "file"
	TypeGCS  = "gcs"
)

const defaultSignedURLTTL = 7 * 24 * time.Hour

// Store produces an image reference for a fetched image.
type Store interface {
	Type() string
	Save(ctx context.Context, img *streetview.Image) (domain.ImageArtifact, error)
	Close() error
}

// Options selects and configures a Store.
type Options struct {
	Type string

	// file store
	Dir     string
	BaseURL string

	// gcs store
	GCSBucket    string
	GCSEndpoint  string
	GCSPrefix    string
	SignedURLTTL time.Duration
}

// NewStore creates the configured artifact store.
func NewStore(ctx context.Context, opts Options) (Store, error) {
	typ := strings.TrimSpace(strings.ToLower(opts.Type))

	switch typ {
	case "", TypeURL:
		return urlStore{}, nil
	case TypeFile:
		if strings.TrimSpace(opts.Dir) == "" {
			return nil, fmt.Errorf("file artifact store requires a directory")
		}
		return newFileStore(opts.Dir, opts.BaseURL), nil
	case TypeGCS:
		if strings.TrimSpace(opts.GCSBucket) == "" {
			return nil, fmt.Errorf("gcs artifact store requires a bucket")
		}
		return newGCSStore(ctx, opts)
	default:
		return nil, fmt.Errorf("unsupported artifact store type %q", typ)
	}
}

// urlStore wraps the final resolved request URL without further I/O.
type urlStore struct{}

func (urlStore) Type() string { return TypeURL }
func (urlStore) Close() error { return nil }

func (urlStore) Save(_ context.Context, img *streetview.Image) (domain.ImageArtifact, error) {
	if img == nil || img.URL == "" {
		return domain.ImageArtifact{}, fmt.Errorf("image has no url")
	}
	return artifactFor(img, img.URL), nil
}

func artifactFor(img *streetview.Image, url string) domain.ImageArtifact {
	return domain.ImageArtifact{
		URL:         url,
		ContentType: img.ContentType,
		Bytes:       len(img.Body),
	}
}

// objectName builds streetview_<unix>_<hash><ext>; the hash keeps same-second saves apart.
func objectName(img *streetview.Image, now time.Time) string {
	sum := sha1.Sum(img.Body)
	return fmt.Sprintf("streetview_%d_%s%s", now.Unix(), hex.EncodeToString(sum[:4]), extensionFor(img.ContentType))
}

func extensionFor(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	default:
		return ".jpg"
	}
}

package artifacts

import (
	"context"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/samvad-hq/streetview-node/internal/domain"
	"github.com/samvad-hq/streetview-node/pkg/streetview"
)

// gcsBucket is the subset of bucket operations the gcs store needs.
type gcsBucket interface {
	Upload(ctx context.Context, object, contentType string, data []byte) error
	SignedURL(object string, opts *storage.SignedURLOptions) (string, error)
	Close() error
}

// gcsStore uploads images to Google Cloud Storage and returns signed URLs.
type gcsStore struct {
	bucketName string
	prefix     string
	ttl        time.Duration
	bucket     gcsBucket
	now        func() time.Time
}

func newGCSStore(ctx context.Context, opts Options) (Store, error) {
	var clientOpts []option.ClientOption
	if endpoint := strings.TrimSpace(opts.GCSEndpoint); endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(endpoint), option.WithoutAuthentication())
	}

	client, err := storage.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("create gcs client: %w", err)
	}

	ttl := opts.SignedURLTTL
	if ttl < 0 {
		ttl = defaultSignedURLTTL
	}

	return &gcsStore{
		bucketName: strings.TrimSpace(opts.GCSBucket),
		prefix:     strings.Trim(strings.TrimSpace(opts.GCSPrefix), "/"),
		ttl:        ttl,
		bucket:     &clientBucket{client: client, handle: client.Bucket(strings.TrimSpace(opts.GCSBucket))},
		now:        time.Now,
	}, nil
}

func (g *gcsStore) Type() string { return TypeGCS }

func (g *gcsStore) Close() error {
	if g == nil || g.bucket == nil {
		return nil
	}
	return g.bucket.Close()
}

// Save uploads the image. A zero TTL returns the public object URL instead of a signed one.
func (g *gcsStore) Save(ctx context.Context, img *streetview.Image) (domain.ImageArtifact, error) {
	if img == nil || len(img.Body) == 0 {
		return domain.ImageArtifact{}, fmt.Errorf("image has no data")
	}

	object := objectName(img, g.now())
	if g.prefix != "" {
		object = path.Join(g.prefix, object)
	}

	if err := g.bucket.Upload(ctx, object, img.ContentType, img.Body); err != nil {
		return domain.ImageArtifact{}, fmt.Errorf("upload %s: %w", object, err)
	}

	if g.ttl == 0 {
		public := url.URL{Scheme: "https", Host: "storage.googleapis.com", Path: "/" + g.bucketName + "/" + object}
		return artifactFor(img, public.String()), nil
	}

	signed, err := g.bucket.SignedURL(object, &storage.SignedURLOptions{
		Scheme:  storage.SigningSchemeV4,
		Method:  "GET",
		Expires: g.now().Add(g.ttl),
	})
	if err != nil {
		return domain.ImageArtifact{}, fmt.Errorf("sign url for %s: %w", object, err)
	}
	return artifactFor(img, signed), nil
}

// clientBucket adapts storage.BucketHandle to gcsBucket.
type clientBucket struct {
	client *storage.Client
	handle *storage.BucketHandle
}

func (c *clientBucket) Upload(ctx context.Context, object, contentType string, data []byte) error {
	writer := c.handle.Object(object).NewWriter(ctx)
	writer.ContentType = contentType
	writer.CacheControl = "public, max-age=604800"

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("write object: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close writer: %w", err)
	}
	return nil
}

func (c *clientBucket) SignedURL(object string, opts *storage.SignedURLOptions) (string, error) {
	return c.handle.SignedURL(object, opts)
}

func (c *clientBucket) Close() error { return c.client.Close() }

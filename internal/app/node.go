package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/samvad-hq/streetview-node/internal/config"
	"github.com/samvad-hq/streetview-node/internal/domain"
	"github.com/samvad-hq/streetview-node/internal/logger"
	"github.com/samvad-hq/streetview-node/pkg/artifacts"
	"github.com/samvad-hq/streetview-node/pkg/httpclient"
	"github.com/samvad-hq/streetview-node/pkg/publishers"
	"github.com/samvad-hq/streetview-node/pkg/schema"
	"github.com/samvad-hq/streetview-node/pkg/streetview"
)

// KindArtifact marks a fetched image that could not be stored.
const KindArtifact = "artifact"

// Fetcher performs one Street View request.
type Fetcher interface {
	Fetch(ctx context.Context, apiKey string, p streetview.Params) (*streetview.Image, error)
}

// EventPublisher publishes invocation outcomes downstream.
type EventPublisher interface {
	Publish(ctx context.Context, evt publishers.Event) (int, error)
}

// Node is the Street View node runtime. Every invocation is independent and
// always ends in a domain.Result; failures become the status output.
type Node struct {
	fetcher   Fetcher
	store     artifacts.Store
	publisher EventPublisher
	apiKey    func() string
	log       logger.Logger
	closers   []func() error
}

// Option customises a Node.
type Option func(*Node)

// WithAPIKeySource replaces the environment lookup of the API key.
func WithAPIKeySource(fn func() string) Option {
	return func(n *Node) {
		if fn != nil {
			n.apiKey = fn
		}
	}
}

// WithPublisher replaces the configured publisher fan-out.
func WithPublisher(pub EventPublisher) Option {
	return func(n *Node) { n.publisher = pub }
}

// New assembles a Node from its parts. A nil store wraps final URLs.
func New(fetcher Fetcher, store artifacts.Store, log logger.Logger, opts ...Option) *Node {
	if log == nil {
		log = logger.NopLogger{}
	}
	if store == nil {
		store, _ = artifacts.NewStore(context.Background(), artifacts.Options{Type: artifacts.TypeURL})
	}
	n := &Node{
		fetcher: fetcher,
		store:   store,
		apiKey:  config.APIKey,
		log:     log,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// NewNode builds a node runtime from config.
func NewNode(ctx context.Context, cfg *config.Config, log logger.Logger) (*Node, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = logger.NopLogger{}
	}
	if ctx == nil {
		ctx = context.Background()
	}

	client := streetview.NewClient(
		httpclient.NewRestyClient(cfg.RequestTimeout),
		streetview.WithBaseURL(cfg.StreetViewBaseURL),
	)

	store, err := artifacts.NewStore(ctx, artifacts.Options{
		Type:         cfg.ArtifactStore,
		Dir:          cfg.ArtifactDir,
		BaseURL:      cfg.ArtifactBaseURL,
		GCSBucket:    cfg.GCSBucket,
		GCSEndpoint:  cfg.GCSEndpoint,
		GCSPrefix:    cfg.GCSPrefix,
		SignedURLTTL: cfg.GCSSignedURLTTL,
	})
	if err != nil {
		return nil, fmt.Errorf("init artifact store: %w", err)
	}
	log.InfoObj("artifact store initialized", "artifact_store", map[string]any{
		"type": store.Type(),
	})

	pubCfgs, err := publishers.LoadConfigs(cfg.PublishersFile)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("load publishers: %w", err)
	}
	pubs, err := publishers.BuildAll(ctx, publishers.DefaultRegistry(), pubCfgs, log)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build publishers: %w", err)
	}
	fanout := publishers.NewFanout(pubs)
	publisherSummaries := make([]map[string]string, 0, len(pubCfgs))
	for _, pubCfg := range pubCfgs {
		publisherSummaries = append(publisherSummaries, map[string]string{
			"id":   pubCfg.ID,
			"type": pubCfg.Type,
		})
	}
	log.InfoObj("publishers loaded", "publishers_meta", map[string]any{
		"count":      fanout.Size(),
		"publishers": publisherSummaries,
	})

	n := New(client, store, log, WithPublisher(fanout))
	n.closers = append(n.closers, store.Close, fanout.Close)
	return n, nil
}

// Run executes one invocation.
func (n *Node) Run(ctx context.Context, p streetview.Params) domain.Result {
	if n == nil || n.fetcher == nil {
		return failure(fmt.Errorf("street view node is not initialized"))
	}

	p = p.WithDefaults()
	start := time.Now()

	res := n.execute(ctx, p)

	meta := map[string]any{
		"location":   p.Location,
		"elapsed_ms": time.Since(start).Milliseconds(),
	}
	if res.OK() {
		meta["image_url"] = streetview.RedactKey(res.Image.URL)
		meta["bytes"] = res.Image.Bytes
		n.log.InfoObj("street view image fetched", "streetview_result", meta)
	} else {
		meta["kind"] = res.Kind
		meta["status"] = res.Status
		n.log.ErrorObj("street view request failed", "streetview_result", meta)
	}

	n.publish(ctx, p, res)
	return res
}

// Invoke decodes a host JSON payload and runs it. Payload errors are
// returned as validation results.
func (n *Node) Invoke(ctx context.Context, raw []byte) domain.Result {
	p, err := schema.Decode(raw)
	if err != nil {
		res := failure(err)
		n.log.ErrorObj("street view payload rejected", "streetview_result", map[string]any{
			"kind":   res.Kind,
			"status": res.Status,
		})
		return res
	}
	return n.Run(ctx, p)
}

func (n *Node) execute(ctx context.Context, p streetview.Params) domain.Result {
	apiKey := n.apiKey()
	n.log.DebugObj("street view request", "streetview_request", map[string]any{
		"location":      p.Location,
		"api_key_found": apiKey != "",
	})

	img, err := n.fetcher.Fetch(ctx, apiKey, p)
	if err != nil {
		return failure(err)
	}

	art, err := n.store.Save(ctx, img)
	if err != nil {
		res := failure(fmt.Errorf("save image: %w", err))
		res.Kind = KindArtifact
		return res
	}
	return domain.Result{Image: &art}
}

func (n *Node) publish(ctx context.Context, p streetview.Params, res domain.Result) {
	if n.publisher == nil {
		return
	}
	if _, err := n.publisher.Publish(ctx, publishers.NewEvent(p, res)); err != nil {
		n.log.WarnObj("publish outcome failed", "publish_error", err.Error())
	}
}

// Close releases the artifact store and publishers.
func (n *Node) Close() error {
	if n == nil {
		return nil
	}
	var errs []error
	for _, c := range n.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func failure(err error) domain.Result {
	return domain.Result{
		Status: streetview.StatusMessage(err),
		Kind:   string(streetview.KindOf(err)),
	}
}

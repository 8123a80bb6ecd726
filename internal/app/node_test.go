package app

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/samvad-hq/streetview-node/internal/config"
	"github.com/samvad-hq/streetview-node/internal/domain"
	"github.com/samvad-hq/streetview-node/pkg/httpclient"
	"github.com/samvad-hq/streetview-node/pkg/publishers"
	"github.com/samvad-hq/streetview-node/pkg/streetview"
)

type fakeResponse struct {
	status int
	body   []byte
	header http.Header
	url    string
}

func (r fakeResponse) Body() []byte        { return r.body }
func (r fakeResponse) StatusCode() int     { return r.status }
func (r fakeResponse) Header() http.Header { return r.header }
func (r fakeResponse) FinalURL() string    { return r.url }

// countingClient answers every GET with the same status and counts calls.
type countingClient struct {
	mu     sync.Mutex
	calls  int
	status int
}

func (c *countingClient) Get(_ context.Context, u string, _ map[string]string) (httpclient.Response, error) {
	c.mu.Lock()
	c.calls++
	c.mu.Unlock()

	if c.status != http.StatusOK {
		return fakeResponse{status: c.status, header: http.Header{}, url: u}, nil
	}
	return fakeResponse{
		status: http.StatusOK,
		body:   []byte{0xFF, 0xD8, 0xFF, 0xE0},
		header: http.Header{"Content-Type": []string{"image/jpeg"}},
		url:    u,
	}, nil
}

type recordingPublisher struct {
	events []publishers.Event
	err    error
}

func (r *recordingPublisher) Publish(_ context.Context, evt publishers.Event) (int, error) {
	r.events = append(r.events, evt)
	if r.err != nil {
		return 0, r.err
	}
	return 1, nil
}

func newTestNode(status int, key string) (*Node, *countingClient, *recordingPublisher) {
	client := &countingClient{status: status}
	pub := &recordingPublisher{}
	node := New(streetview.NewClient(client), nil, nil,
		WithAPIKeySource(func() string { return key }),
		WithPublisher(pub),
	)
	return node, client, pub
}

func TestRunReturnsImageAndEmptyStatus(t *testing.T) {
	node, client, pub := newTestNode(http.StatusOK, "k")

	res := node.Run(context.Background(), streetview.DefaultParams("Colosseum, Rome"))
	if !res.OK() {
		t.Fatalf("expected success, got %#v", res)
	}
	if res.Status != "" || res.Kind != "" {
		t.Fatalf("expected empty status, got %q/%q", res.Status, res.Kind)
	}
	if !strings.Contains(res.Image.URL, "location=Colosseum") {
		t.Fatalf("expected image url to be the request url, got %s", res.Image.URL)
	}
	if client.calls != 1 {
		t.Fatalf("expected one request, got %d", client.calls)
	}
	if len(pub.events) != 1 || pub.events[0].Outcome != publishers.OutcomeSuccess {
		t.Fatalf("expected success event, got %#v", pub.events)
	}
	if strings.Contains(pub.events[0].ImageURL, "key=k") {
		t.Fatalf("event leaked api key: %s", pub.events[0].ImageURL)
	}
}

func TestRunMissingKeyMakesNoNetworkCall(t *testing.T) {
	node, client, _ := newTestNode(http.StatusOK, "")

	res := node.Run(context.Background(), streetview.DefaultParams("Colosseum, Rome"))
	if res.Image != nil {
		t.Fatalf("expected nil image")
	}
	if res.Kind != string(streetview.KindConfiguration) || !strings.Contains(res.Status, config.APIKeyEnvVar) {
		t.Fatalf("unexpected result %#v", res)
	}
	if client.calls != 0 {
		t.Fatalf("expected zero network calls, got %d", client.calls)
	}
}

func TestRunNoImageryWithReturnErrorCode(t *testing.T) {
	node, _, pub := newTestNode(http.StatusNotFound, "k")

	res := node.Run(context.Background(), streetview.DefaultParams("0,0"))
	if res.Image != nil {
		t.Fatalf("expected nil image")
	}
	want := "Failed to fetch Street View image: no Street View imagery available for this location"
	if res.Status != want {
		t.Fatalf("status = %q, want %q", res.Status, want)
	}
	if res.Kind != string(streetview.KindNoImagery) {
		t.Fatalf("unexpected kind %q", res.Kind)
	}
	if len(pub.events) != 1 || pub.events[0].Outcome != publishers.OutcomeFailure {
		t.Fatalf("expected failure event, got %#v", pub.events)
	}
}

func TestRunExactlyOneOutputPopulated(t *testing.T) {
	statuses := []int{http.StatusOK, http.StatusNotFound, http.StatusForbidden, http.StatusBadRequest, http.StatusServiceUnavailable}
	heading := 270

	for _, status := range statuses {
		for _, size := range streetview.Sizes() {
			for _, source := range streetview.Sources() {
				node, _, _ := newTestNode(status, "k")
				p := streetview.DefaultParams("Plaza Mayor, Madrid")
				p.Size = size
				p.Source = source
				p.Heading = &heading

				res := node.Run(context.Background(), p)
				hasImage := res.Image != nil
				hasStatus := res.Status != ""
				if hasImage == hasStatus {
					t.Fatalf("status %d size %s source %s: image=%v status=%q", status, size, source, hasImage, res.Status)
				}
			}
		}
	}
}

func TestInvokeRejectsInvalidPayloadWithoutRequest(t *testing.T) {
	node, client, _ := newTestNode(http.StatusOK, "k")

	for _, raw := range []string{`{"address":"x","heading":361}`, `{"address":"x","fov":9}`, `{"address":"x","pitch":91}`} {
		res := node.Invoke(context.Background(), []byte(raw))
		if res.Image != nil || res.Kind != string(streetview.KindValidation) {
			t.Fatalf("%s: unexpected result %#v", raw, res)
		}
	}
	if client.calls != 0 {
		t.Fatalf("expected zero network calls, got %d", client.calls)
	}
}

func TestInvokeRunsValidPayload(t *testing.T) {
	node, client, _ := newTestNode(http.StatusOK, "k")

	res := node.Invoke(context.Background(), []byte(`{"address":"Shibuya Crossing","fov":60,"source":"outdoor"}`))
	if !res.OK() {
		t.Fatalf("expected success, got %#v", res)
	}
	if client.calls != 1 {
		t.Fatalf("expected one request, got %d", client.calls)
	}
}

type failingStore struct{}

func (failingStore) Type() string { return "failing" }
func (failingStore) Close() error { return nil }
func (failingStore) Save(context.Context, *streetview.Image) (domain.ImageArtifact, error) {
	return domain.ImageArtifact{}, errors.New("disk full")
}

func TestRunArtifactFailureBecomesStatus(t *testing.T) {
	node := New(streetview.NewClient(&countingClient{status: http.StatusOK}), failingStore{}, nil,
		WithAPIKeySource(func() string { return "k" }))

	res := node.Run(context.Background(), streetview.DefaultParams("x"))
	if res.Image != nil || res.Kind != KindArtifact || !strings.Contains(res.Status, "disk full") {
		t.Fatalf("unexpected result %#v", res)
	}
}

func TestRunPublishFailureDoesNotChangeResult(t *testing.T) {
	node, _, pub := newTestNode(http.StatusOK, "k")
	pub.err = errors.New("sink down")

	res := node.Run(context.Background(), streetview.DefaultParams("x"))
	if !res.OK() {
		t.Fatalf("publish failure must not fail the invocation: %#v", res)
	}
}

func TestNewNodeFromConfig(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Query().Get("key") != "cfg-key" {
			t.Errorf("unexpected key %q", r.URL.Query().Get("key"))
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte{0xFF, 0xD8, 0xFF, 0xE0})
	}))
	defer srv.Close()

	var received atomic.Int32
	hook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		received.Add(1)
		w.WriteHeader(http.StatusNoContent)
	}))
	defer hook.Close()

	dir := t.TempDir()
	pubFile := filepath.Join(dir, "publishers.yaml")
	if err := os.WriteFile(pubFile, []byte("publishers:\n  - id: hook\n    type: http\n    http:\n      url: "+hook.URL+"\n"), 0o644); err != nil {
		t.Fatalf("write publishers file: %v", err)
	}

	cfg := &config.Config{
		StreetViewBaseURL: srv.URL,
		RequestTimeout:    2 * time.Second,
		ArtifactStore:     "file",
		ArtifactDir:       filepath.Join(dir, "static"),
		ArtifactBaseURL:   "http://localhost:8080/static",
		PublishersFile:    pubFile,
	}
	t.Setenv(config.APIKeyEnvVar, "cfg-key")

	node, err := NewNode(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("NewNode: %v", err)
	}
	defer node.Close()

	res := node.Run(context.Background(), streetview.DefaultParams("Acropolis, Athens"))
	if !res.OK() {
		t.Fatalf("expected success, got %#v", res)
	}
	if !strings.HasPrefix(res.Image.URL, "http://localhost:8080/static/streetview_") {
		t.Fatalf("unexpected artifact url %s", res.Image.URL)
	}
	if hits.Load() != 1 || received.Load() != 1 {
		t.Fatalf("expected one api call and one event, got %d and %d", hits.Load(), received.Load())
	}
}

func TestNewNodeRejectsBadPublishersFile(t *testing.T) {
	cfg := &config.Config{RequestTimeout: time.Second, ArtifactStore: "url", PublishersFile: filepath.Join(t.TempDir(), "missing.yaml")}
	if _, err := NewNode(context.Background(), cfg, nil); err == nil {
		t.Fatalf("expected error for missing publishers file")
	}
}

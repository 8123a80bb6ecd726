package publishers

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/samvad-hq/streetview-node/internal/domain"
	"github.com/samvad-hq/streetview-node/pkg/streetview"
)

func TestLoadConfigsEnabledFilter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.yaml")
	raw := `
publishers:
  - id: http1
    type: http
    enabled: false
    http:
      url: https://example.com
  - id: http2
    type: HTTP
    http:
      url: " https://example.com/2 "
      headers:
        X-Empty: ""
  - id: topic
    type: gcp_pubsub
    gcp_pubsub:
      project_id: demo
      topic: streetview-results
`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}

	cfgs, err := LoadConfigs(path)
	if err != nil {
		t.Fatalf("LoadConfigs: %v", err)
	}
	if len(cfgs) != 2 || cfgs[0].ID != "http2" || cfgs[1].ID != "topic" {
		t.Fatalf("unexpected enabled publishers %#v", cfgs)
	}
	h := cfgs[0].HTTP
	if h.URL != "https://example.com/2" || h.Method != "POST" || h.TimeoutSeconds != httpDefaultTimeoutSeconds || h.Headers != nil {
		t.Fatalf("http config not sanitized: %#v", h)
	}
}

func TestLoadConfigsJSONAndDuplicates(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "publishers.json")
	raw := `{"publishers":[
		{"id":"q","type":"sqs","sqs":{"uri":"https://sqs.example/q","region":"us-east-1"}},
		{"id":"q","type":"sns","sns":{"topic_arn":"arn:aws:sns:us-east-1:1:t","region":"us-east-1"}}
	]}`
	if err := os.WriteFile(path, []byte(raw), 0o644); err != nil {
		t.Fatalf("write file: %v", err)
	}
	if _, err := LoadConfigs(path); err == nil {
		t.Fatalf("expected duplicate id error")
	}
}

func TestLoadConfigsEmptyPathDisables(t *testing.T) {
	cfgs, err := LoadConfigs("  ")
	if err != nil || cfgs != nil {
		t.Fatalf("expected no publishers, got %#v %v", cfgs, err)
	}
}

func TestValidatePublisherConfig(t *testing.T) {
	invalid := []PublisherConfig{
		{Type: TypeHTTP},
		{ID: "h1", Type: TypeHTTP},
		{ID: "s1", Type: TypeSQS, SQS: &SQSPublisherConfig{QueueURL: "u"}},
		{ID: "n1", Type: TypeSNS, SNS: &SNSPublisherConfig{Region: "r"}},
		{ID: "g1", Type: TypeGCPPubSub, GCP: &GCPPubSubConfig{ProjectID: "p"}},
		{ID: "k1", Type: "kafka"},
	}
	for _, cfg := range invalid {
		if err := validatePublisherConfig(cfg); err == nil {
			t.Fatalf("expected validation error for %#v", cfg)
		}
	}
}

func TestNewEventRedactsKey(t *testing.T) {
	p := streetview.DefaultParams("Sydney Opera House")
	res := domain.Result{Image: &domain.ImageArtifact{
		URL:         "https://maps.googleapis.com/maps/api/streetview?key=secret&location=x",
		ContentType: "image/jpeg",
	}}

	evt := NewEvent(p, res)
	if evt.Outcome != OutcomeSuccess || evt.Location != "Sydney Opera House" {
		t.Fatalf("unexpected event %#v", evt)
	}
	if evt.ImageURL == "" || evt.ImageURL == res.Image.URL {
		t.Fatalf("expected redacted image url, got %q", evt.ImageURL)
	}

	failed := NewEvent(p, domain.Result{Status: "Failed", Kind: "no_imagery"})
	if failed.Outcome != OutcomeFailure || failed.ImageURL != "" {
		t.Fatalf("unexpected failure event %#v", failed)
	}
	if attrs := failed.attributes(); attrs["kind"] != "no_imagery" || attrs["outcome"] != OutcomeFailure {
		t.Fatalf("unexpected attributes %#v", attrs)
	}
}

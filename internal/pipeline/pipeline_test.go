package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"autoblog/internal/core"
	"autoblog/internal/index"
	"autoblog/internal/related"
	"autoblog/internal/seo"
	"autoblog/internal/trends"
)

type fakeSource struct {
	topic core.Topic
	err   error
}

func (f *fakeSource) Trending(ctx context.Context, hint string) (core.Topic, error) {
	if f.err != nil {
		return core.Topic{}, f.err
	}
	return f.topic, nil
}

func (f *fakeSource) GetName() string { return "fake" }

type fakeGenerator struct {
	post *core.Post
	err  error
}

func (f *fakeGenerator) GeneratePost(ctx context.Context, topic core.Topic) (*core.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	p := *f.post
	return &p, nil
}

type fakeImages struct {
	path string
	err  error
}

func (f *fakeImages) GenerateImage(ctx context.Context, topic string) (string, error) {
	return f.path, f.err
}

type fakePublisher struct {
	authorErr  error
	uploadErr  error
	createErr  error
	created    *core.PostMetadata
	assetIDArg string
}

func (f *fakePublisher) EnsureAuthor(ctx context.Context) error { return f.authorErr }

func (f *fakePublisher) UploadImage(ctx context.Context, path string) (string, error) {
	if f.uploadErr != nil {
		return "", f.uploadErr
	}
	return "image-asset-1", nil
}

func (f *fakePublisher) CreatePost(ctx context.Context, meta *core.PostMetadata, imageAssetID string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = meta
	f.assetIDArg = imageAssetID
	return "doc-1", nil
}

type fakeDeployer struct {
	called bool
	err    error
}

func (f *fakeDeployer) Trigger(ctx context.Context) error {
	f.called = true
	return f.err
}

func testPost() *core.Post {
	return &core.Post{
		Title: "Edge Computing Explained",
		Body:  "Edge computing moves processing closer to data sources for lower latency.",
	}
}

func testRunner(t *testing.T, source TopicSource, images ImageGenerator, pub Publisher, dep DeployTrigger) *Runner {
	t.Helper()
	enricher := seo.NewEnricher(seo.SiteIdentity{
		BaseURL: "https://example.com",
		OrgName: "Acme",
	}, t.TempDir(), related.NewSelectorWithSeed(1))
	registry := index.NewRegistry(filepath.Join(t.TempDir(), "index.json"))
	return NewRunner(source, &fakeGenerator{post: testPost()}, images, enricher, registry, pub, dep)
}

func TestRunPublishesAndRecords(t *testing.T) {
	pub := &fakePublisher{}
	dep := &fakeDeployer{}
	source := &fakeSource{topic: core.Topic{Keyword: "edge computing", Source: "mock"}}
	r := testRunner(t, source, nil, pub, dep)

	result, err := r.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Slug != "edge-computing-explained" {
		t.Errorf("Expected slug edge-computing-explained, got %q", result.Slug)
	}
	if result.DocumentID != "doc-1" {
		t.Errorf("Expected document ID doc-1, got %q", result.DocumentID)
	}
	if !result.Deployed || !dep.called {
		t.Error("Expected deploy webhook to fire")
	}
	if pub.created == nil || pub.created.Slug != "edge-computing-explained" {
		t.Error("Expected enriched metadata to reach the publisher")
	}

	records, err := r.registry.Load()
	if err != nil {
		t.Fatalf("Expected index load, got %v", err)
	}
	if len(records) != 1 || records[0].Slug != "edge-computing-explained" {
		t.Errorf("Expected the published post in the index, got %v", records)
	}
}

func TestRunNoTopicsIsCleanNoOp(t *testing.T) {
	pub := &fakePublisher{}
	r := testRunner(t, &fakeSource{err: trends.ErrNoTopics}, nil, pub, &fakeDeployer{})

	result, err := r.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Expected clean no-op, got %v", err)
	}
	if result.Slug != "" {
		t.Errorf("Expected empty result, got slug %q", result.Slug)
	}
	if pub.created != nil {
		t.Error("Expected nothing to be published")
	}
}

func TestRunManualTopicBypassesSource(t *testing.T) {
	source := &fakeSource{err: errors.New("source must not be called")}
	pub := &fakePublisher{}
	r := testRunner(t, source, nil, pub, &fakeDeployer{})

	result, err := r.Run(context.Background(), Options{Topic: "my chosen topic", Context: []string{"angle"}})
	if err != nil {
		t.Fatalf("Expected manual topic to bypass source, got %v", err)
	}
	if result.Topic.Keyword != "my chosen topic" || result.Topic.Source != "manual" {
		t.Errorf("Unexpected topic %+v", result.Topic)
	}
	if len(result.Topic.Context) != 1 || result.Topic.Context[0] != "angle" {
		t.Errorf("Expected provided context kept, got %v", result.Topic.Context)
	}
}

func TestRunManualTopicDefaultContext(t *testing.T) {
	source := &fakeSource{err: errors.New("source must not be called")}
	pub := &fakePublisher{}
	r := testRunner(t, source, nil, pub, &fakeDeployer{})

	result, err := r.Run(context.Background(), Options{Topic: "edge caching"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(result.Topic.Context) != 3 {
		t.Fatalf("Expected 3 default context angles, got %v", result.Topic.Context)
	}
	if result.Topic.Context[0] != "benefits of edge caching" {
		t.Errorf("Expected topic-derived first angle, got %q", result.Topic.Context[0])
	}
}

func TestRunDryRunStopsBeforePublish(t *testing.T) {
	pub := &fakePublisher{}
	dep := &fakeDeployer{}
	r := testRunner(t, &fakeSource{topic: core.Topic{Keyword: "topic"}}, nil, pub, dep)

	result, err := r.Run(context.Background(), Options{DryRun: true})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Slug == "" {
		t.Error("Expected enrichment to run in dry-run mode")
	}
	if pub.created != nil {
		t.Error("Expected no publish in dry-run mode")
	}
	if dep.called {
		t.Error("Expected no deploy trigger in dry-run mode")
	}
}

func TestRunImageFailureDoesNotBlockPost(t *testing.T) {
	pub := &fakePublisher{}
	images := &fakeImages{err: errors.New("image backend down")}
	r := testRunner(t, &fakeSource{topic: core.Topic{Keyword: "topic"}}, images, pub, &fakeDeployer{})

	result, err := r.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Expected post to publish without image, got %v", err)
	}
	if result.ImagePath != "" {
		t.Errorf("Expected no image path, got %q", result.ImagePath)
	}
	if pub.assetIDArg != "" {
		t.Errorf("Expected empty asset ID, got %q", pub.assetIDArg)
	}
}

func TestRunUploadFailureDegradesToNoImage(t *testing.T) {
	pub := &fakePublisher{uploadErr: errors.New("upload failed")}
	images := &fakeImages{path: "/tmp/pic.png"}
	r := testRunner(t, &fakeSource{topic: core.Topic{Keyword: "topic"}}, images, pub, &fakeDeployer{})

	result, err := r.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Expected post to publish despite upload failure, got %v", err)
	}
	if result.DocumentID != "doc-1" {
		t.Errorf("Expected post created, got %q", result.DocumentID)
	}
	if pub.assetIDArg != "" {
		t.Errorf("Expected empty asset ID after failed upload, got %q", pub.assetIDArg)
	}
}

func TestRunSkipImageFlag(t *testing.T) {
	images := &fakeImages{path: "/tmp/pic.png"}
	pub := &fakePublisher{}
	r := testRunner(t, &fakeSource{topic: core.Topic{Keyword: "topic"}}, images, pub, &fakeDeployer{})

	result, err := r.Run(context.Background(), Options{SkipImage: true})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.ImagePath != "" {
		t.Errorf("Expected --skip-image to suppress image generation, got %q", result.ImagePath)
	}
}

func TestRunGeneratorFailure(t *testing.T) {
	enricher := seo.NewEnricher(seo.SiteIdentity{BaseURL: "https://example.com", OrgName: "Acme"}, t.TempDir(), related.NewSelectorWithSeed(1))
	registry := index.NewRegistry(filepath.Join(t.TempDir(), "index.json"))
	r := NewRunner(
		&fakeSource{topic: core.Topic{Keyword: "topic"}},
		&fakeGenerator{err: errors.New("model unavailable")},
		nil, enricher, registry, &fakePublisher{}, &fakeDeployer{},
	)

	if _, err := r.Run(context.Background(), Options{}); err == nil {
		t.Error("Expected generator failure to fail the run")
	}
}

func TestRunDeployFailureDoesNotFailRun(t *testing.T) {
	pub := &fakePublisher{}
	dep := &fakeDeployer{err: errors.New("webhook 500")}
	r := testRunner(t, &fakeSource{topic: core.Topic{Keyword: "topic"}}, nil, pub, dep)

	result, err := r.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Expected run to succeed despite deploy failure, got %v", err)
	}
	if result.Deployed {
		t.Error("Expected Deployed to be false after webhook failure")
	}
	if result.DocumentID != "doc-1" {
		t.Error("Expected post to remain published")
	}
}

func TestRunSlugCollisionAgainstIndex(t *testing.T) {
	pub := &fakePublisher{}
	source := &fakeSource{topic: core.Topic{Keyword: "edge computing"}}
	r := testRunner(t, source, nil, pub, &fakeDeployer{})

	if err := r.registry.Save([]core.PostRecord{{Slug: "edge-computing-explained", Title: "Existing"}}); err != nil {
		t.Fatal(err)
	}

	result, err := r.Run(context.Background(), Options{})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if result.Slug != "edge-computing-explained-2" {
		t.Errorf("Expected collision-resolved slug, got %q", result.Slug)
	}
}

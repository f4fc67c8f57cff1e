package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"autoblog/internal/core"
	"autoblog/internal/index"
	"autoblog/internal/logger"
	"autoblog/internal/trends"

	"github.com/google/uuid"
)

// Runner orchestrates one end-to-end publishing run: topic selection,
// article generation, optional image generation, enrichment, publishing,
// and the deploy trigger.
type Runner struct {
	source    TopicSource
	generator PostGenerator
	images    ImageGenerator // nil disables image generation
	enricher  Enricher
	registry  *index.Registry
	publisher Publisher
	deployer  DeployTrigger
}

// NewRunner wires the pipeline components together.
func NewRunner(
	source TopicSource,
	generator PostGenerator,
	images ImageGenerator,
	enricher Enricher,
	registry *index.Registry,
	publisher Publisher,
	deployer DeployTrigger,
) *Runner {
	return &Runner{
		source:    source,
		generator: generator,
		images:    images,
		enricher:  enricher,
		registry:  registry,
		publisher: publisher,
		deployer:  deployer,
	}
}

// Options configures a single run.
type Options struct {
	Topic     string   // Manual topic override; skips the trending source
	Context   []string // Extra context phrases for a manual topic
	SkipImage bool
	DryRun    bool // Stop after enrichment without publishing
}

// Run executes the pipeline once. A source reporting no trending topics is
// a clean no-op, not a failure.
func (r *Runner) Run(ctx context.Context, opts Options) (*core.RunResult, error) {
	result := &core.RunResult{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
	}
	logger.Info("Run started", "run_id", result.RunID)

	topic, err := r.selectTopic(ctx, opts)
	if err != nil {
		if errors.Is(err, trends.ErrNoTopics) {
			logger.Info("No trending topics available, nothing to publish")
			result.FinishedAt = time.Now().UTC()
			return result, nil
		}
		return nil, err
	}
	result.Topic = topic
	logger.Info("Topic selected", "keyword", topic.Keyword, "source", topic.Source)

	post, err := r.generator.GeneratePost(ctx, topic)
	if err != nil {
		return nil, fmt.Errorf("article generation failed: %w", err)
	}
	logger.Info("Article generated", "title", post.Title, "blocks", len(post.Blocks))

	// Image generation is best effort. A failed image never blocks the post.
	if r.images != nil && !opts.SkipImage {
		imagePath, err := r.images.GenerateImage(ctx, topic.Keyword)
		if err != nil {
			logger.Warn("Image generation failed, continuing without image", "error", err.Error())
		} else {
			post.Images = append(post.Images, imagePath)
			result.ImagePath = imagePath
		}
	}

	release, err := r.registry.Lock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock post index: %w", err)
	}
	defer release()

	records, err := r.registry.Load()
	if err != nil {
		if !errors.Is(err, index.ErrCorrupt) {
			return nil, fmt.Errorf("failed to load post index: %w", err)
		}
		logger.Warn("Post index is corrupt, starting from an empty index", "path", r.registry.Path(), "error", err.Error())
	}

	meta, err := r.enricher.Enrich(*post, records)
	if err != nil {
		return nil, fmt.Errorf("enrichment failed: %w", err)
	}
	result.Slug = meta.Slug
	logger.Info("Post enriched", "slug", meta.Slug, "reading_time", meta.ReadingTime)

	if opts.DryRun {
		logger.Info("Dry run, skipping publish", "slug", meta.Slug)
		result.FinishedAt = time.Now().UTC()
		return result, nil
	}

	if err := r.publisher.EnsureAuthor(ctx); err != nil {
		return nil, err
	}

	var assetID string
	if result.ImagePath != "" {
		assetID, err = r.publisher.UploadImage(ctx, result.ImagePath)
		if err != nil {
			logger.Warn("Image upload failed, publishing without image", "error", err.Error())
			assetID = ""
		}
	}

	documentID, err := r.publisher.CreatePost(ctx, meta, assetID)
	if err != nil {
		return nil, err
	}
	result.DocumentID = documentID

	records = append(records, meta.Record())
	if err := r.registry.Save(records); err != nil {
		return nil, fmt.Errorf("failed to save post index: %w", err)
	}
	logger.Info("Post index updated", "path", r.registry.Path(), "posts", len(records))

	// The post is already live at this point, so a webhook failure only
	// means the rebuild has to be triggered by other means.
	if r.deployer != nil {
		if err := r.deployer.Trigger(ctx); err != nil {
			logger.Warn("Deploy trigger failed", "error", err.Error())
		} else {
			result.Deployed = true
		}
	}

	result.FinishedAt = time.Now().UTC()
	return result, nil
}

// selectTopic resolves the run's topic from a manual override or the
// trending source.
func (r *Runner) selectTopic(ctx context.Context, opts Options) (core.Topic, error) {
	if opts.Topic != "" {
		context := opts.Context
		if len(context) == 0 {
			context = trends.ContextFor(opts.Topic)
		}
		return core.Topic{
			Keyword: opts.Topic,
			Context: context,
			Source:  "manual",
		}, nil
	}
	topic, err := r.source.Trending(ctx, "")
	if err != nil {
		return core.Topic{}, fmt.Errorf("trending source %s failed: %w", r.source.GetName(), err)
	}
	return topic, nil
}

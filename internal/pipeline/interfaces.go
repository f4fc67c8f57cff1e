package pipeline

import (
	"context"

	"autoblog/internal/core"
)

// TopicSource supplies the trending topic that seeds a run
type TopicSource interface {
	// Trending returns one topic, optionally steered by a hint keyword
	Trending(ctx context.Context, hint string) (core.Topic, error)

	// GetName identifies the source for logging
	GetName() string
}

// PostGenerator drafts a full article for a topic
type PostGenerator interface {
	// GeneratePost produces a structured draft with typed body blocks
	GeneratePost(ctx context.Context, topic core.Topic) (*core.Post, error)
}

// ImageGenerator produces a featured image for a topic
type ImageGenerator interface {
	// GenerateImage renders an image and returns the saved file path
	GenerateImage(ctx context.Context, topic string) (string, error)
}

// Enricher normalizes a draft into publish-ready metadata
type Enricher interface {
	// Enrich fills every metadata field and resolves a unique slug
	Enrich(post core.Post, records []core.PostRecord) (*core.PostMetadata, error)
}

// Publisher pushes enriched posts to the document store
type Publisher interface {
	// EnsureAuthor upserts the bot author document
	EnsureAuthor(ctx context.Context) error

	// UploadImage uploads an image file and returns its asset ID
	UploadImage(ctx context.Context, path string) (string, error)

	// CreatePost creates the post document and returns its ID
	CreatePost(ctx context.Context, meta *core.PostMetadata, imageAssetID string) (string, error)
}

// DeployTrigger fires the site rebuild after a successful publish
type DeployTrigger interface {
	// Trigger invokes the deployment webhook
	Trigger(ctx context.Context) error
}

package trends

import (
	"context"
	"errors"

	"autoblog/internal/core"
)

var (
	// ErrNoTopics signals that the source produced no usable topic. This is
	// a normal branch for the pipeline (skip the run), not a failure.
	ErrNoTopics = errors.New("no trending topics found")

	// ErrUnsupportedProvider is returned for an unknown provider type.
	ErrUnsupportedProvider = errors.New("unsupported trends provider")
)

// Provider is a source of trending topics. Implementations return a topic
// with up to 3 context strings, or ErrNoTopics when nothing suitable exists.
type Provider interface {
	// Trending returns the selected topic. hint optionally biases selection
	// toward a subject area; providers may ignore it.
	Trending(ctx context.Context, hint string) (core.Topic, error)

	// GetName returns the name of the provider.
	GetName() string
}

// ProviderType identifies a trends provider implementation.
type ProviderType string

const (
	ProviderTypeGoogleTrends ProviderType = "google-trends"
	ProviderTypeSeed         ProviderType = "seed"
	ProviderTypeMock         ProviderType = "mock"
)

// Config holds provider construction options.
type Config struct {
	Region string   // Geo code for the trending feed; empty means global
	Seeds  []string // Curated fallback topics for the seed provider
}

// NewProvider creates a trends provider of the given type.
func NewProvider(providerType ProviderType, cfg Config) (Provider, error) {
	switch providerType {
	case ProviderTypeGoogleTrends, "":
		return NewGoogleTrendsProvider(cfg.Region), nil
	case ProviderTypeSeed:
		return NewSeedProvider(cfg.Seeds), nil
	case ProviderTypeMock:
		return NewMockProvider(), nil
	default:
		return nil, ErrUnsupportedProvider
	}
}

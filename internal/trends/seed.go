package trends

import (
	"context"
	"math/rand"
	"strings"
	"time"

	"autoblog/internal/core"
)

// defaultSeeds are the curated fallback topics used when no seed list is
// configured.
var defaultSeeds = []string{
	"AI technology",
	"software development",
	"cloud computing",
	"cybersecurity",
}

// SeedProvider picks a topic from a curated seed list. It is the offline
// fallback when the live trending feed is unavailable or yields nothing.
type SeedProvider struct {
	seeds []string
	rng   *rand.Rand
}

// NewSeedProvider creates a provider over seeds, falling back to the
// builtin list when seeds is empty.
func NewSeedProvider(seeds []string) *SeedProvider {
	if len(seeds) == 0 {
		seeds = defaultSeeds
	}
	return &SeedProvider{
		seeds: seeds,
		rng:   rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// GetName returns the name of this provider.
func (s *SeedProvider) GetName() string {
	return "Seed List"
}

// Trending returns a seed matching the hint, or a random seed when no hint
// matches. Context sub-points are canned angles on the chosen topic.
func (s *SeedProvider) Trending(ctx context.Context, hint string) (core.Topic, error) {
	if len(s.seeds) == 0 {
		return core.Topic{}, ErrNoTopics
	}

	selected := s.seeds[s.rng.Intn(len(s.seeds))]
	if hint != "" {
		lowHint := strings.ToLower(hint)
		for _, seed := range s.seeds {
			if strings.Contains(strings.ToLower(seed), lowHint) {
				selected = seed
				break
			}
		}
	}

	return core.Topic{
		Keyword: selected,
		Context: ContextFor(selected),
		Source:  "seed",
	}, nil
}

// ContextFor returns the default sub-points for a manually chosen or seeded
// topic: the same three angles a human editor would outline.
func ContextFor(topic string) []string {
	return []string{
		"benefits of " + topic,
		"implementation challenges",
		"future impact",
	}
}

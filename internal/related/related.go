package related

import (
	"math/rand"
	"time"
	"unicode/utf8"

	"autoblog/internal/core"
)

// DefaultMax is the default bound on related posts per article.
const DefaultMax = 3

const excerptLimit = 140

// Selector chooses a bounded set of related posts from the index. The
// randomness is a relevance-diversity heuristic only, so a plain seeded
// source is fine; tests inject a fixed seed for determinism.
type Selector struct {
	rng *rand.Rand
}

// NewSelector creates a selector seeded from the current time.
func NewSelector() *Selector {
	return NewSelectorWithSeed(time.Now().UnixNano())
}

// NewSelectorWithSeed creates a selector with a fixed seed.
func NewSelectorWithSeed(seed int64) *Selector {
	return &Selector{rng: rand.New(rand.NewSource(seed))}
}

// Choose returns up to max related-post summaries for the post identified by
// currentSlug. Same-category posts are preferred; the remainder is topped up
// by uniform sampling from other posts, excluding self and already-chosen
// entries. If the current post is not in the index its category is unknown
// and selection falls through to the random pool.
func (s *Selector) Choose(records []core.PostRecord, currentSlug string, max int) []core.RelatedPost {
	if max <= 0 {
		max = DefaultMax
	}

	var currentCategory string
	for _, rec := range records {
		if rec.Slug == currentSlug {
			currentCategory = rec.Category
			break
		}
	}

	var sameCategory, others []core.PostRecord
	for _, rec := range records {
		if rec.Slug == currentSlug {
			continue
		}
		if currentCategory != "" && rec.Category == currentCategory {
			sameCategory = append(sameCategory, rec)
		} else {
			others = append(others, rec)
		}
	}

	picks := s.sample(sameCategory, max)
	if len(picks) < max {
		picks = append(picks, s.sample(others, max-len(picks))...)
	}

	out := make([]core.RelatedPost, 0, len(picks))
	for _, rec := range picks {
		out = append(out, core.RelatedPost{
			Title:   rec.Title,
			Slug:    rec.Slug,
			Excerpt: truncate(rec.Excerpt, excerptLimit),
			Image:   rec.Image,
		})
	}
	return out
}

// sample draws up to n records uniformly without replacement.
func (s *Selector) sample(pool []core.PostRecord, n int) []core.PostRecord {
	if n >= len(pool) {
		out := make([]core.PostRecord, len(pool))
		copy(out, pool)
		s.rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		return out
	}
	idx := s.rng.Perm(len(pool))[:n]
	out := make([]core.PostRecord, 0, n)
	for _, i := range idx {
		out = append(out, pool[i])
	}
	return out
}

// truncate cuts s to at most limit bytes at a rune boundary.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}

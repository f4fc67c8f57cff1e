package keywords

import (
	"regexp"
	"sort"
	"strings"
)

// DefaultMax is the default cap on extracted keywords per post.
const DefaultMax = 6

var wordRegex = regexp.MustCompile(`\w+`)

// Extract derives up to max ranked keyword candidates from a title and body.
// Rank order: title terms in title order, then body tokens by descending
// frequency (ties broken by first occurrence), then adjacent-token bigrams.
// The result is deterministic for identical input and contains no duplicates.
func Extract(title, body string, max int) []string {
	if max <= 0 {
		max = DefaultMax
	}

	keywords := make([]string, 0, max)
	seen := make(map[string]bool)

	add := func(term string) bool {
		if seen[term] {
			return false
		}
		seen[term] = true
		keywords = append(keywords, term)
		return true
	}

	for _, w := range wordRegex.FindAllString(title, -1) {
		if len(w) <= 3 {
			continue
		}
		add(strings.ToLower(w))
		if len(keywords) >= max {
			return keywords
		}
	}

	tokens := wordRegex.FindAllString(strings.ToLower(body), -1)

	// Frequency-ranked single tokens. Ties resolve by first-seen position so
	// the ranking is reproducible across runs.
	type tokenCount struct {
		token string
		count int
		first int
	}
	counts := make(map[string]*tokenCount)
	var ranked []*tokenCount
	for i, t := range tokens {
		if len(t) <= 3 {
			continue
		}
		if tc, ok := counts[t]; ok {
			tc.count++
		} else {
			tc := &tokenCount{token: t, count: 1, first: i}
			counts[t] = tc
			ranked = append(ranked, tc)
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].count != ranked[j].count {
			return ranked[i].count > ranked[j].count
		}
		return ranked[i].first < ranked[j].first
	})
	for _, tc := range ranked {
		if len(keywords) >= max {
			return keywords
		}
		add(tc.token)
	}

	// Adjacent-token bigrams where both halves are long enough.
	for i := 0; i+1 < len(tokens); i++ {
		if len(keywords) >= max {
			break
		}
		if len(tokens[i]) > 3 && len(tokens[i+1]) > 3 {
			add(tokens[i] + " " + tokens[i+1])
		}
	}

	return keywords
}

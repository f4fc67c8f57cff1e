package seo

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// ErrMissingTitle is returned when a post arrives without a title.
	// This is the one hard validation failure of enrichment; everything
	// else degrades to a safe default.
	ErrMissingTitle = errors.New("post must include a title")
)

var (
	nonWordRegex    = regexp.MustCompile(`[^\w\s-]`)
	hyphenRunRegex  = regexp.MustCompile(`[-\s]+`)
	wordRegex       = regexp.MustCompile(`\w+`)
	whitespaceRegex = regexp.MustCompile(`\s+`)
)

// diacriticStripper decomposes to NFKD and drops combining marks, so
// "café" slugifies to "cafe".
var diacriticStripper = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// Slugify converts text to a URL-safe slug: lowercase, diacritics stripped,
// non-word runs collapsed to single hyphens, edge hyphens trimmed. It is
// idempotent: Slugify(Slugify(s)) == Slugify(s).
func Slugify(text string) string {
	if folded, _, err := transform.String(diacriticStripper, text); err == nil {
		text = folded
	}
	text = nonWordRegex.ReplaceAllString(text, "")
	text = strings.ToLower(strings.TrimSpace(text))
	text = hyphenRunRegex.ReplaceAllString(text, "-")
	return strings.Trim(text, "-")
}

// ShortSummary truncates text to at most maxLen characters, preferring a
// sentence boundary in the second half of the budget, then the last word
// boundary with an ellipsis marker. Whitespace runs are collapsed first.
// Text already within budget is returned verbatim.
func ShortSummary(text string, maxLen int) string {
	text = strings.TrimSpace(whitespaceRegex.ReplaceAllString(text, " "))
	if text == "" {
		return ""
	}
	if len(text) <= maxLen {
		return text
	}
	if idx := strings.Index(text[maxLen/2:], ". "); idx != -1 && maxLen/2+idx < maxLen {
		return text[:maxLen/2+idx+1]
	}
	cut := cutAt(text, maxLen)
	if sp := strings.LastIndex(cut, " "); sp > 0 {
		cut = cut[:sp]
	}
	return cut + "..."
}

// cutAt truncates s to at most n bytes without splitting a multibyte rune.
func cutAt(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// EstimateReadingTime returns reading time in whole minutes at 200 wpm,
// never less than 1 even for an empty body.
func EstimateReadingTime(text string) int {
	words := len(wordRegex.FindAllString(text, -1))
	minutes := words / 200
	if minutes < 1 {
		return 1
	}
	return minutes
}

// currentDate returns today's UTC calendar date in ISO 8601 form. Overridable
// in tests.
var currentDate = func() string {
	return time.Now().UTC().Format("2006-01-02")
}

// titleCase uppercases the first letter of each space-separated word. The
// deprecated strings.Title behavior is what the metadata templates want;
// keywords are plain ASCII tokens by construction.
func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}

// primaryKeyword returns the leading keyword with hyphens restored to
// spaces, or the pre-colon portion of the title when no keywords exist.
func primaryKeyword(title string, keywords []string) string {
	if len(keywords) > 0 {
		return strings.ReplaceAll(keywords[0], "-", " ")
	}
	return strings.TrimSpace(strings.SplitN(title, ":", 2)[0])
}

// GenerateMetaTitle builds "{Primary Keyword} | {Org}" capped at maxLen
// characters; over budget, the pre-colon title portion is word-truncated to
// fit and the org suffix is kept.
func GenerateMetaTitle(title string, keywords []string, orgName string, maxLen int) string {
	primary := primaryKeyword(title, keywords)
	candidate := fmt.Sprintf("%s | %s", titleCase(primary), orgName)
	if len(candidate) <= maxLen {
		return candidate
	}

	short := strings.SplitN(title, ":", 2)[0]
	budget := maxLen - 4
	if budget > 0 && len(short) > budget {
		short = cutAt(short, budget)
		if sp := strings.LastIndex(short, " "); sp > 0 {
			short = short[:sp]
		}
	}
	return fmt.Sprintf("%s... | %s", short, orgName)
}

// GenerateMetaDescription builds a description from the body (or title when
// the body is empty), truncated to 155 characters, prefixed with the primary
// keyword when it is not already present case-insensitively.
func GenerateMetaDescription(title, body string, keywords []string) string {
	primary := primaryKeyword(title, keywords)
	source := body
	if source == "" {
		source = title
	}
	summary := ShortSummary(source, 155)
	if !strings.Contains(strings.ToLower(summary), strings.ToLower(primary)) {
		return fmt.Sprintf("%s - %s", titleCase(primary), summary)
	}
	return summary
}

// EnsureUniqueSlug resolves desired against the taken set by appending -2,
// -3, ... until unique. The check-then-append is atomic with respect to a
// single synthesis call: the caller holds the only reference to the index
// for the duration of the run.
func EnsureUniqueSlug(desired string, taken func(string) bool) string {
	slug := desired
	counter := 1
	for taken(slug) {
		counter++
		slug = fmt.Sprintf("%s-%d", desired, counter)
	}
	return slug
}

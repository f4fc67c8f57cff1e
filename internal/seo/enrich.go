package seo

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"autoblog/internal/core"
	"autoblog/internal/keywords"
	"autoblog/internal/logger"
	"autoblog/internal/related"
)

// SiteIdentity carries the per-tenant constants the enricher needs. It is
// injected at construction so one binary can serve multiple sites.
type SiteIdentity struct {
	BaseURL    string
	OrgName    string
	LogoPath   string
	AuthorName string
	AuthorLink string
}

const (
	metaTitleLimit  = 60
	excerptLimit    = 140
	fallbackImage   = "featured-image"
	defaultCategory = "general"
	anchorLimit     = 60
)

var tocHeadingRegex = regexp.MustCompile(`(?m)^(#{2,4})\s+(.*)`)

// Enricher derives all per-post SEO metadata from a raw post and the
// current index.
type Enricher struct {
	site     SiteIdentity
	imageDir string
	selector *related.Selector
	ld       *LDBuilder
}

// NewEnricher creates an enricher for the given site. imageDir is where
// renamed post images land.
func NewEnricher(site SiteIdentity, imageDir string, selector *related.Selector) *Enricher {
	if selector == nil {
		selector = related.NewSelector()
	}
	return &Enricher{site: site, imageDir: imageDir, selector: selector, ld: NewLDBuilder(site)}
}

// Enrich produces a fully-populated PostMetadata for post against records.
// It consults the index only for slug uniqueness and related links and never
// mutates it; the caller appends the new record after a successful publish.
// The only hard failure is a missing title; every optional gap falls back to
// a derived default.
func (e *Enricher) Enrich(post core.Post, records []core.PostRecord) (*core.PostMetadata, error) {
	if strings.TrimSpace(post.Title) == "" {
		return nil, ErrMissingTitle
	}

	desired := post.Slug
	if desired == "" {
		desired = post.Title
	}
	slug := EnsureUniqueSlug(Slugify(desired), func(s string) bool {
		for _, rec := range records {
			if rec.Slug == s {
				return true
			}
		}
		return false
	})

	date := post.Date
	if date == "" {
		date = currentDate()
	}

	category := post.Category
	if category == "" {
		category = defaultCategory
	}

	excerpt := post.Excerpt
	if excerpt == "" {
		excerpt = ShortSummary(post.Body, excerptLimit)
	}

	kws := keywords.Extract(post.Title, post.Body, keywords.DefaultMax)

	meta := &core.PostMetadata{
		Title:        post.Title,
		Slug:         slug,
		Date:         date,
		Category:     category,
		Excerpt:      excerpt,
		MetaTitle:    GenerateMetaTitle(post.Title, kws, e.site.OrgName, metaTitleLimit),
		MetaDesc:     GenerateMetaDescription(post.Title, post.Body, kws),
		CanonicalURL: fmt.Sprintf("%s/blog/%s", strings.TrimRight(e.site.BaseURL, "/"), slug),
		ReadingTime:  EstimateReadingTime(post.Body),
		Keywords:     kws,
		AuthorName:   e.site.AuthorName,
		AuthorLink:   e.site.AuthorLink,
		FAQs:         GenerateFAQs(post.Title, kws, e.site.OrgName),
		TOC:          ExtractTOC(post.Body),
		RelatedPosts: e.selector.Choose(records, slug, related.DefaultMax),
		Blocks:       post.Blocks,
	}

	if images := e.renameImages(post.Images, kws); len(images) > 0 {
		meta.Image = images[0].Path
		meta.ImageAlt = images[0].Alt
		meta.ImageCaption = images[0].Caption
	}

	ld, err := json.Marshal(e.ld.Build(meta))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal structured data: %w", err)
	}
	meta.StructuredData = ld

	return meta, nil
}

// renameImages moves each post image to a deterministic keyword-derived
// filename under the configured image directory. A failed rename keeps the
// original path; it never fails the enrichment.
func (e *Enricher) renameImages(images []string, kws []string) []core.ImageMeta {
	if len(images) == 0 {
		return nil
	}

	stem := fallbackImage
	if len(kws) > 0 {
		parts := kws
		if len(parts) > 2 {
			parts = parts[:2]
		}
		joined := make([]string, len(parts))
		for i, kw := range parts {
			joined[i] = whitespaceRegex.ReplaceAllString(kw, "-")
		}
		stem = strings.Join(joined, "-")
	}

	alt := e.site.OrgName + " image"
	if len(kws) > 0 {
		alt = titleCase(strings.ReplaceAll(kws[0], "-", " ")) + " image"
	}

	out := make([]core.ImageMeta, 0, len(images))
	for i, path := range images {
		ext := filepath.Ext(path)
		if ext == "" {
			ext = ".png"
		}
		newPath := filepath.Join(e.imageDir, fmt.Sprintf("%s-%d%s", stem, i+1, ext))

		if _, err := os.Stat(path); err == nil && path != newPath {
			if err := os.MkdirAll(e.imageDir, 0755); err != nil {
				logger.Warn("Could not create image directory, keeping original path", "dir", e.imageDir, "error", err.Error())
				newPath = path
			} else if err := os.Rename(path, newPath); err != nil {
				logger.Warn("Could not rename image, keeping original path", "image", path, "error", err.Error())
				newPath = path
			}
		} else {
			newPath = path
		}

		out = append(out, core.ImageMeta{Path: newPath, Alt: alt})
	}
	return out
}

// GenerateFAQs returns the three templated FAQ entries parameterized by the
// primary keyword. Static templates, deliberately: the FAQ copy is site
// boilerplate, not model output.
func GenerateFAQs(title string, kws []string, orgName string) []core.FAQ {
	primary := primaryKeyword(title, kws)
	return []core.FAQ{
		{
			Question: fmt.Sprintf("What does %s mean for my business?", primary),
			Answer:   fmt.Sprintf("%s helps reduce admin load and improve efficiency.", titleCase(primary)),
		},
		{
			Question: "Are these services compliant and secure?",
			Answer:   fmt.Sprintf("%s follows strict data protocols and compliance standards.", orgName),
		},
		{
			Question: "How quickly can we get started?",
			Answer:   "Typical onboarding is 1-3 weeks depending on scope and training needs.",
		},
	}
}

// ExtractTOC collects markdown headings (levels 2-4) from the body. Anchor
// ids are the slugified heading text capped at 60 characters.
func ExtractTOC(body string) []core.TOCEntry {
	if body == "" {
		return nil
	}
	var entries []core.TOCEntry
	for _, m := range tocHeadingRegex.FindAllStringSubmatch(body, -1) {
		text := strings.TrimSpace(m[2])
		id := cutAt(Slugify(text), anchorLimit)
		entries = append(entries, core.TOCEntry{
			Level: len(m[1]),
			Text:  text,
			ID:    id,
		})
	}
	return entries
}

package core

import (
	"encoding/json"
	"time"
)

// Topic represents a subject selected for a generation run, either sourced
// from a trending-data provider or supplied manually on the command line.
type Topic struct {
	Keyword string   `json:"keyword"` // The main topic keyword
	Context []string `json:"context"` // Up to 3 supporting sub-points (hints, not binding)
	Source  string   `json:"source"`  // Where the topic came from (e.g., "google-trends", "seed", "manual")
}

// BlockStyle identifies the rendering style of a text block.
type BlockStyle string

const (
	StyleNormal BlockStyle = "normal" // Plain paragraph
	StyleH1     BlockStyle = "h1"     // Level 1 heading
	StyleH2     BlockStyle = "h2"     // Level 2 heading
)

// Block is one typed content block in a converted document. Exactly one of
// the two shapes is populated: text blocks carry Style/Text/Key, table blocks
// carry Rows. Block order is document reading order.
type Block struct {
	Style BlockStyle `json:"style,omitempty"` // Style for text blocks
	Text  string     `json:"text,omitempty"`  // Normalized text content
	Key   string     `json:"key,omitempty"`   // Locally-unique key within one conversion
	Rows  [][]string `json:"rows,omitempty"`  // Table rows; nil for text blocks
}

// IsTable reports whether the block is a table block.
func (b Block) IsTable() bool { return b.Rows != nil }

// Post is the raw input to enrichment: a generated or manually supplied
// article before any SEO metadata has been derived.
type Post struct {
	Title    string   `json:"title"`              // Required article title
	Slug     string   `json:"slug,omitempty"`     // Optional pre-chosen slug
	Body     string   `json:"body"`               // Plain body text (markdown-ish)
	Blocks   []Block  `json:"blocks,omitempty"`   // Body converted to typed blocks
	Images   []string `json:"images,omitempty"`   // Local image file paths
	Category string   `json:"category,omitempty"` // Optional category
	Date     string   `json:"date,omitempty"`     // Optional ISO 8601 publish date
	Excerpt  string   `json:"excerpt,omitempty"`  // Optional pre-written excerpt
}

// FAQ is one question/answer pair attached to a post.
type FAQ struct {
	Question string `json:"q"`
	Answer   string `json:"a"`
}

// TOCEntry is one table-of-contents entry extracted from a body heading.
type TOCEntry struct {
	Level int    `json:"level"` // Heading level (2-4)
	Text  string `json:"text"`  // Heading text
	ID    string `json:"id"`    // Anchor id (slugified, max 60 chars)
}

// RelatedPost is a bounded summary of another indexed post used for
// internal linking.
type RelatedPost struct {
	Title   string `json:"title"`
	Slug    string `json:"slug"`
	Excerpt string `json:"excerpt"`         // Truncated to 140 chars
	Image   string `json:"image,omitempty"` // Path of the related post's image, if any
}

// ImageMeta describes one post image after renaming and alt derivation.
type ImageMeta struct {
	Path    string `json:"path"`              // Final on-disk path
	Alt     string `json:"alt"`               // Derived alt text
	Caption string `json:"caption,omitempty"` // Optional caption
}

// PostMetadata is the fully-enriched output of a synthesis call: everything
// the publisher and the site frontend need for one post.
type PostMetadata struct {
	Title        string        `json:"title"`
	Slug         string        `json:"slug"` // Unique within the index
	Date         string        `json:"date"` // ISO 8601 calendar date (UTC)
	Category     string        `json:"category"`
	Excerpt      string        `json:"excerpt"`
	MetaTitle    string        `json:"meta_title"`
	MetaDesc     string        `json:"meta_description"`
	CanonicalURL string        `json:"canonical_url"`
	ReadingTime  int           `json:"reading_time"` // Integer minutes, minimum 1
	Keywords     []string      `json:"keywords"`     // Relevance-ranked, max 6
	Image        string        `json:"image,omitempty"`
	ImageAlt     string        `json:"image_alt,omitempty"`
	ImageCaption string        `json:"image_caption,omitempty"`
	AuthorName   string        `json:"author_name"`
	AuthorLink   string        `json:"author_link,omitempty"`
	FAQs         []FAQ         `json:"faqs"`
	TOC          []TOCEntry    `json:"toc"`
	RelatedPosts []RelatedPost `json:"related_posts"`

	// StructuredData is the serialized JSON-LD bundle (article, FAQ page,
	// breadcrumb, organization) built during enrichment.
	StructuredData json.RawMessage `json:"structured_data,omitempty"`

	Blocks []Block `json:"-"` // Carried through for publishing, not persisted in the index
}

// Record returns the subset of metadata persisted in the slug index.
func (m PostMetadata) Record() PostRecord {
	return PostRecord{
		Title:    m.Title,
		Slug:     m.Slug,
		Date:     m.Date,
		Category: m.Category,
		Excerpt:  m.Excerpt,
		Image:    m.Image,
	}
}

// PostRecord is one entry of the persisted slug index: the append-only
// system of record for slug uniqueness and related-link selection.
type PostRecord struct {
	Title    string `json:"title"`
	Slug     string `json:"slug"`
	Date     string `json:"date"`
	Category string `json:"category,omitempty"`
	Excerpt  string `json:"excerpt,omitempty"`
	Image    string `json:"image,omitempty"`
}

// RunResult summarizes one completed pipeline run.
type RunResult struct {
	RunID      string    `json:"run_id"`
	Topic      Topic     `json:"topic"`
	Slug       string    `json:"slug"`
	DocumentID string    `json:"document_id"` // ID assigned by the document store
	ImagePath  string    `json:"image_path,omitempty"`
	Deployed   bool      `json:"deployed"` // Whether the deploy webhook fired
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

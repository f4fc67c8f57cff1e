package seo

import (
	"fmt"
	"strings"

	"autoblog/internal/core"
)

const schemaContext = "https://schema.org"

// ArticleLD is the schema.org Article projection of a post.
type ArticleLD struct {
	Context          string         `json:"@context"`
	Type             string         `json:"@type"`
	MainEntityOfPage WebPageRef     `json:"mainEntityOfPage"`
	Headline         string         `json:"headline"`
	DatePublished    string         `json:"datePublished"`
	DateModified     string         `json:"dateModified"`
	Author           PersonLD       `json:"author"`
	Publisher        OrganizationLD `json:"publisher"`
	Description      string         `json:"description"`
	Image            string         `json:"image,omitempty"`
	TimeRequired     string         `json:"timeRequired,omitempty"`
}

// WebPageRef points an Article at its canonical page.
type WebPageRef struct {
	Type string `json:"@type"`
	ID   string `json:"@id"`
}

// PersonLD is a schema.org Person.
type PersonLD struct {
	Type   string `json:"@type"`
	Name   string `json:"name"`
	SameAs string `json:"sameAs,omitempty"`
}

// OrganizationLD is a schema.org Organization. Reused as both the Article
// publisher and the standalone organization object.
type OrganizationLD struct {
	Context string `json:"@context,omitempty"`
	Type    string `json:"@type"`
	Name    string `json:"name"`
	URL     string `json:"url"`
	Logo    string `json:"logo,omitempty"`
}

// FAQPageLD is a schema.org FAQPage. MainEntity is always non-nil so the
// object stays well-formed even with zero questions.
type FAQPageLD struct {
	Context    string       `json:"@context"`
	Type       string       `json:"@type"`
	MainEntity []QuestionLD `json:"mainEntity"`
}

// QuestionLD is one FAQPage question.
type QuestionLD struct {
	Type           string   `json:"@type"`
	Name           string   `json:"name"`
	AcceptedAnswer AnswerLD `json:"acceptedAnswer"`
}

// AnswerLD is the accepted answer of a question.
type AnswerLD struct {
	Type string `json:"@type"`
	Text string `json:"text"`
}

// BreadcrumbLD is a schema.org BreadcrumbList: Home / Blog / Post.
type BreadcrumbLD struct {
	Context         string       `json:"@context"`
	Type            string       `json:"@type"`
	ItemListElement []ListItemLD `json:"itemListElement"`
}

// ListItemLD is one breadcrumb entry.
type ListItemLD struct {
	Type     string `json:"@type"`
	Position int    `json:"position"`
	Name     string `json:"name"`
	Item     string `json:"item"`
}

// StructuredData bundles the four linked-data projections generated per post.
// Each is a regenerable projection of PostMetadata, never persisted on its own.
type StructuredData struct {
	Article      ArticleLD      `json:"article"`
	FAQ          FAQPageLD      `json:"faq"`
	Breadcrumb   BreadcrumbLD   `json:"breadcrumb"`
	Organization OrganizationLD `json:"organization"`
}

// LDBuilder builds linked-data objects from synthesized metadata. Pure: all
// inputs are validated before it runs, so no method can fail.
type LDBuilder struct {
	site SiteIdentity
}

// NewLDBuilder creates a builder for the given site identity.
func NewLDBuilder(site SiteIdentity) *LDBuilder {
	return &LDBuilder{site: site}
}

// Build produces all four structured-data objects for meta.
func (b *LDBuilder) Build(meta *core.PostMetadata) StructuredData {
	return StructuredData{
		Article:      b.Article(meta),
		FAQ:          b.FAQPage(meta.FAQs),
		Breadcrumb:   b.Breadcrumb(meta),
		Organization: b.Organization(),
	}
}

// Article builds the schema.org Article object.
func (b *LDBuilder) Article(meta *core.PostMetadata) ArticleLD {
	desc := meta.MetaDesc
	if len(desc) > 300 {
		desc = cutAt(desc, 300)
	}
	ld := ArticleLD{
		Context:          schemaContext,
		Type:             "Article",
		MainEntityOfPage: WebPageRef{Type: "WebPage", ID: meta.CanonicalURL},
		Headline:         meta.Title,
		DatePublished:    meta.Date,
		DateModified:     meta.Date,
		Author: PersonLD{
			Type:   "Person",
			Name:   meta.AuthorName,
			SameAs: meta.AuthorLink,
		},
		Publisher: OrganizationLD{
			Type: "Organization",
			Name: b.site.OrgName,
			URL:  b.site.BaseURL,
		},
		Description: desc,
	}
	if meta.Image != "" {
		ld.Image = b.absoluteURL(meta.Image)
	}
	if meta.ReadingTime > 0 {
		ld.TimeRequired = fmt.Sprintf("PT%dM", meta.ReadingTime)
	}
	return ld
}

// FAQPage builds the schema.org FAQPage object.
func (b *LDBuilder) FAQPage(faqs []core.FAQ) FAQPageLD {
	entities := make([]QuestionLD, 0, len(faqs))
	for _, faq := range faqs {
		entities = append(entities, QuestionLD{
			Type: "Question",
			Name: faq.Question,
			AcceptedAnswer: AnswerLD{
				Type: "Answer",
				Text: faq.Answer,
			},
		})
	}
	return FAQPageLD{
		Context:    schemaContext,
		Type:       "FAQPage",
		MainEntity: entities,
	}
}

// Breadcrumb builds the Home / Blog / Post breadcrumb trail.
func (b *LDBuilder) Breadcrumb(meta *core.PostMetadata) BreadcrumbLD {
	base := strings.TrimRight(b.site.BaseURL, "/")
	return BreadcrumbLD{
		Context: schemaContext,
		Type:    "BreadcrumbList",
		ItemListElement: []ListItemLD{
			{Type: "ListItem", Position: 1, Name: "Home", Item: base},
			{Type: "ListItem", Position: 2, Name: "Blog", Item: base + "/blog"},
			{Type: "ListItem", Position: 3, Name: meta.Title, Item: meta.CanonicalURL},
		},
	}
}

// Organization builds the standalone publisher object.
func (b *LDBuilder) Organization() OrganizationLD {
	return OrganizationLD{
		Context: schemaContext,
		Type:    "Organization",
		Name:    b.site.OrgName,
		URL:     b.site.BaseURL,
		Logo:    b.absoluteURL(b.site.LogoPath),
	}
}

// absoluteURL resolves a site-relative path against the site base URL.
func (b *LDBuilder) absoluteURL(path string) string {
	if path == "" || strings.HasPrefix(path, "http") {
		return path
	}
	return strings.TrimRight(b.site.BaseURL, "/") + "/" + strings.TrimLeft(path, "/")
}

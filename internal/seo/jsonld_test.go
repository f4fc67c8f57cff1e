package seo

import (
	"encoding/json"
	"strings"
	"testing"

	"autoblog/internal/core"
)

func testMetadata() *core.PostMetadata {
	return &core.PostMetadata{
		Title:        "Understanding Edge Caching",
		Slug:         "understanding-edge-caching",
		Date:         "2025-03-10",
		MetaDesc:     "Edge caching - what it is and when to use it.",
		CanonicalURL: "https://example.com/blog/understanding-edge-caching",
		ReadingTime:  4,
		AuthorName:   "Acme Editorial",
		AuthorLink:   "https://example.com/about",
		Image:        "static/images/edge-caching-1.png",
		FAQs: []core.FAQ{
			{Question: "What is edge caching?", Answer: "Serving content close to users."},
		},
	}
}

func TestArticleLD(t *testing.T) {
	got := NewLDBuilder(testSite).Article(testMetadata())

	if got.Context != "https://schema.org" {
		t.Errorf("Expected schema.org context, got %q", got.Context)
	}
	if got.Type != "Article" {
		t.Errorf("Expected type Article, got %q", got.Type)
	}
	if got.Headline != "Understanding Edge Caching" {
		t.Errorf("Expected headline to equal the post title, got %q", got.Headline)
	}
	if got.DatePublished != "2025-03-10" || got.DateModified != "2025-03-10" {
		t.Errorf("Expected both dates to be the post date, got %q / %q", got.DatePublished, got.DateModified)
	}
	if got.MainEntityOfPage.ID != "https://example.com/blog/understanding-edge-caching" {
		t.Errorf("Expected main entity to reference the canonical URL, got %q", got.MainEntityOfPage.ID)
	}
	if got.Author.Name != "Acme Editorial" {
		t.Errorf("Expected author name, got %q", got.Author.Name)
	}
	if got.Publisher.Name != "Acme" {
		t.Errorf("Expected publisher org name, got %q", got.Publisher.Name)
	}
	if got.TimeRequired != "PT4M" {
		t.Errorf("Expected ISO 8601 duration PT4M, got %q", got.TimeRequired)
	}
	if got.Image != "https://example.com/static/images/edge-caching-1.png" {
		t.Errorf("Expected absolute image URL, got %q", got.Image)
	}
}

func TestArticleLDDescriptionCapped(t *testing.T) {
	meta := testMetadata()
	meta.MetaDesc = strings.Repeat("x", 400)

	got := NewLDBuilder(testSite).Article(meta)
	if len(got.Description) != 300 {
		t.Errorf("Expected description capped at 300 chars, got %d", len(got.Description))
	}
}

func TestFAQPageLD(t *testing.T) {
	got := NewLDBuilder(testSite).FAQPage(testMetadata().FAQs)

	if got.Type != "FAQPage" {
		t.Errorf("Expected type FAQPage, got %q", got.Type)
	}
	if len(got.MainEntity) != 1 {
		t.Fatalf("Expected 1 question, got %d", len(got.MainEntity))
	}
	q := got.MainEntity[0]
	if q.Type != "Question" || q.Name != "What is edge caching?" {
		t.Errorf("Unexpected question %+v", q)
	}
	if q.AcceptedAnswer.Type != "Answer" || q.AcceptedAnswer.Text == "" {
		t.Errorf("Unexpected answer %+v", q.AcceptedAnswer)
	}
}

func TestFAQPageLDEmptyStillWellFormed(t *testing.T) {
	got := NewLDBuilder(testSite).FAQPage(nil)

	data, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("Expected marshal to succeed, got %v", err)
	}
	if !strings.Contains(string(data), `"mainEntity":[]`) {
		t.Errorf("Expected empty mainEntity array, got %s", data)
	}
}

func TestBreadcrumbLD(t *testing.T) {
	got := NewLDBuilder(testSite).Breadcrumb(testMetadata())

	if len(got.ItemListElement) != 3 {
		t.Fatalf("Expected 3 breadcrumb items, got %d", len(got.ItemListElement))
	}
	wantNames := []string{"Home", "Blog", "Understanding Edge Caching"}
	for i, item := range got.ItemListElement {
		if item.Position != i+1 {
			t.Errorf("Expected position %d, got %d", i+1, item.Position)
		}
		if item.Name != wantNames[i] {
			t.Errorf("Expected name %q, got %q", wantNames[i], item.Name)
		}
	}
	if got.ItemListElement[1].Item != "https://example.com/blog" {
		t.Errorf("Expected blog URL, got %q", got.ItemListElement[1].Item)
	}
	if got.ItemListElement[2].Item != "https://example.com/blog/understanding-edge-caching" {
		t.Errorf("Expected canonical URL, got %q", got.ItemListElement[2].Item)
	}
}

func TestOrganizationLD(t *testing.T) {
	got := NewLDBuilder(testSite).Organization()

	if got.Type != "Organization" || got.Name != "Acme" {
		t.Errorf("Unexpected organization %+v", got)
	}
	if got.Logo != "https://example.com/logo.png" {
		t.Errorf("Expected absolute logo URL, got %q", got.Logo)
	}
}

func TestBuildBundlesAllObjects(t *testing.T) {
	got := NewLDBuilder(testSite).Build(testMetadata())

	if got.Article.Type != "Article" || got.FAQ.Type != "FAQPage" ||
		got.Breadcrumb.Type != "BreadcrumbList" || got.Organization.Type != "Organization" {
		t.Errorf("Expected all four structured data objects to be populated")
	}
}

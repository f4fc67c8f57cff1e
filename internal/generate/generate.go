package generate

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"autoblog/internal/blocks"
	"autoblog/internal/core"
	"autoblog/internal/logger"

	"google.golang.org/genai"
)

const (
	// DefaultModel is the default Gemini model for article generation.
	DefaultModel = "gemini-2.5-flash"

	maxAttempts    = 3
	initialBackoff = 1 * time.Second
)

// ErrMalformedResponse is returned when the model output does not conform
// to the requested schema. Retried, since it may be a sampling fluke.
var ErrMalformedResponse = errors.New("generated response is missing required fields")

const systemInstruction = `You are an expert content writer for a popular tech/news blog. ` +
	`Your task is to write a highly engaging and comprehensive blog post based on the given trending topic. ` +
	`The output MUST be a single JSON object that strictly adheres to the provided schema. ` +
	`The 'body_markdown' field must contain the full article formatted using simple Markdown headings (##) and paragraphs. ` +
	`CRITICAL: Avoid using M-dashes and any Markdown artifacts like ** or * in the output. ` +
	`Write with a clear, authoritative, and friendly tone.`

// Generator produces draft posts from topics via the Gemini API.
type Generator struct {
	modelName   string
	temperature float32
	gClient     *genai.Client
}

// NewGenerator creates a generator. apiKey is required; modelName falls back
// to DefaultModel.
func NewGenerator(ctx context.Context, apiKey, modelName string, temperature float32) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if modelName == "" {
		modelName = DefaultModel
	}

	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Generator{
		modelName:   modelName,
		temperature: temperature,
		gClient:     gClient,
	}, nil
}

// draft mirrors the JSON object the model is asked to produce.
type draft struct {
	Title           string   `json:"title"`
	Slug            string   `json:"slug"`
	BodyMarkdown    string   `json:"body_markdown"`
	SEOTitle        string   `json:"seo_title"`
	MetaDescription string   `json:"meta_description"`
	Keywords        []string `json:"keywords"`
	Excerpt         string   `json:"excerpt"`
	ReadingTime     int      `json:"reading_time_minutes"`
}

// postSchema returns the response schema enforced on the model output.
func postSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title": {
				Type:        genai.TypeString,
				Description: "The engaging title of the blog post.",
			},
			"slug": {
				Type:        genai.TypeString,
				Description: "A URL-friendly version of the title (lowercase, hyphenated).",
			},
			"body_markdown": {
				Type:        genai.TypeString,
				Description: "The full article content formatted in simple Markdown (paragraphs, ## headings).",
			},
			"seo_title": {
				Type:        genai.TypeString,
				Description: "A search-optimized title under 60 characters.",
			},
			"meta_description": {
				Type:        genai.TypeString,
				Description: "A search snippet under 155 characters.",
			},
			"keywords": {
				Type:        genai.TypeArray,
				Description: "Up to 6 target keywords for the post.",
				Items:       &genai.Schema{Type: genai.TypeString},
			},
			"excerpt": {
				Type:        genai.TypeString,
				Description: "A short teaser paragraph for listing pages.",
			},
			"reading_time_minutes": {
				Type:        genai.TypeInteger,
				Description: "Estimated reading time in whole minutes.",
			},
		},
		Required: []string{"title", "slug", "body_markdown"},
	}
}

// buildUserPrompt renders the generation task. Context sub-points are passed
// as suggested H2 angles; the model may restructure freely.
func buildUserPrompt(topic core.Topic) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Write a full blog post on the trending topic: '%s'. ", topic.Keyword)
	sb.WriteString("The post must include a catchy H1 title. ")
	if len(topic.Context) > 0 {
		fmt.Fprintf(&sb, "Consider organizing the content around these sub-topics where they fit: %s. ",
			strings.Join(topic.Context, ", "))
	}
	sb.WriteString("The post should be ready for publication.")
	return sb.String()
}

// GeneratePost asks the model for a structured article draft and converts
// its body into typed blocks. Non-conforming output is retried with
// exponential backoff before being surfaced.
func (g *Generator) GeneratePost(ctx context.Context, topic core.Topic) (*core.Post, error) {
	prompt := buildUserPrompt(topic)

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: systemInstruction}},
		},
		ResponseMIMEType: "application/json",
		ResponseSchema:   postSchema(),
	}
	if g.temperature > 0 {
		config.Temperature = genai.Ptr(g.temperature)
	}

	var lastErr error
	backoff := initialBackoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		resp, err := g.gClient.Models.GenerateContent(ctx, g.modelName, contents, config)
		if err == nil {
			post, parseErr := parseDraft(resp.Text(), topic)
			if parseErr == nil {
				logger.Info("Content generated", "title", post.Title, "model", g.modelName)
				return post, nil
			}
			err = parseErr
		}

		lastErr = err
		if attempt < maxAttempts {
			logger.Warn("Generation attempt failed, retrying", "attempt", attempt, "error", err.Error())
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			backoff *= 2
		}
	}

	return nil, fmt.Errorf("failed to generate content after %d attempts: %w", maxAttempts, lastErr)
}

// parseDraft validates and converts raw model JSON into a core.Post with
// the body already converted to blocks.
func parseDraft(raw string, topic core.Topic) (*core.Post, error) {
	if raw == "" {
		return nil, fmt.Errorf("%w: empty response", ErrMalformedResponse)
	}

	var d draft
	if err := json.Unmarshal([]byte(raw), &d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if d.Title == "" || d.Slug == "" || d.BodyMarkdown == "" {
		return nil, ErrMalformedResponse
	}

	post := &core.Post{
		Title:    d.Title,
		Slug:     d.Slug,
		Body:     d.BodyMarkdown,
		Blocks:   blocks.NewConverter().Convert(d.BodyMarkdown),
		Category: categoryFor(topic),
		Excerpt:  d.Excerpt,
	}
	return post, nil
}

// categoryFor derives the post category from the topic source keyword.
func categoryFor(topic core.Topic) string {
	if topic.Keyword == "" {
		return ""
	}
	fields := strings.Fields(strings.ToLower(topic.Keyword))
	if len(fields) > 3 {
		fields = fields[:3]
	}
	return strings.Join(fields, "-")
}

package publish

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"autoblog/internal/core"
	"autoblog/internal/logger"
)

const (
	maxAttempts    = 3
	initialBackoff = 1 * time.Second
)

// Options configures the document store client.
type Options struct {
	MutateURL  string // Mutation endpoint for the project/dataset
	AssetURL   string // Image asset upload endpoint
	WriteToken string
	AuthorID   string // Fixed identifier of the bot author document
	AuthorName string
	Timeout    time.Duration
}

// Client publishes enriched posts to the Sanity document store.
type Client struct {
	opts       Options
	httpClient *http.Client
	backoff    time.Duration
}

// NewClient creates a document store client.
func NewClient(opts Options) *Client {
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.AuthorID == "" {
		opts.AuthorID = "ai-bot"
	}
	if opts.AuthorName == "" {
		opts.AuthorName = "Autoblog AI Agent"
	}
	return &Client{
		opts:       opts,
		httpClient: &http.Client{Timeout: opts.Timeout},
		backoff:    initialBackoff,
	}
}

// mutationRequest is the envelope of the mutate endpoint.
type mutationRequest struct {
	Mutations []map[string]any `json:"mutations"`
}

// mutationResponse is the subset of the mutate response we consume.
type mutationResponse struct {
	Results []struct {
		ID       string `json:"id"`
		Document struct {
			ID string `json:"_id"`
		} `json:"document"`
	} `json:"results"`
}

// EnsureAuthor upserts the fixed bot author document so post documents can
// reference it. createIfNotExists makes the call idempotent.
func (c *Client) EnsureAuthor(ctx context.Context) error {
	req := mutationRequest{
		Mutations: []map[string]any{
			{
				"createIfNotExists": map[string]any{
					"_id":   c.opts.AuthorID,
					"_type": "author",
					"name":  c.opts.AuthorName,
					"slug":  map[string]any{"_type": "slug", "current": "autoblog-ai"},
				},
			},
		},
	}

	if _, err := c.mutate(ctx, req); err != nil {
		return fmt.Errorf("failed to ensure author document %q: %w", c.opts.AuthorID, err)
	}
	logger.Info("Author document ensured", "author_id", c.opts.AuthorID)
	return nil
}

// UploadImage uploads the image file at path and returns the asset ID to
// reference from the post document.
func (c *Client) UploadImage(ctx context.Context, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read image %s: %w", path, err)
	}

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "image/png"
	}

	var assetID string
	err = c.withRetry(ctx, "asset upload", func() error {
		req, err := http.NewRequestWithContext(ctx, "POST", c.opts.AssetURL, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to create asset request: %w", err)
		}
		req.Header.Set("Content-Type", contentType)
		req.Header.Set("Authorization", "Bearer "+c.opts.WriteToken)

		body, err := c.do(req)
		if err != nil {
			return err
		}

		var parsed struct {
			Document struct {
				ID string `json:"_id"`
			} `json:"document"`
		}
		if err := json.Unmarshal(body, &parsed); err != nil {
			return fmt.Errorf("failed to parse asset response: %w", err)
		}
		if parsed.Document.ID == "" {
			return fmt.Errorf("asset response contained no document ID")
		}
		assetID = parsed.Document.ID
		return nil
	})
	if err != nil {
		return "", err
	}

	logger.Info("Image asset uploaded", "asset_id", assetID)
	return assetID, nil
}

// CreatePost creates the post document from enriched metadata. imageAssetID
// may be empty when the run produced no image. Returns the new document ID.
func (c *Client) CreatePost(ctx context.Context, meta *core.PostMetadata, imageAssetID string) (string, error) {
	doc := c.postDocument(meta, imageAssetID)
	req := mutationRequest{
		Mutations: []map[string]any{
			{"create": doc},
		},
	}

	resp, err := c.mutate(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to create post document: %w", err)
	}

	documentID := "UNKNOWN_ID"
	if len(resp.Results) > 0 {
		if resp.Results[0].Document.ID != "" {
			documentID = resp.Results[0].Document.ID
		} else if resp.Results[0].ID != "" {
			documentID = resp.Results[0].ID
		}
	}

	logger.Info("Post document created", "title", meta.Title, "document_id", documentID)
	return documentID, nil
}

// postDocument builds the store document for an enriched post.
func (c *Client) postDocument(meta *core.PostMetadata, imageAssetID string) map[string]any {
	doc := map[string]any{
		"_type":       "post",
		"title":       meta.Title,
		"slug":        map[string]any{"_type": "slug", "current": meta.Slug},
		"author":      map[string]any{"_type": "reference", "_ref": c.opts.AuthorID},
		"categories":  []any{},
		"publishedAt": time.Now().UTC().Format(time.RFC3339),
		"body":        portableText(meta.Blocks),
		"seo": map[string]any{
			"metaTitle":       meta.MetaTitle,
			"metaDescription": meta.MetaDesc,
			"canonicalUrl":    meta.CanonicalURL,
			"keywords":        meta.Keywords,
			"readingTime":     meta.ReadingTime,
		},
	}
	if imageAssetID != "" {
		doc["mainImage"] = map[string]any{
			"_type": "image",
			"asset": map[string]any{"_type": "reference", "_ref": imageAssetID},
			"alt":   meta.ImageAlt,
		}
	}
	if len(meta.StructuredData) > 0 {
		doc["structuredData"] = json.RawMessage(meta.StructuredData)
	}
	return doc
}

// portableText converts typed blocks into the store's block content format.
// Text blocks become standard portable-text blocks; tables become a custom
// table object carrying its rows.
func portableText(blocks []core.Block) []map[string]any {
	out := make([]map[string]any, 0, len(blocks))
	for i, b := range blocks {
		if b.IsTable() {
			rows := make([]map[string]any, 0, len(b.Rows))
			for j, row := range b.Rows {
				rows = append(rows, map[string]any{
					"_key":  fmt.Sprintf("row-%d-%d", i, j),
					"cells": row,
				})
			}
			out = append(out, map[string]any{
				"_type": "table",
				"_key":  fmt.Sprintf("table-%d", i),
				"rows":  rows,
			})
			continue
		}
		out = append(out, map[string]any{
			"_type": "block",
			"_key":  b.Key,
			"style": string(b.Style),
			"children": []map[string]any{
				{
					"_key":  b.Key + "-span",
					"_type": "span",
					"text":  b.Text,
					"marks": []string{},
				},
			},
		})
	}
	return out
}

// mutate posts a mutation envelope with retry.
func (c *Client) mutate(ctx context.Context, payload mutationRequest) (*mutationResponse, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal mutation: %w", err)
	}

	var parsed mutationResponse
	err = c.withRetry(ctx, "mutation", func() error {
		req, err := http.NewRequestWithContext(ctx, "POST", c.opts.MutateURL, bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("failed to create mutation request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Authorization", "Bearer "+c.opts.WriteToken)

		body, err := c.do(req)
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &parsed); err != nil {
			return fmt.Errorf("failed to parse mutation response: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &parsed, nil
}

// do executes a request and returns the response body, treating any
// non-2xx status as an error carrying the body for diagnostics.
func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("request failed with status %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// withRetry runs fn up to maxAttempts times with exponential backoff
// starting at initialBackoff. The final error is surfaced after exhaustion.
func (c *Client) withRetry(ctx context.Context, label string, fn func() error) error {
	var lastErr error
	backoff := c.backoff
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
		}
		if attempt < maxAttempts {
			logger.Warn("Publish call failed, retrying", "call", label, "attempt", attempt, "error", lastErr.Error())
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
				return ctx.Err()
			}
			backoff *= 2
		}
	}
	return fmt.Errorf("%s failed after %d attempts: %w", label, maxAttempts, lastErr)
}

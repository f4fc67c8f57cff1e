package imagegen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"autoblog/internal/logger"

	"google.golang.org/genai"
)

const (
	// DefaultImageModel is the default Gemini model for image generation.
	DefaultImageModel = "gemini-2.5-flash-image"

	// enhancerModel refines the topic into a detailed image prompt.
	enhancerModel = "gemini-2.5-flash"
)

const enhancerInstruction = `You are an expert AI image prompt engineer. Your task is to take a blog topic ` +
	`and rewrite it into a detailed, descriptive prompt for a featured blog image. ` +
	`Focus on professional, editorial, or futuristic styles depending on the topic. ` +
	`Output ONLY the refined prompt text.`

// Generator produces a featured image for a blog topic. Every failure path
// is non-fatal to the pipeline: callers get an empty path and keep going.
type Generator struct {
	modelName string
	outputDir string
	gClient   *genai.Client
}

// NewGenerator creates an image generator writing files under outputDir.
func NewGenerator(ctx context.Context, apiKey, modelName, outputDir string) (*Generator, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini API key is required")
	}
	if modelName == "" {
		modelName = DefaultImageModel
	}

	gClient, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &Generator{
		modelName: modelName,
		outputDir: outputDir,
		gClient:   gClient,
	}, nil
}

// enhancePrompt rewrites the raw topic into a detailed image prompt. On any
// failure the raw topic is used as-is.
func (g *Generator) enhancePrompt(ctx context.Context, topic string) string {
	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: topic}},
		Role:  "user",
	}}
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: enhancerInstruction}},
		},
	}

	resp, err := g.gClient.Models.GenerateContent(ctx, enhancerModel, contents, config)
	if err != nil {
		logger.Warn("Image prompt enhancement failed, using raw topic", "error", err.Error())
		return topic
	}
	if text := strings.TrimSpace(resp.Text()); text != "" {
		return text
	}
	return topic
}

// GenerateImage generates a featured image for topic and writes it to the
// output directory. Returns the saved file path, or "" when generation
// produced nothing usable.
func (g *Generator) GenerateImage(ctx context.Context, topic string) (string, error) {
	if err := os.MkdirAll(g.outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create image output directory: %w", err)
	}

	prompt := g.enhancePrompt(ctx, topic)
	logger.Info("Generating featured image", "topic", topic, "model", g.modelName)

	contents := []*genai.Content{{
		Parts: []*genai.Part{{Text: prompt}},
		Role:  "user",
	}}
	config := &genai.GenerateContentConfig{
		ResponseModalities: []string{"IMAGE"},
	}

	resp, err := g.gClient.Models.GenerateContent(ctx, g.modelName, contents, config)
	if err != nil {
		return "", fmt.Errorf("image generation failed: %w", err)
	}

	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if part.InlineData == nil || len(part.InlineData.Data) == 0 {
				continue
			}
			path := filepath.Join(g.outputDir, imageFilename(topic))
			if err := os.WriteFile(path, part.InlineData.Data, 0644); err != nil {
				return "", fmt.Errorf("failed to save generated image: %w", err)
			}
			logger.Info("Image saved", "path", path)
			return path, nil
		}
	}

	return "", fmt.Errorf("image generation returned no image data")
}

// imageFilename builds a sanitized, timestamped filename from the topic.
func imageFilename(topic string) string {
	if len(topic) > 20 {
		topic = topic[:20]
	}
	var sb strings.Builder
	for _, r := range topic {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			sb.WriteRune(r)
		} else {
			sb.WriteByte('_')
		}
	}
	return fmt.Sprintf("%s_%d.png", sb.String(), time.Now().Unix())
}

package handlers

import (
	"fmt"
	"time"

	"autoblog/internal/config"
	"autoblog/internal/generate"
	"autoblog/internal/imagegen"
	"autoblog/internal/index"
	"autoblog/internal/logger"
	"autoblog/internal/pipeline"
	"autoblog/internal/publish"
	"autoblog/internal/related"
	"autoblog/internal/seo"
	"autoblog/internal/trends"

	"github.com/spf13/cobra"
)

// NewRunCmd creates the run command that executes one publishing cycle
func NewRunCmd() *cobra.Command {
	var (
		topic     string
		topicCtx  []string
		skipImage bool
		dryRun    bool
	)

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Generate and publish one blog post",
		Long: `Execute a single publishing cycle: pick a trending topic (or use
--topic), generate an article, enrich it with SEO metadata, publish it
to the CMS, and trigger a site rebuild.

Examples:
  autoblog run
  autoblog run --topic "edge computing" --context "latency" --context "5G rollout"
  autoblog run --dry-run --skip-image`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg := config.Get()

			if err := cfg.Validate(); err != nil {
				return err
			}
			if dryRun {
				logger.Info("Dry run requested, nothing will be published")
			}

			source, err := trends.NewProvider(trends.ProviderType(cfg.Trends.Provider), trends.Config{
				Region: cfg.Trends.Region,
				Seeds:  cfg.Trends.Seeds,
			})
			if err != nil {
				return fmt.Errorf("failed to create trends provider %q: %w", cfg.Trends.Provider, err)
			}

			generator, err := generate.NewGenerator(ctx, cfg.AI.Gemini.APIKey, cfg.AI.Gemini.Model, cfg.AI.Gemini.Temperature)
			if err != nil {
				return fmt.Errorf("failed to create article generator: %w", err)
			}

			var images pipeline.ImageGenerator
			if cfg.Images.Enabled && !skipImage {
				imgGen, err := imagegen.NewGenerator(ctx, cfg.AI.Gemini.APIKey, cfg.AI.Gemini.ImageModel, cfg.Images.OutputDir)
				if err != nil {
					logger.Warn("Image generator unavailable, continuing without images", "error", err.Error())
				} else {
					images = imgGen
				}
			}

			enricher := seo.NewEnricher(seo.SiteIdentity{
				BaseURL:    cfg.Site.BaseURL,
				OrgName:    cfg.Site.OrgName,
				LogoPath:   cfg.Site.LogoPath,
				AuthorName: cfg.Site.AuthorName,
				AuthorLink: cfg.Site.AuthorLink,
			}, cfg.Images.OutputDir, related.NewSelector())

			publisher := publish.NewClient(publish.Options{
				MutateURL:  cfg.Sanity.MutateURL(),
				AssetURL:   cfg.Sanity.AssetUploadURL(),
				WriteToken: cfg.Sanity.WriteToken,
				AuthorID:   cfg.Sanity.AuthorID,
				AuthorName: cfg.Sanity.AuthorName,
				Timeout:    parseTimeout(cfg.Sanity.Timeout, 30*time.Second),
			})

			runner := pipeline.NewRunner(
				source,
				generator,
				images,
				enricher,
				index.NewRegistry(cfg.Index.Path),
				publisher,
				publish.NewDeployer(cfg.Deploy.WebhookURL),
			)

			result, err := runner.Run(ctx, pipeline.Options{
				Topic:     topic,
				Context:   topicCtx,
				SkipImage: skipImage,
				DryRun:    dryRun,
			})
			if err != nil {
				return err
			}

			if result.Slug == "" {
				fmt.Println("No topic available; nothing was published.")
				return nil
			}
			if dryRun {
				fmt.Printf("Dry run complete: %q (slug %s)\n", result.Topic.Keyword, result.Slug)
				return nil
			}
			fmt.Printf("Published %q as %s (document %s) in %s\n",
				result.Topic.Keyword, result.Slug, result.DocumentID,
				result.FinishedAt.Sub(result.StartedAt).Round(time.Second))
			return nil
		},
	}

	runCmd.Flags().StringVar(&topic, "topic", "", "Write about this topic instead of a trending one")
	runCmd.Flags().StringArrayVar(&topicCtx, "context", nil, "Context phrase for --topic (repeatable)")
	runCmd.Flags().BoolVar(&skipImage, "skip-image", false, "Skip featured image generation")
	runCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Generate and enrich but do not publish")

	return runCmd
}

// parseTimeout parses a duration string, falling back when empty or invalid.
func parseTimeout(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

package publish

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"autoblog/internal/logger"
)

// Deployer triggers a site rebuild after publishing.
type Deployer struct {
	webhookURL string
	httpClient *http.Client
}

// NewDeployer creates a deploy hook trigger. An empty webhook URL disables it.
func NewDeployer(webhookURL string) *Deployer {
	return &Deployer{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Trigger fires the deployment webhook. A missing URL is not an error;
// the run simply logs that the rebuild was skipped.
func (d *Deployer) Trigger(ctx context.Context) error {
	if d.webhookURL == "" {
		logger.Info("No deployment webhook configured, skipping rebuild trigger")
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, "POST", d.webhookURL, strings.NewReader(""))
	if err != nil {
		return fmt.Errorf("failed to create webhook request: %w", err)
	}

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("deployment webhook failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("deployment webhook returned status %d: %s", resp.StatusCode, string(body))
	}

	logger.Info("Deployment triggered", "status", resp.StatusCode)
	return nil
}

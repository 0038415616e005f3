package render

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// KrokiRenderer renders through a Kroki server (https://kroki.io), which
// hosts Mermaid behind a plain HTTP endpoint.
type KrokiRenderer struct {
	BaseURL string
	Client  *http.Client
}

// Render posts the source to <BaseURL>/mermaid/svg.
func (k *KrokiRenderer) Render(ctx context.Context, source string) (string, error) {
	url := strings.TrimRight(k.BaseURL, "/") + "/mermaid/svg"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, strings.NewReader(source))
	if err != nil {
		return "", fmt.Errorf("building kroki request: %w", err)
	}
	req.Header.Set("Content-Type", "text/plain")
	req.Header.Set("Accept", "image/svg+xml")

	client := k.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("calling kroki: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading kroki response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("kroki returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	return string(body), nil
}

// cobalt conversion proxy client
package services

import (
	"context"
	"fmt"

	"github.com/desertthunder/spdl/internal/shared"
)

const defaultConversionURL = "https://co.wuk.sh/api/json"

type conversionRequest struct {
	URL         string `json:"url"`
	IsAudioOnly string `json:"isAudioOnly"`
}

type conversionResponse struct {
	Status string `json:"status,omitempty"`
	Text   string `json:"text,omitempty"`
	URL    string `json:"url"`
}

// CobaltService requests audio-only conversions from a cobalt-compatible proxy.
type CobaltService struct {
	endpoint  string
	transport Transport
}

// NewCobaltService creates a conversion client for endpoint.
func NewCobaltService(endpoint string, transport Transport) *CobaltService {
	if endpoint == "" {
		endpoint = defaultConversionURL
	}
	return &CobaltService{endpoint: endpoint, transport: transport}
}

func (c *CobaltService) Name() string {
	return "cobalt"
}

// Convert POSTs {"url": videoURL, "isAudioOnly": "true"} and returns the direct link from the response.
func (c *CobaltService) Convert(ctx context.Context, videoURL string) (*DownloadTarget, error) {
	body := conversionRequest{URL: videoURL, IsAudioOnly: "true"}

	var resp conversionResponse
	if err := c.transport.PostJSON(ctx, c.endpoint, nil, body, &resp); err != nil {
		return nil, fmt.Errorf("failed to convert %s: %w", videoURL, err)
	}

	if resp.URL == "" {
		if resp.Text != "" {
			return nil, fmt.Errorf("%w: %s (status %q)", shared.ErrMissingDownloadURL, resp.Text, resp.Status)
		}
		return nil, fmt.Errorf("%w: %s", shared.ErrMissingDownloadURL, videoURL)
	}

	return &DownloadTarget{
		URL:       resp.URL,
		Source:    videoURL,
		AudioOnly: true,
	}, nil
}

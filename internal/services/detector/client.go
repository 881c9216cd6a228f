// Package detector is the HTTP client for the external detection provider.
package detector

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"chickeye-backend-go/internal/models"
)

// Client talks to the model server's predict endpoint. Failures are
// returned to the caller; sessions degrade them to an empty detection list
// rather than terminating.
type Client struct {
	endpoint   string
	confidence float64
	httpClient *http.Client
}

type predictRequest struct {
	Image      string  `json:"image"`
	Confidence float64 `json:"confidence"`
}

type predictResponse struct {
	Detections []models.Detection `json:"detections"`
}

func NewClient(endpoint string, confidence float64, timeout time.Duration) *Client {
	return &Client{
		endpoint:   endpoint,
		confidence: confidence,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Detect sends a JPEG-encoded frame to the provider and returns the raw
// detections. An absent detections field counts as an empty list; any
// transport error, non-success status, or malformed body is an error.
func (c *Client) Detect(ctx context.Context, image []byte) ([]models.Detection, error) {
	body, err := json.Marshal(predictRequest{
		Image:      base64.StdEncoding.EncodeToString(image),
		Confidence: c.confidence,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal predict request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build predict request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("predict call failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("predict call returned status %d", resp.StatusCode)
	}

	var parsed predictResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("failed to decode predict response: %w", err)
	}

	if parsed.Detections == nil {
		return []models.Detection{}, nil
	}
	return parsed.Detections, nil
}

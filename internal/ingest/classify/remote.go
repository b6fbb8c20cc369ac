package classify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds one remote classification round-trip.
const DefaultTimeout = 15 * time.Second

// RemoteClassifier calls the external classification service with a batch of
// distinct descriptions and an auth token.
type RemoteClassifier struct {
	client  *http.Client
	baseURL string
	token   string
}

// NewRemoteClassifier builds a classifier against the given service URL.
func NewRemoteClassifier(baseURL, token string) *RemoteClassifier {
	return &RemoteClassifier{
		client:  &http.Client{Timeout: DefaultTimeout},
		baseURL: baseURL,
		token:   token,
	}
}

type classifyRequest struct {
	Descriptions []string `json:"descriptions"`
}

type classifyResponse struct {
	Categories map[string]string `json:"categories"`
}

// Classify posts the batch and returns the description→category mapping.
// Descriptions the service had no confident prediction for are absent from
// the result.
func (c *RemoteClassifier) Classify(ctx context.Context, descriptions []string) (map[string]string, error) {
	if len(descriptions) == 0 {
		return map[string]string{}, nil
	}

	payload, err := json.Marshal(classifyRequest{Descriptions: descriptions})
	if err != nil {
		return nil, fmt.Errorf("marshal classify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/classify", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create classify request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("classify call: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read classify response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("classify service returned %d: %s", resp.StatusCode, body)
	}

	var out classifyResponse
	if err := json.Unmarshal(body, &out); err != nil {
		return nil, fmt.Errorf("decode classify response: %w", err)
	}
	if out.Categories == nil {
		out.Categories = map[string]string{}
	}
	return out.Categories, nil
}

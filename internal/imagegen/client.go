// Package imagegen synthesizes post illustrations via the Cloudflare
// Workers AI REST API.
//
// The text-to-image models return either raw image bytes (success) or a
// JSON envelope (errors, and some models that wrap the image in base64).
// This client normalizes every shape into a plain []byte so callers never
// deal with streams or content-type probing.
package imagegen

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// defaultBaseURL is the Cloudflare API base URL.
	defaultBaseURL = "https://api.cloudflare.com"

	// defaultModel is the text-to-image model run for each post.
	defaultModel = "@cf/bytedance/stable-diffusion-xl-lightning"

	// defaultTimeout is generous: image generation can take tens of seconds.
	defaultTimeout = 120 * time.Second
)

// Client calls the Workers AI run endpoint for a single account.
type Client struct {
	accountID  string
	apiToken   string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewClient creates a Workers AI client for the given account and API token.
func NewClient(accountID, apiToken string) *Client {
	return &Client{
		accountID: accountID,
		apiToken:  apiToken,
		model:     defaultModel,
		baseURL:   defaultBaseURL,
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
	}
}

type runRequest struct {
	Prompt string `json:"prompt"`
}

// apiEnvelope is the JSON shape Workers AI uses for errors and for models
// that return base64 instead of raw bytes.
type apiEnvelope struct {
	Success bool `json:"success"`
	Errors  []struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"errors"`
	Result struct {
		Image string `json:"image"` // base64, model-dependent
	} `json:"result"`
}

// Generate synthesizes one image from the prompt and returns its raw bytes.
// The response body is always drained fully before returning.
func (c *Client) Generate(ctx context.Context, prompt string) ([]byte, error) {
	payload, err := json.Marshal(runRequest{Prompt: prompt})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/client/v4/accounts/%s/ai/run/%s", c.baseURL, c.accountID, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiToken)

	log.Debug().Str("model", c.model).Int("prompt_length", len(prompt)).Msg("Workers AI request")
	startTime := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	log.Debug().
		Int("statusCode", resp.StatusCode).
		Int("body_bytes", len(body)).
		Dur("duration", time.Since(startTime)).
		Msg("Workers AI response")

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Workers AI error %d: %s", resp.StatusCode, truncate(string(body), 200))
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "image/") || contentType == "application/octet-stream" {
		if len(body) == 0 {
			return nil, fmt.Errorf("Workers AI returned empty image body")
		}
		return body, nil
	}

	// JSON envelope: either an error report or a base64-wrapped image.
	var envelope apiEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return nil, fmt.Errorf("unexpected Workers AI response (content type %s): %s",
			contentType, truncate(string(body), 200))
	}
	if !envelope.Success || len(envelope.Errors) > 0 {
		msgs := make([]string, 0, len(envelope.Errors))
		for _, e := range envelope.Errors {
			msgs = append(msgs, fmt.Sprintf("%d: %s", e.Code, e.Message))
		}
		if len(msgs) == 0 {
			msgs = append(msgs, "unknown error")
		}
		return nil, fmt.Errorf("Workers AI error: %s", strings.Join(msgs, "; "))
	}
	if envelope.Result.Image == "" {
		return nil, fmt.Errorf("Workers AI response carries no image data")
	}

	data, err := base64.StdEncoding.DecodeString(envelope.Result.Image)
	if err != nil {
		return nil, fmt.Errorf("decode image data: %w", err)
	}
	return data, nil
}

// truncate returns the first n characters of s, appending "..." if truncated.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

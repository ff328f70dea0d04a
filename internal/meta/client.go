// Package meta publishes posts through the Meta Graph API.
//
// Facebook page photos are published in one call; Instagram publishing is a
// two-step process:
//  1. Create a media container referencing a publicly fetchable image URL
//  2. Publish the container by its returned identifier
//
// The image URL must be reachable by Meta's servers, which is why the bot
// serves stored images through its own unauthenticated relay endpoint.
package meta

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	// defaultBaseURL is the Meta Graph API base URL.
	defaultBaseURL = "https://graph.facebook.com/v21.0"

	// defaultTimeout is the HTTP client timeout for API calls.
	defaultTimeout = 30 * time.Second
)

// Client provides methods for publishing to Facebook pages and Instagram
// accounts via the Graph API. One page access token covers both when the
// Instagram account is linked to the page.
type Client struct {
	httpClient  *http.Client
	accessToken string
	baseURL     string
}

// NewClient creates a Graph API client for the given access token.
func NewClient(accessToken string) *Client {
	return &Client{
		httpClient: &http.Client{
			Timeout: defaultTimeout,
		},
		accessToken: accessToken,
		baseURL:     defaultBaseURL,
	}
}

// apiResponse is the generic Graph API response.
type apiResponse struct {
	ID     string  `json:"id"`
	PostID string  `json:"post_id,omitempty"`
	Error  *apiErr `json:"error,omitempty"`
}

type apiErr struct {
	Message   string `json:"message"`
	Type      string `json:"type"`
	Code      int    `json:"code"`
	FBTraceID string `json:"fbtrace_id,omitempty"`
}

// PublishFacebookPhoto publishes a photo post on a Facebook page.
// imageURL must be publicly fetchable by Meta's servers.
// Returns the photo ID of the published post.
func (c *Client) PublishFacebookPhoto(ctx context.Context, pageID, imageURL, caption string) (string, error) {
	params := url.Values{
		"url":          {imageURL},
		"caption":      {caption},
		"published":    {"true"},
		"access_token": {c.accessToken},
	}

	resp, err := c.postForm(ctx, fmt.Sprintf("/%s/photos", pageID), params)
	if err != nil {
		return "", fmt.Errorf("publish Facebook photo: %w", err)
	}
	log.Info().Str("photoId", resp.ID).Str("postId", resp.PostID).Msg("Facebook photo published")
	return resp.ID, nil
}

// CreateContainer creates an Instagram media container for a single image
// post. Returns the container ID used by PublishContainer.
func (c *Client) CreateContainer(ctx context.Context, accountID, imageURL, caption string) (string, error) {
	params := url.Values{
		"image_url":    {imageURL},
		"caption":      {caption},
		"access_token": {c.accessToken},
	}

	resp, err := c.postForm(ctx, fmt.Sprintf("/%s/media", accountID), params)
	if err != nil {
		return "", err
	}
	log.Info().Str("containerId", resp.ID).Msg("Instagram container created")
	return resp.ID, nil
}

// PublishContainer publishes a previously created media container.
// Returns the Instagram media ID of the published post.
func (c *Client) PublishContainer(ctx context.Context, accountID, creationID string) (string, error) {
	params := url.Values{
		"creation_id":  {creationID},
		"access_token": {c.accessToken},
	}

	resp, err := c.postForm(ctx, fmt.Sprintf("/%s/media_publish", accountID), params)
	if err != nil {
		return "", err
	}
	log.Info().Str("containerId", creationID).Str("postId", resp.ID).Msg("Instagram container published")
	return resp.ID, nil
}

// postForm sends a POST request with form-encoded parameters to the Graph API.
func (c *Client) postForm(ctx context.Context, endpoint string, params url.Values) (*apiResponse, error) {
	log.Debug().Str("method", http.MethodPost).Str("path", endpoint).Msg("Graph API request")
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+endpoint,
		strings.NewReader(params.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	startTime := time.Now()
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	log.Debug().
		Int("statusCode", httpResp.StatusCode).
		Dur("duration", time.Since(startTime)).
		Msg("Graph API response")

	var resp apiResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("parse response: %w (body: %s)", err, truncate(string(body), 200))
	}

	if resp.Error != nil {
		log.Error().
			Str("errorMessage", resp.Error.Message).
			Str("errorType", resp.Error.Type).
			Int("errorCode", resp.Error.Code).
			Msg("Graph API error")
		return nil, fmt.Errorf("Graph API error: %s (type: %s, code: %d)",
			resp.Error.Message, resp.Error.Type, resp.Error.Code)
	}

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Graph API error %d: %s", httpResp.StatusCode, truncate(string(body), 200))
	}

	if resp.ID == "" {
		return nil, fmt.Errorf("unexpected response: no ID returned (body: %s)", truncate(string(body), 200))
	}

	return &resp, nil
}

// truncate returns the first n characters of s, appending "..." if truncated.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

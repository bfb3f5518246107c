// Package business publishes opening hours to the external listing
// service (business profile). The remote protocol is treated as one
// opaque call; this client only owns transport concerns.
package business

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultPublishURL = "https://mybusinessbusinessinformation.googleapis.com/v1/locations/"

// ErrUpstream indicates a failed business profile request.
var ErrUpstream = errors.New("error when trying to publish hours to business profile")

// ErrMissingCredentials indicates publish was attempted without a token.
var ErrMissingCredentials = errors.New("business profile token is required")

// HTTPClient is implemented by http.Client.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Endpoints stores upstream endpoint urls.
type Endpoints struct {
	Publish string
}

// Client pushes hour bundles to the listing service.
type Client struct {
	httpClient HTTPClient
	endpoints  Endpoints
}

// Option applies Client options.
type Option func(*Client)

// WithHTTPClient replaces default HTTP client.
func WithHTTPClient(httpClient HTTPClient) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithEndpoints replaces default endpoint set.
func WithEndpoints(endpoints Endpoints) Option {
	return func(c *Client) {
		if strings.TrimSpace(endpoints.Publish) != "" {
			c.endpoints = endpoints
		}
	}
}

// NewClient creates a publish client.
func NewClient(options ...Option) *Client {
	client := &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		endpoints:  Endpoints{Publish: defaultPublishURL},
	}
	for _, option := range options {
		option(client)
	}
	return client
}

// PublishHours pushes the hour bundle for a location.
func (c *Client) PublishHours(ctx context.Context, locationID string, payload PublishPayload, auth AuthContext) (PublishResult, error) {
	if !auth.HasCredentials() {
		return PublishResult{}, ErrMissingCredentials
	}
	if strings.TrimSpace(locationID) == "" {
		return PublishResult{}, fmt.Errorf("location id is required")
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return PublishResult{}, fmt.Errorf("marshal publish payload: %w", err)
	}

	uri := strings.TrimRight(c.endpoints.Publish, "/") + "/" + locationID + ":updateHours"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, uri, bytes.NewReader(body))
	if err != nil {
		return PublishResult{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+strings.TrimSpace(auth.Token))

	res, err := c.httpClient.Do(req)
	if err != nil {
		return PublishResult{}, &UpstreamRequestError{
			Method: http.MethodPost,
			URL:    uri,
			Cause:  err,
		}
	}
	defer func() {
		_ = res.Body.Close()
	}()

	resBody, _ := io.ReadAll(res.Body)
	if res.StatusCode < 200 || res.StatusCode >= 300 {
		return PublishResult{}, &UpstreamRequestError{
			Method:     http.MethodPost,
			URL:        uri,
			StatusCode: res.StatusCode,
			Body:       string(resBody),
		}
	}

	result := PublishResult{Status: "accepted"}
	if len(resBody) > 0 {
		// Upstream acknowledgements are best-effort; an unparsable body
		// still counts as success for a 2xx response.
		_ = json.Unmarshal(resBody, &result)
	}
	return result, nil
}

// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package omdb is a minimal client for the OMDb movie API.
package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/danielhkuo/movie-night/models"
)

const DefaultBaseURL = "http://www.omdbapi.com/"

// Client queries the OMDb API. Each lookup is bounded by Timeout.
type Client struct {
	BaseURL    string
	APIKey     string
	Timeout    time.Duration
	HTTPClient *http.Client
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		BaseURL:    baseURL,
		APIKey:     apiKey,
		Timeout:    timeout,
		HTTPClient: &http.Client{},
	}
}

type response struct {
	models.Candidate
	Response string `json:"Response"`
	Error    string `json:"Error"`
}

// Lookup fetches a single movie. It returns models.ErrCandidateNotFound when
// OMDb reports no match and models.ErrLookupTimeout when the bound is exceeded.
func (c *Client) Lookup(ctx context.Context, q models.CandidateQuery) (*models.Candidate, error) {
	params := url.Values{}
	params.Set("apikey", c.APIKey)
	switch {
	case q.ID != "":
		params.Set("i", q.ID)
	case q.Title != "":
		params.Set("t", q.Title)
		if q.Year != "" {
			params.Set("y", q.Year)
		}
	default:
		return nil, fmt.Errorf("empty query: %w", models.ErrCandidateNotFound)
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	endpoint := strings.TrimRight(c.BaseURL, "?") + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build lookup request: %w", err)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("lookup %s: %w", q, models.ErrLookupTimeout)
		}
		return nil, fmt.Errorf("lookup %s: %w", q, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("lookup %s: unexpected status %d", q, resp.StatusCode)
	}

	var body response
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("lookup %s: %w", q, models.ErrLookupTimeout)
		}
		return nil, fmt.Errorf("failed to decode lookup response: %w", err)
	}

	if body.Response != "True" || body.Candidate.ID == "" {
		return nil, fmt.Errorf("lookup %s: %w", q, models.ErrCandidateNotFound)
	}

	candidate := body.Candidate
	candidate.FillUnknown()
	return &candidate, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

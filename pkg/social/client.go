// Package social is a small client for a Twitter v1.1-shaped REST API. It
// covers the three calls the collector needs and nothing else.
package social

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// Endpoints, also used as metric labels.
const (
	EndpointUsersLookup = "users/lookup"
	EndpointFriendIDs   = "friends/ids"
	EndpointSearch      = "search/tweets"
)

// ErrUserNotFound is returned when a lookup succeeds but names no account.
var ErrUserNotFound = errors.New("user not found")

// maxErrorBody bounds how much of a failed response is kept on APIError.
const maxErrorBody = 512

// User is an account as returned by users/lookup.
type User struct {
	ID           string `json:"id_str"`
	ScreenName   string `json:"screen_name"`
	Name         string `json:"name"`
	FriendsCount int    `json:"friends_count"`
}

// Post is a status as returned by search/tweets.
type Post struct {
	ID   string `json:"id_str"`
	Text string `json:"text"`
	User struct {
		ID         string `json:"id_str"`
		ScreenName string `json:"screen_name"`
	} `json:"user"`
}

// RequestObserver is told about every finished request. code is 0 when no
// response arrived.
type RequestObserver func(endpoint string, code int, duration time.Duration)

// Client talks to the API.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	timeout    time.Duration
	observe    RequestObserver
}

// Option configures a Client.
type Option func(*Client)

// WithBearerToken sets the app-only bearer token.
func WithBearerToken(token string) Option {
	return func(c *Client) { c.token = token }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the request timeout. It applies to a copy of the HTTP
// client, whichever order the options come in.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.timeout = d }
}

// WithObserver registers a callback for request metrics.
func WithObserver(fn RequestObserver) Option {
	return func(c *Client) { c.observe = fn }
}

// New creates a client for baseURL (e.g. "https://api.twitter.com/1.1").
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, o := range opts {
		o(c)
	}
	if c.timeout > 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// LookupUser resolves a screen name.
func (c *Client) LookupUser(ctx context.Context, screenName string) (*User, error) {
	params := url.Values{"screen_name": {screenName}}

	var users []User
	if err := c.get(ctx, EndpointUsersLookup, params, &users); err != nil {
		return nil, err
	}
	for i := range users {
		if strings.EqualFold(users[i].ScreenName, screenName) {
			return &users[i], nil
		}
	}
	if len(users) > 0 {
		return &users[0], nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUserNotFound, screenName)
}

// FriendIDs returns up to count ids of the accounts screenName follows, in
// API order.
func (c *Client) FriendIDs(ctx context.Context, screenName string, count int) ([]string, error) {
	params := url.Values{
		"screen_name":   {screenName},
		"count":         {strconv.Itoa(count)},
		"stringify_ids": {"true"},
	}

	var resp struct {
		IDs []string `json:"ids"`
	}
	if err := c.get(ctx, EndpointFriendIDs, params, &resp); err != nil {
		return nil, err
	}
	if len(resp.IDs) > count {
		resp.IDs = resp.IDs[:count]
	}
	return resp.IDs, nil
}

// SearchPosts returns up to count recent posts matching query.
func (c *Client) SearchPosts(ctx context.Context, query string, count int) ([]Post, error) {
	params := url.Values{
		"q":           {query},
		"count":       {strconv.Itoa(count)},
		"result_type": {"recent"},
	}

	var resp struct {
		Statuses []Post `json:"statuses"`
	}
	if err := c.get(ctx, EndpointSearch, params, &resp); err != nil {
		return nil, err
	}
	if len(resp.Statuses) > count {
		resp.Statuses = resp.Statuses[:count]
	}
	return resp.Statuses, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, result any) error {
	u := c.baseURL + "/" + endpoint + ".json"
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	code := 0
	defer func() {
		if c.observe != nil {
			c.observe(endpoint, code, time.Since(start))
		}
	}()

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s request failed: %w", endpoint, err)
	}
	defer resp.Body.Close()
	code = resp.StatusCode

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%s read response: %w", endpoint, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return newAPIError(endpoint, resp.StatusCode, body)
	}

	if err := json.Unmarshal(body, result); err != nil {
		return fmt.Errorf("%s decode response: %w", endpoint, err)
	}
	return nil
}

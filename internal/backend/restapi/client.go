// Package restapi implements the service.Service interface against the
// task REST API, attaching bearer tokens to every outbound call.
package restapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2"

	"taskdeck/internal/nav"
	"taskdeck/internal/service"
)

const (
	// APITimeout is the timeout for API calls.
	APITimeout = 10 * time.Second

	loginPath = nav.LoginPath
)

// Client implements service.Service over the REST API.
type Client struct {
	baseURL   string
	tokens    oauth2.TokenSource
	navigator nav.Navigator
	http      *http.Client
}

// New creates a client against the given base URL. Tokens are fetched fresh
// from the token source for every call; the navigator receives the forced
// redirect when the session has expired server-side.
func New(baseURL string, tokens oauth2.TokenSource, navigator nav.Navigator) *Client {
	if navigator == nil {
		navigator = nav.Nop{}
	}
	return &Client{
		baseURL:   baseURL,
		tokens:    tokens,
		navigator: navigator,
		http:      http.DefaultClient,
	}
}

// SetHTTPClient replaces the underlying HTTP client (for testing).
func (c *Client) SetHTTPClient(h *http.Client) {
	c.http = h
}

// do performs one authenticated request and interprets the response.
// A nil result with a nil error means 204 No Content.
func (c *Client) do(ctx context.Context, method, path string, body any, extra http.Header) (json.RawMessage, error) {
	tok, err := c.tokens.Token()
	if err != nil || tok.AccessToken == "" {
		return nil, service.ErrNotAuthenticated
	}

	ctx, cancel := context.WithTimeout(ctx, APITimeout)
	defer cancel()

	var reqBody *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reqBody = bytes.NewReader(payload)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, err
	}

	// Defaults first, caller headers after: extras are additive and may
	// override, but never get silently dropped.
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+tok.AccessToken)
	for k, vs := range extra {
		for _, v := range vs {
			req.Header.Set(k, v)
		}
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// Transport failures propagate unchanged.
		return nil, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		// The session is unrecoverable client-side: force the
		// navigation even though the caller also sees an error.
		c.navigator.RedirectTo(loginPath)
		return nil, service.ErrSessionExpired

	case resp.StatusCode == http.StatusNoContent:
		return nil, nil

	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		var errBody struct {
			Detail string `json:"detail"`
		}
		if json.NewDecoder(resp.Body).Decode(&errBody) == nil && errBody.Detail != "" {
			return nil, errors.New(errBody.Detail)
		}
		return nil, fmt.Errorf("API error: %d", resp.StatusCode)
	}

	var raw json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("invalid response body: %w", err)
	}
	return raw, nil
}

// List implements service.Service.
func (c *Client) List(ctx context.Context, ownerID string, status service.StatusFilter, sort service.SortOption) ([]service.Task, error) {
	if status == "" {
		status = service.StatusAll
	}
	if sort == "" {
		sort = service.SortCreated
	}

	q := url.Values{}
	q.Set("status", string(status))
	q.Set("sort", string(sort))

	raw, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/%s/tasks?%s", ownerID, q.Encode()), nil, nil)
	if err != nil {
		return nil, err
	}

	var tasks []service.Task
	if err := json.Unmarshal(raw, &tasks); err != nil {
		return nil, fmt.Errorf("invalid task list: %w", err)
	}
	return tasks, nil
}

// Get implements service.Service.
func (c *Client) Get(ctx context.Context, ownerID string, taskID int) (service.Task, error) {
	raw, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/%s/tasks/%d", ownerID, taskID), nil, nil)
	if err != nil {
		return service.Task{}, err
	}
	return decodeTask(raw)
}

// Create implements service.Service.
func (c *Client) Create(ctx context.Context, ownerID string, in service.CreateInput) (service.Task, error) {
	raw, err := c.do(ctx, http.MethodPost, fmt.Sprintf("/api/%s/tasks", ownerID), in, nil)
	if err != nil {
		return service.Task{}, err
	}
	return decodeTask(raw)
}

// Update implements service.Service.
func (c *Client) Update(ctx context.Context, ownerID string, taskID int, in service.UpdateInput) (service.Task, error) {
	raw, err := c.do(ctx, http.MethodPut, fmt.Sprintf("/api/%s/tasks/%d", ownerID, taskID), in, nil)
	if err != nil {
		return service.Task{}, err
	}
	return decodeTask(raw)
}

// Delete implements service.Service.
func (c *Client) Delete(ctx context.Context, ownerID string, taskID int) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/%s/tasks/%d", ownerID, taskID), nil, nil)
	return err
}

// ToggleComplete implements service.Service.
func (c *Client) ToggleComplete(ctx context.Context, ownerID string, taskID int) (service.Task, error) {
	raw, err := c.do(ctx, http.MethodPatch, fmt.Sprintf("/api/%s/tasks/%d/complete", ownerID, taskID), nil, nil)
	if err != nil {
		return service.Task{}, err
	}
	return decodeTask(raw)
}

func decodeTask(raw json.RawMessage) (service.Task, error) {
	var t service.Task
	if err := json.Unmarshal(raw, &t); err != nil {
		return service.Task{}, fmt.Errorf("invalid task: %w", err)
	}
	return t, nil
}

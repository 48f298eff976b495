package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"clubdirectory/internal/errors"
	"clubdirectory/internal/model"
)

// Filters mirrors the search bar: every value is sent verbatim when non-empty.
type Filters struct {
	Query    string
	Rating   string
	Activity string
}

// Sorting is the active column ordering. An empty Direction means unsorted.
type Sorting struct {
	Field     string
	Direction string
}

// Draft is the local copy of a member being created or edited.
type Draft struct {
	Name       string   `json:"name"`
	Age        *int     `json:"age,omitempty"`
	Rating     *int     `json:"rating,omitempty"`
	Activities []string `json:"activities"`
}

// APIError is a non-2xx response from the directory service.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("directory: %d %s: %s", e.StatusCode, e.Code, e.Message)
	}
	return fmt.Sprintf("directory: %d: %s", e.StatusCode, e.Message)
}

// Client talks to the directory service over HTTP.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the service at baseURL. A nil httpClient uses a
// client with a 10 second timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

type envelope struct {
	Body Draft `json:"body"`
}

// List fetches the filtered, sorted member list.
func (c *Client) List(ctx context.Context, filters Filters, sorting Sorting) ([]model.Member, error) {
	params := url.Values{}
	if filters.Query != "" {
		params.Set("query", filters.Query)
	}
	if filters.Rating != "" {
		params.Set("rating", filters.Rating)
	}
	if filters.Activity != "" {
		params.Set("activity", filters.Activity)
	}
	if sorting.Field != "" {
		params.Set("sortField", sorting.Field)
	}
	if sorting.Direction != "" {
		params.Set("sortDirection", sorting.Direction)
	}

	target := c.baseURL + "/members"
	if encoded := params.Encode(); encoded != "" {
		target += "?" + encoded
	}

	var members []model.Member
	if err := c.do(ctx, http.MethodGet, target, nil, &members); err != nil {
		return nil, err
	}
	if members == nil {
		members = []model.Member{}
	}
	return members, nil
}

// Create submits a new member and returns the stored record.
func (c *Client) Create(ctx context.Context, draft Draft) (*model.Member, error) {
	var created model.Member
	if err := c.do(ctx, http.MethodPost, c.baseURL+"/members", envelope{Body: draft}, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update sends every draft field for the member with id.
func (c *Client) Update(ctx context.Context, id string, draft Draft) error {
	return c.do(ctx, http.MethodPatch, c.baseURL+"/members/"+url.PathEscape(id), envelope{Body: draft}, nil)
}

// Delete removes the member with id.
func (c *Client) Delete(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, c.baseURL+"/members/"+url.PathEscape(id), nil, nil)
}

func (c *Client) do(ctx context.Context, method, target string, in, out interface{}) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, target, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: strings.TrimSpace(string(data))}
		var structured errors.ErrorResponse
		if json.Unmarshal(data, &structured) == nil && structured.Error != "" {
			apiErr.Code = structured.Code
			apiErr.Message = structured.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

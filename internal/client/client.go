// Package client talks to the assignment REST API and converts between the
// wire JSON and the domain models.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"assignmenttracker/internal/dates"
	"assignmenttracker/internal/models"
)

const (
	msgUnknownError  = "Unknown error"
	msgRequestFailed = "Request failed"
)

// TransportError is a network failure (Status 0) or a non-2xx response
type TransportError struct {
	Status  int
	Message string
	Err     error
}

func (e *TransportError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("request failed: %s", e.Message)
	}
	return fmt.Sprintf("%s (HTTP %d)", e.Message, e.Status)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NotFoundError means the addressed assignment or range no longer exists on the server
type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is, or wraps, a NotFoundError
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// Client is a thin mapping of domain operations onto the REST surface.
// It never retries; timeouts are whatever the supplied http.Client enforces.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the API rooted at baseURL, e.g. http://localhost:8080/api
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    httpClient,
	}
}

// ListAssignments fetches every assignment, newest first. Work ranges are not included.
func (c *Client) ListAssignments(ctx context.Context) ([]models.Assignment, error) {
	var body []models.AssignmentJSON
	if err := c.do(ctx, http.MethodGet, "/assignments", nil, &body); err != nil {
		return nil, err
	}

	assignments := make([]models.Assignment, 0, len(body))
	for _, j := range body {
		a, err := j.ToAssignment()
		if err != nil {
			return nil, fmt.Errorf("assignment %s: %w", j.ID, err)
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}

// GetAssignment fetches a single assignment
func (c *Client) GetAssignment(ctx context.Context, id string) (models.Assignment, error) {
	var body models.AssignmentJSON
	if err := c.do(ctx, http.MethodGet, "/assignments/"+url.PathEscape(id), nil, &body); err != nil {
		return models.Assignment{}, err
	}
	return body.ToAssignment()
}

// CreateAssignment submits a new assignment and returns the stored representation
func (c *Client) CreateAssignment(ctx context.Context, input models.NewAssignment) (models.Assignment, error) {
	var body models.AssignmentJSON
	if err := c.do(ctx, http.MethodPost, "/assignments", input.ToJSON(), &body); err != nil {
		return models.Assignment{}, err
	}
	return body.ToAssignment()
}

// UpdateAssignment sends only the fields set in patch
func (c *Client) UpdateAssignment(ctx context.Context, id string, patch models.AssignmentPatch) (models.Assignment, error) {
	var body models.AssignmentJSON
	if err := c.do(ctx, http.MethodPut, "/assignments/"+url.PathEscape(id), models.EncodePatch(patch), &body); err != nil {
		return models.Assignment{}, err
	}
	return body.ToAssignment()
}

// DeleteAssignment removes an assignment; its work ranges go with it
func (c *Client) DeleteAssignment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/assignments/"+url.PathEscape(id), nil, nil)
}

// ListWorkRanges fetches the work ranges of one assignment, ordered by start date
func (c *Client) ListWorkRanges(ctx context.Context, assignmentID string) ([]models.WorkDateRange, error) {
	var body []models.WorkDateRangeJSON
	if err := c.do(ctx, http.MethodGet, "/assignments/"+url.PathEscape(assignmentID)+"/work-ranges", nil, &body); err != nil {
		return nil, err
	}

	ranges := make([]models.WorkDateRange, 0, len(body))
	for _, j := range body {
		r, err := j.ToWorkDateRange()
		if err != nil {
			return nil, fmt.Errorf("work range %s: %w", j.ID, err)
		}
		ranges = append(ranges, r)
	}
	return ranges, nil
}

// CreateWorkRange adds the inclusive range [start, end] to an assignment
func (c *Client) CreateWorkRange(ctx context.Context, assignmentID string, start, end time.Time) (models.WorkDateRange, error) {
	req := models.NewWorkDateRangeJSON{
		StartDate: dates.FormatWire(start),
		EndDate:   dates.FormatWire(end),
	}
	var body models.WorkDateRangeJSON
	if err := c.do(ctx, http.MethodPost, "/assignments/"+url.PathEscape(assignmentID)+"/work-ranges", req, &body); err != nil {
		return models.WorkDateRange{}, err
	}
	return body.ToWorkDateRange()
}

// DeleteWorkRange removes one work range
func (c *Client) DeleteWorkRange(ctx context.Context, rangeID string) error {
	return c.do(ctx, http.MethodDelete, "/work-ranges/"+url.PathEscape(rangeID), nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &TransportError{Message: err.Error(), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := errorMessage(resp.Body)
		if resp.StatusCode == http.StatusNotFound {
			return &NotFoundError{Message: msg}
		}
		return &TransportError{Status: resp.StatusCode, Message: msg}
	}

	if out == nil {
		io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &TransportError{Status: resp.StatusCode, Message: "invalid response body", Err: err}
	}
	return nil
}

// errorMessage pulls the server's {"error": "..."} message out of a failed response
func errorMessage(r io.Reader) string {
	var body struct {
		Error string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 64<<10)).Decode(&body); err != nil {
		return msgUnknownError
	}
	if body.Error == "" {
		return msgRequestFailed
	}
	return body.Error
}

package remote

import (
	"alizia-planner/internal/errors"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Client talks to the planning API that owns every persisted document.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewClient(baseURL, token string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// do sends payload as JSON and decodes the response into out when out is
// non-nil. Non-2xx statuses are mapped onto the error taxonomy.
func (c *Client) do(ctx context.Context, method, path string, payload any, out any) error {
	var body io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return errors.Internal(err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return errors.Internal(err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return errors.Network(fmt.Sprintf("%s %s failed", method, path), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return statusError(method, path, resp.StatusCode, b)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if err == io.EOF {
			return nil
		}
		return errors.Network(fmt.Sprintf("%s %s returned an unreadable body", method, path), err)
	}
	return nil
}

func statusError(method, path string, status int, body []byte) error {
	cause := fmt.Errorf("remote api error: status=%d body=%s", status, strings.TrimSpace(string(body)))
	switch status {
	case http.StatusNotFound:
		return errors.NotFound(fmt.Sprintf("%s not found", path), cause)
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return errors.UnprocessableEntity(fmt.Sprintf("%s %s rejected", method, path), cause)
	case http.StatusConflict:
		return errors.Conflict(fmt.Sprintf("%s %s conflicts with current state", method, path), cause)
	}
	return errors.Network(fmt.Sprintf("%s %s failed", method, path), cause)
}

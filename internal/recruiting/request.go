package recruiting

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spigell/hire-pipeline/internal/utils"
	"go.uber.org/zap"
)

const (
	contentType     = "application/json"
	contentEncoding = "gzip"
	// maxPages guards against a backend that keeps returning the same next link.
	maxPages = 1000
	// maxErrorDetail is the longest raw body kept in an APIError.
	maxErrorDetail = 200
)

var (
	ErrUnauthorized = errors.New("recruiting api rejected the token")
	ErrNotFound     = errors.New("recruiting api resource not found")
)

// APIError is returned for every non-2xx response.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
	Detail     string
}

func (e *APIError) Error() string {
	msg := fmt.Sprintf("%s %s: bad status: %s", e.Method, e.URL, e.Status)
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *APIError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	default:
		return false
	}
}

// Item is a single undecoded element of a list response.
type Item any

// pageResponse is the paginated envelope the backend wraps list responses in.
type pageResponse struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []Item  `json:"results"`
}

// GetItems requests a list endpoint and returns the items from all pages in server order.
// Both bare JSON arrays and {results: [...]} envelopes are accepted.
func (c *Client) GetItems(ctx context.Context, path string, q url.Values) ([]Item, error) {
	var items []Item

	next := c.endpoint(path, q)
	for page := 0; next != ""; page++ {
		if page >= maxPages {
			return nil, fmt.Errorf("%s: too many pages", path)
		}

		data, err := c.do(ctx, http.MethodGet, next, nil)
		if err != nil {
			return nil, err
		}

		pageItems, nextURL, err := parseItems(data)
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", path, err)
		}

		items = append(items, pageItems...)

		if nextURL != "" {
			c.logger.Debug("additional request needed",
				zap.String("path", path),
				zap.Int("page", page+1),
				zap.Int("items so far", len(items)),
			)
		}
		next = nextURL
	}

	return items, nil
}

func parseItems(data []byte) ([]Item, string, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, "", nil
	}

	if trimmed[0] == '[' {
		var items []Item
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, "", err
		}
		return items, "", nil
	}

	var page pageResponse
	if err := json.Unmarshal(trimmed, &page); err != nil {
		return nil, "", err
	}

	next := ""
	if page.Next != nil {
		next = strings.TrimSpace(*page.Next)
	}

	return page.Results, next, nil
}

// getObject requests a single object and decodes it into target.
func (c *Client) getObject(ctx context.Context, path string, q url.Values, target any) error {
	data, err := c.do(ctx, http.MethodGet, c.endpoint(path, q), nil)
	if err != nil {
		return err
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	if err := decode(raw, target); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	return nil
}

// send issues a write request with a JSON body. The response, if any, is decoded into target.
func (c *Client) send(ctx context.Context, method, path string, body any, target any) error {
	var payload io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		payload = bytes.NewReader(encoded)
	}

	data, err := c.do(ctx, method, c.endpoint(path, nil), payload)
	if err != nil {
		return err
	}

	if target == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}

	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}

	if err := decode(raw, target); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}

	return nil
}

func (c *Client) do(ctx context.Context, method, rawURL string, body io.Reader) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, body)
	if err != nil {
		return nil, err
	}

	req = c.setHeaders(req)
	if body != nil {
		req.Header.Set("Content-Type", contentType)
	}

	c.logger.Debug("make request", zap.String("method", method), zap.String("url", req.URL.String()))

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var reader io.Reader = resp.Body
	if resp.Header.Get("Content-Encoding") == "gzip" {
		gzipReader, err := gzip.NewReader(resp.Body)
		if err != nil {
			return nil, err
		}
		defer gzipReader.Close()
		reader = gzipReader
	}

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, &APIError{
			Method:     method,
			URL:        req.URL.Path,
			StatusCode: resp.StatusCode,
			Status:     resp.Status,
			Detail:     errorDetail(data),
		}
	}

	return data, nil
}

func (c *Client) setHeaders(req *http.Request) *http.Request {
	if c.token != "" {
		req.Header.Set("Authorization", fmt.Sprintf("Token %s", c.token))
	}
	req.Header.Set("Accept", contentType)
	req.Header.Set("User-Agent", c.UserAgent)
	req.Header.Set("Accept-Encoding", contentEncoding)

	return req
}

func (c *Client) endpoint(path string, q url.Values) string {
	u := c.APIURL + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// errorDetail pulls a human readable message out of an error body.
func errorDetail(data []byte) string {
	var parsed map[string]any
	if err := json.Unmarshal(data, &parsed); err == nil {
		for _, key := range []string{"detail", "message", "error"} {
			if value, ok := parsed[key].(string); ok && strings.TrimSpace(value) != "" {
				return strings.TrimSpace(value)
			}
		}
	}

	return utils.TruncateForLog(string(data), maxErrorDetail)
}

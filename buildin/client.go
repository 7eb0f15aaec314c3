// Package buildin is a small read-only client for the Buildin.ai API.
package buildin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/foomo/buildin-mcp/service/vo"
	"go.uber.org/zap"
)

const (
	DefaultBaseURL  = "https://api.buildin.ai"
	DefaultPageSize = 100

	// maxErrorBody limits how much of an error response is read
	maxErrorBody = 64 << 10
)

type Client struct {
	baseURL    string
	apiKey     string
	pageSize   int
	httpClient *http.Client
	logger     *zap.Logger
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		if httpClient != nil {
			c.httpClient = httpClient
		}
	}
}

func WithLogger(logger *zap.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithPageSize sets the page size requested when listing block children
func WithPageSize(pageSize int) Option {
	return func(c *Client) {
		if pageSize > 0 {
			c.pageSize = pageSize
		}
	}
}

func New(baseURL, apiKey string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		apiKey:     apiKey,
		pageSize:   DefaultPageSize,
		httpClient: http.DefaultClient,
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetPage retrieves page metadata by id
func (c *Client) GetPage(ctx context.Context, pageID string) (*vo.Page, error) {
	var page vo.Page
	if err := c.do(ctx, "getPage", http.MethodGet, "/v1/pages/"+url.PathEscape(pageID), nil, nil, &page); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetBlockChildren lists one page of a block's direct children. An empty
// cursor requests the first page.
func (c *Client) GetBlockChildren(ctx context.Context, blockID, cursor string) (*vo.BlockChildren, error) {
	query := url.Values{}
	query.Set("page_size", strconv.Itoa(c.pageSize))
	if cursor != "" {
		query.Set("start_cursor", cursor)
	}

	var children vo.BlockChildren
	if err := c.do(ctx, "getBlockChildren", http.MethodGet, "/v1/blocks/"+url.PathEscape(blockID)+"/children", query, nil, &children); err != nil {
		return nil, err
	}
	return &children, nil
}

// Search runs a full text search over the pages shared with the integration
func (c *Client) Search(ctx context.Context, req vo.SearchRequest) (*vo.SearchResponse, error) {
	var res vo.SearchResponse
	if err := c.do(ctx, "search", http.MethodPost, "/v1/search", nil, req, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) do(ctx context.Context, op, method, path string, query url.Values, body, target any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &TransportError{Op: op, Err: fmt.Errorf("failed to marshal request: %w", err)}
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return &TransportError{Op: op, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Debug("buildin request failed", zap.String("op", op), zap.Error(err))
		return &TransportError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	c.logger.Debug("buildin request",
		zap.String("op", op),
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("duration", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		transportErr := &TransportError{Op: op, StatusCode: resp.StatusCode}
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		var apiErr apiError
		if json.Unmarshal(raw, &apiErr) == nil && apiErr.Message != "" {
			transportErr.Message = apiErr.Message
		} else {
			transportErr.Message = strings.TrimSpace(string(raw))
		}
		return transportErr
	}

	if err := json.NewDecoder(resp.Body).Decode(target); err != nil {
		return &TransportError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"notion-sync/core/block"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// httpClient is the HTTP implementation of Client. All outbound calls pass
// through one shared rate limiter and the retry policy.
type httpClient struct {
	http         *http.Client
	cfg          Config
	limiter      *rate.Limiter
	retry        RetryPolicy
	log          *zap.Logger
	requestCount atomic.Int64
}

// NewClient creates a rate-limited, retrying API client. The rate limiter is
// bound to this instance: concurrent sync runs that share the client are
// serialized to at most one request per MinInterval across all of them.
func NewClient(cfg Config, log *zap.Logger) (Client, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("notion token is required (set NOTION_TOKEN)")
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.notion.com/v1"
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 350 * time.Millisecond
	}

	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	timeoutDuration := time.Duration(timeout) * time.Second

	// Strict transport timeouts so a wedged connection fails instead of
	// stalling a whole sync run.
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   timeoutDuration,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2:     true,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   timeoutDuration,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: timeoutDuration,
	}

	retry := DefaultRetryPolicy()
	if cfg.MaxRetries > 0 {
		retry.MaxAttempts = cfg.MaxRetries
	}

	return &httpClient{
		http:    &http.Client{Transport: transport},
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Every(cfg.MinInterval), 1),
		retry:   retry,
		log:     log,
	}, nil
}

// call performs one API request with rate limiting and retries: body is
// marshaled once, the limiter gates every attempt, and the response is
// decoded into out when non-nil.
func (c *httpClient) call(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	return c.retry.Do(ctx, func(ctx context.Context) error {
		if err := c.limiter.Wait(ctx); err != nil {
			return err
		}
		c.requestCount.Add(1)

		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
		if err != nil {
			return fmt.Errorf("failed to build request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
		req.Header.Set("Notion-Version", c.cfg.Version)
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			return fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode >= 400 {
			apiErr := &APIError{Status: resp.StatusCode}
			var errBody struct {
				Code    string `json:"code"`
				Message string `json:"message"`
			}
			if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil {
				apiErr.Code = errBody.Code
				apiErr.Message = errBody.Message
			}
			if apiErr.Retryable() {
				c.log.Warn("Transient API error, will retry",
					zap.Int("status", resp.StatusCode),
					zap.String("path", path))
			}
			return apiErr
		}

		if out != nil {
			if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
				return fmt.Errorf("failed to decode response: %w", err)
			}
		}
		return nil
	})
}

// RequestCount returns the total number of HTTP requests issued, including
// retries. Exposed for diagnostics.
func (c *httpClient) RequestCount() int64 {
	return c.requestCount.Load()
}

func (c *httpClient) GetPage(ctx context.Context, pageID string) (map[string]any, error) {
	var page map[string]any
	if err := c.call(ctx, http.MethodGet, "/pages/"+url.PathEscape(pageID), nil, &page); err != nil {
		return nil, fmt.Errorf("failed to get page %s: %w", pageID, err)
	}
	return page, nil
}

func (c *httpClient) ListChildren(ctx context.Context, blockID string) ([]*block.Block, error) {
	var blocks []*block.Block
	cursor := ""

	for {
		path := "/blocks/" + url.PathEscape(blockID) + "/children?page_size=100"
		if cursor != "" {
			path += "&start_cursor=" + url.QueryEscape(cursor)
		}

		var page struct {
			Results    []map[string]any `json:"results"`
			HasMore    bool             `json:"has_more"`
			NextCursor string           `json:"next_cursor"`
		}
		if err := c.call(ctx, http.MethodGet, path, nil, &page); err != nil {
			return nil, fmt.Errorf("failed to list children of %s: %w", blockID, err)
		}

		for _, wire := range page.Results {
			b, err := block.FromWire(wire)
			if err != nil {
				return nil, fmt.Errorf("failed to parse child of %s: %w", blockID, err)
			}
			blocks = append(blocks, b)
		}

		if !page.HasMore || page.NextCursor == "" {
			break
		}
		cursor = page.NextCursor
	}

	return blocks, nil
}

func (c *httpClient) AppendChildren(ctx context.Context, parentID string, children []*block.Block, afterID string) ([]string, error) {
	if len(children) == 0 {
		return nil, nil
	}

	createdIDs := make([]string, 0, len(children))
	lastID := afterID

	for start := 0; start < len(children); start += MaxChildrenPerRequest {
		end := start + MaxChildrenPerRequest
		if end > len(children) {
			end = len(children)
		}

		wireChildren, err := block.ToWireList(children[start:end])
		if err != nil {
			return createdIDs, fmt.Errorf("failed to encode blocks for create: %w", err)
		}

		body := map[string]any{"children": wireChildren}
		if lastID != "" {
			body["after"] = lastID
		}

		var resp struct {
			Results []struct {
				ID string `json:"id"`
			} `json:"results"`
		}
		if err := c.call(ctx, http.MethodPatch, "/blocks/"+url.PathEscape(parentID)+"/children", body, &resp); err != nil {
			return createdIDs, fmt.Errorf("failed to append blocks to %s: %w", parentID, err)
		}

		for _, created := range resp.Results {
			createdIDs = append(createdIDs, created.ID)
		}
		// Anchor the next batch behind this one so order is preserved.
		if len(resp.Results) > 0 {
			lastID = resp.Results[len(resp.Results)-1].ID
		}
	}

	c.log.Debug("Appended blocks",
		zap.String("parent_id", parentID),
		zap.Int("count", len(children)))
	return createdIDs, nil
}

func (c *httpClient) UpdateBlock(ctx context.Context, blockID string, payload map[string]any) error {
	if err := c.call(ctx, http.MethodPatch, "/blocks/"+url.PathEscape(blockID), payload, nil); err != nil {
		return fmt.Errorf("failed to update block %s: %w", blockID, err)
	}
	return nil
}

func (c *httpClient) DeleteBlock(ctx context.Context, blockID string) error {
	if err := c.call(ctx, http.MethodDelete, "/blocks/"+url.PathEscape(blockID), nil, nil); err != nil {
		return fmt.Errorf("failed to delete block %s: %w", blockID, err)
	}
	return nil
}

func (c *httpClient) UpdatePageTitle(ctx context.Context, pageID, title string) error {
	body := map[string]any{
		"properties": map[string]any{
			"title": map[string]any{
				"title": []any{
					map[string]any{
						"type": "text",
						"text": map[string]any{"content": title},
					},
				},
			},
		},
	}
	if err := c.call(ctx, http.MethodPatch, "/pages/"+url.PathEscape(pageID), body, nil); err != nil {
		return fmt.Errorf("failed to update title of page %s: %w", pageID, err)
	}
	return nil
}

// ExtractPageID extracts the page ID from a Notion URL or raw ID and formats
// it as a dashed UUID. Accepts plain IDs (with or without dashes) and page
// URLs whose last path segment ends in the 32-hex-character ID.
func ExtractPageID(raw string) (string, error) {
	trimmed := strings.SplitN(raw, "?", 2)[0]
	trimmed = strings.TrimRight(trimmed, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		trimmed = trimmed[idx+1:]
	}

	// Page titles can contain hex-looking words, so match the 32 hex chars
	// at the end of the segment only.
	compact := strings.ReplaceAll(trimmed, "-", "")
	if len(compact) < 32 {
		return "", fmt.Errorf("could not extract page id from %q", raw)
	}
	id := compact[len(compact)-32:]
	for _, r := range id {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return "", fmt.Errorf("could not extract page id from %q", raw)
		}
	}

	return id[:8] + "-" + id[8:12] + "-" + id[12:16] + "-" + id[16:20] + "-" + id[20:], nil
}

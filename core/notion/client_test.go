package notion

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"notion-sync/core/block"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// newTestClient points a client at a test server with rate limiting and
// backoff tightened so tests run instantly.
func newTestClient(t *testing.T, handler http.Handler) Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := Config{
		Token:       "test-token",
		BaseURL:     server.URL,
		Version:     "2022-06-28",
		MinInterval: time.Microsecond,
		MaxRetries:  3,
	}
	client, err := NewClient(cfg, zap.NewNop())
	require.NoError(t, err)

	// Backoff between retries would otherwise start at one second.
	hc := client.(*httpClient)
	hc.retry.InitialBackoff = time.Millisecond
	hc.retry.MaxBackoff = time.Millisecond

	return client
}

func wireParagraph(id, text string) map[string]any {
	return map[string]any{
		"id":   id,
		"type": "paragraph",
		"paragraph": map[string]any{
			"rich_text": []any{map[string]any{"plain_text": text}},
		},
	}
}

func TestNewClient_RequiresToken(t *testing.T) {
	_, err := NewClient(Config{}, zap.NewNop())

	assert.Error(t, err)
}

// TestListChildren_Paginates tests that all pages are fetched and ordered.
func TestListChildren_Paginates(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.Equal(t, "2022-06-28", r.Header.Get("Notion-Version"))

		cursor := r.URL.Query().Get("start_cursor")
		var resp map[string]any
		if cursor == "" {
			resp = map[string]any{
				"results":     []any{wireParagraph("id-1", "first"), wireParagraph("id-2", "second")},
				"has_more":    true,
				"next_cursor": "cursor-2",
			}
		} else {
			assert.Equal(t, "cursor-2", cursor)
			resp = map[string]any{
				"results": []any{wireParagraph("id-3", "third")},
			}
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))

	blocks, err := client.ListChildren(context.Background(), "parent-1")
	require.NoError(t, err)

	require.Len(t, blocks, 3)
	assert.Equal(t, "id-1", blocks[0].ID)
	assert.Equal(t, "id-3", blocks[2].ID)
	assert.Equal(t, "third", blocks[2].Text())
}

// TestAppendChildren_BatchesLargeLists tests splitting above the per-request
// cap with each batch anchored behind the previous one.
func TestAppendChildren_BatchesLargeLists(t *testing.T) {
	var batchSizes []int
	var afters []string
	created := 0

	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Children []map[string]any `json:"children"`
			After    string           `json:"after"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		batchSizes = append(batchSizes, len(body.Children))
		afters = append(afters, body.After)

		results := make([]any, len(body.Children))
		for i := range body.Children {
			results[i] = map[string]any{"id": fmt.Sprintf("new-%d", created)}
			created++
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"results": results})
	}))

	children := make([]*block.Block, 150)
	for i := range children {
		children[i] = block.NewParagraph(fmt.Sprintf("p%d", i))
	}

	ids, err := client.AppendChildren(context.Background(), "parent-1", children, "anchor-0")
	require.NoError(t, err)

	assert.Len(t, ids, 150)
	assert.Equal(t, []int{100, 50}, batchSizes)
	// First batch goes after the caller's anchor, second after the first
	// batch's last created block.
	assert.Equal(t, []string{"anchor-0", "new-99"}, afters)
	assert.Equal(t, "new-0", ids[0])
	assert.Equal(t, "new-149", ids[149])
}

func TestAppendChildren_EmptyListNoCall(t *testing.T) {
	calls := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))

	ids, err := client.AppendChildren(context.Background(), "parent-1", nil, "")
	require.NoError(t, err)

	assert.Empty(t, ids)
	assert.Equal(t, 0, calls)
}

// TestCall_RetriesRateLimit tests transparent recovery from a 429.
func TestCall_RetriesRateLimit(t *testing.T) {
	attempts := 0
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"code":    "rate_limited",
				"message": "slow down",
			})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
	}))

	_, err := client.ListChildren(context.Background(), "parent-1")

	assert.NoError(t, err)
	assert.Equal(t, 2, attempts)
}

// TestCall_TerminalErrorSurfacesCode tests that API error details survive the
// wrap chain.
func TestCall_TerminalErrorSurfacesCode(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"code":    "object_not_found",
			"message": "Could not find block",
		})
	}))

	_, err := client.ListChildren(context.Background(), "missing")

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusNotFound, apiErr.Status)
	assert.Equal(t, "object_not_found", apiErr.Code)
	assert.False(t, IsRetryable(err))
}

func TestUpdateBlock_SendsPayload(t *testing.T) {
	var received map[string]any
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPatch, r.Method)
		assert.Equal(t, "/blocks/block-1", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		_ = json.NewEncoder(w).Encode(map[string]any{})
	}))

	payload := map[string]any{"paragraph": map[string]any{"rich_text": []any{}}}
	err := client.UpdateBlock(context.Background(), "block-1", payload)

	require.NoError(t, err)
	assert.Contains(t, received, "paragraph")
}

func TestDeleteBlock_UsesDeleteMethod(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/blocks/block-1", r.URL.Path)
		_ = json.NewEncoder(w).Encode(map[string]any{})
	}))

	assert.NoError(t, client.DeleteBlock(context.Background(), "block-1"))
}

func TestExtractPageID(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{
			name: "dashed uuid",
			raw:  "249f1234-5678-90ab-cdef-1234567890ab",
			want: "249f1234-5678-90ab-cdef-1234567890ab",
		},
		{
			name: "compact id",
			raw:  "249f1234567890abcdef1234567890ab",
			want: "249f1234-5678-90ab-cdef-1234567890ab",
		},
		{
			name: "page url with title slug",
			raw:  "https://www.notion.so/My-Page-Title-249f1234567890abcdef1234567890ab",
			want: "249f1234-5678-90ab-cdef-1234567890ab",
		},
		{
			name: "url with query string",
			raw:  "https://www.notion.so/My-Page-249f1234567890abcdef1234567890ab?pvs=4",
			want: "249f1234-5678-90ab-cdef-1234567890ab",
		},
		{
			name:    "too short",
			raw:     "abc123",
			wantErr: true,
		},
		{
			name:    "non-hex tail",
			raw:     "https://www.notion.so/just-a-title-with-no-id-at-all-xyzxyzxyz",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractPageID(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
